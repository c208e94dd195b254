package livefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("c1")
	defer hub.Unsubscribe(sub)

	snapshot := []chat.Message{{ID: "m1", ConversationID: "c1", Text: "hi"}}
	hub.Publish("c1", snapshot)

	select {
	case got := <-sub.C:
		assert.Equal(t, snapshot, got)
	default:
		t.Fatal("expected a snapshot to be delivered")
	}
}

func TestHubLatestSnapshotWins(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("c1")
	defer hub.Unsubscribe(sub)

	hub.Publish("c1", []chat.Message{{ID: "m1"}})
	hub.Publish("c1", []chat.Message{{ID: "m1"}, {ID: "m2"}})

	select {
	case got := <-sub.C:
		require.Len(t, got, 2)
	default:
		t.Fatal("expected a snapshot to be delivered")
	}

	// nothing stale left behind
	select {
	case <-sub.C:
		t.Fatal("stale snapshot should have been replaced, not queued")
	default:
	}
}

func TestHubScopesByConversation(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("c1")
	defer hub.Unsubscribe(sub)

	hub.Publish("c2", []chat.Message{{ID: "m1"}})

	select {
	case <-sub.C:
		t.Fatal("snapshot for another conversation must not be delivered")
	default:
	}
}

func TestHubPublishAfterUnsubscribe(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("c1")
	hub.Unsubscribe(sub)

	// must not panic or deliver
	hub.Publish("c1", []chat.Message{{ID: "m1"}})

	select {
	case <-sub.C:
		t.Fatal("unsubscribed stream must not receive snapshots")
	default:
	}
}

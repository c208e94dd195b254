package livefeed

import (
	"sync"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

// Subscription receives message-list snapshots for one conversation.
// The channel has capacity one and is latest-wins: when the consumer lags,
// stale snapshots are replaced rather than queued, so the consumer always
// observes the newest result set next.
type Subscription struct {
	C <-chan []chat.Message

	conversationID string
	ch             chan []chat.Message
}

// Hub fans conversation snapshots out to active subscriptions.
// Writers publish the full refreshed result set after every change; there is
// no delta protocol.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{} // conversationID -> subscriptions
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe opens a snapshot stream for the conversation. The caller must
// Unsubscribe on teardown.
func (h *Hub) Subscribe(conversationID string) *Subscription {
	ch := make(chan []chat.Message, 1)
	sub := &Subscription{C: ch, conversationID: conversationID, ch: ch}

	h.mu.Lock()
	set := h.subs[conversationID]
	if set == nil {
		set = make(map[*Subscription]struct{})
		h.subs[conversationID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Unsubscribe tears the subscription down. The channel is not closed so a
// concurrent Publish can never send on a closed channel; consumers stop
// reading instead.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	if set, ok := h.subs[sub.conversationID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.conversationID)
		}
	}
	h.mu.Unlock()
}

// Publish delivers snapshot to every subscription of the conversation,
// replacing any undelivered previous snapshot.
func (h *Hub) Publish(conversationID string, snapshot []chat.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[conversationID] {
		select {
		case sub.ch <- snapshot:
		default:
			// Drop the stale snapshot, then deliver the fresh one.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
			default:
			}
		}
	}
}

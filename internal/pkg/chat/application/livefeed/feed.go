package livefeed

import (
	"sync"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

// Feed models the static-to-live handoff for one conversation screen instance.
//
// A screen is first rendered from a server-prefetched snapshot while a live
// subscription is being established. The prefetched list is served only until
// the subscription delivers its first result; from then on the live snapshot
// supersedes it permanently, and every later delivery replaces the previous
// one (last delivered snapshot wins). The two sources are never merged.
type Feed struct {
	mu   sync.RWMutex
	live bool
	msgs []chat.Message
}

// NewFeed seeds a feed with the server-prefetched snapshot.
func NewFeed(static []chat.Message) *Feed {
	return &Feed{msgs: static}
}

// Apply delivers a live snapshot, switching the feed to the live state.
func (f *Feed) Apply(snapshot []chat.Message) {
	f.mu.Lock()
	f.live = true
	f.msgs = snapshot
	f.mu.Unlock()
}

// Live reports whether the first live snapshot has arrived.
func (f *Feed) Live() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.live
}

// Current returns the messages to render right now.
func (f *Feed) Current() []chat.Message {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.msgs
}

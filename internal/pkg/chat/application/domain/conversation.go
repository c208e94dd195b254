package chat

import (
	"errors"
	"time"
)

// Domain-level errors for conversation behaviors
var (
	ErrParticipantCount = errors.New("chat: conversation must have exactly two participants")
	ErrSameParticipant  = errors.New("chat: conversation participants must be distinct")
	ErrNotParticipant   = errors.New("chat: user is not a participant in the conversation")
)

// Conversation is a two-party thread identified by an opaque id.
// Users holds the participant email pair; order carries no meaning.
// Conversations are created once and never mutated or deleted.
type Conversation struct {
	ID        string    `db:"id"`
	Users     []string  `db:"participants"`
	CreatedAt time.Time `db:"created_at"`
}

// Validate enforces the two-distinct-participants invariant.
func (c Conversation) Validate() error {
	if len(c.Users) != 2 {
		return ErrParticipantCount
	}
	if c.Users[0] == c.Users[1] {
		return ErrSameParticipant
	}
	return nil
}

// HasParticipant tells whether email belongs to this conversation.
func (c Conversation) HasParticipant(email string) bool {
	for _, u := range c.Users {
		if u == email {
			return true
		}
	}
	return false
}

// RecipientEmail resolves the other party of a participant pair as seen by me.
// A malformed or self-conversation pair (fewer than two distinct emails) falls
// back to me; callers treat that as a defined degenerate case, not an error.
func RecipientEmail(users []string, me string) string {
	for _, u := range users {
		if u != me && u != "" {
			return u
		}
	}
	return me
}

// HasConversationWith scans conversations already known to contain the current
// user and reports whether any of them includes the candidate email. Used as
// the duplicate-thread gate before opening a new conversation.
func HasConversationWith(convs []Conversation, email string) bool {
	for _, c := range convs {
		if c.HasParticipant(email) {
			return true
		}
	}
	return false
}

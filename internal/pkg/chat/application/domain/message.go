package chat

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyMessage  = errors.New("chat: empty message body")
	ErrMissingFields = errors.New("chat: conversation_id and sender are required")
)

// Message is an immutable log entry in a conversation.
// SentAt is assigned by the backend on insert; nil means the write has not
// been acknowledged yet, which view code renders as a loading placeholder.
type Message struct {
	ID             string     `db:"id"`
	ConversationID string     `db:"conversation_id"`
	Sender         string     `db:"sender"`
	Text           string     `db:"body"`
	SentAt         *time.Time `db:"sent_at"`
}

// NewMessage validates and normalizes a message before persistence.
// The body is trimmed; whitespace-only messages are rejected.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.Sender == "" {
		return nil, ErrMissingFields
	}

	m.Text = strings.TrimSpace(m.Text)
	if m.Text == "" {
		return nil, ErrEmptyMessage
	}

	return &m, nil
}

package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(Message{ConversationID: "c1", Sender: "a@x.com", Text: "  hi  "})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Text)
	assert.Nil(t, msg.SentAt)
}

func TestNewMessageRejectsEmptyBody(t *testing.T) {
	_, err := NewMessage(Message{ConversationID: "c1", Sender: "a@x.com", Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessageRequiresIdentity(t *testing.T) {
	_, err := NewMessage(Message{Sender: "a@x.com", Text: "hi"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = NewMessage(Message{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

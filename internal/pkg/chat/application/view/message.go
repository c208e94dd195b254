package view

import (
	"time"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

// MessageView is the display-ready shape of a stored message.
type MessageView struct {
	ID       string `json:"id"`
	Sender   string `json:"sender"`
	Text     string `json:"text"`
	SentAt   string `json:"sent_at"`
	Outgoing bool   `json:"outgoing"`
}

// NewMessageView maps a raw message record onto its display shape for the
// viewer identified by me.
func NewMessageView(m chat.Message, me string, now time.Time) MessageView {
	return MessageView{
		ID:       m.ID,
		Sender:   m.Sender,
		Text:     m.Text,
		SentAt:   FormatSentAt(m.SentAt, now),
		Outgoing: m.Sender == me,
	}
}

// NewMessageViews maps a message snapshot preserving order.
func NewMessageViews(msgs []chat.Message, me string, now time.Time) []MessageView {
	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageView(m, me, now))
	}
	return out
}

package repository

import (
	"context"
	"time"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
// It mirrors the backing document store's surface: point lookups, filtered
// queries ordered by timestamp, inserts, and one upsert-merge (last-seen).
type ChatRepository interface {
	// GetConversation is a point lookup by id.
	GetConversation(ctx context.Context, id string) (chat.Conversation, error)

	// ListConversationsByUser returns every conversation whose participant
	// set contains email (array-contains semantics).
	ListConversationsByUser(ctx context.Context, email string) ([]chat.Conversation, error)

	// CreateConversation persists a new thread and returns its generated id.
	CreateConversation(ctx context.Context, users []string) (string, error)

	// MessagesByConversation returns the conversation's messages ordered by
	// sent_at ascending.
	MessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error)

	// SaveMessage inserts a message, letting the store assign id and sent_at,
	// and returns the generated id.
	SaveMessage(ctx context.Context, m chat.Message) (string, error)

	// GetUser looks a profile up by email. A missing profile is reported as
	// (zero, false, nil): absence is not an error.
	GetUser(ctx context.Context, email string) (chat.User, bool, error)

	// GetUsers batch-looks profiles up by email. Absent emails are omitted
	// from the result map.
	GetUsers(ctx context.Context, emails []string) (map[string]chat.User, error)

	// TouchLastSeen upsert-merges the profile's last-seen timestamp, creating
	// the profile row if it does not exist yet.
	TouchLastSeen(ctx context.Context, email string, at time.Time) error
}

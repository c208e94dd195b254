package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// PgChatRepository persists the chat collections in Postgres.
// participants is a text[] column; array-contains queries use = ANY.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

var errNilPool = errors.New("PgChatRepository: nil pool")

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errNilPool
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, participants, created_at
		FROM conversations
		WHERE id = $1::uuid
	`, id).Scan(&c.ID, &c.Users, &c.CreatedAt)
	if err != nil {
		return chat.Conversation{}, err
	}
	return c, nil
}

func (r *PgChatRepository) ListConversationsByUser(ctx context.Context, email string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, participants, created_at
		FROM conversations
		WHERE $1 = ANY(participants)
		ORDER BY created_at ASC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.Users, &c.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return convs, nil
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, users []string) (string, error) {
	if r == nil || r.pool == nil {
		return "", errNilPool
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversations (participants, created_at)
		VALUES ($1, now())
		RETURNING id::text
	`, users).Scan(&id)
	return id, err
}

func (r *PgChatRepository) MessagesByConversation(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, sender, body, sent_at
		FROM messages
		WHERE conversation_id = $1::uuid
		ORDER BY sent_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Text, &m.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errNilPool
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (conversation_id, sender, body, sent_at)
		VALUES ($1::uuid, $2, $3, now())
		RETURNING id::text
	`, m.ConversationID, m.Sender, m.Text).Scan(&id)
	return id, err
}

func (r *PgChatRepository) GetUser(ctx context.Context, email string) (chat.User, bool, error) {
	if r == nil || r.pool == nil {
		return chat.User{}, false, errNilPool
	}
	var u chat.User
	err := r.pool.QueryRow(ctx, `
		SELECT email, display_name, photo_url, last_seen
		FROM users
		WHERE email = $1
	`, email).Scan(&u.Email, &u.DisplayName, &u.PhotoURL, &u.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.User{}, false, nil
	}
	if err != nil {
		return chat.User{}, false, err
	}
	return u, true, nil
}

func (r *PgChatRepository) GetUsers(ctx context.Context, emails []string) (map[string]chat.User, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	out := make(map[string]chat.User, len(emails))
	if len(emails) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT email, display_name, photo_url, last_seen
		FROM users
		WHERE email = ANY($1)
	`, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u chat.User
		if err := rows.Scan(&u.Email, &u.DisplayName, &u.PhotoURL, &u.LastSeen); err != nil {
			return nil, err
		}
		out[u.Email] = u
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgChatRepository) TouchLastSeen(ctx context.Context, email string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (email, display_name, photo_url, last_seen)
		VALUES ($1, '', '', $2)
		ON CONFLICT (email)
		DO UPDATE SET last_seen = EXCLUDED.last_seen
	`, email, at)
	return err
}

package usecase

import (
	"context"
	"fmt"
	"time"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to send a new message.
type SendMessageInput struct {
	ConversationID string
	Sender         string
	Text           string
}

// SendMessageUseCase persists a message on behalf of a participant.
//
// The operation is two sequential writes: an upsert-merge of the sender's
// last-seen timestamp, then the message insert. Only the insert is confirmed
// to the caller; neither write is retried on failure.
type SendMessageUseCase struct {
	Repo  repository.ChatRepository
	Cache cacheport.Cache // nil disables profile invalidation
}

func NewSendMessageUseCase(repo repository.ChatRepository, cache cacheport.Cache) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Cache: cache}
}

// Execute validates, refreshes presence, and persists the message.
// The returned message carries the generated id; SentAt stays nil because the
// store assigns it, and the live snapshot is where the acknowledged timestamp
// first becomes visible.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(chat.Message{
		ConversationID: in.ConversationID,
		Sender:         in.Sender,
		Text:           in.Text,
	})
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !conv.HasParticipant(in.Sender) {
		return nil, chat.ErrNotParticipant
	}

	if err := uc.Repo.TouchLastSeen(ctx, in.Sender, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if uc.Cache != nil {
		// drop the cached profile so peers see the refreshed last-seen before
		// the TTL runs out; best-effort, the upsert already landed
		_, _ = uc.Cache.Del(ctx, profileCacheKey(in.Sender))
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}

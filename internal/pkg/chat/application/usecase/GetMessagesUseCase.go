package usecase

import (
	"context"
	"fmt"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesInput carries the conversation whose messages are fetched and the
// viewer requesting them.
type GetMessagesInput struct {
	ConversationID string
	ViewerEmail    string
}

// GetMessagesUseCase returns the conversation's message snapshot ordered by
// sent_at ascending. When ViewerEmail is set, the viewer must be a participant.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) ([]chat.Message, error) {
	if in.ConversationID == "" {
		return nil, fmt.Errorf("conversation_id is required")
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if in.ViewerEmail != "" && !conv.HasParticipant(in.ViewerEmail) {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.MessagesByConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}

package usecase

import (
	"context"
	"fmt"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// HydrateConversationInput identifies the thread and the viewer requesting it.
type HydrateConversationInput struct {
	ConversationID string
	ViewerEmail    string
}

// HydrateConversationResult is the server-side snapshot handed to the page
// before the live subscription takes over.
type HydrateConversationResult struct {
	Conversation chat.Conversation
	Messages     []chat.Message
}

// HydrateConversationUseCase performs the page-level contract: one point
// lookup for the conversation and one ordered query for its messages.
type HydrateConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewHydrateConversationUseCase(repo repository.ChatRepository) *HydrateConversationUseCase {
	return &HydrateConversationUseCase{Repo: repo}
}

func (uc *HydrateConversationUseCase) Execute(ctx context.Context, in HydrateConversationInput) (*HydrateConversationResult, error) {
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

	return &HydrateConversationResult{Conversation: conv, Messages: msgs}, nil
}

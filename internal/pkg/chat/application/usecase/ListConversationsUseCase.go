package usecase

import (
	"context"
	"fmt"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsInput wraps the sidebar owner's email.
type ListConversationsInput struct {
	UserEmail string
}

// ListConversationsUseCase returns every thread containing the current user,
// feeding the conversation sidebar.
type ListConversationsUseCase struct {
	Repo repository.ChatRepository
}

func NewListConversationsUseCase(repo repository.ChatRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.Conversation, error) {
	if in.UserEmail == "" {
		return nil, fmt.Errorf("user email is required")
	}
	convs, err := uc.Repo.ListConversationsByUser(ctx, in.UserEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return convs, nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/asaskevich/govalidator"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// StartConversationOutcome discriminates why a start-conversation request did
// or did not produce a new thread. The original UI closed the dialog silently
// in every case; returning the cause lets callers and tests tell them apart.
type StartConversationOutcome int

const (
	OutcomeCreated StartConversationOutcome = iota
	OutcomeInvalidEmail
	OutcomeSelfInvite
	OutcomeAlreadyExists
)

func (o StartConversationOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeInvalidEmail:
		return "invalid_email"
	case OutcomeSelfInvite:
		return "self_invite"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// StartConversationInput carries the current user and the invited recipient.
type StartConversationInput struct {
	CurrentUserEmail string
	RecipientEmail   string
}

// StartConversationResult reports the outcome; ConversationID is set only for
// OutcomeCreated.
type StartConversationResult struct {
	Outcome        StartConversationOutcome
	ConversationID string
}

// StartConversationUseCase gates and performs two-party thread creation.
// All three preconditions must hold: the candidate email is syntactically
// valid, is not the current user, and no existing thread already contains it.
type StartConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewStartConversationUseCase(repo repository.ChatRepository) *StartConversationUseCase {
	return &StartConversationUseCase{Repo: repo}
}

// Execute creates at most one conversation with participants
// [currentUser, recipient].
func (uc *StartConversationUseCase) Execute(ctx context.Context, in StartConversationInput) (StartConversationResult, error) {
	if in.CurrentUserEmail == "" {
		return StartConversationResult{}, fmt.Errorf("current user email is required")
	}

	if !govalidator.IsEmail(in.RecipientEmail) {
		return StartConversationResult{Outcome: OutcomeInvalidEmail}, nil
	}
	if in.RecipientEmail == in.CurrentUserEmail {
		return StartConversationResult{Outcome: OutcomeSelfInvite}, nil
	}

	convs, err := uc.Repo.ListConversationsByUser(ctx, in.CurrentUserEmail)
	if err != nil {
		return StartConversationResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if chat.HasConversationWith(convs, in.RecipientEmail) {
		return StartConversationResult{Outcome: OutcomeAlreadyExists}, nil
	}

	id, err := uc.Repo.CreateConversation(ctx, []string{in.CurrentUserEmail, in.RecipientEmail})
	if err != nil {
		return StartConversationResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return StartConversationResult{Outcome: OutcomeCreated, ConversationID: id}, nil
}

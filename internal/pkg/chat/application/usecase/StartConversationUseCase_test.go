package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

func TestStartConversationCreated(t *testing.T) {
	repo := newFakeChatRepository()
	uc := NewStartConversationUseCase(repo)

	res, err := uc.Execute(context.Background(), StartConversationInput{
		CurrentUserEmail: "a@x.com",
		RecipientEmail:   "b@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, res.Outcome)
	require.NotEmpty(t, res.ConversationID)

	conv := repo.conversations[res.ConversationID]
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, conv.Users)
	assert.Len(t, repo.conversations, 1)
}

func TestStartConversationGate(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		want      StartConversationOutcome
	}{
		{"invalid email", "not-an-email", OutcomeInvalidEmail},
		{"empty email", "", OutcomeInvalidEmail},
		{"self invite", "a@x.com", OutcomeSelfInvite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeChatRepository()
			uc := NewStartConversationUseCase(repo)

			res, err := uc.Execute(context.Background(), StartConversationInput{
				CurrentUserEmail: "a@x.com",
				RecipientEmail:   tt.recipient,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Empty(t, res.ConversationID)
			assert.Empty(t, repo.conversations, "rejected request must not create a thread")
		})
	}
}

func TestStartConversationAlreadyExists(t *testing.T) {
	repo := newFakeChatRepository()
	repo.conversations["c1"] = chat.Conversation{ID: "c1", Users: []string{"a@x.com", "b@x.com"}}
	uc := NewStartConversationUseCase(repo)

	res, err := uc.Execute(context.Background(), StartConversationInput{
		CurrentUserEmail: "a@x.com",
		RecipientEmail:   "b@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, res.Outcome)
	assert.Len(t, repo.conversations, 1)
}

func TestStartConversationPersistenceError(t *testing.T) {
	repo := newFakeChatRepository()
	repo.failOn = "ListConversationsByUser"
	uc := NewStartConversationUseCase(repo)

	_, err := uc.Execute(context.Background(), StartConversationInput{
		CurrentUserEmail: "a@x.com",
		RecipientEmail:   "b@x.com",
	})
	assert.ErrorIs(t, err, ErrPersistence)
}

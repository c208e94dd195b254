package usecase

import (
	"context"
	"fmt"
	"time"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

var _ repository.ChatRepository = (*fakeChatRepository)(nil)

// fakeChatRepository is an in-memory ChatRepository for usecase tests.
// It records the order of mutating calls so tests can assert sequencing.
type fakeChatRepository struct {
	conversations map[string]chat.Conversation
	messages      map[string][]chat.Message
	users         map[string]chat.User

	calls   []string
	nextID  int
	failOn  string
	failErr error
}

func newFakeChatRepository() *fakeChatRepository {
	return &fakeChatRepository{
		conversations: make(map[string]chat.Conversation),
		messages:      make(map[string][]chat.Message),
		users:         make(map[string]chat.User),
	}
}

func (f *fakeChatRepository) fail(op string) error {
	if f.failOn == op {
		if f.failErr != nil {
			return f.failErr
		}
		return fmt.Errorf("%s: forced failure", op)
	}
	return nil
}

func (f *fakeChatRepository) GetConversation(_ context.Context, id string) (chat.Conversation, error) {
	f.calls = append(f.calls, "GetConversation")
	if err := f.fail("GetConversation"); err != nil {
		return chat.Conversation{}, err
	}
	conv, ok := f.conversations[id]
	if !ok {
		return chat.Conversation{}, fmt.Errorf("conversation %s not found", id)
	}
	return conv, nil
}

func (f *fakeChatRepository) ListConversationsByUser(_ context.Context, email string) ([]chat.Conversation, error) {
	f.calls = append(f.calls, "ListConversationsByUser")
	if err := f.fail("ListConversationsByUser"); err != nil {
		return nil, err
	}
	var out []chat.Conversation
	for _, conv := range f.conversations {
		if conv.HasParticipant(email) {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (f *fakeChatRepository) CreateConversation(_ context.Context, users []string) (string, error) {
	f.calls = append(f.calls, "CreateConversation")
	if err := f.fail("CreateConversation"); err != nil {
		return "", err
	}
	f.nextID++
	id := fmt.Sprintf("conv-%d", f.nextID)
	f.conversations[id] = chat.Conversation{ID: id, Users: users}
	return id, nil
}

func (f *fakeChatRepository) MessagesByConversation(_ context.Context, conversationID string) ([]chat.Message, error) {
	f.calls = append(f.calls, "MessagesByConversation")
	if err := f.fail("MessagesByConversation"); err != nil {
		return nil, err
	}
	return f.messages[conversationID], nil
}

func (f *fakeChatRepository) SaveMessage(_ context.Context, m chat.Message) (string, error) {
	f.calls = append(f.calls, "SaveMessage")
	if err := f.fail("SaveMessage"); err != nil {
		return "", err
	}
	f.nextID++
	m.ID = fmt.Sprintf("msg-%d", f.nextID)
	f.messages[m.ConversationID] = append(f.messages[m.ConversationID], m)
	return m.ID, nil
}

func (f *fakeChatRepository) GetUser(_ context.Context, email string) (chat.User, bool, error) {
	f.calls = append(f.calls, "GetUser")
	if err := f.fail("GetUser"); err != nil {
		return chat.User{}, false, err
	}
	u, ok := f.users[email]
	return u, ok, nil
}

func (f *fakeChatRepository) GetUsers(_ context.Context, emails []string) (map[string]chat.User, error) {
	f.calls = append(f.calls, "GetUsers")
	if err := f.fail("GetUsers"); err != nil {
		return nil, err
	}
	out := make(map[string]chat.User, len(emails))
	for _, e := range emails {
		if u, ok := f.users[e]; ok {
			out[e] = u
		}
	}
	return out, nil
}

func (f *fakeChatRepository) TouchLastSeen(_ context.Context, email string, at time.Time) error {
	f.calls = append(f.calls, "TouchLastSeen")
	if err := f.fail("TouchLastSeen"); err != nil {
		return err
	}
	u := f.users[email]
	u.Email = email
	u.LastSeen = &at
	f.users[email] = u
	return nil
}

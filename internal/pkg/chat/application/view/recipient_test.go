package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

func TestNewRecipientViewKnownProfile(t *testing.T) {
	now := time.Date(2023, time.March, 15, 10, 0, 0, 0, time.UTC)
	lastSeen := time.Date(2023, time.March, 14, 22, 0, 0, 0, time.UTC)

	v := NewRecipientView("b@x.com", &chat.User{
		Email:    "b@x.com",
		PhotoURL: "https://example.com/b.png",
		LastSeen: &lastSeen,
	}, now)

	assert.True(t, v.Known)
	assert.Equal(t, "b@x.com", v.Email)
	assert.Equal(t, "https://example.com/b.png", v.PhotoURL)
	assert.Equal(t, "Yesterday", v.LastActive)
}

func TestNewRecipientViewNoLastSeen(t *testing.T) {
	v := NewRecipientView("b@x.com", &chat.User{Email: "b@x.com"}, time.Now())
	assert.True(t, v.Known)
	assert.Empty(t, v.LastActive)
}

func TestNewRecipientViewUnknownProfileDegrades(t *testing.T) {
	v := NewRecipientView("b@x.com", nil, time.Now())
	assert.False(t, v.Known)
	assert.Equal(t, "b@x.com", v.Email)
	assert.Empty(t, v.PhotoURL)
	assert.Empty(t, v.LastActive)
}

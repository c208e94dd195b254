package view

import (
	"time"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

// RecipientView carries the header fields for the other party of a thread.
// Known is false when no profile document exists for the recipient yet; the
// display then omits the avatar and last-active line.
type RecipientView struct {
	Email      string `json:"email"`
	PhotoURL   string `json:"photo_url,omitempty"`
	LastActive string `json:"last_active,omitempty"`
	Known      bool   `json:"known"`
}

// NewRecipientView builds the header view. profile may be nil for an unknown
// recipient.
func NewRecipientView(email string, profile *chat.User, now time.Time) RecipientView {
	v := RecipientView{Email: email}
	if profile == nil {
		return v
	}
	v.Known = true
	v.PhotoURL = profile.PhotoURL
	if profile.LastSeen != nil {
		v.LastActive = FormatSentAt(profile.LastSeen, now)
	}
	return v
}

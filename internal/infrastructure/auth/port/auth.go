package port

import (
	"context"
	"errors"
)

// Identity is the authenticated user as reported by the identity provider.
type Identity struct {
	Email       string
	DisplayName string
	PhotoURL    string
}

// ErrInvalidToken covers expired, malformed, revoked and unsigned tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

// Authenticator verifies bearer tokens and supports sign-out. It is injected
// into the presentation layer rather than consumed as a process-wide global so
// tests can substitute fakes.
type Authenticator interface {
	// Authenticate resolves the identity carried by token.
	Authenticate(ctx context.Context, token string) (Identity, error)

	// SignOut revokes token for the remainder of its lifetime. Callers log
	// failures; they are never surfaced to the user.
	SignOut(ctx context.Context, token string) error
}

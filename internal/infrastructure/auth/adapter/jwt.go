package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
)

// Claims is the token shape issued by the identity provider.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuthenticator verifies HS256 bearer tokens. Sign-out is implemented as a
// denylist entry in the cache keyed by token hash, kept until the token would
// have expired anyway.
type JWTAuthenticator struct {
	secret   []byte
	denylist cacheport.Cache
}

// NewJWTAuthenticator constructs an authenticator with an explicit secret.
// denylist may be nil, in which case sign-out is a no-op revocation.
func NewJWTAuthenticator(secret []byte, denylist cacheport.Cache) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, denylist: denylist}
}

// NewJWTAuthenticatorFromEnv reads the JWT_SECRET environment variable.
func NewJWTAuthenticatorFromEnv(denylist cacheport.Cache) (*JWTAuthenticator, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("auth: JWT_SECRET environment variable is not set")
	}
	return NewJWTAuthenticator([]byte(secret), denylist), nil
}

var _ port.Authenticator = (*JWTAuthenticator)(nil)

func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (port.Identity, error) {
	claims, err := a.parse(token)
	if err != nil {
		return port.Identity{}, port.ErrInvalidToken
	}
	if claims.Email == "" {
		return port.Identity{}, port.ErrInvalidToken
	}

	if a.denylist != nil {
		_, err := a.denylist.Get(ctx, denylistKey(token))
		if err == nil {
			return port.Identity{}, port.ErrInvalidToken
		}
		if !errors.Is(err, cacheport.ErrMiss) {
			return port.Identity{}, fmt.Errorf("auth: denylist lookup: %w", err)
		}
	}

	return port.Identity{
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}

func (a *JWTAuthenticator) SignOut(ctx context.Context, token string) error {
	claims, err := a.parse(token)
	if err != nil {
		return port.ErrInvalidToken
	}
	if a.denylist == nil {
		return nil
	}

	ttl := 7 * 24 * time.Hour
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return a.denylist.Set(ctx, denylistKey(token), "revoked", ttl)
}

func (a *JWTAuthenticator) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, port.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, port.ErrInvalidToken
	}
	return claims, nil
}

func denylistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "chat:signout:" + hex.EncodeToString(sum[:])
}

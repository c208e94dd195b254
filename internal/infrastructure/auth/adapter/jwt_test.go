package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
)

var testSecret = []byte("test-secret")

func mintToken(t *testing.T, secret []byte, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

type mapCache struct {
	data map[string]string
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string]string)} }

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *mapCache) Ping(context.Context) error { return nil }
func (c *mapCache) Close() error               { return nil }

func TestAuthenticate(t *testing.T) {
	authn := NewJWTAuthenticator(testSecret, nil)
	token := mintToken(t, testSecret, Claims{
		Email:   "a@x.com",
		Name:    "Alice",
		Picture: "https://example.com/a.png",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	id, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "Alice", id.DisplayName)
	assert.Equal(t, "https://example.com/a.png", id.PhotoURL)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	authn := NewJWTAuthenticator(testSecret, nil)

	_, err := authn.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, port.ErrInvalidToken)

	wrongKey := mintToken(t, []byte("other-secret"), Claims{Email: "a@x.com"})
	_, err = authn.Authenticate(context.Background(), wrongKey)
	assert.ErrorIs(t, err, port.ErrInvalidToken)

	expired := mintToken(t, testSecret, Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	_, err = authn.Authenticate(context.Background(), expired)
	assert.ErrorIs(t, err, port.ErrInvalidToken)
}

func TestAuthenticateRequiresEmail(t *testing.T) {
	authn := NewJWTAuthenticator(testSecret, nil)
	token := mintToken(t, testSecret, Claims{Name: "No Email"})

	_, err := authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, port.ErrInvalidToken)
}

func TestSignOutRevokesToken(t *testing.T) {
	denylist := newMapCache()
	authn := NewJWTAuthenticator(testSecret, denylist)
	token := mintToken(t, testSecret, Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := authn.Authenticate(context.Background(), token)
	require.NoError(t, err)

	require.NoError(t, authn.SignOut(context.Background(), token))

	_, err = authn.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, port.ErrInvalidToken)
}

func TestSignOutWithoutDenylistIsNoop(t *testing.T) {
	authn := NewJWTAuthenticator(testSecret, nil)
	token := mintToken(t, testSecret, Claims{Email: "a@x.com"})
	assert.NoError(t, authn.SignOut(context.Background(), token))
}

package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
)

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: make(map[string]string)} }

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

var _ cacheport.Cache = (*fakeCache)(nil)

func TestResolveRecipientKnownProfile(t *testing.T) {
	repo := newFakeChatRepository()
	repo.users["b@x.com"] = chat.User{Email: "b@x.com", PhotoURL: "https://example.com/b.png"}
	uc := NewResolveRecipientUseCase(repo, nil)

	res, err := uc.Execute(context.Background(), ResolveRecipientInput{
		Users:            []string{"a@x.com", "b@x.com"},
		CurrentUserEmail: "a@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", res.Email)
	require.NotNil(t, res.Profile)
	assert.Equal(t, "https://example.com/b.png", res.Profile.PhotoURL)
}

func TestResolveRecipientUnknownProfile(t *testing.T) {
	repo := newFakeChatRepository()
	uc := NewResolveRecipientUseCase(repo, nil)

	res, err := uc.Execute(context.Background(), ResolveRecipientInput{
		Users:            []string{"a@x.com", "b@x.com"},
		CurrentUserEmail: "a@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", res.Email)
	assert.Nil(t, res.Profile, "a missing profile is not an error")
}

func TestResolveRecipientCacheHitSkipsRepository(t *testing.T) {
	repo := newFakeChatRepository()
	cache := newFakeCache()
	raw, err := json.Marshal(chat.User{Email: "b@x.com", DisplayName: "Bee"})
	require.NoError(t, err)
	cache.data["chat:profile:b@x.com"] = string(raw)

	uc := NewResolveRecipientUseCase(repo, cache)
	res, err := uc.Execute(context.Background(), ResolveRecipientInput{
		Users:            []string{"a@x.com", "b@x.com"},
		CurrentUserEmail: "a@x.com",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Profile)
	assert.Equal(t, "Bee", res.Profile.DisplayName)
	assert.Empty(t, repo.calls)
}

func TestResolveRecipientCacheMissPopulatesCache(t *testing.T) {
	repo := newFakeChatRepository()
	repo.users["b@x.com"] = chat.User{Email: "b@x.com"}
	cache := newFakeCache()

	uc := NewResolveRecipientUseCase(repo, cache)
	_, err := uc.Execute(context.Background(), ResolveRecipientInput{
		Users:            []string{"a@x.com", "b@x.com"},
		CurrentUserEmail: "a@x.com",
	})
	require.NoError(t, err)
	assert.Contains(t, cache.data, "chat:profile:b@x.com")
}

func TestResolveManyBatchesProfileLookups(t *testing.T) {
	repo := newFakeChatRepository()
	repo.users["b@x.com"] = chat.User{Email: "b@x.com", DisplayName: "Bee"}
	repo.users["c@x.com"] = chat.User{Email: "c@x.com", DisplayName: "Cee"}
	uc := NewResolveRecipientUseCase(repo, nil)

	convs := []chat.Conversation{
		{ID: "c1", Users: []string{"a@x.com", "b@x.com"}},
		{ID: "c2", Users: []string{"a@x.com", "c@x.com"}},
		{ID: "c3", Users: []string{"a@x.com", "d@x.com"}},
	}

	results, err := uc.ResolveMany(context.Background(), convs, "a@x.com")
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"GetUsers"}, repo.calls, "the whole sidebar costs one profile query")

	require.NotNil(t, results["c1"].Profile)
	assert.Equal(t, "Bee", results["c1"].Profile.DisplayName)
	require.NotNil(t, results["c2"].Profile)
	assert.Equal(t, "Cee", results["c2"].Profile.DisplayName)
	assert.Nil(t, results["c3"].Profile)
	assert.Equal(t, "d@x.com", results["c3"].Email)
}

func TestResolveManyAllCachedSkipsRepository(t *testing.T) {
	repo := newFakeChatRepository()
	cache := newFakeCache()
	raw, err := json.Marshal(chat.User{Email: "b@x.com", DisplayName: "Bee"})
	require.NoError(t, err)
	cache.data["chat:profile:b@x.com"] = string(raw)

	uc := NewResolveRecipientUseCase(repo, cache)
	results, err := uc.ResolveMany(context.Background(), []chat.Conversation{
		{ID: "c1", Users: []string{"a@x.com", "b@x.com"}},
	}, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, results["c1"].Profile)
	assert.Empty(t, repo.calls)
}

func TestResolveManyPopulatesCacheForFetched(t *testing.T) {
	repo := newFakeChatRepository()
	repo.users["b@x.com"] = chat.User{Email: "b@x.com"}
	cache := newFakeCache()

	uc := NewResolveRecipientUseCase(repo, cache)
	_, err := uc.ResolveMany(context.Background(), []chat.Conversation{
		{ID: "c1", Users: []string{"a@x.com", "b@x.com"}},
	}, "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, cache.data, "chat:profile:b@x.com")
}

func TestResolveRecipientDegenerateThreadFallsBackToSelf(t *testing.T) {
	repo := newFakeChatRepository()
	uc := NewResolveRecipientUseCase(repo, nil)

	res, err := uc.Execute(context.Background(), ResolveRecipientInput{
		Users:            []string{"a@x.com", "a@x.com"},
		CurrentUserEmail: "a@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.Email)
}

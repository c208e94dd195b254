package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// ResolveRecipientInput names the thread's participant pair and the viewer.
type ResolveRecipientInput struct {
	Users            []string
	CurrentUserEmail string
}

// ResolveRecipientResult carries the other party's email and, when a profile
// document exists, their stored fields. Profile is nil for an unknown
// recipient; callers degrade display rather than treat that as an error.
type ResolveRecipientResult struct {
	Email   string
	Profile *chat.User
}

// ResolveRecipientUseCase determines the other party of a conversation and
// looks their profile up, consulting the cache before the repository.
// Cache failures are treated as misses; the cache may be nil.
type ResolveRecipientUseCase struct {
	Repo     repository.ChatRepository
	Cache    cacheport.Cache
	CacheTTL time.Duration
}

func NewResolveRecipientUseCase(repo repository.ChatRepository, cache cacheport.Cache) *ResolveRecipientUseCase {
	return &ResolveRecipientUseCase{Repo: repo, Cache: cache, CacheTTL: 30 * time.Second}
}

func (uc *ResolveRecipientUseCase) Execute(ctx context.Context, in ResolveRecipientInput) (ResolveRecipientResult, error) {
	email := chat.RecipientEmail(in.Users, in.CurrentUserEmail)
	result := ResolveRecipientResult{Email: email}

	if uc.Cache != nil {
		// a miss or any transport error falls through to the repository
		if raw, err := uc.Cache.Get(ctx, profileCacheKey(email)); err == nil {
			var u chat.User
			if json.Unmarshal([]byte(raw), &u) == nil {
				result.Profile = &u
				return result, nil
			}
		}
	}

	u, ok, err := uc.Repo.GetUser(ctx, email)
	if err != nil {
		return ResolveRecipientResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return result, nil
	}
	result.Profile = &u

	if uc.Cache != nil {
		if raw, err := json.Marshal(u); err == nil {
			_ = uc.Cache.Set(ctx, profileCacheKey(email), string(raw), uc.CacheTTL)
		}
	}
	return result, nil
}

// ResolveMany resolves the recipient of every conversation in one pass: cache
// entries are consulted per email, then a single batched repository query
// covers the misses. Results are keyed by conversation id.
func (uc *ResolveRecipientUseCase) ResolveMany(ctx context.Context, convs []chat.Conversation, me string) (map[string]ResolveRecipientResult, error) {
	results := make(map[string]ResolveRecipientResult, len(convs))
	seen := make(map[string]bool)
	var missing []string

	for _, conv := range convs {
		email := chat.RecipientEmail(conv.Users, me)
		res := ResolveRecipientResult{Email: email}
		if uc.Cache != nil {
			if raw, err := uc.Cache.Get(ctx, profileCacheKey(email)); err == nil {
				var u chat.User
				if json.Unmarshal([]byte(raw), &u) == nil {
					res.Profile = &u
				}
			}
		}
		results[conv.ID] = res
		if res.Profile == nil && !seen[email] {
			seen[email] = true
			missing = append(missing, email)
		}
	}

	if len(missing) == 0 {
		return results, nil
	}

	users, err := uc.Repo.GetUsers(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		for email, u := range users {
			if raw, err := json.Marshal(u); err == nil {
				_ = uc.Cache.Set(ctx, profileCacheKey(email), string(raw), uc.CacheTTL)
			}
		}
	}

	for id, res := range results {
		if res.Profile != nil {
			continue
		}
		if u, ok := users[res.Email]; ok {
			u := u
			res.Profile = &u
			results[id] = res
		}
	}
	return results, nil
}

func profileCacheKey(email string) string {
	return "chat:profile:" + email
}

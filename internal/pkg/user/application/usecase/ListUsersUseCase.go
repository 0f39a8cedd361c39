package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/port"
)

// ListUsersInput identifies the requester, who is excluded from the result.
type ListUsersInput struct {
	ExcludeUserID string
}

// ListUsersUseCase returns every other account's summary. The full listing is
// cached as one entry; presence transitions and registrations invalidate it,
// so the TTL only bounds staleness when invalidation is missed.
type ListUsersUseCase struct {
	Repo     repository.UserRepository
	Cache    cacheport.Cache
	CacheTTL time.Duration
}

func NewListUsersUseCase(repo repository.UserRepository, cache cacheport.Cache, ttl time.Duration) *ListUsersUseCase {
	return &ListUsersUseCase{Repo: repo, Cache: cache, CacheTTL: ttl}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, in ListUsersInput) ([]user.Summary, error) {
	summaries, ok := uc.fromCache(ctx)
	if !ok {
		users, err := uc.Repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		summaries = make([]user.Summary, 0, len(users))
		for _, u := range users {
			summaries = append(summaries, u.Summary())
		}
		uc.toCache(ctx, summaries)
	}

	out := make([]user.Summary, 0, len(summaries))
	for _, s := range summaries {
		if s.ID == in.ExcludeUserID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *ListUsersUseCase) fromCache(ctx context.Context) ([]user.Summary, bool) {
	if uc.Cache == nil {
		return nil, false
	}
	raw, err := uc.Cache.Get(ctx, usersCacheKey)
	if err != nil {
		// Misses and transport errors fall through to the repository alike.
		return nil, false
	}
	var summaries []user.Summary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (uc *ListUsersUseCase) toCache(ctx context.Context, summaries []user.Summary) {
	if uc.Cache == nil || uc.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	_ = uc.Cache.Set(ctx, usersCacheKey, string(raw), uc.CacheTTL)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/port"
)

// SetPresenceInput flips the durable online flag for one account. OccurredAt
// orders writes that race through the queue; zero means "now".
type SetPresenceInput struct {
	UserID     string
	Online     bool
	OccurredAt time.Time
}

// SetPresenceUseCase writes the durable online flag and invalidates the
// cached user listing so presence changes become visible promptly. It backs
// login, logout and the realtime connect/disconnect lifecycle.
type SetPresenceUseCase struct {
	Repo  repository.UserRepository
	Cache cacheport.Cache
}

func NewSetPresenceUseCase(repo repository.UserRepository, cache cacheport.Cache) *SetPresenceUseCase {
	return &SetPresenceUseCase{Repo: repo, Cache: cache}
}

func (uc *SetPresenceUseCase) Execute(ctx context.Context, in SetPresenceInput) error {
	if in.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now().UTC()
	}

	if err := uc.Repo.SetOnline(ctx, in.UserID, in.Online, in.OccurredAt); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, usersCacheKey)
	}
	return nil
}

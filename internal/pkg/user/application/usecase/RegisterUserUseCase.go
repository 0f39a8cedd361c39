package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/port"
)

// usersCacheKey holds the cached user listing shared by ListUsers and the
// presence/registration invalidation paths.
const usersCacheKey = "users:list"

// minPasswordLength rejects trivially guessable credentials at registration.
const minPasswordLength = 6

// RegisterUserInput carries the data needed to create an account.
type RegisterUserInput struct {
	Username   string
	Email      string
	Password   string
	ProfilePic string
}

// RegisterUserUseCase creates a new account with a bcrypt-hashed credential.
type RegisterUserUseCase struct {
	Repo  repository.UserRepository
	Cache cacheport.Cache
}

func NewRegisterUserUseCase(repo repository.UserRepository, cache cacheport.Cache) *RegisterUserUseCase {
	return &RegisterUserUseCase{Repo: repo, Cache: cache}
}

// Execute validates the input, hashes the password and persists the user.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, in RegisterUserInput) (*user.User, error) {
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", user.ErrInvalidUser, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := user.NewUser(in.Username, in.Email, string(hash), in.ProfilePic)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.Create(ctx, *u)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	u.ID = id

	// Best-effort: a stale listing only hides the new account until TTL expiry.
	if uc.Cache != nil {
		_, _ = uc.Cache.Del(ctx, usersCacheKey)
	}
	return u, nil
}

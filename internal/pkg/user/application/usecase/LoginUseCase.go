package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/port"
)

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginUseCase verifies credentials and durably marks the account online.
type LoginUseCase struct {
	Repo     repository.UserRepository
	Presence *SetPresenceUseCase
}

func NewLoginUseCase(repo repository.UserRepository, presence *SetPresenceUseCase) *LoginUseCase {
	return &LoginUseCase{Repo: repo, Presence: presence}
}

// Execute returns the authenticated user. An unknown email and a wrong
// password are indistinguishable to the caller.
func (uc *LoginUseCase) Execute(ctx context.Context, in LoginInput) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, user.ErrInvalidCredentials
	}

	u, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, user.ErrInvalidCredentials
	}

	if err := uc.Presence.Execute(ctx, SetPresenceInput{UserID: u.ID, Online: true}); err != nil {
		return nil, err
	}
	u.IsOnline = true
	return u, nil
}

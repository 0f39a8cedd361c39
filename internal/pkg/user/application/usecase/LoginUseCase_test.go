package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id, err := repo.Create(context.Background(), user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func TestLoginMarksUserOnline(t *testing.T) {
	repo := newFakeUserRepo()
	cache := newFakeCache()
	presence := NewSetPresenceUseCase(repo, cache)
	uc := NewLoginUseCase(repo, presence)

	id := seedUser(t, repo, "alice", "alice@example.com", "s3cret-pw")

	u, err := uc.Execute(context.Background(), LoginInput{Email: "Alice@Example.com", Password: "s3cret-pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != id {
		t.Fatalf("expected user %s, got %s", id, u.ID)
	}
	if !u.IsOnline {
		t.Fatal("login should report user online")
	}

	stored, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !stored.IsOnline {
		t.Fatal("durable online flag not set")
	}
	if cache.dels == 0 {
		t.Fatal("expected users-list cache invalidation on presence change")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewLoginUseCase(repo, NewSetPresenceUseCase(repo, newFakeCache()))
	seedUser(t, repo, "alice", "alice@example.com", "s3cret-pw")

	if _, err := uc.Execute(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewLoginUseCase(repo, NewSetPresenceUseCase(repo, newFakeCache()))

	if _, err := uc.Execute(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"}); !errors.Is(err, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutMarksOffline(t *testing.T) {
	repo := newFakeUserRepo()
	presence := NewSetPresenceUseCase(repo, newFakeCache())
	id := seedUser(t, repo, "alice", "alice@example.com", "s3cret-pw")
	if err := repo.SetOnline(context.Background(), id, true, time.Now()); err != nil {
		t.Fatalf("set online: %v", err)
	}

	uc := NewLogoutUseCase(presence)
	if err := uc.Execute(context.Background(), LogoutInput{UserID: id}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), id)
	if stored.IsOnline {
		t.Fatal("logout should clear the online flag")
	}
}

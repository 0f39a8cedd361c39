package repository

import (
	"context"
	"time"

	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
)

// UserRepository defines persistence operations for the identity domain.
type UserRepository interface {
	// Create inserts the user and returns the store-generated id.
	// Duplicate username or email surfaces user.ErrUserExists.
	Create(ctx context.Context, u user.User) (string, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	// List returns every account, username-ordered. Callers filter out the
	// requester themselves so the result stays cacheable.
	List(ctx context.Context) ([]user.User, error)
	// SetOnline flips the durable online flag. at orders concurrent writes:
	// a write older than the stored transition time is a silent no-op, so
	// queue workers racing on the same user cannot leave a stale flag.
	// user.ErrUserNotFound when the id does not exist.
	SetOnline(ctx context.Context, id string, online bool, at time.Time) error
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
)

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]user.User // keyed by id
	presenceAt map[string]time.Time // last accepted presence transition
	nextID     int
	fail       error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:      make(map[string]user.User),
		presenceAt: make(map[string]time.Time),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return "", r.fail
	}
	for _, existing := range r.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return "", user.ErrUserExists
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[u.ID] = u
	return u.ID, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			u := u
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

// SetOnline mirrors the adapter contract: writes older than the stored
// transition time leave the flag untouched.
func (r *fakeUserRepo) SetOnline(ctx context.Context, id string, online bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	if at.Before(r.presenceAt[id]) {
		return nil
	}
	r.presenceAt[id] = at
	u.IsOnline = online
	r.users[id] = u
	return nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	sets   int
	dels   int
}

var _ cacheport.Cache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels++
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                   { return nil }

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
)

type fakeMessageRepo struct {
	mu     sync.Mutex
	msgs   []chat.Message
	nextID int
	fail   error
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (r *fakeMessageRepo) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return "", r.fail
	}
	r.nextID++
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	r.msgs = append(r.msgs, m)
	return m.ID, nil
}

func (r *fakeMessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	var out []chat.Message
	for _, m := range r.msgs {
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, senderID, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return 0, r.fail
	}
	var n int64
	for i, m := range r.msgs {
		if m.SenderID == senderID && m.RecipientID == recipientID && !m.Read {
			r.msgs[i].Read = true
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	ids map[string]bool
}

func newFakeUsers(ids ...string) *fakeUsers {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return &fakeUsers{ids: m}
}

func (f *fakeUsers) Create(ctx context.Context, u user.User) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	if !f.ids[id] {
		return nil, user.ErrUserNotFound
	}
	return &user.User{ID: id}, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUsers) SetOnline(ctx context.Context, id string, online bool, at time.Time) error {
	return nil
}

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/guru-vishal/chat-application/internal/auth"
	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
)

type fakeSession struct {
	mu     sync.Mutex
	id     string
	frames [][]byte
	closed bool
	code   int
	fail   error
}

func newFakeSession(id string) *fakeSession { return &fakeSession{id: id} }

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Send(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.frames = append(s.frames, p)
	return nil
}

func (s *fakeSession) Close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.code = code
}

func (s *fakeSession) lastFrame(t *testing.T) (string, map[string]any) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		t.Fatal("expected at least one frame")
	}
	var frame struct {
		Event string         `json:"event"`
		Data  map[string]any `json:"data"`
	}
	if err := json.Unmarshal(s.frames[len(s.frames)-1], &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return frame.Event, frame.Data
}

func (s *fakeSession) frameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

type fakeVerifier struct{}

func (fakeVerifier) Parse(token string) (*auth.Claims, error) {
	if token == "" || token == "bad" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: "user-" + token}, nil
}

type fakePresence struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (p *fakePresence) SetOnline(ctx context.Context, userID string, online bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.calls = append(p.calls, fmt.Sprintf("%s=%t", userID, online))
	return nil
}

func newDispatcher() (*Dispatcher, *realtime.Registry, *fakePresence) {
	reg := realtime.NewRegistry()
	presence := &fakePresence{}
	d := NewDispatcher(reg, fakeVerifier{}, presence, zap.NewNop(), nil)
	return d, reg, presence
}

func TestAuthenticateBindsAndBroadcasts(t *testing.T) {
	d, reg, presence := newDispatcher()
	watcher := newFakeSession("w")
	d.HandleAuthenticate(context.Background(), watcher, "watcher")

	sess := newFakeSession("s1")
	d.HandleAuthenticate(context.Background(), sess, "alice")

	if _, ok := reg.Get("user-alice"); !ok {
		t.Fatal("expected user-alice bound after authenticate")
	}
	event, data := watcher.lastFrame(t)
	if event != "userStatus" {
		t.Fatalf("event = %q, want userStatus", event)
	}
	if data["userId"] != "user-alice" || data["online"] != true {
		t.Fatalf("unexpected status payload: %v", data)
	}

	presence.mu.Lock()
	defer presence.mu.Unlock()
	found := false
	for _, call := range presence.calls {
		if call == "user-alice=true" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected durable online write, got %v", presence.calls)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	d, reg, _ := newDispatcher()
	sess := newFakeSession("s1")

	d.HandleAuthenticate(context.Background(), sess, "bad")

	if reg.Len() != 0 {
		t.Fatal("invalid token must not bind a session")
	}
	event, data := sess.lastFrame(t)
	if event != "error" || data["code"] != "unauthorized" {
		t.Fatalf("expected unauthorized error frame, got %s %v", event, data)
	}
}

func TestAuthenticateDisplacesPreviousSession(t *testing.T) {
	d, reg, _ := newDispatcher()
	first := newFakeSession("s1")
	second := newFakeSession("s2")

	d.HandleAuthenticate(context.Background(), first, "alice")
	d.HandleAuthenticate(context.Background(), second, "alice")

	if !first.closed {
		t.Fatal("displaced session should be closed")
	}
	got, ok := reg.Get("user-alice")
	if !ok || got.ID() != "s2" {
		t.Fatal("newest session must own the binding")
	}
}

func TestSendMessageUsesBoundIdentity(t *testing.T) {
	d, _, _ := newDispatcher()
	alice := newFakeSession("s1")
	bob := newFakeSession("s2")
	d.HandleAuthenticate(context.Background(), alice, "alice")
	d.HandleAuthenticate(context.Background(), bob, "bob")

	d.HandleSendMessage(alice, "user-bob", "hey")

	event, data := bob.lastFrame(t)
	if event != "newMessage" {
		t.Fatalf("event = %q, want newMessage", event)
	}
	if data["senderId"] != "user-alice" {
		t.Fatalf("senderId = %v, want identity of the bound session", data["senderId"])
	}
	if data["content"] != "hey" {
		t.Fatalf("content = %v", data["content"])
	}
	if _, ok := data["timestamp"]; !ok {
		t.Fatal("newMessage must carry a timestamp")
	}
}

func TestSendMessageDropsWhenRecipientOffline(t *testing.T) {
	d, _, _ := newDispatcher()
	alice := newFakeSession("s1")
	d.HandleAuthenticate(context.Background(), alice, "alice")
	before := alice.frameCount()

	d.HandleSendMessage(alice, "user-nobody", "hello?")

	if alice.frameCount() != before {
		t.Fatal("offline recipient must be a silent drop, no frame back to sender")
	}
}

func TestSendMessageFromUnauthenticatedSessionIgnored(t *testing.T) {
	d, _, _ := newDispatcher()
	bob := newFakeSession("s2")
	d.HandleAuthenticate(context.Background(), bob, "bob")
	stranger := newFakeSession("s1")

	d.HandleSendMessage(stranger, "user-bob", "spoofed")

	// Only the userStatus broadcast from bob's own authenticate.
	if bob.frameCount() != 1 {
		t.Fatalf("unauthenticated sender must not reach the recipient, frames = %d", bob.frameCount())
	}
}

func TestTypingForwardedToRecipient(t *testing.T) {
	d, _, _ := newDispatcher()
	alice := newFakeSession("s1")
	bob := newFakeSession("s2")
	d.HandleAuthenticate(context.Background(), alice, "alice")
	d.HandleAuthenticate(context.Background(), bob, "bob")

	d.HandleTyping(alice, "user-bob", true)

	event, data := bob.lastFrame(t)
	if event != "userTyping" {
		t.Fatalf("event = %q, want userTyping", event)
	}
	if data["senderId"] != "user-alice" || data["isTyping"] != true {
		t.Fatalf("unexpected typing payload: %v", data)
	}
}

func TestDisconnectUnbindsAndBroadcastsOffline(t *testing.T) {
	d, reg, presence := newDispatcher()
	alice := newFakeSession("s1")
	bob := newFakeSession("s2")
	d.HandleAuthenticate(context.Background(), alice, "alice")
	d.HandleAuthenticate(context.Background(), bob, "bob")

	d.HandleDisconnect(context.Background(), alice)

	if _, ok := reg.Get("user-alice"); ok {
		t.Fatal("disconnect must unbind the session")
	}
	event, data := bob.lastFrame(t)
	if event != "userStatus" || data["online"] != false {
		t.Fatalf("expected offline broadcast, got %s %v", event, data)
	}

	presence.mu.Lock()
	defer presence.mu.Unlock()
	if presence.calls[len(presence.calls)-1] != "user-alice=false" {
		t.Fatalf("expected durable offline write last, got %v", presence.calls)
	}
}

func TestDisconnectOfDisplacedSessionKeepsNewBinding(t *testing.T) {
	d, reg, _ := newDispatcher()
	old := newFakeSession("s1")
	fresh := newFakeSession("s2")
	d.HandleAuthenticate(context.Background(), old, "alice")
	d.HandleAuthenticate(context.Background(), fresh, "alice")

	d.HandleDisconnect(context.Background(), old)

	got, ok := reg.Get("user-alice")
	if !ok || got.ID() != "s2" {
		t.Fatal("stale disconnect must not evict the newer session")
	}
	if fresh.frameCount() == 0 {
		t.Fatal("expected frames from earlier broadcasts")
	}
	event, data := fresh.lastFrame(t)
	if event == "userStatus" && data["userId"] == "user-alice" && data["online"] == false {
		t.Fatal("stale disconnect must not announce the user offline")
	}
}

func TestReauthenticateAsDifferentUserReleasesOldBinding(t *testing.T) {
	d, reg, _ := newDispatcher()
	sess := newFakeSession("s1")
	d.HandleAuthenticate(context.Background(), sess, "alice")
	d.HandleAuthenticate(context.Background(), sess, "bob")

	if _, ok := reg.Get("user-alice"); ok {
		t.Fatal("old identity must be unbound after re-authentication")
	}
	got, ok := reg.Get("user-bob")
	if !ok || got.ID() != "s1" {
		t.Fatal("session must be bound to the new identity")
	}
}

func TestPresenceWriteFailureDoesNotBlockBinding(t *testing.T) {
	d, reg, presence := newDispatcher()
	presence.fail = errors.New("queue down")
	sess := newFakeSession("s1")

	d.HandleAuthenticate(context.Background(), sess, "alice")

	if _, ok := reg.Get("user-alice"); !ok {
		t.Fatal("binding must survive a failed durable presence write")
	}
}

package controller

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/guru-vishal/chat-application/internal/auth"
	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
)

// TokenVerifier validates a bearer credential and yields the user identity.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

// PresenceWriter requests a durable online-flag change. Implementations must
// return quickly; the production writer enqueues a background task.
type PresenceWriter interface {
	SetOnline(ctx context.Context, userID string, online bool) error
}

// Outbound event payloads. Field names are part of the client wire contract.

type newMessageEvent struct {
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type userTypingEvent struct {
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

type userStatusEvent struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

// Dispatcher routes realtime events between live connections. It owns the
// presence registry: authenticate binds a user to a connection, disconnect
// unbinds it, and message/typing events are pushed to the recipient's current
// connection when one exists. Delivery is best-effort; nothing is queued or
// retried, and persistence happens on the independent HTTP path.
type Dispatcher struct {
	registry *realtime.Registry
	verifier TokenVerifier
	presence PresenceWriter
	logger   *zap.Logger
	metrics  *realtime.Metrics
}

func NewDispatcher(registry *realtime.Registry, verifier TokenVerifier, presence PresenceWriter, logger *zap.Logger, metrics *realtime.Metrics) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		verifier: verifier,
		presence: presence,
		logger:   logger,
		metrics:  metrics,
	}
}

// HandleAuthenticate binds the session to the user named by the credential.
// A valid token displaces any previous session for the same user
// (last-connection-wins). An invalid token leaves the session unbound; the
// caller gets an explicit error frame rather than a silent drop.
func (d *Dispatcher) HandleAuthenticate(ctx context.Context, sess realtime.Session, token string) {
	d.metrics.RecordEvent("authenticate")

	claims, err := d.verifier.Parse(token)
	if err != nil {
		d.metrics.RecordAuthFailure()
		d.logger.Info("realtime authentication rejected", zap.Error(err))
		d.sendError(sess, "unauthorized", "invalid or expired token")
		return
	}
	userID := claims.UserID

	// A connection re-authenticating as a different user releases its old
	// binding without a presence broadcast; the new bind below announces it.
	if prev, ok := d.registry.FindUserBySession(sess); ok {
		if prev == userID {
			return
		}
		if d.registry.RemoveIfMatches(prev, sess) {
			d.metrics.SessionUnbound()
		}
	}

	displaced := d.registry.Set(userID, sess)
	if displaced != nil {
		displaced.Close(4001, "session replaced")
	} else {
		d.metrics.SessionBound()
	}

	// Durable flag write is queued so the event handler never blocks on the
	// store; failures leave the flag stale, which the next transition heals.
	if err := d.presence.SetOnline(ctx, userID, true); err != nil {
		d.logger.Warn("presence online write failed", zap.String("userId", userID), zap.Error(err))
	}

	d.broadcastStatus(userID, true)
}

// HandleSendMessage pushes a realtime copy of a message to the recipient's
// live session, if any. The sender identity always comes from the session's
// own binding; client-supplied sender fields are ignored. Offline recipients
// mean a silent drop, persistence having already happened on the HTTP path.
func (d *Dispatcher) HandleSendMessage(sess realtime.Session, recipientID, content string) {
	d.metrics.RecordEvent("sendMessage")

	senderID, ok := d.registry.FindUserBySession(sess)
	if !ok {
		d.logger.Debug("sendMessage from unauthenticated session dropped")
		return
	}
	recipient, ok := d.registry.Get(recipientID)
	if !ok {
		d.metrics.RecordDrop()
		return
	}

	payload := d.encode("newMessage", newMessageEvent{
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err := recipient.Send(payload); err != nil {
		d.metrics.RecordDrop()
		d.logger.Debug("newMessage delivery failed", zap.String("recipientId", recipientID), zap.Error(err))
	}
}

// HandleTyping forwards a typing indicator to the recipient's live session.
// Typing state is never persisted.
func (d *Dispatcher) HandleTyping(sess realtime.Session, recipientID string, isTyping bool) {
	d.metrics.RecordEvent("typing")

	senderID, ok := d.registry.FindUserBySession(sess)
	if !ok {
		return
	}
	recipient, ok := d.registry.Get(recipientID)
	if !ok {
		d.metrics.RecordDrop()
		return
	}

	payload := d.encode("userTyping", userTypingEvent{SenderID: senderID, IsTyping: isTyping})
	if err := recipient.Send(payload); err != nil {
		d.metrics.RecordDrop()
	}
}

// HandleDisconnect releases the session's registry binding. The removal is
// conditional: if the user already reconnected elsewhere, the newer binding
// survives and no offline status is announced.
func (d *Dispatcher) HandleDisconnect(ctx context.Context, sess realtime.Session) {
	userID, ok := d.registry.FindUserBySession(sess)
	if !ok {
		return
	}
	if !d.registry.RemoveIfMatches(userID, sess) {
		return
	}
	d.metrics.SessionUnbound()

	if err := d.presence.SetOnline(ctx, userID, false); err != nil {
		d.logger.Warn("presence offline write failed", zap.String("userId", userID), zap.Error(err))
	}

	d.broadcastStatus(userID, false)
}

func (d *Dispatcher) broadcastStatus(userID string, online bool) {
	payload := d.encode("userStatus", userStatusEvent{UserID: userID, Online: online})
	d.registry.Broadcast(payload)
}

func (d *Dispatcher) sendError(sess realtime.Session, code, message string) {
	frame := errorFrame{Event: "error", Data: errorPayload{Code: code, Error: message}}
	if payload, err := json.Marshal(frame); err == nil {
		_ = sess.Send(payload)
	}
}

func (d *Dispatcher) encode(event string, data any) []byte {
	raw, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{Event: event, Data: data})
	if err != nil {
		d.logger.Error("encode realtime frame", zap.String("event", event), zap.Error(err))
		return nil
	}
	return raw
}

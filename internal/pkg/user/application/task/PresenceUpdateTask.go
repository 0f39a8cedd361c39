package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	qport "github.com/guru-vishal/chat-application/internal/infrastructure/queue/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	"github.com/guru-vishal/chat-application/internal/pkg/user/application/usecase"
)

// PresenceUpdateTaskType is the queue task name for durable online-flag writes.
const PresenceUpdateTaskType = "presence:update"

// PresenceUpdateTaskPayload is the JSON payload transported via the queue.
// OccurredAt is stamped at enqueue time so workers processing tasks out of
// order cannot overwrite a newer transition with an older one.
type PresenceUpdateTaskPayload struct {
	UserID     string    `json:"userId"`
	Online     bool      `json:"online"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RegisterPresenceUpdateTask binds the task handler to the provided server.
// The handler flips the durable flag and invalidates the users-list cache.
func RegisterPresenceUpdateTask(srv qport.Server, presence *usecase.SetPresenceUseCase, logger *zap.Logger) {
	srv.Register(PresenceUpdateTaskType, func(ctx context.Context, t qport.Task) error {
		var p PresenceUpdateTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: retrying cannot help
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		err := presence.Execute(ctx, usecase.SetPresenceInput{UserID: p.UserID, Online: p.Online, OccurredAt: p.OccurredAt})
		if errors.Is(err, user.ErrUserNotFound) {
			// account disappeared between enqueue and handling; drop
			logger.Warn("presence update for unknown user", zap.String("userId", p.UserID))
			return nil
		}
		return err
	})
}

// QueuePresenceWriter enqueues presence updates so the realtime dispatcher
// never blocks on a database write while handling connection lifecycle events.
type QueuePresenceWriter struct {
	Q qport.Client
}

func NewQueuePresenceWriter(q qport.Client) *QueuePresenceWriter {
	return &QueuePresenceWriter{Q: q}
}

// SetOnline enqueues the durable flag write. Delivery is at-least-once; the
// handler is idempotent.
func (w *QueuePresenceWriter) SetOnline(ctx context.Context, userID string, online bool) error {
	payload, err := json.Marshal(PresenceUpdateTaskPayload{UserID: userID, Online: online, OccurredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	_, err = w.Q.Enqueue(ctx, qport.Task{Type: PresenceUpdateTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "presence", MaxRetry: 5})
	return err
}

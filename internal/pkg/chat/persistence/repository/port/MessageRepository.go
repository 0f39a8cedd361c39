package repository

import (
	"context"

	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
)

// MessageRepository defines persistence operations for the messaging domain.
type MessageRepository interface {
	// SaveMessage persists the message and returns the store-generated id.
	SaveMessage(ctx context.Context, m chat.Message) (string, error)
	// ListBetween returns every message exchanged between the two users in
	// either direction, ordered oldest first.
	ListBetween(ctx context.Context, userA, userB string) ([]chat.Message, error)
	// MarkRead flips the read flag on all unread messages sent by senderID to
	// recipientID and returns how many rows changed.
	MarkRead(ctx context.Context, senderID, recipientID string) (int64, error)
}

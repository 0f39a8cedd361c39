package chat

import (
	"errors"
	"strings"
	"time"
)

// maxContentBytes caps message content at a generous text-message size.
const maxContentBytes = 5 * 1024

// Domain-level errors for messaging behaviors
var (
	ErrEmptyMessage       = errors.New("chat: empty message content")
	ErrContentTooLarge    = errors.New("chat: message content too large")
	ErrSelfMessage        = errors.New("chat: sender and recipient are the same user")
	ErrRecipientNotFound  = errors.New("chat: recipient does not exist")
	ErrMissingParticipant = errors.New("chat: sender_id and recipient_id are required")
)

// Message is an immutable record exchanged between two users. Only the Read
// flag ever changes after creation, flipping once when the recipient fetches
// the conversation.
type Message struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	Content     string    `db:"content"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewMessage validates and shapes a message ready to persist.
func NewMessage(senderID, recipientID, content string) (*Message, error) {
	if senderID == "" || recipientID == "" {
		return nil, ErrMissingParticipant
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxContentBytes {
		return nil, ErrContentTooLarge
	}

	return &Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

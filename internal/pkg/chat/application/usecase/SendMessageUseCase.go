package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to persist a new message. The
// sender is always the authenticated caller, never a payload field.
type SendMessageInput struct {
	SenderID    string
	RecipientID string
	Content     string
}

// SendMessageUseCase persists a message between two users. Realtime delivery
// is a separate, independent path; persistence never waits on it.
type SendMessageUseCase struct {
	Repo repository.MessageRepository
}

func NewSendMessageUseCase(repo repository.MessageRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates and persists a message, returning the stored record.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.SenderID, in.RecipientID, in.Content)
	if err != nil {
		return nil, err
	}

	id, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		if errors.Is(err, chat.ErrRecipientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}

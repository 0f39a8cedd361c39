package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
	repository "github.com/guru-vishal/chat-application/internal/pkg/chat/persistence/repository/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	userrepo "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/port"
)

// GetHistoryInput identifies the caller and the conversation peer.
type GetHistoryInput struct {
	UserID string
	PeerID string
}

// GetHistoryUseCase returns the full conversation between the caller and a
// peer, oldest first. Fetching has a side effect: unread peer-to-caller
// messages are marked read first, so the returned records already carry the
// updated flag.
type GetHistoryUseCase struct {
	Repo  repository.MessageRepository
	Users userrepo.UserRepository
}

func NewGetHistoryUseCase(repo repository.MessageRepository, users userrepo.UserRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo, Users: users}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) ([]chat.Message, error) {
	if in.UserID == "" || in.PeerID == "" {
		return nil, chat.ErrMissingParticipant
	}

	if _, err := uc.Users.FindByID(ctx, in.PeerID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, chat.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if _, err := uc.Repo.MarkRead(ctx, in.PeerID, in.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msgs, err := uc.Repo.ListBetween(ctx, in.UserID, in.PeerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}

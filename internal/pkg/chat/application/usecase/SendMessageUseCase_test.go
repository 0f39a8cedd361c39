package usecase

import (
	"context"
	"errors"
	"testing"

	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
)

func TestSendMessagePersistsUnread(t *testing.T) {
	repo := newFakeMessageRepo()
	uc := NewSendMessageUseCase(repo)

	msg, err := uc.Execute(context.Background(), SendMessageInput{
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "  hello  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("expected generated id")
	}
	if msg.Content != "hello" {
		t.Fatalf("expected trimmed content, got %q", msg.Content)
	}
	if msg.Read {
		t.Fatal("new messages must start unread")
	}
	if msg.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
}

func TestSendMessageValidation(t *testing.T) {
	uc := NewSendMessageUseCase(newFakeMessageRepo())

	cases := []struct {
		in   SendMessageInput
		want error
	}{
		{SendMessageInput{SenderID: "alice", RecipientID: "bob", Content: "   "}, chat.ErrEmptyMessage},
		{SendMessageInput{SenderID: "alice", RecipientID: "alice", Content: "hi"}, chat.ErrSelfMessage},
		{SendMessageInput{SenderID: "", RecipientID: "bob", Content: "hi"}, chat.ErrMissingParticipant},
	}
	for _, tc := range cases {
		if _, err := uc.Execute(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("input %+v: expected %v, got %v", tc.in, tc.want, err)
		}
	}
}

func TestSendMessageWrapsStoreFailure(t *testing.T) {
	repo := newFakeMessageRepo()
	repo.fail = context.DeadlineExceeded
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "bob", Content: "hi"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	repo := newFakeMessageRepo()
	repo.fail = chat.ErrRecipientNotFound
	uc := NewSendMessageUseCase(repo)

	_, err := uc.Execute(context.Background(), SendMessageInput{SenderID: "alice", RecipientID: "ghost", Content: "hi"})
	if !errors.Is(err, chat.ErrRecipientNotFound) {
		t.Fatalf("expected ErrRecipientNotFound, got %v", err)
	}
}

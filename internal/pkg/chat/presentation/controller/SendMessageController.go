package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guru-vishal/chat-application/internal/httputil"
	chat "github.com/guru-vishal/chat-application/internal/pkg/chat/application/domain"
	"github.com/guru-vishal/chat-application/internal/pkg/chat/application/usecase"
	"github.com/guru-vishal/chat-application/internal/pkg/chat/persistence/repository/adapter"
)

type sendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toMessageResponse(m chat.Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt,
	}
}

// SendMessageController persists a message from the authenticated caller.
// The sender identity comes from the access token, never the request body.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool) *SendMessageController {
	repo := adapter.NewPgMessageRepository(pool)
	return &SendMessageController{UC: usecase.NewSendMessageUseCase(repo)}
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipientId and content are required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			SenderID:    httputil.UserID(c),
			RecipientID: req.RecipientID,
			Content:     req.Content,
		})
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrRecipientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, toMessageResponse(*msg))
	}
}

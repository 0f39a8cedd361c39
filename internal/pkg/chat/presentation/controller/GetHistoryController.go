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
	useradapter "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/adapter"
)

// GetHistoryController returns the caller's conversation with one peer,
// oldest first. Fetching marks the peer's unread messages to the caller as
// read, so the response already reflects the flip.
type GetHistoryController struct {
	UC *usecase.GetHistoryUseCase
}

func NewGetHistoryController(pool *pgxpool.Pool) *GetHistoryController {
	messages := adapter.NewPgMessageRepository(pool)
	users := useradapter.NewPgUserRepository(pool)
	return &GetHistoryController{UC: usecase.NewGetHistoryUseCase(messages, users)}
}

func (h *GetHistoryController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetHistoryInput{
			UserID: httputil.UserID(c),
			PeerID: c.Param("userId"),
		})
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrRecipientNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}
		c.JSON(http.StatusOK, out)
	}
}

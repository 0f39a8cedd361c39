package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guru-vishal/chat-application/internal/httputil"
	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	"github.com/guru-vishal/chat-application/internal/pkg/user/application/usecase"
	"github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/adapter"
)

// LogoutController durably marks the caller offline. Tokens are stateless, so
// nothing is revoked server-side.
type LogoutController struct {
	UC *usecase.LogoutUseCase
}

func NewLogoutController(pool *pgxpool.Pool, cache cacheport.Cache) *LogoutController {
	repo := adapter.NewPgUserRepository(pool)
	presence := usecase.NewSetPresenceUseCase(repo, cache)
	return &LogoutController{UC: usecase.NewLogoutUseCase(presence)}
}

func (h *LogoutController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err := h.UC.Execute(ctx, usecase.LogoutInput{UserID: httputil.UserID(c)})
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

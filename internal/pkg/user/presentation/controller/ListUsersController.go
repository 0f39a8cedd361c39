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
	"github.com/guru-vishal/chat-application/internal/pkg/user/application/usecase"
	"github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/adapter"
)

// ListUsersController returns every account except the caller (one controller per endpoint)
type ListUsersController struct {
	UC *usecase.ListUsersUseCase
}

func NewListUsersController(pool *pgxpool.Pool, cache cacheport.Cache, cacheTTL time.Duration) *ListUsersController {
	repo := adapter.NewPgUserRepository(pool)
	return &ListUsersController{UC: usecase.NewListUsersUseCase(repo, cache, cacheTTL)}
}

func (h *ListUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListUsersInput{ExcludeUserID: httputil.UserID(c)})
		if err != nil {
			if errors.Is(err, usecase.ErrPersistence) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, summaries)
	}
}

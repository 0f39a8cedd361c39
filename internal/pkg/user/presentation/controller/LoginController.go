package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guru-vishal/chat-application/internal/auth"
	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
	"github.com/guru-vishal/chat-application/internal/pkg/user/application/usecase"
	"github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/adapter"
)

// LoginController handles credential verification (one controller per endpoint)
type LoginController struct {
	UC     *usecase.LoginUseCase
	Tokens *auth.TokenManager
}

func NewLoginController(pool *pgxpool.Pool, cache cacheport.Cache, tokens *auth.TokenManager) *LoginController {
	repo := adapter.NewPgUserRepository(pool)
	presence := usecase.NewSetPresenceUseCase(repo, cache)
	return &LoginController{
		UC:     usecase.NewLoginUseCase(repo, presence),
		Tokens: tokens,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, err := h.UC.Execute(ctx, usecase.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			switch {
			case errors.Is(err, user.ErrInvalidCredentials):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		token, err := h.Tokens.Sign(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": u.Summary()})
	}
}

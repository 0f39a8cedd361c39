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

// RegisterController handles account creation (one controller per endpoint)
type RegisterController struct {
	UC     *usecase.RegisterUserUseCase
	Tokens *auth.TokenManager
}

func NewRegisterController(pool *pgxpool.Pool, cache cacheport.Cache, tokens *auth.TokenManager) *RegisterController {
	repo := adapter.NewPgUserRepository(pool)
	return &RegisterController{
		UC:     usecase.NewRegisterUserUseCase(repo, cache),
		Tokens: tokens,
	}
}

type registerRequest struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	ProfilePic string `json:"profilePic"`
}

func (h *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, err := h.UC.Execute(ctx, usecase.RegisterUserInput{
			Username:   req.Username,
			Email:      req.Email,
			Password:   req.Password,
			ProfilePic: req.ProfilePic,
		})
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserExists):
				c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
			case errors.Is(err, user.ErrInvalidUser):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": u.Summary()})
	}
}

package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/guru-vishal/chat-application/internal/auth"
	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
	chatcontroller "github.com/guru-vishal/chat-application/internal/pkg/chat/presentation/controller"
	chathttp "github.com/guru-vishal/chat-application/internal/pkg/chat/presentation/http"
	userhttp "github.com/guru-vishal/chat-application/internal/pkg/user/presentation/http"
)

// Deps bundles the shared infrastructure handed down to the HTTP layer.
type Deps struct {
	Pool          *pgxpool.Pool
	Cache         cacheport.Cache
	Tokens        *auth.TokenManager
	Dispatcher    *chatcontroller.Dispatcher
	Metrics       *realtime.Metrics
	Logger        *zap.Logger
	UsersCacheTTL time.Duration
}

// RegisterRoutes mounts all version 1 API routes under /api.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	api := r.Group("/api")
	userhttp.RegisterRoutes(api, deps.Pool, deps.Cache, deps.Tokens, deps.UsersCacheTTL)
	chathttp.RegisterRoutes(api, deps.Pool, deps.Dispatcher, deps.Metrics, deps.Tokens, deps.Logger)
}

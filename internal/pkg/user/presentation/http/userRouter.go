package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guru-vishal/chat-application/internal/auth"
	"github.com/guru-vishal/chat-application/internal/httputil"
	cacheport "github.com/guru-vishal/chat-application/internal/infrastructure/cache/port"
	"github.com/guru-vishal/chat-application/internal/pkg/user/presentation/controller"
)

// RegisterRoutes mounts identity endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, tokens *auth.TokenManager, usersCacheTTL time.Duration) {
	registerCtl := controller.NewRegisterController(pool, cache, tokens)
	loginCtl := controller.NewLoginController(pool, cache, tokens)
	listCtl := controller.NewListUsersController(pool, cache, usersCacheTTL)
	logoutCtl := controller.NewLogoutController(pool, cache)

	g.POST("/register", registerCtl.Handle())
	g.POST("/login", loginCtl.Handle())

	authed := g.Group("", httputil.RequireAuth(tokens))
	authed.GET("/users", listCtl.Handle())
	authed.POST("/logout", logoutCtl.Handle())
}

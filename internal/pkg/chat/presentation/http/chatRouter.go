package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/guru-vishal/chat-application/internal/auth"
	"github.com/guru-vishal/chat-application/internal/httputil"
	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
	"github.com/guru-vishal/chat-application/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes mounts messaging endpoints under the given router group.
// The websocket endpoint is mounted unauthenticated; the socket itself
// authenticates through its first frame.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, dispatcher *controller.Dispatcher, metrics *realtime.Metrics, tokens *auth.TokenManager, logger *zap.Logger) {
	sendCtl := controller.NewSendMessageController(pool)
	historyCtl := controller.NewGetHistoryController(pool)

	authed := g.Group("", httputil.RequireAuth(tokens))
	authed.POST("/messages", sendCtl.Handle())
	authed.GET("/messages/:userId", historyCtl.Handle())

	g.GET("/ws", controller.NewChatSocketController(dispatcher, metrics, logger))
}

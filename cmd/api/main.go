package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "github.com/guru-vishal/chat-application/cmd/api/router/v1"
	"github.com/guru-vishal/chat-application/internal/auth"
	"github.com/guru-vishal/chat-application/internal/config"
	"github.com/guru-vishal/chat-application/internal/httputil"
	cacheadapter "github.com/guru-vishal/chat-application/internal/infrastructure/cache/adapter"
	"github.com/guru-vishal/chat-application/internal/infrastructure/database"
	queueadapter "github.com/guru-vishal/chat-application/internal/infrastructure/queue/adapter"
	"github.com/guru-vishal/chat-application/internal/infrastructure/realtime"
	"github.com/guru-vishal/chat-application/internal/logging"
	chatcontroller "github.com/guru-vishal/chat-application/internal/pkg/chat/presentation/controller"
	usertask "github.com/guru-vishal/chat-application/internal/pkg/user/application/task"
	"github.com/guru-vishal/chat-application/internal/pkg/user/application/usecase"
	useradapter "github.com/guru-vishal/chat-application/internal/pkg/user/persistence/repository/adapter"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(os.Getenv("CHATAPP_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	defer func() { _ = cache.Close() }()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("init queue client", zap.Error(err))
	}
	defer func() { _ = queueClient.Close() }()

	queueServer, err := queueadapter.NewAsynqServer(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("init queue server", zap.Error(err))
	}

	userRepo := useradapter.NewPgUserRepository(pool)
	presenceUC := usecase.NewSetPresenceUseCase(userRepo, cache)
	usertask.RegisterPresenceUpdateTask(queueServer, presenceUC, logger)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector())
	metrics := realtime.NewMetrics(promReg)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	registry := realtime.NewRegistry()
	presenceWriter := usertask.NewQueuePresenceWriter(queueClient)
	dispatcher := chatcontroller.NewDispatcher(registry, tokens, presenceWriter, logger, metrics)

	r := gin.New()
	r.Use(gin.Recovery(), httputil.CORS())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	v1.RegisterRoutes(r, v1.Deps{
		Pool:          pool,
		Cache:         cache,
		Tokens:        tokens,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		UsersCacheTTL: cfg.UsersCacheTTL,
	})

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: r}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := queueServer.Run(runCtx); err != nil {
			logger.Error("queue server stopped", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("http server listening", zap.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-runCtx.Done()
	logger.Info("shutting down")

	// Hijacked websocket connections are invisible to srv.Shutdown; close
	// them explicitly so the grace period is not spent waiting on them.
	for _, sess := range registry.Sessions() {
		sess.Close(websocket.CloseGoingAway, "server shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

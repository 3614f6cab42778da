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
	"github.com/leanttro/leanttrotech/auth"
	"github.com/leanttro/leanttrotech/clients"
	"github.com/leanttro/leanttrotech/config"
	"github.com/leanttro/leanttrotech/controllers"
	"github.com/leanttro/leanttrotech/logger"
	"github.com/leanttro/leanttrotech/middleware"
	"github.com/leanttro/leanttrotech/routes"
	"github.com/leanttro/leanttrotech/services"
	"github.com/leanttro/leanttrotech/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// --- 1. Configuration & Logging ---
	zapLogger, err := logger.Initialize(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Env != os.Getenv("APP_ENV") {
		if zapLogger, err = logger.Initialize(cfg.Env); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}
	defer zapLogger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- 2. Sessions ---
	var store session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisURL != "" {
		redisClient, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.SessionTTL)
	}
	sessions := session.NewManager(store, cfg.SessionCookie, cfg.SessionCookieSecure, cfg.SessionTTL)

	// --- 3. CMS & Services ---
	cms := clients.NewCMSClient(cfg.DirectusURL, cfg.DirectusToken, cfg.CMSTimeout)
	projector := services.NewProjector(cms, cfg.StoreID, cfg.PlaceholderImage)
	commands := services.NewCommands(cms, cfg.StoreID)

	storefront := controllers.NewStorefrontController(projector, cfg.BasePath)
	admin := controllers.NewAdminController(projector, commands, auth.NewPasswordVerifier(), sessions, cfg.BasePath, cfg.MaxUploadBytes)

	// --- 4. Router ---
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.SetFuncMap(controllers.TemplateFuncs())
	r.LoadHTMLGlob(cfg.TemplatesGlob)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var loginLimit gin.HandlerFunc
	if cfg.LoginRatePerMinute > 0 {
		loginLimit = middleware.LoginRateLimit(ctx, cfg.LoginRatePerMinute)
	}
	routes.RegisterRoutes(r, cfg.BasePath, storefront, admin, sessions, loginLimit)

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		zapLogger.Info("Storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("base_path", cfg.BasePath),
			zap.String("cms", cfg.DirectusURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
}

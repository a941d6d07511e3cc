package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogicum/config"
	"blogicum/database"
	"blogicum/logger"
	"blogicum/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Blogicum Admin API
// @version 1.0
// @description Staff-only management API for categories, locations, posts and users.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProd())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "default-secret" {
			log.Fatal("JWT_SECRET must be set in production")
		}
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	r, err := routes.NewRouter(db, cfg, log)
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.WriteTimeout,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		log.Info("swagger docs available", zap.String("url", "http://localhost:"+cfg.Port+"/swagger/index.html"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/config"
	"github.com/0knotok/cloud-demo-throttling/internal/server"
	"github.com/0knotok/cloud-demo-throttling/pkg/logger"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load config", zap.Error(err))
	}

	// Инициализация логгера
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer zl.Sync()

	log := zl.Sugar()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, zl)
	if err != nil {
		log.Fatalw("Failed to start server", "error", err)
	}

	// Запуск в горутине
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("Server failed", "error", err)
			stop()
		}
	}()

	// Ожидание сигнала
	<-ctx.Done()

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

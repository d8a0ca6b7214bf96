package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"doggy-rescue/internal/app"
	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/core/logger"
	"doggy-rescue/internal/core/server"
)

func main() {
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	restore := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer restore()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	log.Info("storage ready", zap.String("driver", cfg.DB.Driver), zap.String("sessions", cfg.Session.Store))

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Session.PruneSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := a.Sessions.Prune(ctx)
		if err != nil {
			log.Warn("session prune failed", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("expired sessions pruned", zap.Int64("count", n))
		}
	}); err != nil {
		log.Fatal("bad session.pruneSpec", zap.String("spec", cfg.Session.PruneSpec), zap.Error(err))
	}
	sched.Start()

	h := cfg.App.HTTP
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, a.Engine,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	log.Info("doggy-rescue api starting",
		zap.String("addr", addr),
		zap.String("open", cfg.App.BaseURL),
		zap.String("health", cfg.App.BaseURL+"/health"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	<-sched.Stop().Done()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	a.Close(ctx)
	log.Info("api stopped gracefully")
}

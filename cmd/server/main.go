// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/catboard/cat/internal/cache"
	"github.com/catboard/cat/internal/config"
	"github.com/catboard/cat/internal/game"
	"github.com/catboard/cat/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logrus.SetLevel(cfg.LogLevel)

	var publisher cache.EventPublisher = cache.NopPublisher{}
	if cfg.RedisAddr != "" {
		rp, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.RedisChannelPrefix)
		if err != nil {
			logger.Warnf("Redis unavailable at %s, events stay local: %v", cfg.RedisAddr, err)
		} else {
			defer rp.Close()
			publisher = rp
			logger.Infof("Publishing game events to redis %s", cfg.RedisAddr)
		}
	}

	gs := handlers.NewGameServer(game.NewGameStore(cfg.Game), handlers.NewHub(publisher, logger), logger)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handlers.NewRouter(logger, gs),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return gs.RunJanitor(ctx, cfg.PollInterval)
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down")
		gs.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

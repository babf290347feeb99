package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tixtax-backend/internal/config"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository"
	"github.com/rocketscienceinc/tixtax-backend/internal/repository/storage"
	"github.com/rocketscienceinc/tixtax-backend/internal/usecase"
	"github.com/rocketscienceinc/tixtax-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	sessionStorage, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = sessionStorage.Close(); err != nil {
			log.Error("could not close session storage", "error", err)
		}
	}()

	hub := rest.NewHub(logger)
	gameManager := usecase.NewGameManager(
		logger,
		repository.NewGameRepository(sessionStorage),
		repository.NewInviteRepository(sessionStorage),
		hub,
		usecase.Timeouts{
			Game:         conf.Timeouts.Game,
			OpenInvite:   conf.Timeouts.OpenInvite,
			DirectInvite: conf.Timeouts.DirectInvite,
		},
	)

	go gameManager.RunJanitor(ctx, conf.Timeouts.Sweep)

	router := rest.NewRouter(logger,
		rest.NewPingModule(),
		rest.NewTixTaxModule(logger, gameManager, hub),
	)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func openStorage(ctx context.Context, conf *config.Config) (storage.Storage, error) {
	if conf.Storage == config.StorageMemory {
		return storage.NewMemoryStorage(), nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return redisStorage, nil
}

// Package server initializes and runs the ledger server: storage backend
// selection, HTTP endpoint and graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/avdeevd/fundkeeper/internal/logging"
	"github.com/avdeevd/fundkeeper/internal/server/config"
	"github.com/avdeevd/fundkeeper/internal/server/httpapi"
	"github.com/avdeevd/fundkeeper/internal/server/ledger"
	"github.com/avdeevd/fundkeeper/internal/server/repository"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repo   repository.Repository
	server *http.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON()

	var repo repository.Repository
	if c.DatabaseDSN != "" {
		pg, err := repository.NewPostgresRepository(c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		repo = pg
	} else {
		logger.Warn(context.Background(), "no database DSN configured, using in-memory storage")
		repo = repository.NewMemoryRepository()
	}

	secret := []byte(c.SecretKey)
	svc := ledger.NewService(repo, logger, secret, c.TokenTTL)
	api := httpapi.NewServer(svc, logger, secret)

	return &App{
		config: c,
		logger: logger,
		repo:   repo,
		server: &http.Server{Addr: c.Addr, Handler: api.Router()},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting ledger server", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server failed", "error", err)
		}
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}

	if err := app.repo.Close(); err != nil {
		app.logger.Error(ctx, "closing storage", "error", err)
	}
}

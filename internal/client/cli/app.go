// Package cli implements the interactive FundKeeper client: a small REPL
// over the campaign coordinator.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/avdeevd/fundkeeper/internal/client/cachestore"
	"github.com/avdeevd/fundkeeper/internal/client/config"
	"github.com/avdeevd/fundkeeper/internal/client/coordinator"
	"github.com/avdeevd/fundkeeper/internal/client/ledger"
	"github.com/avdeevd/fundkeeper/internal/client/transfer"
	"github.com/avdeevd/fundkeeper/internal/logging"
)

const pageSize = 5

type App struct {
	config *config.Config
	coord  *coordinator.Coordinator
	store  *cachestore.Store

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewJSON()

	store, err := cachestore.Open(ctx, c.CacheDBPath)
	if err != nil {
		return nil, err
	}

	remote := ledger.NewHTTPLedger(c.ServerEndpointAddr, c.RequestTimeout)
	transfers := transfer.NewService(remote, log)
	coord := coordinator.New(remote, transfers, store, log)
	coord.WarmFromStore(ctx)

	return &App{
		config: c,
		coord:  coord,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.coord.Session().Authenticated()
}

func (a *App) status() string {
	if s := a.coord.Session(); s.Authenticated() {
		return "(" + s.Handle() + ")"
	}
	return ""
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin), a.out)
}

package cli

import (
	"log/slog"

	"github.com/doorstep-crm/doorstep/internal/config"
	"github.com/doorstep-crm/doorstep/internal/identity"
	"github.com/doorstep-crm/doorstep/internal/mirror"
	"github.com/doorstep-crm/doorstep/internal/query"
	"github.com/doorstep-crm/doorstep/internal/record"
	"github.com/doorstep-crm/doorstep/internal/sync"
)

// App wires the stores and layers together for one command invocation.
// Construction is explicit; there is no process-wide singleton, and tests
// build an isolated App over memory-only stores.
type App struct {
	Config  config.Config
	Records *record.Store
	Users   *identity.Store
	Mirror  *mirror.Mirror
	Coord   *sync.Coordinator
	Query   *query.Engine
}

// openApp loads configuration and opens all stores. A store that fails to
// open (bad schema, unreachable file) is fatal to the command: the error is
// wrapped with ExitCommandError.
func openApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, WrapExitError(ExitCommandError, "preparing data dir", err)
	}

	records, err := record.Open(cfg.RecordsPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening record store", err)
	}
	users, err := identity.Open(cfg.UsersPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening identity store", err)
	}
	m, err := mirror.Open(cfg.MirrorPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening relational mirror", err)
	}

	return &App{
		Config:  cfg,
		Records: records,
		Users:   users,
		Mirror:  m,
		Coord: sync.New(records, m,
			sync.WithLogger(slog.Default()),
			sync.WithDefaultList(cfg.DefaultList)),
		Query:   query.New(records),
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	a.Coord.Close()
	if err := a.Mirror.Close(); err != nil {
		slog.Warn("closing mirror", "error", err)
	}
}

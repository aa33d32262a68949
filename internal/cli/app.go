package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/config"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/services"
	"github.com/dmitrijs2005/nutrikeeper/internal/storage"
)

type App struct {
	db       *sql.DB
	store    *services.ScanStore
	stats    *services.StatsService
	profiles *services.ProfileService
	log      logging.Logger

	in          *bufio.Scanner
	out         io.Writer
	interactive bool
	now         func() time.Time
	loc         *time.Location
}

// NewApp opens the database named by cfg and builds the services on it.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(ctx, cfg.DBPath, cfg.BusyTimeout, log)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	app, err := newApp(db, services.Options{CacheSize: cfg.CacheSize, Location: loc, Logger: log}, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.interactive = isTerminal(int(os.Stdin.Fd()))
	return app, nil
}

func newApp(db *sql.DB, opts services.Options, in io.Reader, out io.Writer) (*App, error) {
	repos := storage.NewRepositories(db)

	store, err := services.NewScanStore(db, opts)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := time.Now
	if opts.Clock != nil {
		now = opts.Clock.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &App{
		db:       db,
		store:    store,
		stats:    services.NewStatsService(repos.Consumptions, opts),
		profiles: services.NewProfileService(repos.Settings, log),
		log:      log,
		in:       bufio.NewScanner(in),
		out:      out,
		now:      now,
		loc:      loc,
	}, nil
}

// Run loops over commands until exit or end of input, then closes the
// database.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if a.interactive {
		fmt.Fprintln(a.out, "Welcome to nutrikeeper (type 'help' for commands)")
	}
	runREPL(ctx, a, a.prompt, a.in)
	return nil
}

func (a *App) prompt() string {
	if !a.interactive {
		return ""
	}
	return "nk> "
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// Package cli implements the taskdeck command line entry point.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tOgg1/taskdeck/internal/config"
	"github.com/tOgg1/taskdeck/internal/db"
	"github.com/tOgg1/taskdeck/internal/grid"
	"github.com/tOgg1/taskdeck/internal/gridtui"
	"github.com/tOgg1/taskdeck/internal/logging"
)

// PreflightError reports an environment problem found before the UI starts.
type PreflightError struct {
	Message string
	Hint    string
}

func (e *PreflightError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Hint)
}

// isInteractive reports whether the UI can take over the terminal.
var isInteractive = hasTTY

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Inspect and edit volume task tables",
		Long:          "Terminal grid over the mm_volume_task and dex_volume_task tables with live refresh and in-place editing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			loader.SetConfigFile(configFile)
			if err := loader.BindFlags(cmd.Flags()); err != nil {
				return err
			}
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			if !isInteractive() {
				return &PreflightError{
					Message: "taskdeck requires an interactive terminal",
					Hint:    "run it from a TTY",
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, loader.ConfigFileUsed())
		},
	}

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/taskdeck/config.yaml)")
	flags.String("driver", defaults.Database.Driver, "database driver: mysql|sqlite|sqlite3")
	flags.String("dsn", "", "data source name of the task store")
	flags.String("log-level", defaults.Logging.Level, "log level: debug|info|warn|error")
	flags.String("log-file", defaults.Logging.File, "log file path")
	flags.String("theme", defaults.TUI.Theme, "color palette: blue|emerald|indigo|red")
	flags.Duration("primary-interval", defaults.Refresh.PrimaryInterval, "background refresh interval of mm_volume_task")
	flags.Duration("secondary-interval", defaults.Refresh.SecondaryInterval, "background refresh interval of dex_volume_task")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, configFile string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.File = cfg.Logging.File
	logCfg.EnableCaller = cfg.Logging.EnableCaller
	closer, err := logging.Init(logCfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	logger := logging.Component("cli")
	logger.Info().
		Str("driver", cfg.Database.Driver).
		Str("dsn", logging.RedactDSN(cfg.Database.DSN)).
		Str("config", configFile).
		Msg("starting taskdeck")

	eng, err := openEngine(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("open task store")
		return err
	}
	defer eng.Close()

	eng.Start(logger)

	err = gridtui.Run(gridtui.Config{
		Store:   eng.repo,
		Cache:   eng.cache,
		Updates: eng.scheduler,
		Theme:   cfg.TUI.Theme,
		Context: eng.ctx,
	})
	if err != nil {
		logger.Error().Err(err).Msg("ui exited with error")
	}
	return err
}

// engine owns the store connection and the background refresh loops.
type engine struct {
	db        *db.DB
	repo      *db.TaskRepository
	cache     *grid.Cache
	scheduler *grid.Scheduler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func openEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	dbCfg := db.DefaultConfig()
	dbCfg.Driver = cfg.Database.Driver
	dbCfg.DSN = cfg.Database.DSN
	if cfg.Database.MaxOpenConns > 0 {
		dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	}
	database, err := db.Open(ctx, dbCfg)
	if err != nil {
		return nil, err
	}

	repo := db.NewTaskRepository(database)
	cache := grid.NewCache()
	runCtx, cancel := context.WithCancel(ctx)
	return &engine{
		db:    database,
		repo:  repo,
		cache: cache,
		scheduler: grid.NewScheduler(repo, cache, grid.SchedulerConfig{
			PrimaryInterval:   cfg.Refresh.PrimaryInterval,
			SecondaryInterval: cfg.Refresh.SecondaryInterval,
		}),
		ctx:    runCtx,
		cancel: cancel,
	}, nil
}

// Start launches the refresh loops. They stop when Close is called.
func (e *engine) Start(logger zerolog.Logger) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.scheduler.Run(e.ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("refresh loops stopped")
		}
	}()
}

// Close stops the refresh loops, waits for them and releases the store.
func (e *engine) Close() error {
	e.cancel()
	e.wg.Wait()
	return e.db.Close()
}

var _ io.Closer = (*engine)(nil)

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity/dispatcher"
	"github.com/goliatone/go-entity/entity"
	"github.com/goliatone/go-entity/pkg/backend/sqlstore"
	"github.com/goliatone/go-entity/pkg/model"
	"github.com/goliatone/go-entity/repository"
)

// app carries the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	driver     string
	dsn        string
	verbose    bool

	out    io.Writer
	logger *slog.Logger
	store  *sqlstore.Store
	models *model.Container
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "entityctl",
		Short: "Store and inspect entities",
		Long: `entityctl keeps entities of any kind as JSON documents in SQLite or
PostgreSQL. Reads go through the configured cache.

Settings come from --config and GOENTITY_ prefixed environment variables,
for example GOENTITY_STORE_DSN or GOENTITY_CACHE_DRIVER.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.close() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&a.driver, "driver", "", "database driver, sqlite3 or postgres (overrides config)")
	flags.StringVar(&a.dsn, "dsn", "", "database DSN (overrides config)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.putCmd(),
		a.getCmd(),
		a.rmCmd(),
		a.listCmd(),
		a.kindsCmd(),
	)
	return root
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.dsn != "" {
		cfg.Store.DSN = a.dsn
	}

	db, err := sqlstore.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	a.store = sqlstore.New(db)
	if err := a.store.Migrate(cmd.Context()); err != nil {
		_ = a.store.Close()
		return err
	}

	a.models, err = model.NewContainerFromConfig(cfg, model.WithLogger(a.logger))
	if err != nil {
		_ = a.store.Close()
		return err
	}
	a.logger.Debug("store opened", "driver", cfg.Store.Driver, "cache", cfg.Cache.Driver)
	return nil
}

func (a *app) close() error {
	var err error
	if a.models != nil {
		err = a.models.Close()
	}
	if a.store != nil {
		if cerr := a.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// dispatcher registers kind with the container on first use.
func (a *app) dispatcher(kind string) (*dispatcher.Dispatcher, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}
	for _, name := range a.models.Names() {
		if name == kind {
			return a.models.Dispatcher(kind)
		}
	}
	k := entity.NewKind(kind)
	err := a.models.Register(kind, func() (repository.Backend, error) {
		return a.store.Backend(k), nil
	})
	if err != nil {
		return nil, err
	}
	return a.models.Dispatcher(kind)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/S0me0neR0man/homebox/internal/config"
	"github.com/S0me0neR0man/homebox/internal/logger"
	"github.com/S0me0neR0man/homebox/internal/stashdb"
	"github.com/S0me0neR0man/homebox/internal/storage"
)

// RootOptions holds the global flags of every command
type RootOptions struct {
	Flags config.Flags
}

// NewRootCommand creates the root command of the homebox CLI
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "homebox",
		Short: "Homebox - inventory of containers and the items in them",
		Long: `Homebox keeps track of physical containers, the items stored in them
and their photos, in a single embedded ordered key-value store.`,
		SilenceUsage: true,
	}

	opts.Flags.Register(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))

	return cmd
}

// env the opened process resources shared by the commands
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Store
	stash  *stashdb.Stash
}

func (e *env) Close() error {
	err := e.store.Close()
	_ = e.logger.Sync()
	return err
}

// open loads the configuration and opens the store; readOnly forces a
// read-only store whatever the file says
func open(cmd *cobra.Command, opts *RootOptions, readOnly bool) (*env, error) {
	cfg, err := opts.Flags.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if readOnly {
		cfg.Database.ReadOnly = true
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.StorageOptions(), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{
		cfg:    cfg,
		logger: log,
		store:  store,
		stash:  stashdb.NewStash(store, log),
	}, nil
}

// Package cli wires the chores command tree. With no subcommand it opens
// the terminal UI; the subcommands script the same household operations.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/config"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/logging"
	"github.com/tgienger/chores/internal/ui"
)

// BuildInfo is set from ldflags in main
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Verbose    bool

	Build BuildInfo
	// Now pins the clock; nil means time.Now.
	Now func() time.Time
}

// NewRootCommand creates the chores command
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "chores",
		Short:         "Household chore rotation tracker",
		Long:          "Track who does which household chore, rotate duty on completion, and see the week at a glance.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/chores/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database file (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newMemberCommand(opts))
	cmd.AddCommand(newTaskCommand(opts))
	cmd.AddCommand(newCompleteCommand(opts))
	cmd.AddCommand(newUndoCommand(opts))
	cmd.AddCommand(newAssignCommand(opts))
	cmd.AddCommand(newUnassignCommand(opts))
	cmd.AddCommand(newAssignmentsCommand(opts))
	cmd.AddCommand(newWeekCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newTransferCommand(opts, "upload", "Merge the local copy into the shared store"))
	cmd.AddCommand(newTransferCommand(opts, "download", "Overwrite the local copy from the shared store"))
	cmd.AddCommand(newTransferCommand(opts, "sync", "Upload then download the local copy"))
	cmd.AddCommand(newResetCommand(opts))
	cmd.AddCommand(newConfigCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))

	return cmd
}

// session is everything one command invocation needs
type session struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *db.DB
	svc       *household.Service
	bridge    *backup.Bridge
	localPath string
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// configPath is --config, or the XDG default
func (o *RootOptions) configPath() (string, error) {
	if o.ConfigPath != "" {
		return o.ConfigPath, nil
	}
	p, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return p, nil
}

// open loads config, starts logging, opens the store and fills the mirror
func (o *RootOptions) open(ctx context.Context, watch bool) (*session, error) {
	cfgPath, err := o.configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if o.DBPath != "" {
		cfg.Database.Path = o.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	dataDir, err := db.DataDir()
	if err != nil {
		return nil, fmt.Errorf("locate data directory: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(dataDir, "chores.db")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dataDir, "chores.log")
	}
	if cfg.Backup.LocalPath == "" {
		cfg.Backup.LocalPath = filepath.Join(dataDir, "local.json")
	}

	level, _ := cfg.LogLevel()
	if o.Verbose {
		level = zapcore.DebugLevel
	}
	logger, err := logging.New(cfg.Log.File, level)
	if err != nil {
		return nil, err
	}

	loc, _ := cfg.Location()
	store, err := db.New(cfg.Database.Path, db.Options{
		HistoryLimit: cfg.Database.HistoryLimit,
		Watch:        watch && cfg.Database.Watch,
		Logger:       logger,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	svc := household.New(store, household.Options{Logger: logger, Location: loc, Now: o.now})
	if err := svc.Sync(ctx); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, err
	}

	return &session{
		cfg:       cfg,
		log:       logger,
		store:     store,
		svc:       svc,
		bridge:    backup.New(store, backup.Options{Logger: logger, Now: o.now}),
		localPath: cfg.Backup.LocalPath,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn("close database", zap.Error(err))
	}
	_ = s.log.Sync()
}

// withSession adapts a session-taking func to cobra's RunE
func withSession(opts *RootOptions, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := opts.open(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, s, args)
	}
}

func runTUI(ctx context.Context, opts *RootOptions) error {
	s, err := opts.open(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	app := ui.NewApp(s.svc, s.bridge, ui.Options{LocalPath: s.localPath, Logger: s.log})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func newVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := opts.Build
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "chores %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.Date)
			return err
		},
	}
}

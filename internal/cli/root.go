// Package cli implements the projectpilot command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/myselfvenky/projectpilot/internal/app"
	"github.com/myselfvenky/projectpilot/internal/config"
	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/logging"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	logLevel   string
	dataDir    string
}

// appOptions builds the App options for a session. Tests replace it.
var appOptions = func(logger *logging.Logger) app.Options {
	return app.Options{Logger: logger}
}

// NewRootCommand builds the projectpilot command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "projectpilot",
		Short: "Open local projects in your editor",
		Long: `projectpilot keeps a list of local development projects and opens them in
the editor of your choice.

Run without arguments to browse projects in the terminal UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default is the user config directory)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, or error")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory that holds the project database")

	root.AddCommand(
		newListCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newMoveCmd(opts),
		newOpenCmd(opts),
		newFolderCmd(opts),
		newBrowseCmd(opts),
		newCloneCmd(opts),
		newEditorsCmd(opts),
		newStatsCmd(opts),
		newDoctorCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// Execute runs the root command. Interrupts cancel the running operation.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand()
	root.Version = version
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", perrors.UserMessage(err))
		return err
	}
	return nil
}

// session is the configuration, logger, and App for one command.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	app    *app.App
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.Storage.Dir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// open starts a session. With logToFile set, logs go to the log file so
// they do not corrupt the terminal UI.
func (o *rootOptions) open(cmd *cobra.Command, logToFile bool) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := &logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if logToFile {
		logCfg.File = cfg.LogFile()
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := app.NewApp(cmd.Context(), cfg, appOptions(logger))
	return &session{cfg: cfg, logger: logger, app: a}, nil
}

func (s *session) Close() {
	_ = s.app.Close()
	_ = s.logger.Close()
}

// warnDisconnected notes on stderr that reads are empty because no backend
// could be opened.
func (s *session) warnDisconnected(cmd *cobra.Command) {
	if !s.app.Store.Connected() {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", perrors.UserMessage(perrors.ErrNotConnected))
	}
}

// resultErr converts a failed result to an error.
func resultErr(res app.Result) error {
	if res.Success {
		return nil
	}
	if err := res.Err(); err != nil {
		return err
	}
	return perrors.New(res.Error)
}

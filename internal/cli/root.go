// Package cli wires the cobra command tree: the default generate-and-commit
// flow plus server, doctor, and config utility commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"commitgen/internal/config"
)

// version is stamped by the release build via -ldflags.
var version = "dev"

// rootOptions carries flag state shared by the command tree.
type rootOptions struct {
	configPath string
	model      string
	logLevel   string
	yes        bool
	dryRun     bool

	cfg config.Config
	log zerolog.Logger
}

// NewRootCmd constructs the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "commitgen",
		Short:         "Generate a commit message for staged changes with a local LLM",
		Long: "commitgen reads the staged diff, makes sure the local inference server\n" +
			"(LM Studio) is running with the configured model, asks it for a one-line\n" +
			"commit message, and commits once you confirm.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(opts.configPath)
			if err != nil {
				return err
			}
			if opts.model != "" {
				cfg.Model = opts.model
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			opts.cfg = cfg
			opts.log = newLogger(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ./commitgen.toml, then XDG config dir)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults COMMITGEN_LOG_LEVEL or info)")
	root.Flags().StringVar(&opts.model, "model", "", "Model id to use (defaults COMMITGEN_MODEL or the config file)")
	root.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Commit without asking for confirmation")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the proposed message and exit without committing")

	root.AddCommand(newServerCmd(opts))
	root.AddCommand(newDoctorCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the commitgen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "commitgen "+version)
		},
	})
	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// newLogger builds the console logger every component receives.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(lvl)
}

// Package cli implements the headless sheet-sifter command tree: the same
// load, filter and export pipeline as the desktop application, driven by
// flags.
package cli

import (
	"context"
	"errors"
	"fmt"

	"sheet-sifter/internal/config"
	"sheet-sifter/internal/logger"

	"github.com/spf13/cobra"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

type loggerKey struct{}

func loggerFrom(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logger.Logger); ok {
		return l
	}
	return logger.Nop{}
}

// NewRootCommand constructs the top-level command with all subcommands.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sheet-sifter-cli",
		Short: "Filter spreadsheet rows by column and export the result",
		Long: `sheet-sifter-cli loads the first worksheet of an .xlsx or .xls file,
applies per-column filters and prints or exports the matching rows.

Filters combine with AND across columns. --contains matches any of several
comma separated terms case-insensitively, --in keeps rows whose value is one
of the listed values, and --equals keeps rows equal to one value.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			log := logger.NewZerolog(cmd.ErrOrStderr(), logger.ParseLevel(cfg.EffectiveLogLevel()))
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.NewContext(ctx, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger.Logger(log))
			cmd.SetContext(ctx)

			log.Debug("cli", "configuration loaded", map[string]interface{}{
				"log_level":   cfg.EffectiveLogLevel(),
				"config_file": cfg.ConfigFile,
			})
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Int("membership-threshold", 30, "text columns with fewer distinct values get a value filter")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newFilterCommand(),
		newColumnsCommand(),
		newVersionCommand(),
	)

	return cmd
}

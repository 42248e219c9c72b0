package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"BoxOfficeETL/internal/app"
	"BoxOfficeETL/internal/config"
	"BoxOfficeETL/internal/logging"
	"BoxOfficeETL/internal/usecase"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "boxoffice",
	Short:         "boxoffice scrapes weekend box-office charts, enriches titles and loads them into SQL.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (defaults to $BOXOFFICE_CONFIG).")
}

// ExecuteContext runs the root command and exits non-zero on usage or configuration errors.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stageCommand builds a subcommand that runs one step of the application.
// Stage failures are logged and do not change the exit code; only a missing
// configuration does.
func stageCommand(use, short string, run func(*app.Application, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load(configPath)
			logger := newLogger(cfg, cmd.Name())

			err := run(app.New(cfg, logger), cmd.Context())
			if errors.Is(err, usecase.ErrLookupNotConfigured) {
				return err
			}
			if err != nil {
				logger.Error("stage finished with errors", "error", err)
				return nil
			}
			logger.Info("stage finished")
			return nil
		},
	}
}

func newLogger(cfg config.Config, command string) *slog.Logger {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format).With(
		"run_id", uuid.NewString(),
		"command", command,
	)
}

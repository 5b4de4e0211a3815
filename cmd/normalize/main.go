package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cohort/internal/config"
	"github.com/JonMunkholm/cohort/internal/logging"
	"github.com/JonMunkholm/cohort/internal/pipeline"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg := pipeline.MapError(err)
		slog.Error("normalization failed",
			"code", msg.Code,
			"message", msg.Message,
			"action", msg.Action,
			"error", err,
		)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "normalize",
		Short:         "Normalize cohort flat tables into a relational schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			*cfg = *loaded

			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}

	cmd.AddCommand(newRunCmd(cfg), newPlanCmd(cfg))
	return cmd
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append activity events from RabbitMQ to the activity log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := queue.OpenLog(cfg.Events.LogPath)
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logging.Info().Str("queue", cfg.Events.Queue).Str("log", cfg.Events.LogPath).Msg("consuming activity events")
		err = queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, f).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

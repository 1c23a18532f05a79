/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/mq"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the domain event stream",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print events as they are published",
	Long: `Subscribes to the configured broker (MQ_BACKEND=rabbitmq or pubsub)
and prints each event as a JSON line until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		backend, err := mq.Open(cmd.Context(), cfg.MQ)
		if err != nil {
			return err
		}
		if backend == nil {
			return errors.New("no message broker configured (set MQ_BACKEND)")
		}

		bus := mq.NewEventBus(backend, cfg.MQ.Channel)
		defer bus.Close()

		out := json.NewEncoder(cmd.OutOrStdout())
		err = bus.Subscribe(cmd.Context(), func(ctx context.Context, event types.Event) error {
			return out.Encode(event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("subscribe: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"

	"english-tutor-be/pkg/events"
	pktNats "english-tutor-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	eventType   string
	durableName string
	natsURL     string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail tutor events published to NATS",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&eventType, "type", "*", "event type to follow, e.g. TUTOR_TURN_COMPLETED")
	eventsCmd.Flags().StringVar(&durableName, "durable", "", "durable consumer name (ephemeral when empty)")
	eventsCmd.Flags().StringVar(&natsURL, "nats", os.Getenv("NATS_URL"), "NATS server URL")
}

func runEvents(cmd *cobra.Command, args []string) error {
	if natsURL == "" {
		return errors.New("--nats or NATS_URL is required")
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = sub.Subscribe(ctx, eventType, durableName, func(_ context.Context, e events.Event) error {
		data, _ := json.Marshal(e.Payload())
		color.Cyan("%s %s", e.Timestamp().Format("15:04:05"), e.EventType())
		color.White("  %s", data)
		return nil
	})
	if err != nil {
		return err
	}

	color.HiBlack("Listening on %s (Ctrl+C to stop)", pktNats.Subject(eventType))
	<-ctx.Done()
	return nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	sessionID string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice English against a running tutor server",
	Long: `practice talks to the tutor HTTP API from the terminal.

Available subcommands:
  chat     - Interactive conversation (/mode, /feedback, /clear, /quit)
  feedback - Print the feedback report for a session
  events   - Tail tutor events from NATS`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TUTOR_SERVER", "http://localhost:3000"), "tutor server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", os.Getenv("TUTOR_SESSION"), "session id (a new one is issued when empty)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "per request timeout")

	rootCmd.AddCommand(chatCmd, feedbackCmd, eventsCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

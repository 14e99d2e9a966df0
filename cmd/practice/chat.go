package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"english-tutor-be/internal/dto"
	"english-tutor-be/pkg/tutor/feedback"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive practice conversation",
	Long: `Start an interactive practice conversation.

Commands inside the conversation:
  /mode <tutor|chat> - switch mode (clears the conversation)
  /feedback          - show the feedback report
  /clear             - start over in the current mode
  /quit              - leave`,
	RunE: runChat,
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Print the feedback report for --session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionID == "" {
			return errors.New("--session is required")
		}
		client := newAPIClient(serverURL, sessionID)
		return showFeedback(cmd.Context(), client)
	},
}

func runChat(cmd *cobra.Command, args []string) error {
	client := newAPIClient(serverURL, sessionID)
	ctx := cmd.Context()

	color.Cyan("English practice. Type /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(color.New(color.Bold).Sprint("you> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch {
		case line == "/quit" || line == "/exit":
			if client.sessionID != "" {
				color.White("Session: %s", client.sessionID)
			}
			return nil
		case strings.HasPrefix(line, "/mode"):
			err = switchMode(ctx, client, strings.TrimSpace(strings.TrimPrefix(line, "/mode")))
		case line == "/feedback":
			err = showFeedback(ctx, client)
		case line == "/clear":
			err = clearConversation(ctx, client)
		case strings.HasPrefix(line, "/"):
			color.Yellow("Unknown command %s", line)
		default:
			err = sendMessage(ctx, client, line)
		}
		if err != nil {
			printError(err)
		}
	}
}

func sendMessage(ctx context.Context, client *apiClient, text string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var res dto.ChatResponse
	if err := client.do(ctx, "POST", "/chat", dto.ChatRequest{Message: text}, &res); err != nil {
		return err
	}

	for _, c := range res.Corrections {
		color.Red("  ✗ %s", c.Original)
		color.Green("  ✓ %s", c.Corrected)
		if c.Explanation != "" {
			color.White("    %s", c.Explanation)
		}
	}
	color.Cyan("tutor> %s", res.Message)
	color.HiBlack("  [%s mode, %d messages]", res.Mode, res.MessagesCount)
	return nil
}

func switchMode(ctx context.Context, client *apiClient, mode string) error {
	if mode == "" {
		return errors.New("usage: /mode <tutor|chat>")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.do(ctx, "POST", "/mode", dto.ModeRequest{Mode: mode}, nil); err != nil {
		return err
	}
	color.Yellow("Switched to %s mode.", strings.ToLower(mode))
	return nil
}

func clearConversation(ctx context.Context, client *apiClient) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.do(ctx, "POST", "/clear", nil, nil); err != nil {
		return err
	}
	color.Yellow("Conversation cleared.")
	return nil
}

func showFeedback(ctx context.Context, client *apiClient) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var report feedback.Report
	if err := client.do(ctx, "GET", "/feedback", nil, &report); err != nil {
		return err
	}

	color.Cyan("\nScore: %.0f/100 (%d messages)", report.OverallScore, report.TotalMessages)
	printList(color.GreenString("Strengths"), report.Strengths)
	printList(color.YellowString("Areas to improve"), report.AreasToImprove)
	printList(color.CyanString("Tips"), report.Tips)

	if len(report.GrammarErrors) > 0 {
		fmt.Println(color.RedString("Grammar"))
		for _, g := range report.GrammarErrors {
			fmt.Printf("  %s → %s\n", g.Original, g.Corrected)
		}
	}
	if len(report.VocabularySuggestions) > 0 {
		fmt.Println(color.MagentaString("Vocabulary"))
		for _, v := range report.VocabularySuggestions {
			fmt.Printf("  %s → %s\n", v.Original, strings.Join(v.BetterAlternatives, ", "))
		}
	}
	if report.Encouragement != "" {
		color.Green("\n%s\n", report.Encouragement)
	}
	return nil
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Println(title)
	for _, item := range items {
		fmt.Printf("  • %s\n", item)
	}
}

func printError(err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		color.Red("! %s", apiErr.Body.Message)
		if apiErr.Body.Draft != "" {
			color.HiBlack("  (your message: %q)", apiErr.Body.Draft)
		}
		return
	}
	color.Red("! %v", err)
}

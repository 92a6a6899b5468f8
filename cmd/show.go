package cmd

import (
	"context"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <conversation-id>",
	Short: "Print the overall sentiment of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new conversation and print its id",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(resetCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	return printConversation(cmd.Context(), cmd.OutOrStdout(), newClient(cfg), args[0], outputWidth())
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	return printVerdict(cmd.Context(), cmd.OutOrStdout(), newClient(cfg), args[0], outputWidth())
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	id, err := newClient(cfg).Reset(cmd.Context())
	if err != nil {
		return fmt.Errorf("error starting conversation: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

// printConversation renders a stored conversation the way the chat panel
// shows it.
func printConversation(ctx context.Context, w io.Writer, client *api.Client, id string, width int) error {
	messages, err := client.Conversation(ctx, id)
	if err != nil {
		return fmt.Errorf("error fetching conversation %s: %w", id, err)
	}
	if len(messages) == 0 {
		fmt.Fprintf(w, "Conversation %s has no messages.\n", id)
		return nil
	}
	_, err = lipgloss.Fprintln(w, ui.RenderTranscript(messages, width))
	return err
}

func printVerdict(ctx context.Context, w io.Writer, client *api.Client, id string, width int) error {
	verdict, err := client.Analyze(ctx, id)
	if err != nil {
		return fmt.Errorf("error analyzing conversation %s: %w", id, err)
	}
	_, err = lipgloss.Fprintln(w, ui.RenderVerdict(verdict, width))
	return err
}

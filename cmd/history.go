package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zhubert/moodring/internal/api"
	"github.com/zhubert/moodring/internal/logger"
	"github.com/zhubert/moodring/internal/ui"
)

// previewWidth bounds the preview column of the history table.
const previewWidth = 48

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List conversations stored on the server",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	return printHistory(cmd.Context(), cmd.OutOrStdout(), newClient(cfg))
}

// printHistory writes the conversation list in server order.
func printHistory(ctx context.Context, w io.Writer, client *api.Client) error {
	entries, err := client.History(ctx)
	if err != nil {
		return fmt.Errorf("error fetching history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversations yet.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorBorder)).
		Headers("DATE", "ID", "PREVIEW").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, e := range entries {
		preview := runewidth.Truncate(oneLine(ui.Sanitize(e.Preview())), previewWidth, "…")
		t.Row(e.DisplayDate(), e.ID, preview)
	}

	_, err = lipgloss.Fprintln(w, t.String())
	return err
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

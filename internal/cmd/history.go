package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/preguito/preguito/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:     "h",
		Aliases: []string{"history"},
		Short:   "View the commits made with guito",
		Long: `View the commits recorded by 'guito c', most recent first.

Examples:
  guito h                # Show last 20 entries
  guito h --limit 5      # Show last 5 entries
  guito h --grep 1234    # Entries whose title, body or card ID match
  guito h clear          # Clear all history`,
		Args: cobra.NoArgs,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display (0 for all)")
	historyCmd.Flags().StringP("grep", "g", "", "Only show entries matching a keyword")

	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	keyword, _ := cmd.Flags().GetString("grep")
	out := cmd.OutOrStdout()

	e, err := loadEnv(cmd, true)
	if err != nil {
		return err
	}

	historyMgr := e.historyManager()
	if historyMgr == nil {
		fmt.Fprintln(out, `History is disabled. Set "history.enabled" to true in your config.`)
		return nil
	}

	var entries []*history.Entry
	if keyword != "" {
		entries, err = historyMgr.Search(keyword, limit)
	} else {
		entries, err = historyMgr.List(limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))
	for i, entry := range entries {
		printHistoryEntry(out, entry, i+1)
	}
	return nil
}

func printHistoryEntry(out io.Writer, entry *history.Entry, index int) {
	fmt.Fprintf(out, "[%d] %s", index, entry.Timestamp.Format(time.RFC3339))
	if entry.Branch != "" {
		fmt.Fprintf(out, " on %s", entry.Branch)
	}
	fmt.Fprintln(out)

	var meta []string
	if entry.CardID != "" {
		meta = append(meta, "card "+entry.CardID)
	}
	if entry.Type != "" {
		meta = append(meta, "type "+entry.Type)
	}
	if entry.Environment != "" {
		meta = append(meta, "env "+entry.Environment)
	}
	if len(meta) > 0 {
		fmt.Fprintf(out, "    %s\n", strings.Join(meta, ", "))
	}

	fmt.Fprintf(out, "    %s\n", entry.Title)
	if entry.Body != "" {
		for _, line := range strings.Split(entry.Body, "\n") {
			fmt.Fprintf(out, "      %s\n", line)
		}
	}
	fmt.Fprintln(out)
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, true)
			if err != nil {
				return err
			}

			historyMgr := e.historyManager()
			if historyMgr == nil {
				e.ui.ShowInfo("History is disabled, nothing to clear.")
				return nil
			}

			if !yes {
				ok, err := e.ui.PromptConfirm("Clear all history entries?")
				if err != nil {
					return err
				}
				if !ok {
					e.ui.ShowInfo("Cancelled.")
					return nil
				}
			}

			if err := historyMgr.Clear(); err != nil {
				return err
			}

			e.ui.ShowSuccess("History cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

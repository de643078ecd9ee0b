package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/jsregexp/pkg/explore"
	"github.com/spf13/cobra"
)

var (
	exploreDB string
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively explore recorded runs",
	Long: `Launch an interactive TUI to browse runs recorded by conformance and bench.

Features:
  - Three-pane layout: filters, runs table, run details
  - Faceted search by engine, run kind, and outcome
  - Failed and skipped results listed first with their messages
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Sortable runs table`,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDB, "db", "jsregexp.db", "Path to the run database")
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(exploreDB)
	if err != nil {
		return fmt.Errorf("loading runs: %w", err)
	}
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}

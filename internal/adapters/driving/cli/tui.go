package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Ask questions in Hebrew or English and watch the answer stream in above the
matched procedures, browse ingested documents and review questions that
matched nothing.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Open
  n        - New question
  Esc      - Back
  q        - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Restore a readable stack trace if the program panics in alt-screen mode.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if searchService == nil {
		return errors.New("search service not configured")
	}
	if err := requireAccess(cmd); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Search:        searchService,
		Answer:        answerService,
		Document:      documentService,
		Question:      questionService,
		SearchOptions: searchDefaults,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

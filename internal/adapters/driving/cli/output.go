package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/render"
)

// stylesFor returns terminal styles when the command writes to a terminal,
// and plain styles otherwise.
func stylesFor(cmd *cobra.Command) render.Styles {
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return render.DefaultStyles()
	}
	return render.Styles{}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printDocuments(cmd *cobra.Command, docs []domain.AggregatedDocument) {
	styles := stylesFor(cmd)
	for i, doc := range docs {
		cmd.Printf("[%d] %s\n", i+1, doc.Filename)
		cmd.Println(render.Text(doc.Text, styles))
		cmd.Println()
	}
}

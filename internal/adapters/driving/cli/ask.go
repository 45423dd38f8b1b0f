package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askShowDocuments bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the procedure library",
	Long: `Searches the library and streams an answer generated from the matching documents.
When no document matches, the question is recorded as unanswered.
Requires the access password when one is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askShowDocuments, "documents", "d", false, "print the matched documents after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}
	if err := requireAccess(cmd); err != nil {
		return err
	}

	question := strings.Join(args, " ")
	answer, err := answerService.Ask(cmd.Context(), question, searchDefaults.WithDefaults())
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if !answer.HasResults() {
		cmd.Println("No matching procedures found. The question was recorded for review.")
		return nil
	}

	names := make([]string, len(answer.Documents))
	for i, d := range answer.Documents {
		names[i] = d.Filename
	}
	cmd.Printf("Sources: %s\n\n", strings.Join(names, ", "))

	if answer.Stream == nil {
		cmd.Println("Answer generation is not configured. Matched documents:")
		cmd.Println()
		printDocuments(cmd, answer.Documents)
		return nil
	}

	for fragment, err := range answer.Stream {
		if err != nil {
			cmd.Println()
			return fmt.Errorf("generating answer: %w", err)
		}
		cmd.Print(fragment)
	}
	cmd.Println()

	if askShowDocuments {
		cmd.Println()
		printDocuments(cmd, answer.Documents)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var questionsJSON bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Review questions that matched no document",
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unanswered questions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runQuestionsList,
}

var questionsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove an unanswered question",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuestionsDelete,
}

func init() {
	questionsListCmd.Flags().BoolVar(&questionsJSON, "json", false, "output questions as JSON")
	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsDeleteCmd)
	rootCmd.AddCommand(questionsCmd)
}

func runQuestionsList(cmd *cobra.Command, _ []string) error {
	if questionService == nil {
		return errors.New("question service not configured")
	}

	questions, err := questionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}

	if questionsJSON {
		return printJSON(cmd, questions)
	}
	if len(questions) == 0 {
		cmd.Println("No unanswered questions.")
		return nil
	}

	for _, q := range questions {
		cmd.Printf("  %s  %s  %s\n", q.ID, q.Timestamp.Local().Format("2006-01-02 15:04"), q.Question)
	}
	cmd.Printf("\nTotal: %d questions\n", len(questions))
	return nil
}

func runQuestionsDelete(cmd *cobra.Command, args []string) error {
	if questionService == nil {
		return errors.New("question service not configured")
	}

	if err := questionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	cmd.Printf("Deleted question %s\n", args[0])
	return nil
}

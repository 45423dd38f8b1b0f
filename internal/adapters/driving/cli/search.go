package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

var (
	searchLimit      int
	searchCandidates int
	searchThreshold  float64
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the procedure library",
	Long: `Embeds the query and returns one result per matching document.
Every chunk of a matched document is shown, with the matching passages highlighted.
Queries that match nothing are recorded as unanswered questions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of chunk hits (default from settings)")
	searchCmd.Flags().IntVar(&searchCandidates, "candidates", 0, "nearest-neighbour candidates to consider (default from settings)")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", 0, "minimum similarity score (default from settings)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := strings.Join(args, " ")
	results, err := searchService.Search(cmd.Context(), query, searchOptions(cmd))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	printDocuments(cmd, results)
	cmd.Printf("%d document(s) matched.\n", len(results))
	return nil
}

// searchOptions merges explicitly set flags over the configured defaults.
func searchOptions(cmd *cobra.Command) domain.SearchOptions {
	opts := searchDefaults
	flags := cmd.Flags()
	if flags.Changed("limit") {
		opts.Limit = searchLimit
	}
	if flags.Changed("candidates") {
		opts.Candidates = searchCandidates
	}
	if flags.Changed("threshold") {
		opts.Threshold = searchThreshold
	}
	return opts.WithDefaults()
}

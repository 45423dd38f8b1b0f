package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/render"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Browse ingested documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [source]",
	Short: "Print every chunk of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func init() {
	documentsShowCmd.Flags().BoolVar(&documentsJSON, "json", false, "output chunks as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	sources, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for _, s := range sources {
		cmd.Printf("  %s\n", s)
	}
	cmd.Printf("\nTotal: %d documents\n", len(sources))
	return nil
}

// chunkRecord is the exposed chunk shape.
type chunkRecord struct {
	Filename              string `json:"filename"`
	Heading               string `json:"heading,omitempty"`
	PlainText             string `json:"plain_text"`
	FormattedText         string `json:"formatted_text"`
	UniqueChunkIdentifier string `json:"unique_chunk_identifier"`
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunks, err := documentService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if documentsJSON {
		records := make([]chunkRecord, len(chunks))
		for i, c := range chunks {
			records[i] = chunkRecord{
				Filename:              c.Source,
				Heading:               c.Heading,
				PlainText:             c.PlainText,
				FormattedText:         c.FormattedText,
				UniqueChunkIdentifier: c.IdentityKey(),
			}
		}
		return printJSON(cmd, records)
	}

	styles := stylesFor(cmd)
	cmd.Printf("Document: %s (%d chunks)\n\n", args[0], len(chunks))
	for _, c := range chunks {
		cmd.Println(render.Text(c.DisplayText(), styles))
		cmd.Println()
	}
	return nil
}

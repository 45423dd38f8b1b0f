package cli

import (
	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/api"
)

var (
	serveAddr      string
	serveUploadDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve search, ask, upload and review endpoints over HTTP.

When an access password is configured, every /api request must carry it
in the X-Access-Password header.

Endpoints:
  POST   /api/search            {"query": "...", "limit": 10}
  POST   /api/ask               {"question": "..."} (streams text/plain)
  POST   /api/documents         multipart field "file"
  GET    /api/documents
  GET    /api/documents/:source
  GET    /api/questions
  DELETE /api/questions/:id
  GET    /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "", "directory for uploads while they are ingested (default: temp dir)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := api.NewServer(&api.Ports{
		Search:   searchService,
		Answer:   answerService,
		Ingest:   ingestService,
		Document: documentService,
		Question: questionService,
	}, api.Config{
		Gate:      accessGate,
		Search:    searchDefaults,
		UploadDir: serveUploadDir,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on http://localhost%s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}

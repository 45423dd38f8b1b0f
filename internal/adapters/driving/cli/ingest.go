package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

var (
	ingestSkipExisting bool
	ingestChunkSize    int
	ingestWatch        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]...",
	Short: "Ingest files or folders into the library",
	Long: `Loads each file (txt, docx, pdf), splits it into chunks, embeds every chunk
and stores it. Folders are walked recursively, skipping hidden entries.

With --watch, folders stay watched after the initial pass and files are
re-ingested as they are created or written. Stop with Ctrl+C.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSkipExisting, "skip-existing", true, "skip chunks that are already stored")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "word count that closes a document chunk (default from settings)")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching folders for changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	opts := ingestOptions(cmd)
	ctx := cmd.Context()

	var dirs []string
	var failed int
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			cmd.Printf("Failed %s: %v\n", path, err)
			failed++
			continue
		}

		if !info.IsDir() {
			report, err := ingestService.Ingest(ctx, path, opts)
			if err != nil {
				cmd.Printf("Failed %s: %v\n", path, err)
				failed++
				continue
			}
			printReport(cmd, report)
			continue
		}

		dirs = append(dirs, path)
		report, err := ingestService.IngestDir(ctx, path, opts)
		if err != nil {
			cmd.Printf("Failed %s: %v\n", path, err)
			failed++
			continue
		}
		for i := range report.Files {
			printReport(cmd, &report.Files[i])
		}
		failed += printFailures(cmd, report.Failures)
	}

	if ingestWatch && len(dirs) > 0 {
		return watchDirs(cmd, dirs, opts)
	}
	if failed > 0 {
		return fmt.Errorf("%d path(s) failed to ingest", failed)
	}
	return nil
}

// ingestOptions merges explicitly set flags over the configured defaults.
func ingestOptions(cmd *cobra.Command) driving.IngestOptions {
	opts := ingestDefaults
	if cmd.Flags().Changed("skip-existing") || opts == (driving.IngestOptions{}) {
		opts.SkipExisting = ingestSkipExisting
	}
	if cmd.Flags().Changed("chunk-size") {
		opts.ChunkSize = ingestChunkSize
	}
	return opts
}

func watchDirs(cmd *cobra.Command, dirs []string, opts driving.IngestOptions) error {
	cmd.Printf("Watching %d folder(s) for changes. Press Ctrl+C to stop.\n", len(dirs))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	onEvent := func(ev driving.WatchEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case ev.Err != nil:
			cmd.Printf("Failed %s: %v\n", ev.Path, ev.Err)
		case ev.Change == domain.ChangeDeleted:
			cmd.Printf("Removed %s (stored chunks kept)\n", ev.Path)
		case ev.Report != nil:
			printReport(cmd, ev.Report)
		}
	}

	for _, dir := range dirs {
		wg.Add(1)
		go func(dir string) {
			defer wg.Done()
			if err := ingestService.Watch(cmd.Context(), dir, opts, onEvent); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("watching %s: %w", dir, err))
				mu.Unlock()
			}
		}(dir)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func printReport(cmd *cobra.Command, r *driving.IngestReport) {
	cmd.Printf("Ingested %s: %d chunks, %d stored, %d skipped (%s)\n",
		r.Source, r.Chunks, r.Stored, r.Skipped, r.Duration.Round(time.Millisecond))
}

func printFailures(cmd *cobra.Command, failures map[string]error) int {
	paths := make([]string, 0, len(failures))
	for p := range failures {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		cmd.Printf("Failed %s: %v\n", p, failures[p])
	}
	return len(paths)
}

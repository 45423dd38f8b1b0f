// Package cli provides the command-line interface for the procedure library.
// It implements a driving adapter over the core services.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/access"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Global flags.
var (
	configPath string
	verbose    bool
	password   string
)

// Services wired by SetServices or the bootstrap hook.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	answerService   driving.AnswerService
	documentService driving.DocumentService
	questionService driving.QuestionService
	settingsService driving.SettingsService

	accessGate     access.Gate
	searchDefaults domain.SearchOptions
	ingestDefaults driving.IngestOptions
)

// Services aggregates everything the commands use.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Answer   driving.AnswerService
	Document driving.DocumentService
	Question driving.QuestionService
	Settings driving.SettingsService

	// Gate protects ask, tui and serve.
	Gate access.Gate

	// SearchDefaults are applied when a command leaves an option unset.
	SearchDefaults domain.SearchOptions

	// IngestDefaults are applied when ingest flags are not given.
	IngestDefaults driving.IngestOptions

	// Close releases stores and clients. May be nil.
	Close func() error
}

// BootstrapLevel says how much of the application a command needs.
type BootstrapLevel int

// Bootstrap levels.
const (
	// BootstrapNone wires nothing.
	BootstrapNone BootstrapLevel = iota

	// BootstrapSettings wires only the settings service.
	BootstrapSettings

	// BootstrapFull opens stores and AI clients.
	BootstrapFull
)

// levelAnnotation marks commands that need less than a full bootstrap.
const levelAnnotation = "bootstrap"

// BootstrapFunc builds services for the given config file.
type BootstrapFunc func(ctx context.Context, configPath string, level BootstrapLevel) (*Services, error)

var (
	bootstrap     BootstrapFunc
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "procedures",
	Short: "Search and ask questions over a library of support procedures",
	Long: `procedures ingests service-call logs and procedure documents (txt, docx, pdf),
stores their embeddings and answers questions from the most similar passages.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.procedures/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "access password (prompted when required)")
}

// SetBootstrap installs the hook that wires services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	searchService = s.Search
	answerService = s.Answer
	documentService = s.Document
	questionService = s.Question
	settingsService = s.Settings
	accessGate = s.Gate
	searchDefaults = s.SearchDefaults
	ingestDefaults = s.IngestDefaults
	closeServices = s.Close
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if err := shutdown(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	level := levelOf(cmd)
	if bootstrap == nil || level == BootstrapNone {
		return nil
	}

	svcs, err := bootstrap(cmd.Context(), configPath, level)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	SetServices(svcs)
	return nil
}

// levelOf walks up from cmd to the first command carrying a level annotation.
func levelOf(cmd *cobra.Command) BootstrapLevel {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Annotations[levelAnnotation] {
		case "none":
			return BootstrapNone
		case "settings":
			return BootstrapSettings
		}
	}
	return BootstrapFull
}

func shutdown() error {
	if closeServices == nil {
		return nil
	}
	fn := closeServices
	closeServices = nil
	return fn()
}

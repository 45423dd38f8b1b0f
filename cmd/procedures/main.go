package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pmatancambium/cambium-procedures/internal/access"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/ai"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/config/file"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/cli"
	"github.com/pmatancambium/cambium-procedures/internal/connectors/filesystem"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/core/services"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/pdf"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/plaintext"
	"github.com/pmatancambium/cambium-procedures/internal/parsers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the application for the requested level.
func bootstrap(ctx context.Context, configPath string, level cli.BootstrapLevel) (*cli.Services, error) {
	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("loading .env: %v", err)
	}

	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	for _, name := range configStore.ApplyEnv(os.LookupEnv) {
		logger.Debug("config override from %s", name)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	if level == cli.BootstrapSettings {
		return &cli.Services{Settings: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	stores, err := storage.Open(ctx, settings.Store)
	if err != nil {
		return nil, err
	}
	closers := []func() error{stores.Close}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	embedder, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	if embedder == nil {
		logger.Warn("embedding provider not configured; run 'procedures settings embedding'")
	} else {
		closers = append(closers, embedder.Close)
	}

	generator, err := ai.CreateAnswerGenerator(ctx, &settings.Answer)
	if err != nil {
		logger.Warn("answer provider unavailable, answers disabled: %v", err)
		generator = nil
	}
	if generator != nil {
		closers = append(closers, generator.Close)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	text := plaintext.New()
	pdfLoader := pdf.New(pdfExtractor(settings.Ingest))
	loaders := normalisers.NewRegistry(text, docx.New(), pdfLoader)

	parser := parsers.NewRegistry()
	parsers.RegisterDefaults(parser, text, pdfLoader)

	files := filesystem.New(parser.Formats()...)
	closers = append(closers, files.Close)

	search := services.NewSearchService(embedder, stores.Vectors, stores.Questions)

	return &cli.Services{
		Ingest: services.NewIngestService(loaders, parser, embedder, stores.Vectors, files, services.IngestConfig{
			ChunkSize: settings.Ingest.ChunkSize,
			BatchSize: settings.Ingest.BatchSize,
		}),
		Search:         search,
		Answer:         services.NewAnswerService(search, generator, prompts),
		Document:       services.NewDocumentService(stores.Vectors),
		Question:       services.NewQuestionService(stores.Questions),
		Settings:       settingsService,
		Gate:           access.NewGate(settings.Access.Password),
		SearchDefaults: settings.Search.Options(),
		IngestDefaults: driving.IngestOptions{
			ChunkSize:    settings.Ingest.ChunkSize,
			SkipExisting: settings.Ingest.SkipExisting,
		},
		Close: closeAll,
	}, nil
}

// pdfExtractor picks the configured backend, falling back to pdftotext
// when unipdf cannot be initialised.
func pdfExtractor(settings domain.IngestSettings) pdf.Extractor {
	if settings.PDFExtractor == domain.PDFExtractorPdftotext {
		return pdf.NewPdftotext()
	}
	extractor, err := pdf.NewUniPDF(settings.PDFLicenseKey)
	if err != nil {
		logger.Warn("unipdf unavailable, using pdftotext: %v", err)
		return pdf.NewPdftotext()
	}
	return extractor
}

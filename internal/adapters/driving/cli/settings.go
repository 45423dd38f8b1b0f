package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

var (
	settingsModel    string
	settingsAPIKey   string
	settingsSkipPing bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the vector store, embedding and answer providers.

Settings live in ~/.procedures/config.toml (or the file given with --config).
Environment variables such as MONGO_CONNECTION_STRING and GCP_PROJECT_ID
override file values without being written back.`,
	Annotations: map[string]string{levelAnnotation: "settings"},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the configured providers",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

var settingsStoreCmd = &cobra.Command{
	Use:       "store [backend]",
	Short:     "Select the vector store backend",
	Long:      "Select the vector store backend: " + joinValues(domain.AllStoreBackends()),
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringValues(domain.AllStoreBackends()),
	RunE:      runSettingsStore,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:       "embedding [provider]",
	Short:     "Configure the embedding provider",
	Long:      "Configure the embedding provider: " + joinValues(domain.AllEmbeddingProviders()),
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringValues(domain.AllEmbeddingProviders()),
	RunE:      runSettingsEmbedding,
}

var settingsAnswerCmd = &cobra.Command{
	Use:       "answer [provider]",
	Short:     "Configure the answer provider",
	Long:      "Configure the answer provider: " + joinValues(domain.AllAnswerProviders()),
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringValues(domain.AllAnswerProviders()),
	RunE:      runSettingsAnswer,
}

func init() {
	for _, c := range []*cobra.Command{settingsEmbeddingCmd, settingsAnswerCmd} {
		c.Flags().StringVar(&settingsModel, "model", "", "model name (default depends on the provider)")
		c.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key (prompted when the provider needs one)")
		c.Flags().BoolVar(&settingsSkipPing, "no-check", false, "save without pinging the provider")
	}

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	settingsCmd.AddCommand(settingsStoreCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsAnswerCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend.Description())
	switch settings.Store.Backend {
	case domain.StoreBackendMongo:
		cmd.Printf("  URI: %s\n", maskSecret(settings.Store.URI))
		cmd.Printf("  Database: %s\n", settings.Store.Database)
		cmd.Printf("  Collection: %s\n", settings.Store.Collection)
		cmd.Printf("  Vector Index: %s\n", settings.Store.VectorIndex)
	case domain.StoreBackendSQLite:
		cmd.Printf("  Path: %s\n", settings.Store.Path)
	case domain.StoreBackendQdrant:
		cmd.Printf("  Address: %s:%d\n", settings.Store.Host, settings.Store.Port)
		cmd.Printf("  Collection: %s\n", settings.Store.Collection)
		cmd.Printf("  Dimensions: %d\n", settings.Store.Dimensions)
	}
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	printProviderAccess(cmd, settings.Embedding.Provider, settings.Embedding.Project, settings.Embedding.Region, settings.Embedding.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Answer]")
	cmd.Printf("  Provider: %s\n", settings.Answer.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Answer.Model)
	printProviderAccess(cmd, settings.Answer.Provider, settings.Answer.Project, settings.Answer.Region, settings.Answer.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Answer.IsConfigured()))
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Candidates: %d\n", settings.Search.Candidates)
	cmd.Printf("  Limit: %d\n", settings.Search.Limit)
	cmd.Printf("  Threshold: %.2f\n", settings.Search.Threshold)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk Size: %d words\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Skip Existing: %t\n", settings.Ingest.SkipExisting)
	cmd.Printf("  PDF Extractor: %s\n", settings.Ingest.PDFExtractor)
	cmd.Println()

	cmd.Println("[Access]")
	if settings.Access.Enabled() {
		cmd.Println("  Password: set")
	} else {
		cmd.Println("  Password: (not set)")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'procedures settings --help' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cmd.Println("Settings: OK")

	cmd.Print("Embedding provider... ")
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.Answer.IsConfigured() {
		cmd.Println("Answer provider... not configured (ask will show matched documents only)")
		return nil
	}
	cmd.Print("Answer provider... ")
	if err := settingsService.ValidateAnswerConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("answer configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runSettingsStore(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.StoreBackend(strings.ToLower(args[0]))
	if err := settingsService.SetStoreBackend(backend); err != nil {
		return fmt.Errorf("failed to set store backend: %w", err)
	}
	cmd.Printf("Store backend set to: %s\n", backend.Description())
	return nil
}

//nolint:dupl // Mirrors runSettingsAnswer for the embedding side
func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	apiKey := promptAPIKey(cmd, provider)
	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	if !settingsSkipPing {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Embedding provider configured: %s\n", provider.Description())
	return nil
}

//nolint:dupl // Mirrors runSettingsEmbedding for the answer side
func runSettingsAnswer(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	apiKey := promptAPIKey(cmd, provider)
	if err := settingsService.SetAnswerProvider(provider, settingsModel, apiKey); err != nil {
		return fmt.Errorf("failed to configure answer provider: %w", err)
	}

	if !settingsSkipPing {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateAnswerConfig(cmd.Context()); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("answer configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Answer provider configured: %s\n", provider.Description())
	return nil
}

// promptAPIKey returns --api-key, prompting when the provider needs a key
// and none was given.
func promptAPIKey(cmd *cobra.Command, provider domain.AIProvider) string {
	if settingsAPIKey != "" || !provider.RequiresAPIKey() {
		return settingsAPIKey
	}
	cmd.Print("Enter API key: ")
	key := readSecret(cmd.InOrStdin())
	cmd.Println()
	return key
}

func printProviderAccess(cmd *cobra.Command, provider domain.AIProvider, project, region, apiKey string) {
	if provider.RequiresProject() {
		cmd.Printf("  Project: %s\n", valueOrUnset(project))
		cmd.Printf("  Region: %s\n", valueOrUnset(region))
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskSecret(apiKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func stringValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func joinValues[T ~string](values []T) string {
	return strings.Join(stringValues(values), ", ")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStoreBackend     = "store.backend"
	keyStoreURI         = "store.uri"
	keyStoreDatabase    = "store.database"
	keyStoreCollection  = "store.collection"
	keyStoreQuestions   = "store.questions_collection"
	keyStoreVectorIndex = "store.vector_index"
	keyStorePath        = "store.path"
	keyStoreHost        = "store.host"
	keyStorePort        = "store.port"
	keyStoreAPIKey      = "store.api_key"
	keyStoreTLS         = "store.tls"
	keyStoreDimensions  = "store.dimensions"

	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedTaskType    = "embedding.task_type"
	keyEmbedProject     = "embedding.project"
	keyEmbedRegion      = "embedding.region"
	keyEmbedCredentials = "embedding.credentials_file"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBaseURL     = "embedding.base_url"
	keyRetryAttempts    = "embedding.retry.max_attempts"
	keyRetryMultiplier  = "embedding.retry.multiplier"
	keyRetryMin         = "embedding.retry.min"
	keyRetryMax         = "embedding.retry.max"
	keyRetryRPS         = "embedding.retry.requests_per_second"

	keyAnswerProvider    = "answer.provider"
	keyAnswerModel       = "answer.model"
	keyAnswerProject     = "answer.project"
	keyAnswerRegion      = "answer.region"
	keyAnswerCredentials = "answer.credentials_file"
	keyAnswerAPIKey      = "answer.api_key"
	keyAnswerBaseURL     = "answer.base_url"
	keyAnswerMaxTokens   = "answer.max_tokens"

	keySearchCandidates = "search.candidates"
	keySearchLimit      = "search.limit"
	keySearchThreshold  = "search.threshold"

	keyIngestChunkSize  = "ingest.chunk_size"
	keyIngestSkip       = "ingest.skip_existing"
	keyIngestBatchSize  = "ingest.batch_size"
	keyIngestExtractor  = "ingest.pdf_extractor"
	keyIngestPDFLicense = "ingest.pdf_license_key"

	keyAccessPassword = "access.password"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	embedModel := s.getString(keyEmbedModel, defaultModel(domain.DefaultEmbeddingModels(), embedProvider, defaults.Embedding.Model))
	answerProvider := s.getProvider(keyAnswerProvider, defaults.Answer.Provider)

	dims := defaults.Store.Dimensions
	if d, ok := domain.EmbeddingDimensions()[embedModel]; ok {
		dims = d
	}

	settings := &domain.AppSettings{
		Store: domain.StoreSettings{
			Backend:             s.getBackend(defaults.Store.Backend),
			URI:                 s.configStore.GetString(keyStoreURI),
			Database:            s.getString(keyStoreDatabase, defaults.Store.Database),
			Collection:          s.getString(keyStoreCollection, defaults.Store.Collection),
			QuestionsCollection: s.getString(keyStoreQuestions, defaults.Store.QuestionsCollection),
			VectorIndex:         s.getString(keyStoreVectorIndex, defaults.Store.VectorIndex),
			Path:                s.configStore.GetString(keyStorePath),
			Host:                s.getString(keyStoreHost, defaults.Store.Host),
			Port:                s.getInt(keyStorePort, defaults.Store.Port),
			APIKey:              s.configStore.GetString(keyStoreAPIKey),
			UseTLS:              s.getBool(keyStoreTLS, defaults.Store.UseTLS),
			Dimensions:          s.getInt(keyStoreDimensions, dims),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:        embedProvider,
			Model:           embedModel,
			TaskType:        s.getString(keyEmbedTaskType, defaults.Embedding.TaskType),
			Project:         s.configStore.GetString(keyEmbedProject),
			Region:          s.configStore.GetString(keyEmbedRegion),
			CredentialsFile: s.configStore.GetString(keyEmbedCredentials),
			APIKey:          s.apiKey(keyEmbedAPIKey, embedProvider),
			BaseURL:         s.configStore.GetString(keyEmbedBaseURL),
			Retry: domain.RetrySettings{
				MaxAttempts:       s.getInt(keyRetryAttempts, defaults.Embedding.Retry.MaxAttempts),
				Multiplier:        s.getDuration(keyRetryMultiplier, defaults.Embedding.Retry.Multiplier),
				Min:               s.getDuration(keyRetryMin, defaults.Embedding.Retry.Min),
				Max:               s.getDuration(keyRetryMax, defaults.Embedding.Retry.Max),
				RequestsPerSecond: s.getFloat(keyRetryRPS, defaults.Embedding.Retry.RequestsPerSecond),
			},
		},
		Answer: domain.AnswerSettings{
			Provider:        answerProvider,
			Model:           s.getString(keyAnswerModel, defaultModel(domain.DefaultAnswerModels(), answerProvider, defaults.Answer.Model)),
			Project:         s.configStore.GetString(keyAnswerProject),
			Region:          s.configStore.GetString(keyAnswerRegion),
			CredentialsFile: s.configStore.GetString(keyAnswerCredentials),
			APIKey:          s.apiKey(keyAnswerAPIKey, answerProvider),
			BaseURL:         s.configStore.GetString(keyAnswerBaseURL),
			MaxTokens:       s.getInt(keyAnswerMaxTokens, defaults.Answer.MaxTokens),
		},
		Search: domain.SearchSettings{
			Candidates: s.getInt(keySearchCandidates, defaults.Search.Candidates),
			Limit:      s.getInt(keySearchLimit, defaults.Search.Limit),
			Threshold:  s.getFloat(keySearchThreshold, defaults.Search.Threshold),
		},
		Ingest: domain.IngestSettings{
			ChunkSize:     s.getInt(keyIngestChunkSize, defaults.Ingest.ChunkSize),
			SkipExisting:  s.getBool(keyIngestSkip, defaults.Ingest.SkipExisting),
			BatchSize:     s.getInt(keyIngestBatchSize, defaults.Ingest.BatchSize),
			PDFExtractor:  s.getExtractor(defaults.Ingest.PDFExtractor),
			PDFLicenseKey: s.configStore.GetString(keyIngestPDFLicense),
		},
		Access: domain.AccessSettings{
			Password: s.configStore.GetString(keyAccessPassword),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty secrets are not written so that
// values supplied through the environment never land in the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStoreBackend, settings.Store.Backend.String()},
		{keyStoreDatabase, settings.Store.Database},
		{keyStoreCollection, settings.Store.Collection},
		{keyStoreQuestions, settings.Store.QuestionsCollection},
		{keyStoreVectorIndex, settings.Store.VectorIndex},
		{keyStorePath, settings.Store.Path},
		{keyStoreHost, settings.Store.Host},
		{keyStorePort, settings.Store.Port},
		{keyStoreTLS, settings.Store.UseTLS},
		{keyStoreDimensions, settings.Store.Dimensions},

		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedTaskType, settings.Embedding.TaskType},
		{keyEmbedProject, settings.Embedding.Project},
		{keyEmbedRegion, settings.Embedding.Region},
		{keyEmbedCredentials, settings.Embedding.CredentialsFile},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyRetryAttempts, settings.Embedding.Retry.MaxAttempts},
		{keyRetryMultiplier, settings.Embedding.Retry.Multiplier.String()},
		{keyRetryMin, settings.Embedding.Retry.Min.String()},
		{keyRetryMax, settings.Embedding.Retry.Max.String()},
		{keyRetryRPS, settings.Embedding.Retry.RequestsPerSecond},

		{keyAnswerProvider, settings.Answer.Provider.String()},
		{keyAnswerModel, settings.Answer.Model},
		{keyAnswerProject, settings.Answer.Project},
		{keyAnswerRegion, settings.Answer.Region},
		{keyAnswerCredentials, settings.Answer.CredentialsFile},
		{keyAnswerBaseURL, settings.Answer.BaseURL},
		{keyAnswerMaxTokens, settings.Answer.MaxTokens},

		{keySearchCandidates, settings.Search.Candidates},
		{keySearchLimit, settings.Search.Limit},
		{keySearchThreshold, settings.Search.Threshold},

		{keyIngestChunkSize, settings.Ingest.ChunkSize},
		{keyIngestSkip, settings.Ingest.SkipExisting},
		{keyIngestBatchSize, settings.Ingest.BatchSize},
		{keyIngestExtractor, string(settings.Ingest.PDFExtractor)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := map[string]string{
		keyStoreURI:         settings.Store.URI,
		keyStoreAPIKey:      settings.Store.APIKey,
		keyEmbedAPIKey:      settings.Embedding.APIKey,
		keyAnswerAPIKey:     settings.Answer.APIKey,
		keyIngestPDFLicense: settings.Ingest.PDFLicenseKey,
		keyAccessPassword:   settings.Access.Password,
	}
	for key, value := range secrets {
		if value == "" {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetStoreBackend selects the vector store backend.
func (s *SettingsService) SetStoreBackend(backend domain.StoreBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid store backend: %s", backend)
	}
	return s.configStore.Set(keyStoreBackend, backend.String())
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = defaultModel(domain.DefaultEmbeddingModels(), provider, settings.Embedding.Model)
	}
	settings.Embedding.APIKey = apiKey

	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Store.Dimensions = d
	}

	return s.Save(settings)
}

// SetAnswerProvider configures the answer provider.
func (s *SettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid answer provider: %s", provider)
	}
	if !contains(domain.AllAnswerProviders(), provider) {
		return fmt.Errorf("provider %s does not generate answers", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Answer.Provider = provider
	settings.Answer.Model = model
	if model == "" {
		settings.Answer.Model = defaultModel(domain.DefaultAnswerModels(), provider, settings.Answer.Model)
	}
	settings.Answer.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the settings needed by ingest and search are present.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if settings.Store.Backend == domain.StoreBackendMongo && settings.Store.URI == "" {
		errs = append(errs, errors.New("store backend mongo requires store.uri or MONGO_CONNECTION_STRING"))
	}
	if !settings.Embedding.IsConfigured() {
		switch {
		case settings.Embedding.Provider.RequiresProject():
			errs = append(errs, fmt.Errorf("embedding provider %s requires embedding.project or GCP_PROJECT_ID", settings.Embedding.Provider))
		case settings.Embedding.Provider.RequiresAPIKey():
			errs = append(errs, fmt.Errorf("embedding provider %s requires an API key", settings.Embedding.Provider))
		default:
			errs = append(errs, fmt.Errorf("provider %s does not support embeddings", settings.Embedding.Provider))
		}
	}
	if t := settings.Search.Threshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("search threshold %v must be in (0, 1]", t))
	}
	if settings.Ingest.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("ingest chunk size %d must be positive", settings.Ingest.ChunkSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateAnswerConfig validates the current answer configuration by pinging the provider.
func (s *SettingsService) ValidateAnswerConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateAnswer(ctx, &settings.Answer)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration reads a Go duration string such as "10s".
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// apiKey prefers the section key and falls back to the provider-wide key,
// e.g. "openai.api_key".
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.configStore.GetString(provider.String() + ".api_key")
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getExtractor(defaultVal domain.PDFExtractor) domain.PDFExtractor {
	switch e := domain.PDFExtractor(s.configStore.GetString(keyIngestExtractor)); e {
	case domain.PDFExtractorUniPDF, domain.PDFExtractorPdftotext:
		return e
	default:
		return defaultVal
	}
}

func defaultModel(models map[domain.AIProvider]string, provider domain.AIProvider, fallback string) string {
	if m, ok := models[provider]; ok {
		return m
	}
	return fallback
}

func contains[T comparable](items []T, want T) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

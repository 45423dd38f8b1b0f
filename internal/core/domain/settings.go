package domain

import "time"

const unknownDescription = "Unknown"

// StoreBackend selects the vector store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendMongo is MongoDB Atlas with $vectorSearch.
	StoreBackendMongo StoreBackend = "mongo"

	// StoreBackendSQLite is a local SQLite file with brute-force cosine search.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendQdrant is a Qdrant collection.
	StoreBackendQdrant StoreBackend = "qdrant"

	// StoreBackendMemory keeps everything in process memory.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendMongo, StoreBackendSQLite, StoreBackendQdrant, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StoreBackend) Description() string {
	switch b {
	case StoreBackendMongo:
		return "MongoDB Atlas (vector search)"
	case StoreBackendSQLite:
		return "SQLite (local file)"
	case StoreBackendQdrant:
		return "Qdrant"
	case StoreBackendMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or answers.
type AIProvider string

// Available AI providers.
const (
	// AIProviderVertex is Google Vertex AI embeddings.
	AIProviderVertex AIProvider = "vertex"

	// AIProviderGemini is Gemini on Vertex AI.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderVertex, AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// RequiresProject returns true if this provider runs inside a Google Cloud project.
func (p AIProvider) RequiresProject() bool {
	return p == AIProviderVertex || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderVertex:
		return "Vertex AI (Google Cloud)"
	case AIProviderGemini:
		return "Gemini (Google Cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// StoreSettings holds vector store configuration.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// URI is the MongoDB connection string.
	URI string

	// Database is the MongoDB database name.
	Database string

	// Collection holds chunk records.
	Collection string

	// QuestionsCollection holds unanswered questions.
	QuestionsCollection string

	// VectorIndex is the Atlas vector search index name.
	VectorIndex string

	// Path is the SQLite data directory.
	Path string

	// Host and Port address the Qdrant gRPC endpoint.
	Host string
	Port int

	// APIKey authenticates against Qdrant Cloud.
	APIKey string

	// UseTLS enables TLS on the Qdrant connection.
	UseTLS bool

	// Dimensions is the vector size used when creating a Qdrant collection.
	Dimensions int
}

// RetrySettings is the back-off policy for embedding calls.
// The wait before retry n is Multiplier * 2^(n-1), clamped to [Min, Max].
type RetrySettings struct {
	// MaxAttempts caps the total number of calls, including the first.
	MaxAttempts int

	// Multiplier scales the exponential curve.
	Multiplier time.Duration

	// Min and Max clamp each wait.
	Min time.Duration
	Max time.Duration

	// RequestsPerSecond paces calls to the provider. Zero disables pacing.
	RequestsPerSecond float64
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// TaskType is the Vertex AI task hint.
	TaskType string

	// Project and Region locate the Vertex AI endpoint.
	Project string
	Region  string

	// CredentialsFile is a service account JSON key file.
	CredentialsFile string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BaseURL overrides the API endpoint (for OpenAI-compatible servers).
	BaseURL string

	// Retry is the back-off policy wrapped around every call.
	Retry RetrySettings
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider != AIProviderVertex && e.Provider != AIProviderOpenAI {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	if e.Provider.RequiresProject() && e.Project == "" {
		return false
	}
	return true
}

// AnswerSettings holds answer generator configuration.
type AnswerSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// Project and Region locate the Vertex AI endpoint.
	Project string
	Region  string

	// CredentialsFile is a service account JSON key file.
	CredentialsFile string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// BaseURL overrides the API endpoint (for OpenAI-compatible servers).
	BaseURL string

	// MaxTokens caps the generated answer length.
	MaxTokens int
}

// IsConfigured returns true if the answer provider is set up.
func (a AnswerSettings) IsConfigured() bool {
	if a.Provider != AIProviderGemini && a.Provider != AIProviderOpenAI && a.Provider != AIProviderAnthropic {
		return false
	}
	if a.Provider.RequiresAPIKey() && a.APIKey == "" {
		return false
	}
	if a.Provider.RequiresProject() && a.Project == "" {
		return false
	}
	return true
}

// SearchSettings holds the similarity query parameters used by host surfaces.
type SearchSettings struct {
	Candidates int
	Limit      int
	Threshold  float64
}

// Options converts the settings into per-query options.
func (s SearchSettings) Options() SearchOptions {
	return SearchOptions{
		Candidates: s.Candidates,
		Limit:      s.Limit,
		Threshold:  s.Threshold,
	}
}

// PDFExtractor selects the PDF text extraction backend.
type PDFExtractor string

// Available PDF extractors.
const (
	// PDFExtractorUniPDF uses the unipdf library.
	PDFExtractorUniPDF PDFExtractor = "unipdf"

	// PDFExtractorPdftotext shells out to poppler's pdftotext.
	PDFExtractorPdftotext PDFExtractor = "pdftotext"
)

// IngestSettings holds chunking and ingestion configuration.
type IngestSettings struct {
	// ChunkSize is the word-count threshold for rich-document chunks.
	ChunkSize int

	// SkipExisting skips chunks whose identity key is already stored.
	SkipExisting bool

	// BatchSize is the number of chunks embedded per call.
	BatchSize int

	// PDFExtractor selects the PDF backend.
	PDFExtractor PDFExtractor

	// PDFLicenseKey is the unipdf metered license key.
	PDFLicenseKey string
}

// AccessSettings holds the optional access gate.
type AccessSettings struct {
	// Password is required by interactive and network surfaces when non-empty.
	Password string
}

// Enabled reports whether the gate is active.
func (a AccessSettings) Enabled() bool {
	return a.Password != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	Store     StoreSettings
	Embedding EmbeddingSettings
	Answer    AnswerSettings
	Search    SearchSettings
	Ingest    IngestSettings
	Access    AccessSettings
}

// Default setting values.
const (
	DefaultDatabase            = "cambium-procedures"
	DefaultCollection          = "procedures"
	DefaultQuestionsCollection = "unanswered_questions"
	DefaultVectorIndex         = "vector_index"
	DefaultEmbeddingModel      = "text-multilingual-embedding-002"
	DefaultEmbeddingTaskType   = "SEMANTIC_SIMILARITY"
	DefaultAnswerModel         = "gemini-1.0-pro"
	DefaultAppThreshold        = 0.83
	DefaultChunkSize           = 100
	DefaultQdrantPort          = 6334
	DefaultDimensions          = 768
)

// DefaultRetrySettings returns 5 attempts with waits of 10s, 20s, 40s and 80s.
func DefaultRetrySettings() RetrySettings {
	return RetrySettings{
		MaxAttempts: 5,
		Multiplier:  10 * time.Second,
		Min:         10 * time.Second,
		Max:         320 * time.Second,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// Credentials and connection strings are left empty.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Store: StoreSettings{
			Backend:             StoreBackendMongo,
			Database:            DefaultDatabase,
			Collection:          DefaultCollection,
			QuestionsCollection: DefaultQuestionsCollection,
			VectorIndex:         DefaultVectorIndex,
			Host:                "localhost",
			Port:                DefaultQdrantPort,
			Dimensions:          DefaultDimensions,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderVertex,
			Model:    DefaultEmbeddingModel,
			TaskType: DefaultEmbeddingTaskType,
			Retry:    DefaultRetrySettings(),
		},
		Answer: AnswerSettings{
			Provider:  AIProviderGemini,
			Model:     DefaultAnswerModel,
			MaxTokens: 2048,
		},
		Search: SearchSettings{
			Candidates: DefaultSearchCandidates,
			Limit:      DefaultSearchLimit,
			Threshold:  DefaultAppThreshold,
		},
		Ingest: IngestSettings{
			ChunkSize:    DefaultChunkSize,
			SkipExisting: true,
			BatchSize:    1,
			PDFExtractor: PDFExtractorUniPDF,
		},
	}
}

// AllStoreBackends returns every store backend.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{
		StoreBackendMongo,
		StoreBackendSQLite,
		StoreBackendQdrant,
		StoreBackendMemory,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderVertex,
		AIProviderOpenAI,
	}
}

// AllAnswerProviders returns providers that can generate answers.
func AllAnswerProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderVertex: DefaultEmbeddingModel,
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultAnswerModels returns default models for each answer provider.
func DefaultAnswerModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    DefaultAnswerModel,
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Vertex AI models
		"text-multilingual-embedding-002": 768,
		"text-embedding-004":              768,
		"text-embedding-005":              768,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

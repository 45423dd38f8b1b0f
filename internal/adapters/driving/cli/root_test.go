package cli

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/access"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

type mockIngestService struct {
	reports   map[string]*driving.IngestReport
	dirReport *driving.DirReport
	err       error
	opts      []driving.IngestOptions
	watched   []string
}

func (m *mockIngestService) Ingest(_ context.Context, path string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.reports[path]; ok {
		return r, nil
	}
	return &driving.IngestReport{Source: path}, nil
}

func (m *mockIngestService) IngestDir(_ context.Context, _ string, opts driving.IngestOptions) (*driving.DirReport, error) {
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return nil, m.err
	}
	if m.dirReport != nil {
		return m.dirReport, nil
	}
	return &driving.DirReport{}, nil
}

func (m *mockIngestService) Watch(_ context.Context, dir string, _ driving.IngestOptions, onEvent func(driving.WatchEvent)) error {
	m.watched = append(m.watched, dir)
	onEvent(driving.WatchEvent{
		Path:   dir + "/new.txt",
		Change: domain.ChangeCreated,
		Report: &driving.IngestReport{Source: "new.txt", Chunks: 1, Stored: 1},
	})
	onEvent(driving.WatchEvent{Path: dir + "/old.txt", Change: domain.ChangeDeleted})
	return nil
}

type mockSearchService struct {
	results []domain.AggregatedDocument
	err     error
	query   string
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.AggregatedDocument, error) {
	m.query = query
	m.opts = opts
	return m.results, m.err
}

type mockAnswerService struct {
	documents []domain.AggregatedDocument
	fragments []string
	streamErr error
	err       error
	question  string
}

func (m *mockAnswerService) Ask(_ context.Context, question string, _ domain.SearchOptions) (*driving.Answer, error) {
	m.question = question
	if m.err != nil {
		return nil, m.err
	}
	answer := &driving.Answer{Question: question, Documents: m.documents}
	if len(m.documents) > 0 && (m.fragments != nil || m.streamErr != nil) {
		fragments, streamErr := m.fragments, m.streamErr
		answer.Stream = iter.Seq2[string, error](func(yield func(string, error) bool) {
			for _, f := range fragments {
				if !yield(f, nil) {
					return
				}
			}
			if streamErr != nil {
				yield("", streamErr)
			}
		})
	}
	return answer, nil
}

func (m *mockAnswerService) Available() bool {
	return m.fragments != nil
}

type mockDocumentService struct {
	sources []string
	chunks  map[string][]domain.Chunk
	err     error
}

func (m *mockDocumentService) List(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, source string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks, ok := m.chunks[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

type mockQuestionService struct {
	questions []domain.UnansweredQuestion
	deleted   []string
	err       error
}

func (m *mockQuestionService) List(_ context.Context) ([]domain.UnansweredQuestion, error) {
	return m.questions, m.err
}

func (m *mockQuestionService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockSettingsService struct {
	settings     domain.AppSettings
	validateErr  error
	embeddingErr error
	answerErr    error
	backend      domain.StoreBackend
	provider     domain.AIProvider
	model        string
	apiKey       string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) SetStoreBackend(backend domain.StoreBackend) error {
	if !backend.IsValid() {
		return domain.ErrInvalidInput
	}
	m.backend = backend
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) ValidateEmbeddingConfig(_ context.Context) error {
	return m.embeddingErr
}

func (m *mockSettingsService) ValidateAnswerConfig(_ context.Context) error {
	return m.answerErr
}

// testMocks are the services installed by setupTestServices.
type testMocks struct {
	ingest   *mockIngestService
	search   *mockSearchService
	answer   *mockAnswerService
	document *mockDocumentService
	question *mockQuestionService
	settings *mockSettingsService
}

var mocks *testMocks

func sampleDocuments() []domain.AggregatedDocument {
	return []domain.AggregatedDocument{
		{
			Filename:   "router.docx",
			Text:       "Unplug the " + domain.HighlightOpen + "router" + domain.HighlightClose + " for ten seconds.",
			Highlights: []string{"router"},
		},
	}
}

// setupTestServices installs fresh mocks and returns a cleanup func.
func setupTestServices() func() {
	mocks = &testMocks{
		ingest:   &mockIngestService{},
		search:   &mockSearchService{results: sampleDocuments()},
		answer:   &mockAnswerService{documents: sampleDocuments(), fragments: []string{"Unplug ", "it."}},
		document: &mockDocumentService{},
		question: &mockQuestionService{},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}
	SetServices(&Services{
		Ingest:   mocks.ingest,
		Search:   mocks.search,
		Answer:   mocks.answer,
		Document: mocks.document,
		Question: mocks.question,
		Settings: mocks.settings,
	})
	return func() {
		SetServices(nil)
		mocks = nil
	}
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "procedures", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "password"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "search", "ask", "documents", "questions", "settings", "serve", "mcp", "tui", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		want BootstrapLevel
	}{
		{versionCmd, BootstrapNone},
		{settingsCmd, BootstrapSettings},
		{settingsStoreCmd, BootstrapSettings},
		{searchCmd, BootstrapFull},
		{documentsListCmd, BootstrapFull},
	}
	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, levelOf(tt.cmd))
		})
	}
}

func TestBootstrap_CalledWithLevelAndConfig(t *testing.T) {
	var calls []BootstrapLevel
	var gotPath string
	closed := 0
	SetBootstrap(func(_ context.Context, path string, level BootstrapLevel) (*Services, error) {
		calls = append(calls, level)
		gotPath = path
		return &Services{
			Search:   &mockSearchService{},
			Settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
			Close: func() error {
				closed++
				return nil
			},
		}, nil
	})
	defer func() {
		SetBootstrap(nil)
		SetServices(nil)
		configPath = ""
	}()

	_, err := execute("version")
	require.NoError(t, err)
	assert.Empty(t, calls)

	_, err = execute("--config", "/tmp/procedures.toml", "search", "router")
	require.NoError(t, err)
	assert.Equal(t, []BootstrapLevel{BootstrapFull}, calls)
	assert.Equal(t, "/tmp/procedures.toml", gotPath)
	assert.Equal(t, 1, closed)

	_, err = execute("settings", "show")
	require.NoError(t, err)
	assert.Equal(t, []BootstrapLevel{BootstrapFull, BootstrapSettings}, calls)
	assert.Equal(t, 2, closed)
}

func TestBootstrap_Error(t *testing.T) {
	SetBootstrap(func(context.Context, string, BootstrapLevel) (*Services, error) {
		return nil, errors.New("mongo unreachable")
	})
	defer func() {
		SetBootstrap(nil)
		SetServices(nil)
	}()

	_, err := execute("search", "router")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting")
	assert.Contains(t, err.Error(), "mongo unreachable")
}

func TestSetServices_NilResets(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	require.NotNil(t, searchService)

	SetServices(nil)

	assert.Nil(t, searchService)
	assert.Nil(t, answerService)
	assert.False(t, accessGate.Enabled())
	assert.Equal(t, domain.SearchOptions{}, searchDefaults)
}

func TestShutdown_RunsOnce(t *testing.T) {
	calls := 0
	SetServices(&Services{Close: func() error {
		calls++
		return nil
	}})
	defer SetServices(nil)

	require.NoError(t, shutdown())
	require.NoError(t, shutdown())

	assert.Equal(t, 1, calls)
}

func TestExecute_ClosesServices(t *testing.T) {
	calls := 0
	SetServices(&Services{Close: func() error {
		calls++
		return nil
	}})
	defer SetServices(nil)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, Execute(ctx))

	assert.Equal(t, 1, calls)
}

func TestRequireAccess(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	accessGate = access.NewGate("s3cret")
	defer func() {
		password = ""
		rootCmd.SetIn(nil)
	}()

	_, err := execute("ask", "--password", "wrong", "how to reset?")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "access denied")
	assert.Empty(t, mocks.answer.question)

	password = ""
	rootCmd.SetIn(bytes.NewBufferString("s3cret\n"))
	out, err := execute("ask", "how to reset?")
	require.NoError(t, err)
	assert.Contains(t, out, "Password: ")
	assert.Equal(t, "how to reset?", mocks.answer.question)
}

func TestReadSecret_Line(t *testing.T) {
	assert.Equal(t, "abc", readSecret(bytes.NewBufferString("abc\nrest")))
	assert.Equal(t, "", readSecret(bytes.NewBufferString("")))
}

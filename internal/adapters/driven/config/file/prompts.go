package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// template describes a prompt the store knows how to serve.
type template struct {
	fallback string
	required []string
}

var templates = map[string]template{
	driven.PromptAnswer: {
		fallback: domain.DefaultAnswerPrompt,
		required: []string{domain.PromptContextPlaceholder},
	},
}

// cached is a prompt read from disk together with the file state it came from.
type cached struct {
	text    string
	modTime time.Time
	size    int64
}

// PromptStore serves answer prompts from <dir>/<name>.txt. Edited files are
// picked up on the next Load. A missing, unreadable or incomplete file yields
// the built-in template.
type PromptStore struct {
	dir string

	seed    sync.Once
	seedErr error

	mu    sync.Mutex
	files map[string]cached
}

// NewPromptStore returns a store rooted at dir, or ~/.procedures/prompts when
// dir is empty. Nothing is written until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".procedures", "prompts")
	}
	return &PromptStore{dir: dir, files: make(map[string]cached)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.seed.Do(func() { s.seedErr = s.writeDefaults() })
	if s.seedErr != nil {
		logger.Debug("prompt directory unavailable, using built-in %q: %v", name, s.seedErr)
		return tmpl.fallback, nil
	}

	text, err := s.read(name)
	if err == nil {
		err = checkPlaceholders(text, tmpl.required)
	}
	if err != nil {
		logger.Warn("prompt %q: %v; using built-in template", name, err)
		return tmpl.fallback, nil
	}
	return text, nil
}

// read returns the file contents, reusing the cached copy while the file is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.files[name]; ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
		return c.text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	s.files[name] = cached{text: text, modTime: info.ModTime(), size: info.Size()}
	return text, nil
}

func checkPlaceholders(text string, required []string) error {
	var missing []string
	for _, p := range required {
		if !strings.Contains(text, p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing placeholder %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// writeDefaults creates the directory, a file per template and a README,
// leaving existing files alone.
func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, tmpl := range templates {
		if err := writeIfMissing(s.path(name), tmpl.fallback); err != nil {
			return fmt.Errorf("write default prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme)
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

const promptReadme = "# Prompts\n\n" +
	"`answer.txt` is the template used to answer questions from the procedure library.\n" +
	"Changes apply to the next question without a restart.\n\n" +
	"Placeholders:\n\n" +
	"- `{context}` the matched documents, separated by blank lines (required)\n" +
	"- `{question}` the question as typed\n\n" +
	"Delete the file to get the built-in template back.\n"

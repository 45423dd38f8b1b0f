package normalisers

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry implements LoaderRegistry with extension-based selection.
type Registry struct {
	mu      sync.RWMutex
	loaders map[domain.Format]driven.Loader
}

// NewRegistry creates a loader registry with the given loaders registered.
func NewRegistry(loaders ...driven.Loader) *Registry {
	r := &Registry{
		loaders: make(map[domain.Format]driven.Loader),
	}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Register adds a loader, replacing any existing one for the same format.
func (r *Registry) Register(loader driven.Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loaders[loader.Format()] = loader
}

// Get returns the loader for a format, or nil.
func (r *Registry) Get(format domain.Format) driven.Loader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loaders[format]
}

// SupportedFormats returns the registered formats, sorted.
func (r *Registry) SupportedFormats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]domain.Format, 0, len(r.loaders))
	for f := range r.loaders {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ReadFile reads path into a RawDocument after checking the format is loadable.
func (r *Registry) ReadFile(path string) (*domain.RawDocument, error) {
	format, err := domain.FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Get(format) == nil {
		return nil, fmt.Errorf("%s: no loader for %s: %w", path, format, domain.ErrUnsupportedFormat)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", path, err, domain.ErrIO)
	}

	return &domain.RawDocument{
		Path:    path,
		Format:  format,
		Content: content,
	}, nil
}

// Load reads path and extracts its text with the matching loader.
func (r *Registry) Load(ctx context.Context, path string) (*domain.RawContent, error) {
	raw, err := r.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Get(raw.Format).Load(ctx, raw)
}

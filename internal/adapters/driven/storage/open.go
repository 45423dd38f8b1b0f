// Package storage opens the configured vector and question stores.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/atlas"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/memory"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/qdrant"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/sqlite"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Stores holds the opened stores and the resources behind them.
type Stores struct {
	Vectors   driven.VectorStore
	Questions driven.QuestionStore

	closers []io.Closer
}

// Close releases every resource. Safe to call on a nil receiver.
func (s *Stores) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Open connects to the backend selected in settings.
func Open(ctx context.Context, settings domain.StoreSettings) (*Stores, error) {
	logger.Debug("opening %s store", settings.Backend)

	switch settings.Backend {
	case domain.StoreBackendMongo:
		store, err := atlas.New(ctx, atlas.Config{
			URI:                 settings.URI,
			Database:            settings.Database,
			Collection:          settings.Collection,
			QuestionsCollection: settings.QuestionsCollection,
			VectorIndex:         settings.VectorIndex,
		})
		if err != nil {
			return nil, err
		}
		return &Stores{Vectors: store, Questions: store, closers: []io.Closer{store}}, nil

	case domain.StoreBackendSQLite:
		store, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return &Stores{Vectors: store.VectorStore(), Questions: store.QuestionStore(), closers: []io.Closer{store}}, nil

	case domain.StoreBackendQdrant:
		// Qdrant holds only vectors; the question log lives in the local SQLite file.
		questions, err := sqlite.NewStore(settings.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		vectors, err := qdrant.New(ctx, qdrant.Config{
			Host:       settings.Host,
			Port:       settings.Port,
			APIKey:     settings.APIKey,
			UseTLS:     settings.UseTLS,
			Collection: settings.Collection,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			questions.Close()
			return nil, err
		}
		return &Stores{
			Vectors:   vectors,
			Questions: questions.QuestionStore(),
			closers:   []io.Closer{questions, vectors},
		}, nil

	case domain.StoreBackendMemory:
		vectors := memory.NewVectorStore()
		return &Stores{Vectors: vectors, Questions: memory.NewQuestionStore(), closers: []io.Closer{vectors}}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q: %w", settings.Backend, domain.ErrInvalidInput)
	}
}

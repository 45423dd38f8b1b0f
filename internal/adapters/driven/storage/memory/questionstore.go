package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

var _ driven.QuestionStore = (*QuestionStore)(nil)

// QuestionStore is an in-memory driven.QuestionStore.
type QuestionStore struct {
	mu        sync.RWMutex
	questions map[string]domain.UnansweredQuestion
	now       func() time.Time
}

// NewQuestionStore creates an empty question store.
func NewQuestionStore() *QuestionStore {
	return &QuestionStore{
		questions: make(map[string]domain.UnansweredQuestion),
		now:       time.Now,
	}
}

// Record appends the question under a random UUID.
func (s *QuestionStore) Record(_ context.Context, question string) (domain.UnansweredQuestion, error) {
	q := domain.UnansweredQuestion{
		ID:        uuid.NewString(),
		Question:  question,
		Timestamp: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return q, nil
}

// List returns every question, newest first.
func (s *QuestionStore) List(_ context.Context) ([]domain.UnansweredQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.UnansweredQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		list = append(list, q)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].ID < list[j].ID
		}
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list, nil
}

// Delete removes a question by ID.
func (s *QuestionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

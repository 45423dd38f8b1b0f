package services

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// Ensure QuestionService implements the interface.
var _ driving.QuestionService = (*QuestionService)(nil)

// QuestionService exposes the unanswered question log.
type QuestionService struct {
	store driven.QuestionStore
}

// NewQuestionService creates a question service.
func NewQuestionService(store driven.QuestionStore) *QuestionService {
	return &QuestionService{store: store}
}

// List returns recorded questions, newest first.
func (s *QuestionService) List(ctx context.Context) ([]domain.UnansweredQuestion, error) {
	questions, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.UnansweredQuestion{}
	}
	return questions, nil
}

// Delete removes a question by id.
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}

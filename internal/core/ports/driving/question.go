package driving

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// QuestionService manages the unanswered question log.
type QuestionService interface {
	// List returns recorded questions, newest first.
	List(ctx context.Context) ([]domain.UnansweredQuestion, error)

	// Delete removes a question by id.
	Delete(ctx context.Context, id string) error
}

package driving

import (
	"context"
	"iter"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// AnswerService answers questions from the aggregated search context.
type AnswerService interface {
	// Ask searches for context and starts generating an answer.
	Ask(ctx context.Context, question string, opts domain.SearchOptions) (*Answer, error)

	// Available reports whether an answer generator is configured.
	Available() bool
}

// Answer is the outcome of Ask.
type Answer struct {
	// Question is the asked question.
	Question string

	// Documents are the aggregated search results used as context.
	Documents []domain.AggregatedDocument

	// Stream yields answer fragments. Nil when no documents matched or no
	// generator is configured.
	Stream iter.Seq2[string, error]
}

// HasResults reports whether any document matched.
func (a *Answer) HasResults() bool {
	return len(a.Documents) > 0
}

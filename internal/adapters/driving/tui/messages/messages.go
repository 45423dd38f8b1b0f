// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"iter"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input, answer and matched documents view.
	ViewAsk
	// ViewDocuments lists ingested documents.
	ViewDocuments
	// ViewDocContent shows the text of one document or search result.
	ViewDocContent
	// ViewQuestions lists unanswered questions.
	ViewQuestions
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewQuestions:
		return "questions"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SearchCompleted carries aggregated search results back to the model.
// It is used when no answer generator is configured.
type SearchCompleted struct {
	Query   string
	Results []domain.AggregatedDocument
	Err     error
}

// AnswerStarted carries the matched documents of an Ask call.
// A non-nil Stream is drained into AnswerFragment messages until
// AnswerFinished.
type AnswerStarted struct {
	Question  string
	Documents []domain.AggregatedDocument
	Stream    iter.Seq2[string, error]
	Err       error
}

// AnswerFragment carries the next piece of a streamed answer.
type AnswerFragment struct {
	Text string
}

// AnswerFinished signals the end of a streamed answer.
type AnswerFinished struct {
	Err error
}

// ResultOpened asks the app to show a search result in full.
type ResultOpened struct {
	Result domain.AggregatedDocument
}

// DocumentsLoaded carries the list of ingested documents.
type DocumentsLoaded struct {
	Sources []string
	Err     error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Source string
}

// DocumentContentLoaded carries the chunks of a document.
type DocumentContentLoaded struct {
	Source string
	Chunks []domain.Chunk
	Err    error
}

// QuestionsLoaded carries the unanswered question log.
type QuestionsLoaded struct {
	Questions []domain.UnansweredQuestion
	Err       error
}

// QuestionDeleted signals a question was removed from the log.
type QuestionDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

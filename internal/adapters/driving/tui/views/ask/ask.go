// Package ask provides the question view for the TUI: the question input,
// the streamed answer and the matched documents.
package ask

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/components/input"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/components/list"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/components/status"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/keymap"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// ErrNoSearchService indicates that no search service was provided.
var ErrNoSearchService = errors.New("search service is required")

// Notices shown above the matched documents.
const (
	noticeNoMatches   = "No matching procedures found. The question was recorded for review."
	noticeNoGenerator = "Answer generation is not configured. Showing matched documents."
)

// View holds the question input, the answer pane and the matched documents.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	answerService driving.AnswerService
	opts          domain.SearchOptions
	ctx           context.Context

	question string
	answer   strings.Builder
	notice   string

	// next and stop drive the answer stream while it is open.
	next func() (string, error, bool)
	stop func()

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool
}

// NewView creates a new ask view. answerService may be nil, in which case
// questions run as plain searches.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	answerService driving.AnswerService,
	opts domain.SearchOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		answerService: answerService,
		opts:          opts.WithDefaults(),
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.AnswerStarted:
		return v.handleAnswerStarted(msg)

	case messages.AnswerFragment:
		if v.next == nil {
			return v, nil
		}
		v.answer.WriteString(msg.Text)
		v.statusbar.AddFragment()
		return v, v.pullFragment()

	case messages.AnswerFinished:
		v.closeStream()
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetState(status.StateResults)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		v.closeStream()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if key.Matches(msg, v.keymap.Ask) {
			return v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Open):
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		doc := *result
		return v, func() tea.Msg {
			return messages.ResultOpened{Result: doc}
		}
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.NewQuestion):
		v.closeStream()
		v.statusbar.Clear()
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
	}
	return v, nil
}

// submit starts answering the typed question.
func (v *View) submit() (*View, tea.Cmd) {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return v, nil
	}

	v.closeStream()
	v.question = question
	v.answer.Reset()
	v.notice = ""
	v.err = nil
	v.list.SetResults(nil)
	v.focusInput = false
	v.input.Blur()
	v.statusbar.Start()

	if v.answerService != nil {
		return v, v.performAsk(question)
	}
	return v, v.performSearch(question)
}

// performAsk runs the answer service and hands back its stream.
func (v *View) performAsk(question string) tea.Cmd {
	svc, ctx, opts := v.answerService, v.ctx, v.opts
	return func() tea.Msg {
		answer, err := svc.Ask(ctx, question, opts)
		if err != nil {
			return messages.AnswerStarted{Question: question, Err: err}
		}
		return messages.AnswerStarted{
			Question:  question,
			Documents: answer.Documents,
			Stream:    answer.Stream,
		}
	}
}

// performSearch runs a plain search when no answer service is wired.
func (v *View) performSearch(query string) tea.Cmd {
	svc, ctx, opts := v.searchService, v.ctx, v.opts
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		results, err := svc.Search(ctx, query, opts)
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.showDocuments(msg.Results)
	if len(msg.Results) > 0 {
		v.notice = ""
	}
}

func (v *View) handleAnswerStarted(msg messages.AnswerStarted) (*View, tea.Cmd) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return v, nil
	}
	v.err = nil
	v.showDocuments(msg.Documents)

	if len(msg.Documents) == 0 {
		return v, nil
	}
	if msg.Stream == nil {
		v.notice = noticeNoGenerator
		return v, nil
	}

	v.next, v.stop = iter.Pull2(msg.Stream)
	v.statusbar.SetState(status.StateAnswering)
	return v, v.pullFragment()
}

// showDocuments fills the result list and leaves input mode.
func (v *View) showDocuments(docs []domain.AggregatedDocument) {
	v.list.SetResults(docs)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(docs))
	v.focusInput = false
	v.input.Blur()
	if len(docs) == 0 {
		v.notice = noticeNoMatches
	}
}

// pullFragment reads the next fragment of the open stream.
func (v *View) pullFragment() tea.Cmd {
	next := v.next
	if next == nil {
		return nil
	}
	return func() tea.Msg {
		text, err, ok := next()
		if !ok {
			return messages.AnswerFinished{}
		}
		if err != nil {
			return messages.AnswerFinished{Err: err}
		}
		return messages.AnswerFragment{Text: text}
	}
}

// closeStream stops an open stream, if any.
func (v *View) closeStream() {
	if v.stop != nil {
		v.stop()
	}
	v.next = nil
	v.stop = nil
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Procedures"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.notice != "" {
		sections = append(sections, v.styles.Muted.Render(v.notice), "")
	}

	if answer := v.answer.String(); answer != "" {
		sections = append(sections, v.styles.Subtitle.Render("Answer"), v.renderAnswer(answer), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAnswer wraps the answer to the view width, right-aligned for
// right-to-left text.
func (v *View) renderAnswer(answer string) string {
	return styles.Block(answer, v.width)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-14)
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// SetQuery sets the input text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Answer returns the answer text received so far.
func (v *View) Answer() string {
	return v.answer.String()
}

// Notice returns the notice shown above the documents, if any.
func (v *View) Notice() string {
	return v.notice
}

// Streaming reports whether an answer stream is open.
func (v *View) Streaming() bool {
	return v.next != nil
}

// Results returns the matched documents.
func (v *View) Results() []domain.AggregatedDocument {
	return v.list.Results()
}

// SelectedResult returns the currently selected document.
func (v *View) SelectedResult() *domain.AggregatedDocument {
	return v.list.SelectedResult()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.closeStream()
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.question = ""
	v.answer.Reset()
	v.notice = ""
	v.err = nil
	v.statusbar.Clear()
}

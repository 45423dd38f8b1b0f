// Package questions provides the unanswered questions view for the TUI.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/components/list"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// ErrNoQuestionService indicates the question log is not available.
var ErrNoQuestionService = errors.New("question service not available")

// timeLayout formats question timestamps.
const timeLayout = "2006-01-02 15:04"

// View lists questions that matched no documents.
type View struct {
	styles          *styles.Styles
	questionService driving.QuestionService
	ctx             context.Context

	questions []domain.UnansweredQuestion
	selected  int
	width     int
	height    int
	ready     bool
	err       error
	loading   bool
}

// NewView creates a new questions view.
func NewView(s *styles.Styles, questionService driving.QuestionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		questionService: questionService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the question log.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadQuestions()
}

func (v *View) loadQuestions() tea.Cmd {
	svc, ctx := v.questionService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.QuestionsLoaded{Err: ErrNoQuestionService}
		}
		questions, err := svc.List(ctx)
		return messages.QuestionsLoaded{Questions: questions, Err: err}
	}
}

func (v *View) deleteQuestion(id string) tea.Cmd {
	svc, ctx := v.questionService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.QuestionDeleted{ID: id, Err: ErrNoQuestionService}
		}
		return messages.QuestionDeleted{ID: id, Err: svc.Delete(ctx, id)}
	}
}

// Update handles messages for the questions view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuestionsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.questions = msg.Questions
		v.err = nil
		if v.selected >= len(v.questions) {
			v.selected = max(len(v.questions)-1, 0)
		}
		return v, nil

	case messages.QuestionDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadQuestions()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.questions)-1 {
			v.selected++
		}
	case "d", "delete":
		if q := v.SelectedQuestion(); q != nil {
			return v, v.deleteQuestion(q.ID)
		}
	case "r":
		v.loading = true
		return v, v.loadQuestions()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the questions view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Unanswered Questions"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading questions..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.questions) == 0:
		b.WriteString(v.styles.Muted.Render("No unanswered questions."))
	default:
		b.WriteString(v.renderList())
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Total: %d", len(v.questions))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [d] delete  [r] reload  [esc] back  [q] quit"))
	return b.String()
}

func (v *View) renderList() string {
	visible := v.height - 8
	if visible < 1 {
		visible = 1
	}
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.questions))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		q := &v.questions[i]
		when := q.Timestamp.Local().Format(timeLayout)
		text := list.Truncate(strings.Join(strings.Fields(q.Question), " "), max(v.width-len(timeLayout)-6, 10))

		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(fmt.Sprintf("> %s  %s", when, text)))
			continue
		}
		lines = append(lines, v.styles.Muted.Render("  "+when+"  ")+v.styles.Normal.Render(text))
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Questions returns the loaded questions.
func (v *View) Questions() []domain.UnansweredQuestion {
	return v.questions
}

// SelectedIndex returns the selected row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedQuestion returns the selected question, or nil when the list is empty.
func (v *View) SelectedQuestion() *domain.UnansweredQuestion {
	if v.selected < 0 || v.selected >= len(v.questions) {
		return nil
	}
	return &v.questions[v.selected]
}

// Loading reports whether a reload is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

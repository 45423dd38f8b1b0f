package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/keymap"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/views/ask"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/views/doccontent"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/views/documents"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/views/menu"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/views/questions"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView       *menu.View
	askView        *ask.View
	documentsView  *documents.View
	docContentView *doccontent.View
	questionsView  *questions.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		menuView:       menu.NewView(s, km),
		askView:        ask.NewView(s, km, ports.Search, ports.Answer, ports.SearchOptions),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		questionsView:  questions.NewView(s, ports.Question),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	a.questionsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("procedures"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}
		return a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	// Answer and search results belong to the ask view even while another
	// view is showing.
	case messages.SearchCompleted, messages.AnswerStarted,
		messages.AnswerFragment, messages.AnswerFinished:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.ResultOpened:
		a.docContentView.SetResult(msg.Result)
		a.currentView = messages.ViewDocContent
		return a, nil

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetSource(msg.Source)

	case messages.DocumentContentLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.QuestionsLoaded, messages.QuestionDeleted:
		a.questionsView, cmd = a.questionsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a.updateCurrent(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a.updateCurrent(msg)
}

// switchTo activates a view. Views reached from the menu start fresh;
// returning from a document keeps the previous state.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	from := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewAsk:
		if from == messages.ViewMenu {
			a.askView.Reset()
			return a.askView.Init()
		}
	case messages.ViewDocuments:
		if from == messages.ViewMenu {
			return a.documentsView.Init()
		}
	case messages.ViewQuestions:
		return a.questionsView.Init()
	case messages.ViewMenu, messages.ViewDocContent, messages.ViewHelp:
	}
	return nil
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewQuestions:
		a.questionsView, cmd = a.questionsView.Update(msg)
	case messages.ViewHelp:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, a.keymap.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewQuestions:
		return a.questionsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options (wraps)
  enter       Select option
  a d u ?     Jump to Ask, Documents, Unanswered questions, Help
  q           Quit

Ask:
  (type)      Enter a question (Hebrew or English)
  enter       Ask; the answer streams above the matched documents
  j/k, ↑/↓    Navigate matched documents
  enter       Open document with highlighted passages
  n           New question

Documents:
  enter       Show stored content
  r           Reload

Unanswered questions:
  d           Delete question
  r           Reload

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
	a.questionsView.SetDimensions(width, height)
}

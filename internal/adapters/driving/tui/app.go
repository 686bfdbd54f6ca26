package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/askdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// chromeHeight is the number of lines used by the header, input and help.
const chromeHeight = 7

// exchange is one question and its outcome. Exchanges are independent;
// earlier ones are shown for reference only.
type exchange struct {
	question string
	answer   *domain.Answer
	err      error
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	input    *input.QuestionInput
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model

	history []exchange
	pending string
	busy    bool

	width  int
	height int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keys:     keymap.DefaultKeyMap(),
		input:    input.NewQuestionInput(s),
		spinner:  sp,
		viewport: viewport.New(80, 20),
		help:     help.New(),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.input.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.input.SetWidth(msg.Width)
		a.viewport.Width = msg.Width
		a.viewport.Height = max(msg.Height-chromeHeight, 3)
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnswerRequested:
		return a, a.ask(msg.Question)

	case messages.AnswerCompleted:
		a.busy = false
		a.pending = ""
		a.history = append(a.history, exchange{question: msg.Question, answer: msg.Answer, err: msg.Err})
		a.refresh()
		a.viewport.GotoBottom()
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.refresh()
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Submit):
		question := strings.TrimSpace(a.input.Value())
		if a.busy || question == "" {
			return a, nil
		}
		a.busy = true
		a.pending = question
		a.input.Reset()
		a.refresh()
		return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
			return messages.AnswerRequested{Question: question}
		})

	case key.Matches(msg, a.keys.Clear):
		a.history = nil
		a.refresh()
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp), key.Matches(msg, a.keys.ScrollDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs the pipeline off the UI goroutine.
func (a *App) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Answer.Answer(a.ctx, question)
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err}
	}
}

// refresh re-renders the transcript into the viewport.
func (a *App) refresh() {
	a.viewport.SetContent(a.renderTranscript())
}

func (a *App) renderTranscript() string {
	width := a.viewport.Width
	if width <= 0 {
		width = 80
	}
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for _, ex := range a.history {
		b.WriteString(a.styles.Question.Render("Q: " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(a.styles.Error.Render("Error: " + ex.err.Error()))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(wrap.Render(ex.answer.Answer))
		b.WriteString("\n")
		if len(ex.answer.Sources) > 0 {
			titles := make([]string, len(ex.answer.Sources))
			for i, src := range ex.answer.Sources {
				titles[i] = src.Title
			}
			b.WriteString(a.styles.Source.Render("Sources: " + strings.Join(titles, ", ")))
		} else {
			b.WriteString(a.styles.Muted.Render("Sources: none"))
		}
		b.WriteString("\n\n")
	}
	if a.busy {
		b.WriteString(a.styles.Question.Render("Q: " + a.pending))
		b.WriteString("\n")
		b.WriteString(a.spinner.View() + " " + a.styles.Muted.Render("Thinking..."))
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	header := a.styles.Title.Render("askdesk") + " " +
		a.styles.Muted.Render("answers from your internal documents")
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		a.viewport.View(),
		a.input.View(),
		a.styles.Help.Render(a.help.View(a.keys)),
	)
}

// Busy reports whether a question is being answered.
func (a *App) Busy() bool {
	return a.busy
}

// Transcript returns the rendered question and answer history.
func (a *App) Transcript() string {
	return a.renderTranscript()
}

package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"trivia-quest/internal/app"
	"trivia-quest/internal/domain"
)

// Controls is the part of a session the UI drives.
type Controls interface {
	SubmitAnswer(choice string) bool
	Dispose()
}

// Model renders one trivia session using Bubble Tea.
type Model struct {
	ctx      context.Context
	session  Controls
	events   *app.EventStream
	game     domain.Game
	bar      progress.Model
	noColor  bool
	index    int
	total    int
	question domain.Question
	cursor   int
	remain   int
	score    int
	feedback *app.Feedback
	results  *domain.Results
	quitting bool
}

// Options configures the play UI model.
type Options struct {
	NoColor bool
}

// NewModel constructs a play UI model for a started session and its event stream.
func NewModel(ctx context.Context, session Controls, events *app.EventStream, game domain.Game, opts Options) Model {
	return Model{
		ctx:     ctx,
		session: session,
		events:  events,
		game:    game,
		bar:     progress.New(progress.WithSolidFill(string(colorGreen)), progress.WithoutPercentage(), progress.WithWidth(40)),
		noColor: opts.NoColor,
		total:   len(game.Questions),
		remain:  game.Config.TimePerQuestion,
	}
}

// Init waits for the first session event.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.ctx, m.events)
}

// Update consumes session events and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(typed.Width-10, 10), 60)
		return m, nil
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.ctx, m.events)
	case streamClosedMsg:
		if m.results == nil {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.session.Dispose()
		m.quitting = true
		return m, tea.Quit
	}
	if m.results != nil {
		m.quitting = true
		return m, tea.Quit
	}
	if m.feedback != nil || len(m.question.Options) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.question.Options)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.session.SubmitAnswer(m.question.Options[m.cursor])
	case "1", "2", "3", "4":
		choice := int(key.String()[0] - '1')
		if choice < len(m.question.Options) {
			m.cursor = choice
			m.session.SubmitAnswer(m.question.Options[choice])
		}
	}
	return m, nil
}

// View renders the play UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.results != nil {
		return renderResults(m)
	}
	if len(m.question.Options) == 0 {
		return stylize("Loading "+m.game.Config.Topic+"...", m.noColor, colorMuted)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m),
		renderTimer(m),
		"",
		renderQuestion(m),
		"",
		renderFeedback(m),
		renderFooter(m),
	)
}

// Results returns the session results once the session has ended.
func (m Model) Results() (domain.Results, bool) {
	if m.results == nil {
		return domain.Results{}, false
	}
	return *m.results, true
}

// EventMsg wraps a session event for Bubble Tea.
type EventMsg struct {
	Event app.Event
}

type streamClosedMsg struct{}

// waitForEvent blocks until a session event is available.
func waitForEvent(ctx context.Context, events *app.EventStream) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := events.Next(ctx)
		if !ok {
			return streamClosedMsg{}
		}
		return EventMsg{Event: event}
	}
}

// applyEvent mutates model state based on a session event.
func applyEvent(m Model, event app.Event) Model {
	switch event.Kind {
	case app.EventQuestion:
		change := event.Question
		m.index = change.Index
		m.total = change.Total
		m.question = change.Question
		m.remain = change.TimeRemaining
		m.score = change.Score
		m.cursor = 0
		m.feedback = nil
	case app.EventTick:
		m.remain = event.TimeRemaining
	case app.EventFeedback:
		m.feedback = event.Feedback
		m.score = event.Feedback.Score
	case app.EventEnded:
		m.results = event.Results
		m.score = event.Results.Score
	}
	return m
}

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"trivia-quest/internal/app"
	"trivia-quest/internal/domain"
)

type fakeSession struct {
	answers  []string
	disposed bool
}

func (f *fakeSession) SubmitAnswer(choice string) bool {
	f.answers = append(f.answers, choice)
	return true
}

func (f *fakeSession) Dispose() { f.disposed = true }

func testGame() domain.Game {
	return domain.Game{
		Config: domain.GameConfig{Topic: "Space", NumQuestions: 2, Difficulty: domain.DifficultyEasy, Language: "English", TimePerQuestion: 10},
		Questions: []domain.Question{
			{Prompt: "Red planet?", Options: []string{"Venus", "Mars", "Earth", "Pluto"}, CorrectOption: "Mars"},
			{Prompt: "Ringed planet?", Options: []string{"Saturn", "Mars", "Earth", "Venus"}, CorrectOption: "Saturn"},
		},
	}
}

func newTestModel() (Model, *fakeSession) {
	session := &fakeSession{}
	m := NewModel(context.Background(), session, app.NewEventStream(), testGame(), Options{NoColor: true})
	return m, session
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return model, cmd
}

func questionEvent(index int) EventMsg {
	game := testGame()
	return EventMsg{Event: app.Event{
		Kind: app.EventQuestion,
		Question: &app.QuestionChange{
			Index:         index,
			Total:         len(game.Questions),
			Question:      game.Questions[index],
			TimeRemaining: game.Config.TimePerQuestion,
		},
		TimeRemaining: game.Config.TimePerQuestion,
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNumberKeySubmitsOption(t *testing.T) {
	m, session := newTestModel()
	m, _ = update(t, m, questionEvent(0))

	m, _ = update(t, m, runes("2"))
	if len(session.answers) != 1 || session.answers[0] != "Mars" {
		t.Fatalf("expected Mars submitted, got %v", session.answers)
	}
	if !strings.Contains(m.View(), "Red planet?") {
		t.Fatalf("expected question in view, got %q", m.View())
	}
}

func TestArrowsAndEnterSubmitCursor(t *testing.T) {
	m, session := newTestModel()
	m, _ = update(t, m, questionEvent(0))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(session.answers) != 1 || session.answers[0] != "Mars" {
		t.Fatalf("expected cursor option submitted, got %v", session.answers)
	}
}

func TestFeedbackBlocksInputAndRenders(t *testing.T) {
	m, session := newTestModel()
	m, _ = update(t, m, questionEvent(0))
	m, _ = update(t, m, EventMsg{Event: app.Event{Kind: app.EventFeedback, Feedback: &app.Feedback{
		Outcome:       domain.OutcomeTimeUp,
		CorrectOption: "Mars",
	}}})

	m, _ = update(t, m, runes("1"))
	if len(session.answers) != 0 {
		t.Fatalf("expected no submission while feedback is shown, got %v", session.answers)
	}
	if !strings.Contains(m.View(), "Time's up! The answer was Mars") {
		t.Fatalf("expected time-up feedback, got %q", m.View())
	}

	m, _ = update(t, m, questionEvent(1))
	if m.feedback != nil || m.index != 1 {
		t.Fatalf("expected next question to reset feedback")
	}
}

func TestTickUpdatesTimer(t *testing.T) {
	m, _ := newTestModel()
	m, _ = update(t, m, questionEvent(0))
	m, _ = update(t, m, EventMsg{Event: app.Event{Kind: app.EventTick, TimeRemaining: 3}})

	if m.remain != 3 {
		t.Fatalf("expected 3 remaining, got %d", m.remain)
	}
	if !strings.Contains(m.View(), " 3s") {
		t.Fatalf("expected countdown in view, got %q", m.View())
	}
}

func TestQuitDisposesSession(t *testing.T) {
	m, session := newTestModel()
	m, _ = update(t, m, questionEvent(0))

	_, cmd := update(t, m, runes("q"))
	if !session.disposed {
		t.Fatalf("expected session disposed")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestEndedShowsResultsUntilKey(t *testing.T) {
	m, _ := newTestModel()
	m, _ = update(t, m, EventMsg{Event: app.Event{Kind: app.EventEnded, Results: &domain.Results{Score: 180, CorrectAnswers: 2}}})
	m, cmd := update(t, m, streamClosedMsg{})
	if cmd != nil {
		t.Fatalf("expected results to stay on screen")
	}

	view := m.View()
	if !strings.Contains(view, "Correct answers: 2/2") || !strings.Contains(view, "Excellent!") {
		t.Fatalf("unexpected results view %q", view)
	}
	results, ok := m.Results()
	if !ok || results.Score != 180 {
		t.Fatalf("expected results, got %+v %v", results, ok)
	}

	_, cmd = update(t, m, runes("x"))
	if cmd == nil {
		t.Fatalf("expected quit after results")
	}
}

func TestTimerColor(t *testing.T) {
	cases := []struct {
		fraction float64
		want     string
	}{
		{1, string(colorGreen)},
		{0.51, string(colorGreen)},
		{0.5, string(colorYellow)},
		{0.26, string(colorYellow)},
		{0.25, string(colorRed)},
		{0, string(colorRed)},
	}
	for _, tc := range cases {
		if got := string(timerColor(tc.fraction)); got != tc.want {
			t.Fatalf("fraction %v: got %s want %s", tc.fraction, got, tc.want)
		}
	}
}

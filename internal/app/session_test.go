package app_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"trivia-quest/internal/app"
	"trivia-quest/internal/domain"
)

func TestStartRejectsInvalidConfig(t *testing.T) {
	var cfgErr *domain.ConfigError

	_, err := app.Start(nil, domain.SessionConfig{TimePerQuestion: 10})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for empty questions, got %v", err)
	}

	_, err = app.Start(questions(1), domain.SessionConfig{TimePerQuestion: 0})
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for zero time, got %v", err)
	}
}

func TestStartPresentsFirstQuestion(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 3, 10)

	state := session.Snapshot()
	if state.Phase != app.PhaseAwaitingAnswer || state.Index != 0 || state.Score != 0 ||
		state.CorrectCount != 0 || state.AnswerLocked || state.TimeRemaining != 10 || state.Total != 3 {
		t.Fatalf("unexpected initial state %+v", state)
	}
	if len(rec.changes) != 1 || rec.changes[0].Index != 0 || rec.changes[0].Total != 3 {
		t.Fatalf("expected one question change for index 0, got %+v", rec.changes)
	}
}

func TestScenarioSingleCorrectAtFullTime(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 1, 10)

	if !session.SubmitAnswer("right-0") {
		t.Fatalf("expected answer to be accepted")
	}
	clock.Advance(app.DefaultFeedbackDelay)

	assertResults(t, rec, domain.Results{Score: 100, CorrectAnswers: 1})
	if got := session.Snapshot().Phase; got != app.PhaseComplete {
		t.Fatalf("expected complete, got %s", got)
	}
}

func TestScenarioTimeoutThenWrong(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 10)

	// Ten ticks reach zero, the eleventh expires the question.
	clock.Advance(11 * time.Second)
	if fb := rec.lastFeedback(t); fb.Outcome != domain.OutcomeTimeUp || fb.Awarded != 0 {
		t.Fatalf("expected time-up feedback, got %+v", fb)
	}
	clock.Advance(app.DefaultFeedbackDelay)
	if state := session.Snapshot(); state.Index != 1 || state.TimeRemaining != 10 || state.AnswerLocked {
		t.Fatalf("expected second question with full time, got %+v", state)
	}

	session.SubmitAnswer("wrong")
	clock.Advance(app.DefaultFeedbackDelay)

	assertResults(t, rec, domain.Results{Score: 0, CorrectAnswers: 0})
}

func TestScenarioTimeWeightedScores(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 20)

	clock.Advance(10 * time.Second)
	if got := session.Snapshot().TimeRemaining; got != 10 {
		t.Fatalf("expected 10s remaining, got %d", got)
	}
	session.SubmitAnswer("right-0")
	if fb := rec.lastFeedback(t); fb.Outcome != domain.OutcomeCorrect || fb.Awarded != 50 || fb.Score != 50 {
		t.Fatalf("expected 50 points, got %+v", fb)
	}
	clock.Advance(app.DefaultFeedbackDelay)

	session.SubmitAnswer("right-1")
	clock.Advance(app.DefaultFeedbackDelay)

	assertResults(t, rec, domain.Results{Score: 150, CorrectAnswers: 2})
}

func TestSubmitIgnoredWhileLocked(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 10)

	session.SubmitAnswer("right-0")
	if session.SubmitAnswer("right-0") {
		t.Fatalf("expected second submission to be ignored")
	}
	if session.SubmitAnswer("wrong") {
		t.Fatalf("expected third submission to be ignored")
	}

	state := session.Snapshot()
	if state.Score != 100 || state.CorrectCount != 1 {
		t.Fatalf("expected a single scored answer, got %+v", state)
	}
	if len(rec.feedback) != 1 {
		t.Fatalf("expected one feedback signal, got %d", len(rec.feedback))
	}

	// Input during the lock does not skip the presentation delay.
	clock.Advance(app.DefaultFeedbackDelay - time.Millisecond)
	if got := session.Snapshot().Index; got != 0 {
		t.Fatalf("advanced early to index %d", got)
	}
	clock.Advance(time.Millisecond)
	if got := session.Snapshot().Index; got != 1 {
		t.Fatalf("expected advance to index 1, got %d", got)
	}
}

func TestTickAndExpiryIgnoredAfterLock(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 10)

	session.SubmitAnswer("wrong")
	session.Tick()
	session.NotifyTimeExpired()

	state := session.Snapshot()
	if state.TimeRemaining != 10 {
		t.Fatalf("expected timer paused at 10, got %d", state.TimeRemaining)
	}
	if len(rec.feedback) != 1 || rec.feedback[0].Outcome != domain.OutcomeIncorrect {
		t.Fatalf("expected only the incorrect signal, got %+v", rec.feedback)
	}
	if len(rec.ticks) != 0 {
		t.Fatalf("expected no tick signals, got %v", rec.ticks)
	}
}

func TestTimeExpiredNeverScores(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 1, 10)

	session.NotifyTimeExpired()
	session.SubmitAnswer("right-0")
	clock.Advance(app.DefaultFeedbackDelay)

	assertResults(t, rec, domain.Results{Score: 0, CorrectAnswers: 0})
}

func TestManualTicksCountDownThenExpire(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 1, 2)

	session.Tick()
	session.Tick()
	if got := session.Snapshot().TimeRemaining; got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}
	if got := rec.tickValues(); len(got) != 2 || got[0] != 1 || got[1] != 0 {
		t.Fatalf("unexpected ticks %v", got)
	}

	// A correct answer at zero is still accepted but worth nothing.
	session.SubmitAnswer("right-0")
	if fb := rec.lastFeedback(t); fb.Outcome != domain.OutcomeCorrect || fb.Awarded != 0 {
		t.Fatalf("expected correct with 0 points, got %+v", fb)
	}
}

func TestTickAtZeroExpires(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 1, 1)

	session.Tick()
	session.Tick()
	state := session.Snapshot()
	if !state.AnswerLocked || state.TimeRemaining != 0 {
		t.Fatalf("expected expiry at zero, got %+v", state)
	}
	if fb := rec.lastFeedback(t); fb.Outcome != domain.OutcomeTimeUp {
		t.Fatalf("expected time-up, got %+v", fb)
	}
}

func TestEventsAfterCompletionAreIgnored(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 1, 10)

	session.SubmitAnswer("right-0")
	clock.Advance(app.DefaultFeedbackDelay)

	session.SubmitAnswer("right-0")
	session.NotifyTimeExpired()
	session.Tick()
	clock.Advance(time.Minute)

	if len(rec.ended) != 1 {
		t.Fatalf("expected a single SessionEnded, got %d", len(rec.ended))
	}
	if state := session.Snapshot(); state.Score != 100 || state.CorrectCount != 1 {
		t.Fatalf("results changed after completion: %+v", state)
	}
}

func TestDisposeCancelsPendingAdvance(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 10)

	session.SubmitAnswer("right-0")
	session.Dispose()
	if got := clock.Pending(); got != 0 {
		t.Fatalf("expected no pending callbacks after dispose, got %d", got)
	}
	clock.Advance(time.Minute)

	state := session.Snapshot()
	if state.Phase != app.PhaseDisposed || state.Index != 0 {
		t.Fatalf("expected disposed session on index 0, got %+v", state)
	}
	if len(rec.changes) != 1 || len(rec.ended) != 0 {
		t.Fatalf("expected no further signals, got changes=%d ended=%d", len(rec.changes), len(rec.ended))
	}
	if session.SubmitAnswer("right-1") {
		t.Fatalf("expected disposed session to ignore answers")
	}
}

func TestTimerRestartsForEachQuestion(t *testing.T) {
	clock := newManualClock()
	rec := &recorder{}
	session := startSession(t, clock, rec, 2, 5)

	clock.Advance(3 * time.Second)
	session.SubmitAnswer("wrong")
	clock.Advance(app.DefaultFeedbackDelay)
	clock.Advance(time.Second)

	state := session.Snapshot()
	if state.Index != 1 || state.TimeRemaining != 4 {
		t.Fatalf("expected fresh countdown on question 2, got %+v", state)
	}
}

func TestPoints(t *testing.T) {
	cases := []struct {
		remaining, total, want int
	}{
		{10, 10, 100},
		{0, 10, 0},
		{5, 10, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds away from zero
		{11, 10, 100},
		{-1, 10, 0},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := app.Points(tc.remaining, tc.total); got != tc.want {
			t.Fatalf("Points(%d, %d) = %d, want %d", tc.remaining, tc.total, got, tc.want)
		}
	}
}

func startSession(t *testing.T, clock *manualClock, rec *recorder, n, timePerQuestion int) *app.Session {
	t.Helper()
	session, err := app.Start(questions(n), domain.SessionConfig{TimePerQuestion: timePerQuestion},
		app.WithClock(clock),
		app.WithListener(rec),
	)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func questions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		right := "right-" + string(rune('0'+i))
		qs[i] = domain.Question{
			Prompt:        "Question " + string(rune('1'+i)),
			Options:       []string{"wrong", right, "other", "none"},
			CorrectOption: right,
		}
	}
	return qs
}

func assertResults(t *testing.T, rec *recorder, want domain.Results) {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.ended) != 1 {
		t.Fatalf("expected SessionEnded once, got %d", len(rec.ended))
	}
	if rec.ended[0] != want {
		t.Fatalf("expected results %+v, got %+v", want, rec.ended[0])
	}
}

type recorder struct {
	mu       sync.Mutex
	changes  []app.QuestionChange
	ticks    []int
	feedback []app.Feedback
	ended    []domain.Results
}

func (r *recorder) QuestionChanged(c app.QuestionChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) Tick(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *recorder) Answered(fb app.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, fb)
}

func (r *recorder) SessionEnded(res domain.Results) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, res)
}

func (r *recorder) lastFeedback(t *testing.T) app.Feedback {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.feedback) == 0 {
		t.Fatalf("expected feedback")
	}
	return r.feedback[len(r.feedback)-1]
}

func (r *recorder) tickValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...)
}

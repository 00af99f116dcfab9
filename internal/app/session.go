package app

import (
	"math"
	"sync"
	"time"

	"trivia-quest/internal/domain"
)

const (
	// DefaultTickInterval is the length of one countdown step.
	DefaultTickInterval = time.Second
	// DefaultFeedbackDelay is how long feedback stays up before the next
	// question: one and a half tick intervals.
	DefaultFeedbackDelay = 3 * DefaultTickInterval / 2
)

// Phase is the position of a session in its state machine.
type Phase int

const (
	PhaseAwaitingAnswer Phase = iota
	PhaseLocked
	PhaseComplete
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseLocked:
		return "locked"
	case PhaseComplete:
		return "complete"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// State is a point-in-time copy of a session's mutable state.
type State struct {
	Phase         Phase
	Index         int
	Total         int
	Score         int
	CorrectCount  int
	AnswerLocked  bool
	TimeRemaining int
}

// Option customizes a Session at Start.
type Option func(*Session)

// WithID sets the identifier reported by Session.ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock replaces the wall clock used for ticks and the advance delay.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithListener injects the presentation callbacks.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l != nil {
			s.listener = l
		}
	}
}

// WithTickInterval sets the countdown step. Non-positive values keep the default.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithFeedbackDelay sets the pause between closing a question and advancing.
// Negative values keep the default.
func WithFeedbackDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.feedbackDelay = d
		}
	}
}

// Session runs one pass over an ordered question list. Every event (answer,
// tick, expiry, advance, dispose) is processed to completion under mu, so the
// answer lock decides races between input and the clock: first writer wins.
type Session struct {
	id            string
	questions     []domain.Question
	cfg           domain.SessionConfig
	clock         Clock
	listener      Listener
	tickInterval  time.Duration
	feedbackDelay time.Duration

	mu            sync.Mutex
	phase         Phase
	index         int
	score         int
	correctCount  int
	answerLock    bool
	timeRemaining int
	timer         *QuestionTimer
	advanceTimer  Timer
	advanceTicket uint64
}

// Start validates the inputs and presents the first question.
func Start(questions []domain.Question, cfg domain.SessionConfig, opts ...Option) (*Session, error) {
	if len(questions) == 0 {
		return nil, &domain.ConfigError{Reason: "question list is empty"}
	}
	if cfg.TimePerQuestion <= 0 {
		return nil, &domain.ConfigError{Reason: "time per question must be positive"}
	}

	s := &Session{
		questions:     append([]domain.Question(nil), questions...),
		cfg:           cfg,
		clock:         SystemClock,
		listener:      NopListener{},
		tickInterval:  DefaultTickInterval,
		feedbackDelay: DefaultFeedbackDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer = newQuestionTimer(s.clock, s.tickInterval, s.onTimerFired)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentLocked()
	return s, nil
}

// ID returns the identifier given with WithID.
func (s *Session) ID() string {
	return s.id
}

// Total returns the number of questions in the session.
func (s *Session) Total() int {
	return len(s.questions)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:         s.phase,
		Index:         s.index,
		Total:         len(s.questions),
		Score:         s.score,
		CorrectCount:  s.correctCount,
		AnswerLocked:  s.answerLock,
		TimeRemaining: s.timeRemaining,
	}
}

// SubmitAnswer registers choice for the current question. It reports false
// when the answer was ignored because the question is already locked or the
// session is over.
func (s *Session) SubmitAnswer(choice string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.acceptingLocked() {
		return false
	}
	s.lockLocked()

	q := s.questions[s.index]
	feedback := Feedback{
		Index:         s.index,
		Outcome:       domain.OutcomeIncorrect,
		Choice:        choice,
		CorrectOption: q.CorrectOption,
	}
	if q.IsCorrect(choice) {
		points := Points(s.timeRemaining, s.cfg.TimePerQuestion)
		s.score += points
		s.correctCount++
		feedback.Outcome = domain.OutcomeCorrect
		feedback.Awarded = points
	}
	feedback.Score = s.score

	s.listener.Answered(feedback)
	s.scheduleAdvanceLocked()
	return true
}

// NotifyTimeExpired closes the current question as unanswered. Ignored once
// the question is locked.
func (s *Session) NotifyTimeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
}

// Tick counts the current question down by one step. At zero remaining it
// expires the question instead. Ignored while locked.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked()
}

// Dispose tears the session down: the countdown and any pending advance are
// cancelled and every later event is ignored. No results are emitted.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer.Stop()
	s.cancelAdvanceLocked()
	if s.phase != PhaseComplete {
		s.phase = PhaseDisposed
	}
}

// Points is the time-weighted score of a correct answer, rounded half away
// from zero and clamped to [0, 100].
func Points(timeRemaining, timePerQuestion int) int {
	if timePerQuestion <= 0 {
		return 0
	}
	points := int(math.Round(100 * float64(timeRemaining) / float64(timePerQuestion)))
	switch {
	case points < 0:
		return 0
	case points > 100:
		return 100
	}
	return points
}

func (s *Session) acceptingLocked() bool {
	return s.phase == PhaseAwaitingAnswer && !s.answerLock
}

func (s *Session) lockLocked() {
	s.answerLock = true
	s.phase = PhaseLocked
	s.timer.Stop()
}

func (s *Session) tickLocked() {
	if !s.acceptingLocked() {
		return
	}
	if s.timeRemaining-1 < 0 {
		s.expireLocked()
		return
	}
	s.timeRemaining--
	s.listener.Tick(s.timeRemaining)
}

func (s *Session) expireLocked() {
	if !s.acceptingLocked() {
		return
	}
	s.lockLocked()
	s.listener.Answered(Feedback{
		Index:         s.index,
		Outcome:       domain.OutcomeTimeUp,
		CorrectOption: s.questions[s.index].CorrectOption,
		Score:         s.score,
	})
	s.scheduleAdvanceLocked()
}

func (s *Session) onTimerFired(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.timer.accept(generation) {
		return
	}
	s.tickLocked()
	s.timer.rearm()
}

func (s *Session) scheduleAdvanceLocked() {
	s.cancelAdvanceLocked()
	ticket := s.advanceTicket
	s.advanceTimer = s.clock.AfterFunc(s.feedbackDelay, func() { s.advance(ticket) })
}

func (s *Session) cancelAdvanceLocked() {
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
	}
	s.advanceTicket++
}

// advance moves to the next question or ends the session. Stale tickets
// belong to a cancelled schedule and are dropped.
func (s *Session) advance(ticket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLocked || ticket != s.advanceTicket {
		return
	}
	s.advanceTimer = nil

	if s.index == len(s.questions)-1 {
		s.phase = PhaseComplete
		s.listener.SessionEnded(domain.Results{
			Score:          s.score,
			CorrectAnswers: s.correctCount,
		})
		return
	}
	s.index++
	s.presentLocked()
}

func (s *Session) presentLocked() {
	s.phase = PhaseAwaitingAnswer
	s.answerLock = false
	s.timeRemaining = s.cfg.TimePerQuestion
	s.listener.QuestionChanged(QuestionChange{
		Index:         s.index,
		Total:         len(s.questions),
		Question:      s.questions[s.index],
		TimeRemaining: s.timeRemaining,
		Score:         s.score,
	})
	s.timer.RestartFor(s.index)
}

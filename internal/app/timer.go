package app

import "time"

// QuestionTimer drives the once-per-interval countdown of the current
// question. It is owned by a Session and only touched under the session lock.
type QuestionTimer struct {
	clock    Clock
	interval time.Duration
	fire     func(generation uint64)

	index      int
	generation uint64
	active     bool
	pending    Timer
}

func newQuestionTimer(clock Clock, interval time.Duration, fire func(generation uint64)) *QuestionTimer {
	return &QuestionTimer{clock: clock, interval: interval, fire: fire}
}

// RestartFor cancels any running countdown and starts a fresh one for the
// question at index.
func (t *QuestionTimer) RestartFor(index int) {
	t.Stop()
	t.index = index
	t.active = true
	t.arm()
}

// Stop cancels the countdown. Firings already in flight are discarded by
// the generation check in accept.
func (t *QuestionTimer) Stop() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.active = false
	t.generation++
}

// Index returns the question the timer was last restarted for.
func (t *QuestionTimer) Index() int {
	return t.index
}

func (t *QuestionTimer) arm() {
	gen := t.generation
	t.pending = t.clock.AfterFunc(t.interval, func() { t.fire(gen) })
}

// accept reports whether a firing belongs to the current countdown.
func (t *QuestionTimer) accept(generation uint64) bool {
	if !t.active || generation != t.generation {
		return false
	}
	t.pending = nil
	return true
}

// rearm schedules the next firing if the countdown is still running.
func (t *QuestionTimer) rearm() {
	if t.active {
		t.arm()
	}
}

package app

import (
	"context"
	"sync"

	"trivia-quest/internal/domain"
)

// EventKind names the signal carried by an Event.
type EventKind string

const (
	EventQuestion EventKind = "question"
	EventTick     EventKind = "tick"
	EventFeedback EventKind = "feedback"
	EventEnded    EventKind = "ended"
)

// Event is a queued Listener signal.
type Event struct {
	Kind          EventKind
	Question      *QuestionChange
	TimeRemaining int
	Feedback      *Feedback
	Results       *domain.Results
}

// EventStream is a Listener that queues signals for a consumer running on
// another goroutine. Pushing never blocks. The stream closes itself after
// SessionEnded; queued events are still delivered.
type EventStream struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	notify chan struct{}
}

func NewEventStream() *EventStream {
	return &EventStream{notify: make(chan struct{}, 1)}
}

func (s *EventStream) QuestionChanged(change QuestionChange) {
	s.push(Event{Kind: EventQuestion, Question: &change, TimeRemaining: change.TimeRemaining})
}

func (s *EventStream) Tick(timeRemaining int) {
	s.push(Event{Kind: EventTick, TimeRemaining: timeRemaining})
}

func (s *EventStream) Answered(feedback Feedback) {
	s.push(Event{Kind: EventFeedback, Feedback: &feedback})
}

func (s *EventStream) SessionEnded(results domain.Results) {
	s.push(Event{Kind: EventEnded, Results: &results})
	s.Close()
}

// Next returns the oldest queued event. It blocks until one is available and
// returns false once the stream is closed and drained or ctx is done.
func (s *EventStream) Next(ctx context.Context) (Event, bool) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			event := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return event, true
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return Event{}, false
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return Event{}, false
		}
	}
}

// Close stops accepting events and wakes a blocked Next.
func (s *EventStream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *EventStream) push(event Event) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()
	s.wake()
}

func (s *EventStream) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

package app

import "trivia-quest/internal/domain"

// QuestionChange describes the question that just became current.
type QuestionChange struct {
	Index         int             `json:"index"`
	Total         int             `json:"total"`
	Question      domain.Question `json:"question"`
	TimeRemaining int             `json:"timeRemaining"`
	Score         int             `json:"score"`
}

// Feedback describes how the current question was closed.
type Feedback struct {
	Index         int            `json:"index"`
	Outcome       domain.Outcome `json:"outcome"`
	Choice        string         `json:"choice,omitempty"`
	CorrectOption string         `json:"correctOption"`
	Awarded       int            `json:"awarded"`
	Score         int            `json:"score"`
}

// Listener receives presentation signals from a Session. Methods are called
// with the session lock held: they must not block and must not call back
// into the session.
type Listener interface {
	QuestionChanged(change QuestionChange)
	Tick(timeRemaining int)
	Answered(feedback Feedback)
	SessionEnded(results domain.Results)
}

// NopListener discards every signal.
type NopListener struct{}

func (NopListener) QuestionChanged(QuestionChange) {}
func (NopListener) Tick(int)                       {}
func (NopListener) Answered(Feedback)              {}
func (NopListener) SessionEnded(domain.Results)    {}

// endHook runs onEnd after forwarding SessionEnded.
type endHook struct {
	Listener
	onEnd func(domain.Results)
}

func (h endHook) SessionEnded(results domain.Results) {
	h.Listener.SessionEnded(results)
	h.onEnd(results)
}

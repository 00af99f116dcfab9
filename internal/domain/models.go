package domain

import "fmt"

// OptionsPerQuestion is the number of answer options every question carries.
const OptionsPerQuestion = 4

// Question is a multiple-choice trivia question. CorrectOption must equal one
// of Options exactly.
type Question struct {
	Prompt        string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectOption string   `json:"answer" yaml:"answer"`
}

// Validate checks that the correct option is one of the options. Option
// count is the question source's concern and is not checked here.
func (q Question) Validate() error {
	for _, opt := range q.Options {
		if opt == q.CorrectOption {
			return nil
		}
	}
	return fmt.Errorf("%w: answer %q is not one of the options", ErrInvalidQuestion, q.CorrectOption)
}

// IsCorrect reports whether choice matches the correct option by exact value.
func (q Question) IsCorrect(choice string) bool {
	return choice == q.CorrectOption
}

// SessionConfig is fixed for the lifetime of a session.
type SessionConfig struct {
	TimePerQuestion int `json:"timePerQuestion"` // seconds
}

// Results is the snapshot handed to the caller when a session ends.
type Results struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correctAnswers"`
}

// Verdict returns the closing message for a run over totalQuestions questions.
func (r Results) Verdict(totalQuestions int) string {
	var percentage float64
	if totalQuestions > 0 {
		percentage = float64(r.Score) / float64(totalQuestions*100) * 100
	}
	switch {
	case percentage >= 80:
		return "Excellent! You're a trivia master!"
	case percentage >= 50:
		return "Great job! A very solid score."
	case percentage >= 20:
		return "Good effort! Keep practicing."
	default:
		return "Nice try! Every game is a learning experience."
	}
}

// Outcome classifies how a question was closed.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeTimeUp    Outcome = "time-up"
)

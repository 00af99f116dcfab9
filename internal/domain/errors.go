package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or already ended.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionsNotFound indicates no question set exists for the requested game.
	ErrQuestionsNotFound = errors.New("questions not found")
	// ErrInvalidQuestion indicates a question record breaks the answer-in-options rule.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidGameConfig indicates a game request that cannot be played.
	ErrInvalidGameConfig = errors.New("invalid game config")
)

// ConfigError is returned when a session cannot start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid session config: %s", e.Reason)
}

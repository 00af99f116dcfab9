package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the requested difficulty of generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts any casing of Easy, Medium or Hard.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidGameConfig, raw)
}

// MaxQuestions caps how many questions a single game may request.
const MaxQuestions = 50

// GameConfig describes the game a player asked for.
type GameConfig struct {
	Topic           string     `json:"topic"`
	NumQuestions    int        `json:"numQuestions"`
	Difficulty      Difficulty `json:"difficulty"`
	Language        string     `json:"language"`
	TimePerQuestion int        `json:"timePerQuestion"`
}

// Validate rejects configs that cannot produce a playable game.
func (c GameConfig) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidGameConfig)
	}
	if c.NumQuestions <= 0 || c.NumQuestions > MaxQuestions {
		return fmt.Errorf("%w: numQuestions must be between 1 and %d", ErrInvalidGameConfig, MaxQuestions)
	}
	if c.TimePerQuestion <= 0 {
		return fmt.Errorf("%w: timePerQuestion must be positive", ErrInvalidGameConfig)
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Language) == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidGameConfig)
	}
	return nil
}

// CacheKey identifies the question set a config maps to.
func (c GameConfig) CacheKey() string {
	return fmt.Sprintf("%s:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(c.Topic)),
		strings.ToLower(string(c.Difficulty)),
		strings.ToLower(strings.TrimSpace(c.Language)),
		c.NumQuestions,
	)
}

// Game is a prepared game: validated questions plus the topic image.
type Game struct {
	Config    GameConfig `json:"config"`
	Questions []Question `json:"-"`
	Image     string     `json:"image,omitempty"` // data URI
}

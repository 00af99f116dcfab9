package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"trivia-quest/internal/domain"
)

// QuestionSet is one stored set of questions for a topic, difficulty and language.
type QuestionSet struct {
	bun.BaseModel `bun:"table:question_sets"`

	Topic      string            `bun:"topic,pk"`
	Difficulty string            `bun:"difficulty,pk"`
	Language   string            `bun:"language,pk"`
	Data       []domain.Question `bun:"data,type:jsonb"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// QuestionSetWriter upserts question sets.
type QuestionSetWriter struct {
	db *bun.DB
}

func NewQuestionSetWriter(db *bun.DB) *QuestionSetWriter {
	return &QuestionSetWriter{db: db}
}

// Save validates every question and replaces any existing set with the same key.
func (w *QuestionSetWriter) Save(ctx context.Context, topic string, difficulty domain.Difficulty, language string, questions []domain.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("save question set %q: %w", topic, domain.ErrQuestionsNotFound)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("save question set %q: question %d: %w", topic, i+1, err)
		}
	}

	set := &QuestionSet{
		Topic:      setKey(topic),
		Difficulty: setKey(string(difficulty)),
		Language:   setKey(language),
		Data:       questions,
		UpdatedAt:  time.Now(),
	}
	_, err := w.db.NewInsert().
		Model(set).
		On("CONFLICT (topic, difficulty, language) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save question set %q: %w", topic, err)
	}
	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"trivia-quest/internal/domain"
)

// QuestionLoader loads question set JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx,
		`SELECT data FROM question_sets WHERE topic=$1 AND difficulty=$2 AND language=$3`,
		setKey(cfg.Topic), setKey(string(cfg.Difficulty)), setKey(cfg.Language),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	if cfg.NumQuestions > 0 && len(questions) > cfg.NumQuestions {
		questions = questions[:cfg.NumQuestions]
	}
	return questions, nil
}

// setKey normalizes the lookup columns so "Space" and " space" share a row.
func setKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

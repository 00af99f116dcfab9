package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"trivia-quest/internal/app"
	"trivia-quest/internal/config"
	"trivia-quest/internal/domain"
	"trivia-quest/internal/infra/gemini"
	"trivia-quest/internal/infra/memory"
	"trivia-quest/internal/infra/postgres"
	redisinfra "trivia-quest/internal/infra/redis"
)

// questionLoader is satisfied by every backing question source.
type questionLoader interface {
	LoadQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error)
}

// services bundles the wired quiz service and the connections it holds.
type services struct {
	quiz    *app.QuizService
	closers []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildServices wires stores, question sources and the quiz service from cfg.
func buildServices(ctx context.Context, cfg config.Config) (*services, error) {
	svc := &services{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		svc.closers = append(svc.closers, func() { _ = redisClient.Close() })
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var generator *gemini.Generator
	if cfg.Gemini.APIKey != "" {
		g, err := gemini.NewGenerator(ctx, gemini.Config{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			ImageModel: cfg.Gemini.ImageModel,
		})
		if err != nil {
			svc.Close()
			return nil, err
		}
		generator = g
	}

	var loader questionLoader
	switch source := cfg.QuestionSource(); source {
	case config.SourcePostgres:
		if cfg.Postgres.URL == "" {
			svc.Close()
			return nil, fmt.Errorf("questions.source is postgres but postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.closers = append(svc.closers, pool.Close)
		loader = postgres.NewQuestionLoader(pool)
	case config.SourceGemini:
		if generator == nil {
			svc.Close()
			return nil, fmt.Errorf("questions.source is gemini but no API key configured")
		}
		loader = generator
	case config.SourceStatic:
		loader = memory.NewStaticQuestionLoader(sampleQuestionSets())
	default:
		svc.Close()
		return nil, fmt.Errorf("unknown question source %q", source)
	}
	log.Printf("question source: %s", cfg.QuestionSource())

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.QuestionRepository
	if redisClient != nil {
		questionRepo = redisinfra.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, questionTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	opts := []app.ServiceOption{
		app.WithTiming(
			config.TTLDuration(cfg.Quiz.TickInterval, app.DefaultTickInterval),
			config.TTLDuration(cfg.Quiz.FeedbackDelay, app.DefaultFeedbackDelay),
		),
	}
	if generator != nil {
		opts = append(opts, app.WithImageSource(generator))
	}
	svc.quiz = app.NewQuizService(store, questionRepo, opts...)
	return svc, nil
}

// defaultGameConfig turns the quiz section into the config requests start from.
func defaultGameConfig(cfg config.Config) (domain.GameConfig, error) {
	difficulty, err := domain.ParseDifficulty(cfg.Quiz.Difficulty)
	if err != nil {
		return domain.GameConfig{}, err
	}
	return domain.GameConfig{
		NumQuestions:    cfg.Quiz.NumQuestions,
		Difficulty:      difficulty,
		Language:        cfg.Quiz.Language,
		TimePerQuestion: cfg.Quiz.TimePerQuestion,
	}, nil
}

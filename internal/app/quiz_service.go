package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"trivia-quest/internal/domain"
)

// SessionRepository abstracts where live sessions are tracked (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuestionRepository supplies the ordered question list for a game.
type QuestionRepository interface {
	GetQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error)
}

// ImageSource produces a topic illustration as a data URI.
type ImageSource interface {
	GenerateImage(ctx context.Context, topic string) (string, error)
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithImageSource fetches a topic image alongside the questions.
func WithImageSource(images ImageSource) ServiceOption {
	return func(s *QuizService) { s.images = images }
}

// WithSessionClock sets the clock every started session runs on.
func WithSessionClock(clock Clock) ServiceOption {
	return func(s *QuizService) { s.clock = clock }
}

// WithTiming sets the countdown step and feedback delay for started sessions.
func WithTiming(tickInterval, feedbackDelay time.Duration) ServiceOption {
	return func(s *QuizService) {
		s.tickInterval = tickInterval
		s.feedbackDelay = feedbackDelay
	}
}

// QuizService contains the game use cases around the session engine.
type QuizService struct {
	sessions      SessionRepository
	questions     QuestionRepository
	images        ImageSource
	clock         Clock
	tickInterval  time.Duration
	feedbackDelay time.Duration
}

func NewQuizService(store SessionRepository, questions QuestionRepository, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions:      store,
		questions:     questions,
		clock:         SystemClock,
		tickInterval:  DefaultTickInterval,
		feedbackDelay: DefaultFeedbackDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare loads everything a game needs before its session can start. The
// questions and the image are fetched concurrently and both must succeed.
func (s *QuizService) Prepare(ctx context.Context, cfg domain.GameConfig) (domain.Game, error) {
	if err := cfg.Validate(); err != nil {
		return domain.Game{}, err
	}

	var (
		questions []domain.Question
		image     string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := s.questions.GetQuestions(gctx, cfg)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		questions = qs
		return nil
	})
	if s.images != nil {
		g.Go(func() error {
			img, err := s.images.GenerateImage(gctx, cfg.Topic)
			if err != nil {
				return fmt.Errorf("generate image: %w", err)
			}
			image = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("prepare game %q failed: %v", cfg.Topic, err)
		return domain.Game{}, err
	}

	if len(questions) > cfg.NumQuestions {
		questions = questions[:cfg.NumQuestions]
	}
	if len(questions) == 0 {
		return domain.Game{}, domain.ErrQuestionsNotFound
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return domain.Game{}, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	return domain.Game{Config: cfg, Questions: questions, Image: image}, nil
}

// StartSession starts a session for a prepared game and tracks it until it
// ends or is abandoned.
func (s *QuizService) StartSession(_ context.Context, game domain.Game, listener Listener) (*Session, error) {
	if listener == nil {
		listener = NopListener{}
	}
	id := uuid.NewString()
	hooked := endHook{
		Listener: listener,
		onEnd: func(results domain.Results) {
			log.Printf("session %s ended: score=%d correct=%d/%d", id, results.Score, results.CorrectAnswers, len(game.Questions))
			// Runs under the session lock; release the store off that path.
			go s.sessions.Delete(id)
		},
	}

	session, err := Start(game.Questions, domain.SessionConfig{TimePerQuestion: game.Config.TimePerQuestion},
		WithID(id),
		WithListener(hooked),
		WithClock(s.clock),
		WithTickInterval(s.tickInterval),
		WithFeedbackDelay(s.feedbackDelay),
	)
	if err != nil {
		return nil, err
	}
	s.sessions.Put(session)
	log.Printf("session %s started: topic=%q questions=%d", id, game.Config.Topic, len(game.Questions))
	return session, nil
}

// Submit forwards an answer to a tracked session. The bool is false when the
// answer was ignored by the answer lock.
func (s *QuizService) Submit(_ context.Context, sessionID, choice string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.SubmitAnswer(choice), nil
}

// Abandon disposes a tracked session and forgets it.
func (s *QuizService) Abandon(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Dispose()
	s.sessions.Delete(sessionID)
	log.Printf("session %s abandoned", sessionID)
	return nil
}

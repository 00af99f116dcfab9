package memory

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"trivia-quest/internal/domain"
)

// QuestionLoader fetches a question set from a backing source (Postgres, Gemini, static data).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated loads.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestions),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error) {
	key := cfg.CacheKey()
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[key]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		questions, err := r.loader.LoadQuestions(ctx, cfg)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		r.mu.Lock()
		r.cache[key] = cachedQuestions{
			questions: questions,
			expiresAt: now.Add(ttl),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves fixed question sets keyed by topic (useful for tests/demos/offline play).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	normalized := make(map[string][]domain.Question, len(sets))
	for topic, questions := range sets {
		normalized[normalizeTopic(topic)] = questions
	}
	return &StaticQuestionLoader{sets: normalized}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, cfg domain.GameConfig) ([]domain.Question, error) {
	questions, ok := l.sets[normalizeTopic(cfg.Topic)]
	if !ok || len(questions) == 0 {
		return nil, domain.ErrQuestionsNotFound
	}
	if cfg.NumQuestions > 0 && len(questions) > cfg.NumQuestions {
		questions = questions[:cfg.NumQuestions]
	}
	return questions, nil
}

// Topics lists the topics the loader can serve.
func (l *StaticQuestionLoader) Topics() []string {
	topics := make([]string, 0, len(l.sets))
	for topic := range l.sets {
		topics = append(topics, topic)
	}
	return topics
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceStatic   = "static"
	SourcePostgres = "postgres"
	SourceGemini   = "gemini"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL    string `yaml:"ttl"`
		Source string `yaml:"source"`
	} `yaml:"questions"`
	Gemini struct {
		APIKey     string `yaml:"apiKey"`
		Model      string `yaml:"model"`
		ImageModel string `yaml:"imageModel"`
	} `yaml:"gemini"`
	Quiz struct {
		NumQuestions    int    `yaml:"numQuestions"`
		Difficulty      string `yaml:"difficulty"`
		Language        string `yaml:"language"`
		TimePerQuestion int    `yaml:"timePerQuestion"`
		TickInterval    string `yaml:"tickInterval"`
		FeedbackDelay   string `yaml:"feedbackDelay"`
	} `yaml:"quiz"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Redis.TTL = "10m"
	cfg.Questions.TTL = "10m"
	cfg.Quiz.NumQuestions = 5
	cfg.Quiz.Difficulty = "Medium"
	cfg.Quiz.Language = "English"
	cfg.Quiz.TimePerQuestion = 15
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Gemini.APIKey != "" {
		return
	}
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := os.Getenv(name); v != "" {
			c.Gemini.APIKey = v
			return
		}
	}
}

// QuestionSource resolves which loader backs the question repository when
// questions.source is not set explicitly.
func (c Config) QuestionSource() string {
	if c.Questions.Source != "" {
		return c.Questions.Source
	}
	switch {
	case c.Postgres.URL != "":
		return SourcePostgres
	case c.Gemini.APIKey != "":
		return SourceGemini
	default:
		return SourceStatic
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
	"trivia-quest/internal/domain"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"

	// paddingOption fills short option lists up to four entries.
	paddingOption = "None of the above"
)

var errNoImage = errors.New("no image data found in response")

// Config holds Gemini credentials and model selection.
type Config struct {
	APIKey     string
	Model      string
	ImageModel string
}

// models is the slice of the genai client the generator uses.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator produces trivia question sets and topic images with Gemini.
type Generator struct {
	models     models
	model      string
	imageModel string
}

// NewGenerator creates a Gemini-backed generator.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return newGenerator(client.Models, cfg), nil
}

func newGenerator(m models, cfg Config) *Generator {
	g := &Generator{models: m, model: cfg.Model, imageModel: cfg.ImageModel}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.imageModel == "" {
		g.imageModel = DefaultImageModel
	}
	return g
}

type questionSetOutput struct {
	Questions []struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Answer   string   `json:"answer"`
	} `json:"questions"`
}

// LoadQuestions asks Gemini for cfg.NumQuestions questions and returns the
// ones that survive normalization.
func (g *Generator) LoadQuestions(ctx context.Context, cfg domain.GameConfig) ([]domain.Question, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   buildSchema(questionSetSchema),
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: buildPrompt(cfg)}},
	}}

	result, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		log.Printf("gemini question generation failed: %v", err)
		return nil, fmt.Errorf("generate trivia questions: %w", err)
	}

	raw := []byte(result.Text())
	if err := validateQuestionSet(raw); err != nil {
		return nil, fmt.Errorf("generate trivia questions: %w", err)
	}
	var out questionSetOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse trivia questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		if cfg.NumQuestions > 0 && len(questions) == cfg.NumQuestions {
			break
		}
		question := domain.Question{
			Prompt:        q.Question,
			Options:       normalizeOptions(q.Options, q.Answer),
			CorrectOption: q.Answer,
		}
		if err := question.Validate(); err != nil {
			log.Printf("dropping generated question %q: %v", q.Question, err)
			continue
		}
		questions = append(questions, question)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("generate trivia questions: model returned no usable questions: %w", domain.ErrQuestionsNotFound)
	}
	return questions, nil
}

// GenerateImage renders a topic illustration and returns it as a data URI.
func (g *Generator) GenerateImage(ctx context.Context, topic string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{{
			Text: fmt.Sprintf("A vibrant, high-quality, aesthetically pleasing image representing the topic of %s for a trivia game.", topic),
		}},
	}}

	result, err := g.models.GenerateContent(ctx, g.imageModel, contents, config)
	if err != nil {
		log.Printf("gemini image generation failed: %v", err)
		return "", fmt.Errorf("generate image for %q: %w", topic, err)
	}
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
			}
		}
	}
	return "", fmt.Errorf("generate image for %q: %w", topic, errNoImage)
}

// normalizeOptions pads or truncates options to exactly four, keeping the
// answer among them when truncation would cut it off.
func normalizeOptions(options []string, answer string) []string {
	out := make([]string, 0, domain.OptionsPerQuestion)
	out = append(out, options...)
	for len(out) < domain.OptionsPerQuestion {
		out = append(out, paddingOption)
	}
	if len(out) == domain.OptionsPerQuestion {
		return out
	}

	kept := out[:domain.OptionsPerQuestion]
	for _, opt := range kept {
		if opt == answer {
			return kept
		}
	}
	for _, opt := range out[domain.OptionsPerQuestion:] {
		if opt == answer {
			kept[len(kept)-1] = answer
			break
		}
	}
	return kept
}

func buildPrompt(cfg domain.GameConfig) string {
	return fmt.Sprintf(`Generate %d multiple-choice trivia questions about %s.
The difficulty level should be %s.
The questions should be in %s.
For each question, provide exactly 4 options.
One of the options must be the correct answer.
The 'answer' field must exactly match one of the strings in the 'options' array.`,
		cfg.NumQuestions, cfg.Topic, cfg.Difficulty, cfg.Language)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"trivia-quest/internal/app"
	"trivia-quest/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	defaults domain.GameConfig
	upgrader websocket.Upgrader
}

// NewWSHandler serves single-player games. Query parameters missing from a
// request fall back to defaults.
func NewWSHandler(service *app.QuizService, defaults domain.GameConfig) *WSHandler {
	return &WSHandler{
		service:  service,
		defaults: defaults,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

// questionPayload is a QuestionChange without the correct option.
type questionPayload struct {
	Index         int      `json:"index"`
	Total         int      `json:"total"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	TimeRemaining int      `json:"timeRemaining"`
	Score         int      `json:"score"`
}

type tickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type endedPayload struct {
	domain.Results
	Total   int    `json:"total"`
	Verdict string `json:"verdict"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one game session per
// connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.gameConfig(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	game, err := h.service.Prepare(ctx, cfg)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The game message goes out before the session can emit anything.
	send <- outboundMessage[any]{Type: "game", Payload: game}

	events := app.NewEventStream()
	session, err := h.service.StartSession(ctx, game, events)
	if err != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		close(send)
		<-writerDone
		return
	}
	total := session.Total()

	go func() {
		defer close(eventsDone)
		for {
			event, ok := events.Next(ctx)
			if !ok {
				return
			}
			select {
			case send <- eventMessage(event, total):
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if _, err := h.service.Submit(ctx, session.ID(), payload.Choice); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	if err := h.service.Abandon(context.Background(), session.ID()); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("abandon session %s: %v", session.ID(), err)
	}
	events.Close()
	close(closeSignals)
	cancel()
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) gameConfig(q url.Values) (domain.GameConfig, error) {
	cfg := h.defaults
	if v := strings.TrimSpace(q.Get("topic")); v != "" {
		cfg.Topic = v
	}
	if v := q.Get("language"); v != "" {
		cfg.Language = v
	}
	if v := q.Get("difficulty"); v != "" {
		d, err := domain.ParseDifficulty(v)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = d
	}
	for name, dst := range map[string]*int{
		"numQuestions":    &cfg.NumQuestions,
		"timePerQuestion": &cfg.TimePerQuestion,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.New("invalid " + name)
		}
		*dst = n
	}
	return cfg, cfg.Validate()
}

func eventMessage(event app.Event, total int) outboundMessage[any] {
	switch event.Kind {
	case app.EventQuestion:
		change := event.Question
		return outboundMessage[any]{Type: "question", Payload: questionPayload{
			Index:         change.Index,
			Total:         change.Total,
			Question:      change.Question.Prompt,
			Options:       change.Question.Options,
			TimeRemaining: change.TimeRemaining,
			Score:         change.Score,
		}}
	case app.EventTick:
		return outboundMessage[any]{Type: "tick", Payload: tickPayload{TimeRemaining: event.TimeRemaining}}
	case app.EventFeedback:
		return outboundMessage[any]{Type: "feedback", Payload: event.Feedback}
	default:
		return outboundMessage[any]{Type: "ended", Payload: endedPayload{
			Results: *event.Results,
			Total:   total,
			Verdict: event.Results.Verdict(total),
		}}
	}
}

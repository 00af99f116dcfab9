package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"trivia-quest/internal/domain"
)

const (
	colorGreen  = lipgloss.Color("#22C55E")
	colorYellow = lipgloss.Color("#EAB308")
	colorRed    = lipgloss.Color("#EF4444")
	colorAccent = lipgloss.Color("33")
	colorMuted  = lipgloss.Color("242")
)

// timerColor picks the timer bar colour for the fraction of time left.
func timerColor(fraction float64) lipgloss.Color {
	switch {
	case fraction > 0.5:
		return colorGreen
	case fraction > 0.25:
		return colorYellow
	default:
		return colorRed
	}
}

func renderHeader(m Model) string {
	line := fmt.Sprintf("%s | Question %d/%d | Score: %d", m.game.Config.Topic, m.index+1, m.total, m.score)
	return stylize(line, m.noColor, colorAccent)
}

func renderTimer(m Model) string {
	fraction := 0.0
	if per := m.game.Config.TimePerQuestion; per > 0 {
		fraction = float64(m.remain) / float64(per)
	}
	bar := m.bar
	bar.FullColor = string(timerColor(fraction))
	return fmt.Sprintf("%s %2ds", bar.ViewAs(fraction), m.remain)
}

func renderQuestion(m Model) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(!m.noColor).Render(m.question.Prompt))
	for i, opt := range m.question.Options {
		prefix := "  "
		if i == m.cursor && m.feedback == nil {
			prefix = "> "
		}
		line := fmt.Sprintf("\n%s%d. %s", prefix, i+1, opt)
		if m.feedback != nil {
			switch {
			case opt == m.feedback.CorrectOption:
				line = stylize(line, m.noColor, colorGreen)
			case opt == m.feedback.Choice:
				line = stylize(line, m.noColor, colorRed)
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func renderFeedback(m Model) string {
	if m.feedback == nil {
		return ""
	}
	switch m.feedback.Outcome {
	case domain.OutcomeCorrect:
		return stylize(fmt.Sprintf("Correct! +%d", m.feedback.Awarded), m.noColor, colorGreen)
	case domain.OutcomeTimeUp:
		return stylize("Time's up! The answer was "+m.feedback.CorrectOption, m.noColor, colorYellow)
	default:
		return stylize("Incorrect. The answer was "+m.feedback.CorrectOption, m.noColor, colorRed)
	}
}

func renderFooter(m Model) string {
	return stylize("1-4 or arrows+enter to answer, q to quit", m.noColor, colorMuted)
}

func renderResults(m Model) string {
	r := *m.results
	return lipgloss.JoinVertical(lipgloss.Left,
		stylize("Quiz complete!", m.noColor, colorAccent),
		fmt.Sprintf("Final score: %d", r.Score),
		fmt.Sprintf("Correct answers: %d/%d", r.CorrectAnswers, m.total),
		r.Verdict(m.total),
		"",
		stylize("Press any key to exit", m.noColor, colorMuted),
	)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

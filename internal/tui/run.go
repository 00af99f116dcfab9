package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"trivia-quest/internal/app"
	"trivia-quest/internal/domain"
)

// Run plays a started session in the terminal until it ends or the player
// quits. The bool is false when the player left before the last question.
func Run(ctx context.Context, stdout io.Writer, session Controls, events *app.EventStream, game domain.Game, opts Options) (domain.Results, bool, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	model := NewModel(ctx, session, events, game, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	session.Dispose()
	events.Close()
	if err != nil {
		return domain.Results{}, false, fmt.Errorf("run terminal ui: %w", err)
	}
	results, ok := final.(Model).Results()
	return results, ok, nil
}

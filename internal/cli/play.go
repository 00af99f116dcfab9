package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"trivia-quest/internal/app"
	"trivia-quest/internal/config"
	"trivia-quest/internal/domain"
	"trivia-quest/internal/tui"
)

type playFlags struct {
	topic      string
	difficulty string
	language   string
	questions  int
	seconds    int
	noColor    bool
}

// NewPlayCmd plays a single session in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	flags := &playFlags{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a trivia session in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			gameCfg, err := flags.gameConfig(cmd, cfg)
			if err != nil {
				return err
			}

			// Log lines would tear the alternate screen.
			log.SetOutput(io.Discard)
			defer log.SetOutput(os.Stderr)

			ctx := cmd.Context()
			svc, err := buildServices(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Preparing %d questions about %s...\n", gameCfg.NumQuestions, gameCfg.Topic)
			game, err := svc.quiz.Prepare(ctx, gameCfg)
			if err != nil {
				return err
			}
			events := app.NewEventStream()
			session, err := svc.quiz.StartSession(ctx, game, events)
			if err != nil {
				return err
			}

			results, finished, err := tui.Run(ctx, cmd.OutOrStdout(), session, events, game, tui.Options{NoColor: flags.noColor})
			if err != nil {
				return err
			}
			if !finished {
				fmt.Fprintln(cmd.OutOrStdout(), "Game abandoned.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Score %d, %d/%d correct. %s\n",
				results.Score, results.CorrectAnswers, len(game.Questions), results.Verdict(len(game.Questions)))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.topic, "topic", "General Knowledge", "quiz topic")
	cmd.Flags().StringVar(&flags.difficulty, "difficulty", "", "Easy, Medium or Hard (default from config)")
	cmd.Flags().StringVar(&flags.language, "language", "", "question language (default from config)")
	cmd.Flags().IntVar(&flags.questions, "questions", 0, "number of questions (default from config)")
	cmd.Flags().IntVar(&flags.seconds, "time", 0, "seconds per question (default from config)")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colors")
	return cmd
}

func (f *playFlags) gameConfig(cmd *cobra.Command, cfg config.Config) (domain.GameConfig, error) {
	gameCfg, err := defaultGameConfig(cfg)
	if err != nil {
		return gameCfg, err
	}
	gameCfg.Topic = strings.TrimSpace(f.topic)
	if cmd.Flags().Changed("difficulty") {
		d, err := domain.ParseDifficulty(f.difficulty)
		if err != nil {
			return gameCfg, err
		}
		gameCfg.Difficulty = d
	}
	if cmd.Flags().Changed("language") {
		gameCfg.Language = f.language
	}
	if cmd.Flags().Changed("questions") {
		gameCfg.NumQuestions = f.questions
	}
	if cmd.Flags().Changed("time") {
		gameCfg.TimePerQuestion = f.seconds
	}
	return gameCfg, gameCfg.Validate()
}

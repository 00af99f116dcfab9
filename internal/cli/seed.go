package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"trivia-quest/internal/config"
	"trivia-quest/internal/domain"
	"trivia-quest/internal/infra/postgres"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Sets []seedSet `yaml:"sets"`
}

type seedSet struct {
	Topic      string            `yaml:"topic"`
	Difficulty string            `yaml:"difficulty"`
	Language   string            `yaml:"language"`
	Questions  []domain.Question `yaml:"questions"`
}

// NewSeedCmd upserts question sets from a YAML file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load question sets from a YAML file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			sets, err := readSeedFile(args[0])
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, sets)
		},
	}
}

func readSeedFile(path string) ([]seedSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Sets) == 0 {
		return nil, fmt.Errorf("%s: no question sets", path)
	}
	for i, set := range file.Sets {
		if set.Topic == "" {
			return nil, fmt.Errorf("%s: set %d has no topic", path, i+1)
		}
		if _, err := domain.ParseDifficulty(set.Difficulty); err != nil {
			return nil, fmt.Errorf("%s: set %q: %w", path, set.Topic, err)
		}
		if set.Language == "" {
			file.Sets[i].Language = "English"
		}
	}
	return file.Sets, nil
}

func runSeed(ctx context.Context, cfg config.Config, sets []seedSet) error {
	if err := runMigrations(ctx, cfg); err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	writer := postgres.NewQuestionSetWriter(db)
	for _, set := range sets {
		difficulty, _ := domain.ParseDifficulty(set.Difficulty)
		if err := writer.Save(ctx, set.Topic, difficulty, set.Language, set.Questions); err != nil {
			return err
		}
		log.Printf("seeded %q (%s, %s): %d questions", set.Topic, difficulty, set.Language, len(set.Questions))
	}
	return nil
}

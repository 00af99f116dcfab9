package cli

import "trivia-quest/internal/domain"

// sampleQuestionSets backs the static question source for offline play and
// demos. Seed Postgres or configure Gemini for anything beyond these topics.
func sampleQuestionSets() map[string][]domain.Question {
	return map[string][]domain.Question{
		"General Knowledge": {
			{Prompt: "What is the capital of Australia?", Options: []string{"Sydney", "Melbourne", "Canberra", "Perth"}, CorrectOption: "Canberra"},
			{Prompt: "How many continents are there?", Options: []string{"5", "6", "7", "8"}, CorrectOption: "7"},
			{Prompt: "Which ocean is the largest?", Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectOption: "Pacific"},
			{Prompt: "Who painted the Mona Lisa?", Options: []string{"Michelangelo", "Leonardo da Vinci", "Raphael", "Donatello"}, CorrectOption: "Leonardo da Vinci"},
			{Prompt: "What is the smallest prime number?", Options: []string{"0", "1", "2", "3"}, CorrectOption: "2"},
		},
		"Science": {
			{Prompt: "What is the chemical symbol for gold?", Options: []string{"Ag", "Au", "Gd", "Go"}, CorrectOption: "Au"},
			{Prompt: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Jupiter", "Mars", "Mercury"}, CorrectOption: "Mars"},
			{Prompt: "What gas do plants absorb from the air?", Options: []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Helium"}, CorrectOption: "Carbon dioxide"},
			{Prompt: "How many bones are in the adult human body?", Options: []string{"186", "206", "226", "246"}, CorrectOption: "206"},
			{Prompt: "What is the speed of light in a vacuum, roughly?", Options: []string{"300,000 km/s", "150,000 km/s", "30,000 km/s", "3,000,000 km/s"}, CorrectOption: "300,000 km/s"},
		},
	}
}

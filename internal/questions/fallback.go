package questions

import (
	"fmt"
	"math/rand"
	"strings"

	"kiwilearn/internal/models"
)

// Fallback returns a minimal built-in question so a practice session is
// never blocked by an upstream outage
func Fallback(subject models.Subject) *models.GeneratedQuestion {
	if subject == models.SubjectMaths {
		n := rand.Intn(10)
		return &models.GeneratedQuestion{
			Question:      fmt.Sprintf("What is 5 + %d?", n),
			CorrectAnswer: fmt.Sprintf("%d", 5+n),
			Topic:         "addition",
			Difficulty:    models.DifficultyEasy,
		}
	}
	return &models.GeneratedQuestion{
		Question:      "What is the past tense of 'run'?",
		CorrectAnswer: "ran",
		Topic:         "grammar",
		Difficulty:    models.DifficultyEasy,
	}
}

// FallbackValidate marks an answer by case-insensitive trimmed comparison,
// with generic feedback
func FallbackValidate(correctAnswer, userAnswer string) *models.ValidationResult {
	isCorrect := strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))

	feedback := fmt.Sprintf("Not quite. The correct answer is %s. Keep trying!", correctAnswer)
	if isCorrect {
		feedback = "Great job! That's correct!"
	}

	return &models.ValidationResult{IsCorrect: isCorrect, Feedback: feedback}
}

// Package difficulty implements the adaptive difficulty engine: a pure,
// deterministic rule set that moves a student's per-subject level at most
// one step per evaluation based on recent session accuracy.
package difficulty

import (
	"math"

	"kiwilearn/internal/models"
)

const (
	// minSessions is the cold-start guard: with fewer recent sessions the
	// stored difficulty is kept as-is to avoid reacting to noisy early data
	minSessions = 3

	// accuracyWindow is how many of the most recent sessions feed the
	// accuracy calculation
	accuracyWindow = 5

	// stepUpThreshold and stepDownThreshold are the accuracy percentages
	// that trigger a difficulty change
	stepUpThreshold   = 85
	stepDownThreshold = 40

	// neutralAccuracy is assumed when the window holds no attempts
	neutralAccuracy = 50
)

// SessionOutcome is the slice of a practice session the engine cares about
type SessionOutcome struct {
	QuestionsAttempted int
	QuestionsCorrect   int
}

// Compute returns the next difficulty for a subject given the user's
// current stored difficulty and their recent sessions, newest first.
// The result never moves more than one step from current.
func Compute(current models.Difficulty, recent []SessionOutcome) models.Difficulty {
	if !current.Valid() {
		current = models.DifficultyMedium
	}

	if len(recent) < minSessions {
		return current
	}

	accuracy := RecentAccuracy(recent)

	if accuracy >= stepUpThreshold && current != models.DifficultyHard {
		return stepUp(current)
	}
	if accuracy <= stepDownThreshold && current != models.DifficultyEasy {
		return stepDown(current)
	}

	return current
}

// RecentAccuracy returns the rounded percentage of correct answers over
// the last five sessions, newest first. An empty window reads as 50.
func RecentAccuracy(recent []SessionOutcome) int {
	window := recent
	if len(window) > accuracyWindow {
		window = window[:accuracyWindow]
	}

	totalAttempted := 0
	totalCorrect := 0
	for _, s := range window {
		totalAttempted += s.QuestionsAttempted
		totalCorrect += s.QuestionsCorrect
	}

	if totalAttempted == 0 {
		return neutralAccuracy
	}

	return int(math.Round(float64(totalCorrect) / float64(totalAttempted) * 100))
}

func stepUp(current models.Difficulty) models.Difficulty {
	if current == models.DifficultyEasy {
		return models.DifficultyMedium
	}
	return models.DifficultyHard
}

func stepDown(current models.Difficulty) models.Difficulty {
	if current == models.DifficultyHard {
		return models.DifficultyMedium
	}
	return models.DifficultyEasy
}

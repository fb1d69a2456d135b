package service

import (
	"errors"
	"log"
	"time"

	"kiwilearn/internal/difficulty"
	"kiwilearn/internal/models"
)

// ProgressionService applies the side effects of a completed practice
// session: streak and points, difficulty recalculation, achievement
// unlocks and pet growth. Steps run in that order because later steps
// read state written by earlier ones.
type ProgressionService struct {
	users        UserRepository
	sessions     SessionRepository
	achievements AchievementRepository
	pets         PetRepository
	stories      StoryRepository
}

// NewProgressionService creates a new progression service
func NewProgressionService(users UserRepository, sessions SessionRepository, achievements AchievementRepository, pets PetRepository, stories StoryRepository) *ProgressionService {
	return &ProgressionService{
		users:        users,
		sessions:     sessions,
		achievements: achievements,
		pets:         pets,
		stories:      stories,
	}
}

// Run executes the progression steps for a freshly completed session.
// Each step is best-effort: a failure is logged and the remaining steps
// still run, since the completion itself is already durable.
func (s *ProgressionService) Run(session *models.PracticeSession, completedAt time.Time) {
	user, err := s.users.GetUser(session.UserID)
	if err != nil {
		log.Printf("Progression aborted, could not load user %s: %v", session.UserID, err)
		return
	}

	if err := s.updateStreakAndPoints(user, session.PointsEarned, completedAt); err != nil {
		log.Printf("Failed to update streak/points for user %s: %v", user.ID, err)
	}

	if err := s.recalculateDifficulty(user, session); err != nil {
		log.Printf("Failed to recalculate difficulty for user %s: %v", user.ID, err)
	}

	if err := s.checkAchievements(user.ID); err != nil {
		log.Printf("Failed to evaluate achievements for user %s: %v", user.ID, err)
	}

	if err := s.growPet(user.ID, session.PointsEarned); err != nil {
		log.Printf("Failed to grow pet for user %s: %v", user.ID, err)
	}
}

// Catalog returns every defined achievement
func (s *ProgressionService) Catalog() ([]models.Achievement, error) {
	return s.achievements.All()
}

// UserAchievements returns the achievements a user has unlocked
func (s *ProgressionService) UserAchievements(userID string) ([]models.UserAchievementWithDetails, error) {
	return s.achievements.ForUser(userID)
}

// updateStreakAndPoints credits the session's points and recomputes the
// daily streak from the previous practice date
func (s *ProgressionService) updateStreakAndPoints(user *models.User, pointsEarned int, completedAt time.Time) error {
	streak := nextStreak(user.LastPracticeDate, completedAt, user.CurrentStreak)

	longest := user.LongestStreak
	if streak > longest {
		longest = streak
	}

	return s.users.UpdateStats(user.ID, pointsEarned, streak, longest, truncateToDay(completedAt))
}

// nextStreak applies the consecutive-day rules: first practice starts at
// one, the day after extends, a gap resets, and a same-day session
// leaves the streak alone.
func nextStreak(lastPractice *time.Time, today time.Time, current int) int {
	if lastPractice == nil {
		return 1
	}

	days := int(truncateToDay(today).Sub(truncateToDay(*lastPractice)).Hours() / 24)
	switch {
	case days == 1:
		return current + 1
	case days > 1:
		return 1
	default:
		return current
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// recalculateDifficulty re-derives the subject difficulty from the last
// ten completed sessions, which now include the just-finished one.
// Sessions with no attempts carry no signal, so they skip the recalc.
func (s *ProgressionService) recalculateDifficulty(user *models.User, session *models.PracticeSession) error {
	if session.QuestionsAttempted == 0 {
		return nil
	}

	recent, err := s.sessions.RecentBySubject(user.ID, session.Subject, difficultyWindow)
	if err != nil {
		return err
	}

	outcomes := toOutcomes(recent)
	level := difficulty.Compute(user.DifficultyFor(session.Subject), outcomes)
	accuracy := difficulty.RecentAccuracy(outcomes)

	return s.users.UpdateDifficulty(user.ID, session.Subject, level, accuracy)
}

// checkAchievements unlocks every catalog entry whose threshold the
// user's updated stats now meet. Unlocks are idempotent and never
// revoked, even if stats later regress.
func (s *ProgressionService) checkAchievements(userID string) error {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return err
	}

	catalog, err := s.achievements.All()
	if err != nil {
		return err
	}

	storiesCompleted := -1 // lazily counted, most catalogs have no story entries

	for _, achievement := range catalog {
		unlock := false

		switch achievement.Category {
		case models.CategoryStreak:
			unlock = user.CurrentStreak >= achievement.Requirement
		case models.CategoryPractice:
			unlock = user.TotalPoints >= achievement.Requirement
		case models.CategoryStory:
			if storiesCompleted < 0 {
				storiesCompleted, err = s.stories.CountCompleted(userID)
				if err != nil {
					return err
				}
			}
			unlock = storiesCompleted >= achievement.Requirement
		}

		if unlock {
			if err := s.achievements.Unlock(userID, achievement.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// growPet feeds the session's points into the pet as experience,
// carrying overflow into levels until the remainder is below ExpPerLevel
func (s *ProgressionService) growPet(userID string, pointsEarned int) error {
	if pointsEarned == 0 {
		return nil
	}

	pet, err := s.pets.ByUserID(userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	level, experience := applyExperience(pet.Level, pet.Experience, pointsEarned)
	return s.pets.UpdateGrowth(pet.ID, level, experience)
}

// applyExperience adds gained experience and resolves level-ups,
// handling multi-level jumps from a single session
func applyExperience(level, experience, gained int) (int, int) {
	experience += gained
	for experience >= ExpPerLevel {
		level++
		experience -= ExpPerLevel
	}
	return level, experience
}

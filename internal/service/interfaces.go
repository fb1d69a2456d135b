package service

import (
	"context"
	"time"

	"kiwilearn/internal/models"
)

// Repository interfaces consumed by the services. The concrete SQL
// implementations live in internal/repository; tests substitute fakes.

// UserRepository persists user accounts and their progression stats
type UserRepository interface {
	GetUser(id string) (*models.User, error)
	UpsertUser(u *models.User) (*models.User, error)
	UpdateStats(userID string, pointsDelta, currentStreak, longestStreak int, lastPracticeDate time.Time) error
	UpdateDifficulty(userID string, subject models.Subject, level models.Difficulty, accuracy int) error
	AddPoints(userID string, delta int) error
	SpendPoints(userID string, cost int) (bool, error)
}

// SessionRepository persists practice sessions and their questions
type SessionRepository interface {
	Create(userID string, subject models.Subject, yearLevel int) (*models.PracticeSession, error)
	Get(id string) (*models.PracticeSession, error)
	RecordAnswer(sessionID string, correct bool, points int) error
	AddQuestion(q *models.SessionQuestion) error
	Complete(id string, at time.Time) (bool, error)
	RecentBySubject(userID string, subject models.Subject, limit int) ([]models.PracticeSession, error)
	Recent(userID string, limit int) ([]models.PracticeSession, error)
	All(userID string) ([]models.PracticeSession, error)
	Questions(sessionID string) ([]models.SessionQuestion, error)
	UserAggregates(userID string) (completed, attempted, correct int, err error)
}

// AchievementRepository reads the static catalog and records unlocks
type AchievementRepository interface {
	All() ([]models.Achievement, error)
	ForUser(userID string) ([]models.UserAchievementWithDetails, error)
	Unlock(userID, achievementID string) error
}

// PetRepository persists virtual pets
type PetRepository interface {
	Create(pet *models.Pet) error
	ByUserID(userID string) (*models.Pet, error)
	UpdateGrowth(petID string, level, experience int) error
	UpdateCare(petID string, happiness, hunger int, lastFed time.Time) error
	UpdateVitals(petID string, happiness, hunger int) error
	AllPets() ([]models.Pet, error)
}

// StoryRepository reads story content and persists per-user progress
type StoryRepository interface {
	ActiveStories() ([]models.Story, error)
	Story(id string) (*models.Story, error)
	Chapters(storyID string) ([]models.Chapter, error)
	Chapter(storyID string, chapterNumber int) (*models.Chapter, error)
	Progress(userID, storyID string) (*models.UserStoryProgress, error)
	CreateProgress(userID, storyID string) (*models.UserStoryProgress, error)
	IncrementQuestions(userID, storyID string) error
	SaveProgress(p *models.UserStoryProgress) error
	ProgressForUser(userID string) ([]models.UserStoryProgress, error)
	CountCompleted(userID string) (int, error)
}

// LinkRepository persists supervisor-student links
type LinkRepository interface {
	Create(link *models.StudentLink) error
	Get(id string) (*models.StudentLink, error)
	BySupervisor(supervisorID string) ([]models.StudentLinkWithStudent, error)
	Approved(supervisorID, studentID string) (*models.StudentLink, error)
	Approve(id string) error
	Delete(id string) error
}

// QuestionService is the external AI collaborator. Failures are recovered
// locally with deterministic fallbacks, never surfaced to the student.
type QuestionService interface {
	Generate(ctx context.Context, subject models.Subject, yearLevel int, topic string, level models.Difficulty) (*models.GeneratedQuestion, error)
	Validate(ctx context.Context, question, correctAnswer, userAnswer string, subject models.Subject) (*models.ValidationResult, error)
}

// Notifier sends out-of-band notifications, best-effort
type Notifier interface {
	SendLinkRequest(ctx context.Context, toEmail, studentName, supervisorName string) error
}

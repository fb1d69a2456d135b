package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/difficulty"
	"kiwilearn/internal/models"
	"kiwilearn/internal/questions"
)

// PracticeService orchestrates the practice session lifecycle:
// start, question requests, answer submissions and completion
type PracticeService struct {
	users       UserRepository
	sessions    SessionRepository
	questions   QuestionService
	progression *ProgressionService
}

// NewPracticeService creates a new practice service
func NewPracticeService(users UserRepository, sessions SessionRepository, questionSvc QuestionService, progression *ProgressionService) *PracticeService {
	return &PracticeService{
		users:       users,
		sessions:    sessions,
		questions:   questionSvc,
		progression: progression,
	}
}

// StartSession creates a practice session with zeroed counters. Users may
// hold several in-progress sessions at once; abandoned ones simply stop
// receiving events.
func (s *PracticeService) StartSession(userID string, subject models.Subject, yearLevel int) (*models.PracticeSession, error) {
	if !subject.Valid() {
		return nil, fmt.Errorf("%w: unknown subject %q", models.ErrInvalidInput, subject)
	}
	if yearLevel < 1 || yearLevel > 8 {
		return nil, fmt.Errorf("%w: year level must be 1-8, got %d", models.ErrInvalidInput, yearLevel)
	}

	return s.sessions.Create(userID, subject, yearLevel)
}

// RequestQuestion produces the next question for a user. Difficulty is
// always recomputed server-side from the user's stored level and recent
// completed sessions, so a client cannot request an easier level than
// earned. Generation failures fall back to a built-in question.
func (s *PracticeService) RequestQuestion(ctx context.Context, userID string, subject models.Subject, yearLevel int, topic string) (*models.GeneratedQuestion, error) {
	if !subject.Valid() {
		return nil, fmt.Errorf("%w: unknown subject %q", models.ErrInvalidInput, subject)
	}
	if yearLevel < 1 || yearLevel > 8 {
		return nil, fmt.Errorf("%w: year level must be 1-8, got %d", models.ErrInvalidInput, yearLevel)
	}

	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.sessions.RecentBySubject(userID, subject, difficultyWindow)
	if err != nil {
		return nil, err
	}

	level := difficulty.Compute(user.DifficultyFor(subject), toOutcomes(recent))

	question, err := s.questions.Generate(ctx, subject, yearLevel, topic, level)
	if err != nil {
		log.Printf("Question generation failed, using fallback: %v", err)
		question = questions.Fallback(subject)
	}

	question.ID = uuid.NewString()
	return question, nil
}

// SubmitAnswer records one answered question against a session the caller
// owns. Validator failures fall back to a literal answer match. Session
// counters are incremented atomically in the store.
func (s *PracticeService) SubmitAnswer(ctx context.Context, userID, sessionID, question, correctAnswer, userAnswer string, subject models.Subject) (*models.ValidationResult, error) {
	if !subject.Valid() {
		return nil, fmt.Errorf("%w: unknown subject %q", models.ErrInvalidInput, subject)
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(correctAnswer) == "" {
		return nil, fmt.Errorf("%w: question and correct answer are required", models.ErrInvalidInput)
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	// Ownership failures read the same as missing sessions so responses
	// don't confirm which session IDs exist
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}

	result, err := s.questions.Validate(ctx, question, correctAnswer, userAnswer, subject)
	if err != nil {
		log.Printf("Answer validation failed, using literal match: %v", err)
		result = questions.FallbackValidate(correctAnswer, userAnswer)
	}

	record := &models.SessionQuestion{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Question:      question,
		CorrectAnswer: correctAnswer,
		UserAnswer:    userAnswer,
		IsCorrect:     result.IsCorrect,
		AIFeedback:    result.Feedback,
		CreatedAt:     time.Now(),
	}
	if err := s.sessions.AddQuestion(record); err != nil {
		return nil, err
	}

	points := 0
	if result.IsCorrect {
		points = PointsPerCorrectAnswer
	}
	if err := s.sessions.RecordAnswer(sessionID, result.IsCorrect, points); err != nil {
		return nil, err
	}

	return result, nil
}

// CompleteSession finalizes a session the caller owns and runs the
// progression side effects exactly once. A repeat call is a no-op
// success, so duplicate network retries are harmless.
func (s *PracticeService) CompleteSession(userID, sessionID string) (*models.PracticeSession, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}

	completedAt := time.Now()
	transitioned, err := s.sessions.Complete(sessionID, completedAt)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Already completed; side effects have run
		return session, nil
	}

	// Re-read once for the finalized counters before progression runs
	session, err = s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.progression.Run(session, completedAt)
	return session, nil
}

// RecentSessions retrieves a user's most recent sessions for the dashboard
func (s *PracticeService) RecentSessions(userID string, limit int) ([]models.PracticeSession, error) {
	return s.sessions.Recent(userID, limit)
}

// AllSessions retrieves a user's full session history
func (s *PracticeService) AllSessions(userID string) ([]models.PracticeSession, error) {
	return s.sessions.All(userID)
}

// SessionQuestions retrieves the answered questions of a session the
// caller owns
func (s *PracticeService) SessionQuestions(userID, sessionID string) ([]models.SessionQuestion, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}

	return s.sessions.Questions(sessionID)
}

// toOutcomes projects sessions onto the difficulty engine's input
func toOutcomes(sessions []models.PracticeSession) []difficulty.SessionOutcome {
	outcomes := make([]difficulty.SessionOutcome, len(sessions))
	for i, session := range sessions {
		outcomes[i] = difficulty.SessionOutcome{
			QuestionsAttempted: session.QuestionsAttempted,
			QuestionsCorrect:   session.QuestionsCorrect,
		}
	}
	return outcomes
}

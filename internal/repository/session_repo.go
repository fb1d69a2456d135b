package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// SessionRepository handles practice session database operations
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, subject, year_level,
		questions_attempted, questions_correct, points_earned, completed_at, created_at`

// Create starts a new practice session with zeroed counters and returns it
func (r *SessionRepository) Create(userID string, subject models.Subject, yearLevel int) (*models.PracticeSession, error) {
	session := &models.PracticeSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Subject:   subject,
		YearLevel: yearLevel,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO practice_sessions
		(id, user_id, subject, year_level, questions_attempted, questions_correct, points_earned, created_at)
		VALUES (?, ?, ?, ?, 0, 0, 0, ?)
	`
	_, err := r.db.Exec(query, session.ID, session.UserID, session.Subject, session.YearLevel, session.CreatedAt)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Get retrieves a practice session by ID
func (r *SessionRepository) Get(id string) (*models.PracticeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM practice_sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// RecordAnswer bumps a session's counters for one answered question.
// The increments run as a single update so two concurrent submissions
// for the same session never lose a count.
func (r *SessionRepository) RecordAnswer(sessionID string, correct bool, points int) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	query := `
		UPDATE practice_sessions
		SET questions_attempted = questions_attempted + 1,
		    questions_correct = questions_correct + ?,
		    points_earned = points_earned + ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, correctDelta, points, sessionID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
	}
	return nil
}

// AddQuestion appends an answered question to a session
func (r *SessionRepository) AddQuestion(q *models.SessionQuestion) error {
	query := `
		INSERT INTO session_questions
		(id, session_id, question, correct_answer, user_answer, is_correct, ai_feedback, topic, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		q.ID, q.SessionID, q.Question, q.CorrectAnswer, q.UserAnswer,
		q.IsCorrect, q.AIFeedback, q.Topic, q.Difficulty, q.CreatedAt)
	return err
}

// Complete marks a session as finished. It reports whether this call
// performed the transition: a second call finds completed_at already set
// and returns false, which is the guard against re-running side effects.
func (r *SessionRepository) Complete(id string, at time.Time) (bool, error) {
	query := `
		UPDATE practice_sessions
		SET completed_at = ?
		WHERE id = ? AND completed_at IS NULL
	`
	result, err := r.db.Exec(query, at, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// RecentBySubject retrieves a user's most recent completed sessions for
// one subject, newest first. Only completed sessions feed the difficulty
// window, so an abandoned tab can't dilute the accuracy signal.
func (r *SessionRepository) RecentBySubject(userID string, subject models.Subject, limit int) ([]models.PracticeSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE user_id = ? AND subject = ? AND completed_at IS NOT NULL
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Recent retrieves a user's most recent sessions across subjects
func (r *SessionRepository) Recent(userID string, limit int) ([]models.PracticeSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// All retrieves every session for a user, newest first
func (r *SessionRepository) All(userID string) ([]models.PracticeSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

// Questions retrieves all answered questions for a session in answer order
func (r *SessionRepository) Questions(sessionID string) ([]models.SessionQuestion, error) {
	query := `
		SELECT id, session_id, question, correct_answer, user_answer, is_correct, ai_feedback, topic, difficulty, created_at
		FROM session_questions
		WHERE session_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.SessionQuestion
	for rows.Next() {
		var q models.SessionQuestion
		err := rows.Scan(
			&q.ID, &q.SessionID, &q.Question, &q.CorrectAnswer, &q.UserAnswer,
			&q.IsCorrect, &q.AIFeedback, &q.Topic, &q.Difficulty, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// UserAggregates sums a user's completed-session counters for the
// supervisor dashboard
func (r *SessionRepository) UserAggregates(userID string) (completed, attempted, correct int, err error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(questions_attempted), 0),
		       COALESCE(SUM(questions_correct), 0)
		FROM practice_sessions
		WHERE user_id = ? AND completed_at IS NOT NULL
	`
	err = r.db.QueryRow(query, userID).Scan(&completed, &attempted, &correct)
	return completed, attempted, correct, err
}

func scanSession(row *sql.Row) (*models.PracticeSession, error) {
	session := &models.PracticeSession{}
	var completedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Subject,
		&session.YearLevel,
		&session.QuestionsAttempted,
		&session.QuestionsCorrect,
		&session.PointsEarned,
		&completedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}
	return session, nil
}

func scanSessions(rows *sql.Rows) ([]models.PracticeSession, error) {
	var sessions []models.PracticeSession
	for rows.Next() {
		var session models.PracticeSession
		var completedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Subject,
			&session.YearLevel,
			&session.QuestionsAttempted,
			&session.QuestionsCorrect,
			&session.PointsEarned,
			&completedAt,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			session.CompletedAt = &completedAt.Time
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

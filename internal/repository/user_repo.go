package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, role, year_level,
		total_points, current_streak, longest_streak, last_practice_date,
		maths_difficulty, english_difficulty, maths_accuracy_recent, english_accuracy_recent,
		created_at, updated_at`

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertUser inserts a user on first login or refreshes identity fields
// on subsequent logins, and returns the stored row
func (r *UserRepository) UpsertUser(u *models.User) (*models.User, error) {
	existing, err := r.GetUser(u.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := time.Now()

	if existing != nil {
		query := `
			UPDATE users
			SET email = ?, first_name = ?, last_name = ?, updated_at = ?
			WHERE id = ?
		`
		if _, err := r.db.Exec(query, u.Email, u.FirstName, u.LastName, now, u.ID); err != nil {
			return nil, err
		}
		return r.GetUser(u.ID)
	}

	role := u.Role
	if role == "" {
		role = models.RoleStudent
	}
	yearLevel := u.YearLevel
	if yearLevel == 0 {
		yearLevel = 1
	}

	query := `
		INSERT INTO users
		(id, email, first_name, last_name, role, year_level,
		 total_points, current_streak, longest_streak,
		 maths_difficulty, english_difficulty, maths_accuracy_recent, english_accuracy_recent,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?, 50, 50, ?, ?)
	`
	_, err = r.db.Exec(query,
		u.ID, u.Email, u.FirstName, u.LastName, role, yearLevel,
		models.DifficultyMedium, models.DifficultyMedium, now, now)
	if err != nil {
		return nil, err
	}

	return r.GetUser(u.ID)
}

// UpdateStats applies a completed session's points and the recomputed
// streak values. The points add is a single atomic update so concurrent
// completions never lose an increment.
func (r *UserRepository) UpdateStats(userID string, pointsDelta, currentStreak, longestStreak int, lastPracticeDate time.Time) error {
	query := `
		UPDATE users
		SET total_points = total_points + ?,
		    current_streak = ?,
		    longest_streak = ?,
		    last_practice_date = ?,
		    updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, pointsDelta, currentStreak, longestStreak, lastPracticeDate, time.Now(), userID)
	return err
}

// UpdateDifficulty persists the recomputed difficulty and recent accuracy
// for one subject
func (r *UserRepository) UpdateDifficulty(userID string, subject models.Subject, level models.Difficulty, accuracy int) error {
	var query string
	if subject == models.SubjectMaths {
		query = `
			UPDATE users
			SET maths_difficulty = ?, maths_accuracy_recent = ?, updated_at = ?
			WHERE id = ?
		`
	} else {
		query = `
			UPDATE users
			SET english_difficulty = ?, english_accuracy_recent = ?, updated_at = ?
			WHERE id = ?
		`
	}
	_, err := r.db.Exec(query, level, accuracy, time.Now(), userID)
	return err
}

// AddPoints credits points to a user atomically
func (r *UserRepository) AddPoints(userID string, delta int) error {
	query := `
		UPDATE users
		SET total_points = total_points + ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, delta, time.Now(), userID)
	return err
}

// SpendPoints debits points if the user has enough, reporting whether
// the spend happened. The balance check and debit are one statement so
// concurrent spends can't go negative.
func (r *UserRepository) SpendPoints(userID string, cost int) (bool, error) {
	query := `
		UPDATE users
		SET total_points = total_points - ?, updated_at = ?
		WHERE id = ? AND total_points >= ?
	`
	result, err := r.db.Exec(query, cost, time.Now(), userID, cost)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastPractice sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.YearLevel,
		&user.TotalPoints,
		&user.CurrentStreak,
		&user.LongestStreak,
		&lastPractice,
		&user.MathsDifficulty,
		&user.EnglishDifficulty,
		&user.MathsAccuracyRecent,
		&user.EnglishAccuracyRecent,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastPractice.Valid {
		user.LastPracticeDate = &lastPractice.Time
	}
	return user, nil
}

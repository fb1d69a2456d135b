package repository

import (
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// AchievementRepository handles achievement catalog and unlock operations
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// All retrieves the static achievement catalog
func (r *AchievementRepository) All() ([]models.Achievement, error) {
	query := `
		SELECT id, name, description, icon, category, requirement
		FROM achievements
		ORDER BY requirement ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Category, &a.Requirement); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}

	return achievements, rows.Err()
}

// ForUser retrieves a user's unlocked achievements with catalog details,
// newest unlock first
func (r *AchievementRepository) ForUser(userID string) ([]models.UserAchievementWithDetails, error) {
	query := `
		SELECT ua.id, ua.user_id, ua.achievement_id, ua.unlocked_at,
		       a.id, a.name, a.description, a.icon, a.category, a.requirement
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = ?
		ORDER BY ua.unlocked_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []models.UserAchievementWithDetails
	for rows.Next() {
		var ua models.UserAchievementWithDetails
		err := rows.Scan(
			&ua.ID, &ua.UserID, &ua.AchievementID, &ua.UnlockedAt,
			&ua.Achievement.ID, &ua.Achievement.Name, &ua.Achievement.Description,
			&ua.Achievement.Icon, &ua.Achievement.Category, &ua.Achievement.Requirement)
		if err != nil {
			return nil, err
		}
		unlocked = append(unlocked, ua)
	}

	return unlocked, rows.Err()
}

// Unlock records an achievement for a user if not already unlocked.
// Safe to call repeatedly: at most one row exists per (user, achievement).
func (r *AchievementRepository) Unlock(userID, achievementID string) error {
	var count int
	existsQuery := `
		SELECT COUNT(*) FROM user_achievements
		WHERE user_id = ? AND achievement_id = ?
	`
	if err := r.db.QueryRow(existsQuery, userID, achievementID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	insertQuery := `
		INSERT INTO user_achievements (id, user_id, achievement_id, unlocked_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(insertQuery, uuid.NewString(), userID, achievementID, time.Now())
	return err
}

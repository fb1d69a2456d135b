package models

import "time"

// AchievementCategory decides which user stat an achievement's
// requirement is checked against
type AchievementCategory string

const (
	CategoryStreak   AchievementCategory = "streak"   // currentStreak >= requirement
	CategoryPractice AchievementCategory = "practice" // totalPoints >= requirement
	CategoryStory    AchievementCategory = "story"    // completed stories >= requirement
)

// Achievement is a static catalog entry
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"`
}

// UserAchievement records an unlocked achievement. One row per
// (user, achievement), never deleted.
type UserAchievement struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	AchievementID string    `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// UserAchievementWithDetails joins the unlock row with its catalog entry
// for the achievement gallery
type UserAchievementWithDetails struct {
	UserAchievement
	Achievement Achievement `json:"achievement"`
}

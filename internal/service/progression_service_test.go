package service

import (
	"testing"
	"time"

	"kiwilearn/internal/models"
)

func TestNextStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)
	sameDayMorning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastPractice *time.Time
		current      int
		expected     int
	}{
		{
			name:         "first ever practice starts at one",
			lastPractice: nil,
			current:      0,
			expected:     1,
		},
		{
			name:         "practiced yesterday extends streak",
			lastPractice: &yesterday,
			current:      4,
			expected:     5,
		},
		{
			name:         "gap resets streak to one",
			lastPractice: &threeDaysAgo,
			current:      9,
			expected:     1,
		},
		{
			name:         "second session same day leaves streak alone",
			lastPractice: &sameDayMorning,
			current:      4,
			expected:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextStreak(tt.lastPractice, today, tt.current)
			if got != tt.expected {
				t.Errorf("nextStreak() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestApplyExperience(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		experience int
		gained     int
		wantLevel  int
		wantExp    int
	}{
		{
			name:       "no level up",
			level:      1,
			experience: 40,
			gained:     30,
			wantLevel:  1,
			wantExp:    70,
		},
		{
			name:       "single level up carries overflow",
			level:      2,
			experience: 95,
			gained:     30,
			wantLevel:  3,
			wantExp:    25,
		},
		{
			name:       "big session jumps multiple levels",
			level:      1,
			experience: 0,
			gained:     250,
			wantLevel:  3,
			wantExp:    50,
		},
		{
			name:       "exact boundary rolls to zero",
			level:      1,
			experience: 90,
			gained:     10,
			wantLevel:  2,
			wantExp:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, exp := applyExperience(tt.level, tt.experience, tt.gained)
			if level != tt.wantLevel || exp != tt.wantExp {
				t.Errorf("applyExperience() = (%d, %d), want (%d, %d)", level, exp, tt.wantLevel, tt.wantExp)
			}
		})
	}
}

func TestProgressionRunUpdatesStreakPointsAndPet(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	user := &models.User{
		ID:               "user-1",
		TotalPoints:      100,
		CurrentStreak:    2,
		LongestStreak:    2,
		LastPracticeDate: &yesterday,
	}
	users := newFakeUserRepo(user)
	sessions := newFakeSessionRepo()
	achievements := newFakeAchievementRepo()
	pets := newFakePetRepo(&models.Pet{ID: "pet-1", UserID: "user-1", Level: 1, Experience: 95})
	stories := newFakeStoryRepo()

	svc := NewProgressionService(users, sessions, achievements, pets, stories)

	now := time.Now()
	session := &models.PracticeSession{
		ID:                 "session-1",
		UserID:             "user-1",
		Subject:            models.SubjectMaths,
		QuestionsAttempted: 5,
		QuestionsCorrect:   5,
		PointsEarned:       50,
		CompletedAt:        &now,
	}
	svc.Run(session, now)

	updated, _ := users.GetUser("user-1")
	if updated.TotalPoints != 150 {
		t.Errorf("total points = %d, want 150", updated.TotalPoints)
	}
	if updated.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", updated.CurrentStreak)
	}
	if updated.LongestStreak != 3 {
		t.Errorf("longest streak = %d, want 3", updated.LongestStreak)
	}

	pet, _ := pets.ByUserID("user-1")
	if pet.Level != 2 || pet.Experience != 45 {
		t.Errorf("pet = level %d exp %d, want level 2 exp 45", pet.Level, pet.Experience)
	}
}

func TestProgressionRunSkipsDifficultyForEmptySession(t *testing.T) {
	user := &models.User{ID: "user-1", MathsDifficulty: models.DifficultyHard}
	users := newFakeUserRepo(user)
	svc := NewProgressionService(users, newFakeSessionRepo(), newFakeAchievementRepo(), newFakePetRepo(), newFakeStoryRepo())

	now := time.Now()
	session := &models.PracticeSession{
		ID:          "session-1",
		UserID:      "user-1",
		Subject:     models.SubjectMaths,
		CompletedAt: &now,
	}
	svc.Run(session, now)

	updated, _ := users.GetUser("user-1")
	if updated.MathsDifficulty != models.DifficultyHard {
		t.Errorf("difficulty changed to %s on an empty session", updated.MathsDifficulty)
	}
}

func TestCheckAchievementsUnlocksAndStaysIdempotent(t *testing.T) {
	user := &models.User{ID: "user-1", TotalPoints: 60, CurrentStreak: 3}
	users := newFakeUserRepo(user)
	achievements := newFakeAchievementRepo(
		models.Achievement{ID: "a-streak-3", Category: models.CategoryStreak, Requirement: 3},
		models.Achievement{ID: "a-streak-7", Category: models.CategoryStreak, Requirement: 7},
		models.Achievement{ID: "a-points-50", Category: models.CategoryPractice, Requirement: 50},
		models.Achievement{ID: "a-story-1", Category: models.CategoryStory, Requirement: 1},
	)
	svc := NewProgressionService(users, newFakeSessionRepo(), achievements, newFakePetRepo(), newFakeStoryRepo())

	if err := svc.checkAchievements("user-1"); err != nil {
		t.Fatalf("checkAchievements() error = %v", err)
	}
	if got := achievements.unlockedCount("user-1"); got != 2 {
		t.Fatalf("unlocked %d achievements, want 2", got)
	}

	// Second pass unlocks nothing new
	if err := svc.checkAchievements("user-1"); err != nil {
		t.Fatalf("checkAchievements() second run error = %v", err)
	}
	if got := achievements.unlockedCount("user-1"); got != 2 {
		t.Errorf("unlocked %d achievements after rerun, want 2", got)
	}
}

func TestGrowPetNoPetIsNotAnError(t *testing.T) {
	svc := NewProgressionService(newFakeUserRepo(), newFakeSessionRepo(), newFakeAchievementRepo(), newFakePetRepo(), newFakeStoryRepo())
	if err := svc.growPet("user-without-pet", 50); err != nil {
		t.Errorf("growPet() error = %v, want nil", err)
	}
}

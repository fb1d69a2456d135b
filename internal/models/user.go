package models

import "time"

// Role identifies the kind of account
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleTeacher Role = "teacher"
)

// Subject is one of the two practice domains
type Subject string

const (
	SubjectMaths   Subject = "maths"
	SubjectEnglish Subject = "english"
)

// Valid reports whether the subject is one of the known practice domains
func (s Subject) Valid() bool {
	return s == SubjectMaths || s == SubjectEnglish
}

// Difficulty controls question generation per subject per user.
// Total ordering: easy < medium < hard.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known level
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// User represents an account: a student practising, or a parent/teacher
// supervising students
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Role             Role       `json:"role"`
	YearLevel        int        `json:"yearLevel"` // NZ curriculum Years 1-8
	TotalPoints      int        `json:"totalPoints"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	LastPracticeDate *time.Time `json:"lastPracticeDate,omitempty"`

	// Per-subject adaptive difficulty state
	MathsDifficulty       Difficulty `json:"mathsDifficulty"`
	EnglishDifficulty     Difficulty `json:"englishDifficulty"`
	MathsAccuracyRecent   int        `json:"mathsAccuracyRecent"` // percentage 0-100
	EnglishAccuracyRecent int        `json:"englishAccuracyRecent"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DifficultyFor returns the stored difficulty for a subject, defaulting
// to medium when unset
func (u *User) DifficultyFor(subject Subject) Difficulty {
	var d Difficulty
	if subject == SubjectMaths {
		d = u.MathsDifficulty
	} else {
		d = u.EnglishDifficulty
	}
	if !d.Valid() {
		return DifficultyMedium
	}
	return d
}

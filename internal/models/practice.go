package models

import "time"

// PracticeSession represents one practice run for a user and subject.
// CompletedAt is nil while the session is in progress.
type PracticeSession struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	Subject            Subject    `json:"subject"`
	YearLevel          int        `json:"yearLevel"`
	QuestionsAttempted int        `json:"questionsAttempted"`
	QuestionsCorrect   int        `json:"questionsCorrect"`
	PointsEarned       int        `json:"pointsEarned"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Completed reports whether the session has been finalized
func (s *PracticeSession) Completed() bool {
	return s.CompletedAt != nil
}

// SessionQuestion is one answered question within a session, append-only
type SessionQuestion struct {
	ID            string     `json:"id"`
	SessionID     string     `json:"sessionId"`
	Question      string     `json:"question"`
	CorrectAnswer string     `json:"correctAnswer"`
	UserAnswer    string     `json:"userAnswer"`
	IsCorrect     bool       `json:"isCorrect"`
	AIFeedback    string     `json:"aiFeedback,omitempty"`
	Topic         string     `json:"topic,omitempty"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// GeneratedQuestion is what the question service hands back for a
// single generation request
type GeneratedQuestion struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	CorrectAnswer string     `json:"correctAnswer"`
	Topic         string     `json:"topic"`
	Difficulty    Difficulty `json:"difficulty"`
	Hint          string     `json:"hint,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
}

// ValidationResult is the outcome of checking a submitted answer
type ValidationResult struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
}

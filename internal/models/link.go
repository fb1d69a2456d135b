package models

import "time"

// Relationship is how a supervisor is connected to a student
type Relationship string

const (
	RelationshipParent  Relationship = "parent"
	RelationshipTeacher Relationship = "teacher"
)

// Valid reports whether the relationship is a known kind
func (r Relationship) Valid() bool {
	return r == RelationshipParent || r == RelationshipTeacher
}

// StudentLink connects a supervising parent/teacher to a student.
// Read access to the student's stats requires Approved.
type StudentLink struct {
	ID           string       `json:"id"`
	SupervisorID string       `json:"supervisorId"`
	StudentID    string       `json:"studentId"`
	Relationship Relationship `json:"relationship"`
	Approved     bool         `json:"approved"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// StudentLinkWithStudent joins a link with the student's account for
// the supervisor dashboard
type StudentLinkWithStudent struct {
	StudentLink
	Student User `json:"student"`
}

// StudentStats is the aggregated read model a supervisor sees for one
// linked student
type StudentStats struct {
	Student           User `json:"student"`
	CompletedSessions int  `json:"completedSessions"`
	TotalQuestions    int  `json:"totalQuestions"`
	TotalCorrect      int  `json:"totalCorrect"`
	OverallAccuracy   int  `json:"overallAccuracy"` // percentage over completed sessions
}

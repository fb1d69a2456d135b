package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// LinkRepository handles supervisor-student link database operations
type LinkRepository struct {
	db database.DBTX
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db database.DBTX) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create records a new supervisor-student link
func (r *LinkRepository) Create(link *models.StudentLink) error {
	query := `
		INSERT INTO student_links (id, supervisor_id, student_id, relationship, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		link.ID, link.SupervisorID, link.StudentID, link.Relationship,
		link.Approved, link.CreatedAt)
	return err
}

// Get retrieves a link by ID
func (r *LinkRepository) Get(id string) (*models.StudentLink, error) {
	query := `
		SELECT id, supervisor_id, student_id, relationship, approved, created_at
		FROM student_links
		WHERE id = ?
	`
	link := &models.StudentLink{}
	err := r.db.QueryRow(query, id).Scan(
		&link.ID, &link.SupervisorID, &link.StudentID,
		&link.Relationship, &link.Approved, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("link %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// BySupervisor retrieves a supervisor's links joined with each student's
// account, newest first
func (r *LinkRepository) BySupervisor(supervisorID string) ([]models.StudentLinkWithStudent, error) {
	query := `
		SELECT l.id, l.supervisor_id, l.student_id, l.relationship, l.approved, l.created_at,
		       ` + prefixedUserColumns("u") + `
		FROM student_links l
		JOIN users u ON u.id = l.student_id
		WHERE l.supervisor_id = ?
		ORDER BY l.created_at DESC
	`
	rows, err := r.db.Query(query, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.StudentLinkWithStudent
	for rows.Next() {
		var l models.StudentLinkWithStudent
		var lastPractice sql.NullTime

		err := rows.Scan(
			&l.ID, &l.SupervisorID, &l.StudentID, &l.Relationship, &l.Approved, &l.CreatedAt,
			&l.Student.ID, &l.Student.Email, &l.Student.FirstName, &l.Student.LastName,
			&l.Student.Role, &l.Student.YearLevel, &l.Student.TotalPoints,
			&l.Student.CurrentStreak, &l.Student.LongestStreak, &lastPractice,
			&l.Student.MathsDifficulty, &l.Student.EnglishDifficulty,
			&l.Student.MathsAccuracyRecent, &l.Student.EnglishAccuracyRecent,
			&l.Student.CreatedAt, &l.Student.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if lastPractice.Valid {
			l.Student.LastPracticeDate = &lastPractice.Time
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

// Approved retrieves the approved link between a supervisor and student,
// if one exists
func (r *LinkRepository) Approved(supervisorID, studentID string) (*models.StudentLink, error) {
	query := `
		SELECT id, supervisor_id, student_id, relationship, approved, created_at
		FROM student_links
		WHERE supervisor_id = ? AND student_id = ? AND approved = ?
	`
	link := &models.StudentLink{}
	err := r.db.QueryRow(query, supervisorID, studentID, true).Scan(
		&link.ID, &link.SupervisorID, &link.StudentID,
		&link.Relationship, &link.Approved, &link.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("approved link for student %s: %w", studentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// Approve marks a link as approved
func (r *LinkRepository) Approve(id string) error {
	query := `UPDATE student_links SET approved = ? WHERE id = ?`
	_, err := r.db.Exec(query, true, id)
	return err
}

// Delete removes a link
func (r *LinkRepository) Delete(id string) error {
	query := `DELETE FROM student_links WHERE id = ?`
	_, err := r.db.Exec(query, id)
	return err
}

// prefixedUserColumns expands the user column list with a table alias
// for join queries
func prefixedUserColumns(alias string) string {
	cols := []string{
		"id", "email", "first_name", "last_name", "role", "year_level",
		"total_points", "current_streak", "longest_streak", "last_practice_date",
		"maths_difficulty", "english_difficulty", "maths_accuracy_recent", "english_accuracy_recent",
		"created_at", "updated_at",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}

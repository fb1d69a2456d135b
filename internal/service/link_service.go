package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/models"
)

// LinkService manages supervisor-student links. A link only grants the
// supervisor read access to the student's stats once the student has
// approved it.
type LinkService struct {
	links    LinkRepository
	users    UserRepository
	sessions SessionRepository
	notifier Notifier
}

// NewLinkService creates a new link service
func NewLinkService(links LinkRepository, users UserRepository, sessions SessionRepository, notifier Notifier) *LinkService {
	return &LinkService{
		links:    links,
		users:    users,
		sessions: sessions,
		notifier: notifier,
	}
}

// CreateLink requests a link from a supervisor to a student. The link
// starts unapproved and the student is notified by email, best-effort.
func (s *LinkService) CreateLink(ctx context.Context, supervisorID, studentID string, relationship models.Relationship) (*models.StudentLink, error) {
	if !relationship.Valid() {
		return nil, fmt.Errorf("%w: unknown relationship %q", models.ErrInvalidInput, relationship)
	}
	if supervisorID == studentID {
		return nil, fmt.Errorf("%w: cannot link to yourself", models.ErrInvalidInput)
	}

	supervisor, err := s.users.GetUser(supervisorID)
	if err != nil {
		return nil, err
	}
	if supervisor.Role != models.RoleParent && supervisor.Role != models.RoleTeacher {
		return nil, fmt.Errorf("%w: only parents and teachers can link to students", models.ErrForbidden)
	}

	student, err := s.users.GetUser(studentID)
	if err != nil {
		return nil, err
	}

	link := &models.StudentLink{
		ID:           uuid.NewString(),
		SupervisorID: supervisorID,
		StudentID:    studentID,
		Relationship: relationship,
		Approved:     false,
		CreatedAt:    time.Now(),
	}
	if err := s.links.Create(link); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		studentName := student.FirstName + " " + student.LastName
		supervisorName := supervisor.FirstName + " " + supervisor.LastName
		if err := s.notifier.SendLinkRequest(ctx, student.Email, studentName, supervisorName); err != nil {
			log.Printf("Failed to send link request email to %s: %v", student.Email, err)
		}
	}

	return link, nil
}

// ApproveLink lets the student consent to a pending link. Only the
// linked student may approve.
func (s *LinkService) ApproveLink(studentID, linkID string) error {
	link, err := s.links.Get(linkID)
	if err != nil {
		return err
	}
	if link.StudentID != studentID {
		return fmt.Errorf("%w: only the linked student can approve", models.ErrForbidden)
	}
	if link.Approved {
		return nil
	}

	return s.links.Approve(linkID)
}

// DeleteLink removes a link. Only the supervisor who created it may
// delete it.
func (s *LinkService) DeleteLink(supervisorID, linkID string) error {
	link, err := s.links.Get(linkID)
	if err != nil {
		return err
	}
	if link.SupervisorID != supervisorID {
		return fmt.Errorf("%w: link belongs to a different supervisor", models.ErrForbidden)
	}

	return s.links.Delete(linkID)
}

// ListStudents returns the supervisor's links joined with student accounts
func (s *LinkService) ListStudents(supervisorID string) ([]models.StudentLinkWithStudent, error) {
	return s.links.BySupervisor(supervisorID)
}

// StudentStats aggregates a linked student's practice history for the
// supervisor dashboard. Requires an approved link.
func (s *LinkService) StudentStats(supervisorID, studentID string) (*models.StudentStats, error) {
	if _, err := s.links.Approved(supervisorID, studentID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: no approved link to this student", models.ErrForbidden)
		}
		return nil, err
	}

	student, err := s.users.GetUser(studentID)
	if err != nil {
		return nil, err
	}

	completed, attempted, correct, err := s.sessions.UserAggregates(studentID)
	if err != nil {
		return nil, err
	}

	accuracy := 0
	if attempted > 0 {
		accuracy = correct * 100 / attempted
	}

	return &models.StudentStats{
		Student:           *student,
		CompletedSessions: completed,
		TotalQuestions:    attempted,
		TotalCorrect:      correct,
		OverallAccuracy:   accuracy,
	}, nil
}

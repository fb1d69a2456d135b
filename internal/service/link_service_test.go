package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kiwilearn/internal/models"
)

type recordingNotifier struct {
	sent []string
	err  error
}

func (n *recordingNotifier) SendLinkRequest(ctx context.Context, toEmail, studentName, supervisorName string) error {
	n.sent = append(n.sent, toEmail)
	return n.err
}

func newLinkFixture(notifier Notifier) (*LinkService, *fakeLinkRepo, *fakeSessionRepo) {
	users := newFakeUserRepo(
		&models.User{ID: "parent-1", Email: "parent@example.com", FirstName: "Aroha", LastName: "Ngata", Role: models.RoleParent},
		&models.User{ID: "student-1", Email: "student@example.com", FirstName: "Tane", LastName: "Ngata", Role: models.RoleStudent},
	)
	links := newFakeLinkRepo()
	sessions := newFakeSessionRepo()
	return NewLinkService(links, users, sessions, notifier), links, sessions
}

func TestCreateLinkStartsUnapprovedAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _, _ := newLinkFixture(notifier)

	link, err := svc.CreateLink(context.Background(), "parent-1", "student-1", models.RelationshipParent)
	if err != nil {
		t.Fatalf("CreateLink() error = %v", err)
	}
	if link.Approved {
		t.Error("new link must start unapproved")
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != "student@example.com" {
		t.Errorf("notification not sent to student: %v", notifier.sent)
	}
}

func TestCreateLinkNotifierFailureIsNotFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errUpstreamDown}
	svc, _, _ := newLinkFixture(notifier)

	if _, err := svc.CreateLink(context.Background(), "parent-1", "student-1", models.RelationshipParent); err != nil {
		t.Errorf("CreateLink() error = %v, want nil despite notifier failure", err)
	}
}

func TestCreateLinkRejectsStudentSupervisor(t *testing.T) {
	svc, _, _ := newLinkFixture(nil)

	if _, err := svc.CreateLink(context.Background(), "student-1", "parent-1", models.RelationshipParent); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("CreateLink() by student error = %v, want ErrForbidden", err)
	}
}

func TestCreateLinkValidation(t *testing.T) {
	svc, _, _ := newLinkFixture(nil)

	if _, err := svc.CreateLink(context.Background(), "parent-1", "student-1", "aunt"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("CreateLink() bad relationship error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CreateLink(context.Background(), "parent-1", "parent-1", models.RelationshipParent); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("CreateLink() self link error = %v, want ErrInvalidInput", err)
	}
}

func TestApproveLinkOnlyByStudent(t *testing.T) {
	svc, links, _ := newLinkFixture(nil)
	link, _ := svc.CreateLink(context.Background(), "parent-1", "student-1", models.RelationshipParent)

	if err := svc.ApproveLink("parent-1", link.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("ApproveLink() by supervisor error = %v, want ErrForbidden", err)
	}

	if err := svc.ApproveLink("student-1", link.ID); err != nil {
		t.Fatalf("ApproveLink() by student error = %v", err)
	}
	stored, _ := links.Get(link.ID)
	if !stored.Approved {
		t.Error("link not approved")
	}
}

func TestDeleteLinkOnlyByOwner(t *testing.T) {
	svc, links, _ := newLinkFixture(nil)
	link, _ := svc.CreateLink(context.Background(), "parent-1", "student-1", models.RelationshipParent)

	if err := svc.DeleteLink("student-1", link.ID); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("DeleteLink() by student error = %v, want ErrForbidden", err)
	}

	if err := svc.DeleteLink("parent-1", link.ID); err != nil {
		t.Fatalf("DeleteLink() error = %v", err)
	}
	if _, err := links.Get(link.ID); !errors.Is(err, models.ErrNotFound) {
		t.Error("link still present after delete")
	}
}

func TestStudentStatsRequiresApprovedLink(t *testing.T) {
	svc, _, sessions := newLinkFixture(nil)
	link, _ := svc.CreateLink(context.Background(), "parent-1", "student-1", models.RelationshipParent)

	if _, err := svc.StudentStats("parent-1", "student-1"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("StudentStats() before approval error = %v, want ErrForbidden", err)
	}

	_ = svc.ApproveLink("student-1", link.ID)

	created, _ := sessions.Create("student-1", models.SubjectMaths, 3)
	_ = sessions.RecordAnswer(created.ID, true, 10)
	_ = sessions.RecordAnswer(created.ID, true, 10)
	_ = sessions.RecordAnswer(created.ID, false, 0)
	_, _ = sessions.Complete(created.ID, time.Now())

	stats, err := svc.StudentStats("parent-1", "student-1")
	if err != nil {
		t.Fatalf("StudentStats() error = %v", err)
	}
	if stats.CompletedSessions != 1 {
		t.Errorf("completed sessions = %d, want 1", stats.CompletedSessions)
	}
	if stats.TotalQuestions != 3 || stats.TotalCorrect != 2 {
		t.Errorf("aggregates = %d/%d, want 2/3", stats.TotalCorrect, stats.TotalQuestions)
	}
	if stats.OverallAccuracy != 66 {
		t.Errorf("accuracy = %d, want 66", stats.OverallAccuracy)
	}
}

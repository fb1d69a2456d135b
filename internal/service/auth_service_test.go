package service

import (
	"errors"
	"testing"
	"time"

	"kiwilearn/internal/models"
)

func TestLoginProvisionsAndVerifies(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, "test-secret", time.Hour)

	user, token, err := svc.Login(ExternalProfile{
		Subject:   "auth0|abc123",
		Email:     "kid@example.com",
		GivenName: "Mia",
		Surname:   "Parata",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("new account role = %s, want student", user.Role)
	}
	if token == "" {
		t.Fatal("no token issued")
	}

	verified, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if verified.ID != "auth0|abc123" {
		t.Errorf("verified user = %s, want auth0|abc123", verified.ID)
	}
}

func TestLoginDerivesNameFromEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)

	user, _, err := svc.Login(ExternalProfile{Subject: "auth0|xyz", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.FirstName != "sam" {
		t.Errorf("first name = %q, want %q", user.FirstName, "sam")
	}
}

func TestLoginRejectsIncompleteProfile(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), "test-secret", time.Hour)

	if _, _, err := svc.Login(ExternalProfile{Email: "kid@example.com"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Login() without subject error = %v, want ErrInvalidInput", err)
	}
	if _, _, err := svc.Login(ExternalProfile{Subject: "auth0|abc"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Login() without email error = %v, want ErrInvalidInput", err)
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, "test-secret", time.Hour)
	other := NewAuthService(users, "different-secret", time.Hour)

	_, token, err := svc.Login(ExternalProfile{Subject: "auth0|abc", Email: "kid@example.com"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := other.VerifyToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyToken() with wrong secret error = %v, want ErrTokenInvalid", err)
	}
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyToken() garbage error = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, "test-secret", -time.Minute)

	_, token, err := svc.Login(ExternalProfile{Subject: "auth0|abc", Email: "kid@example.com"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyToken() expired error = %v, want ErrTokenExpired", err)
	}
}

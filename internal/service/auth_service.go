package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"kiwilearn/internal/models"
)

var (
	ErrTokenInvalid = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// AuthService issues and verifies session tokens, and provisions local
// accounts from the identity provider's profile. Identity itself is
// delegated to the provider; no credentials are stored here.
type AuthService struct {
	users         UserRepository
	signingSecret []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserRepository, signingSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		signingSecret: []byte(signingSecret),
		tokenDuration: tokenDuration,
	}
}

// ExternalProfile is the subset of the identity provider's claims the
// app cares about
type ExternalProfile struct {
	Subject   string
	Email     string
	GivenName string
	Surname   string
}

// Login upserts a local account for an authenticated external profile
// and returns the user with a fresh session token
func (s *AuthService) Login(profile ExternalProfile) (*models.User, string, error) {
	if profile.Subject == "" || profile.Email == "" {
		return nil, "", fmt.Errorf("%w: identity profile missing subject or email", models.ErrInvalidInput)
	}

	firstName := profile.GivenName
	if firstName == "" {
		firstName = strings.Split(profile.Email, "@")[0]
	}

	user, err := s.users.UpsertUser(&models.User{
		ID:        profile.Subject,
		Email:     profile.Email,
		FirstName: firstName,
		LastName:  profile.Surname,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.mintToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// VerifyToken validates a session token and returns the user it belongs to
func (s *AuthService) VerifyToken(token string) (*models.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return s.users.GetUser(claims.Subject)
}

// TokenDuration reports how long issued tokens live, for cookie expiry
func (s *AuthService) TokenDuration() time.Duration {
	return s.tokenDuration
}

func (s *AuthService) mintToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

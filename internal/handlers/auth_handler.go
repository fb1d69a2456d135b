package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"kiwilearn/internal/config"
	"kiwilearn/internal/service"
)

// AuthHandler runs the OIDC login flow against Auth0 and manages the
// session cookie
type AuthHandler struct {
	authService *service.AuthService
	oauthConfig *oauth2.Config
	userInfoURL string
	logoutURL   string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.Auth0ClientID,
			ClientSecret: cfg.Auth0ClientSecret,
			RedirectURL:  cfg.Auth0CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  fmt.Sprintf("https://%s/authorize", cfg.Auth0Domain),
				TokenURL: fmt.Sprintf("https://%s/oauth/token", cfg.Auth0Domain),
			},
		},
		userInfoURL: fmt.Sprintf("https://%s/userinfo", cfg.Auth0Domain),
		logoutURL:   fmt.Sprintf("https://%s/v2/logout?client_id=%s&returnTo=%s", cfg.Auth0Domain, cfg.Auth0ClientID, cfg.AppBaseURL),
	}
}

// Login redirects to the identity provider's authorization page
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.oauthConfig.ClientID == "" || h.oauthConfig.ClientSecret == "" {
		respondWithError(w, http.StatusServiceUnavailable, "Login is not configured", "", nil)
		return
	}

	state, err := generateState()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to generate OAuth state", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute).Seconds()),
	})

	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusFound)
}

// Callback exchanges the authorization code, provisions the account and
// sets the session cookie
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange authorization code", "OAuth exchange failed", err)
		return
	}

	profile, err := h.fetchProfile(ctx, token)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to fetch identity profile", "Userinfo request failed", err)
		return
	}

	// Clear the state cookie now that the flow is done
	http.SetCookie(w, &http.Cookie{
		Name: "oauth_state", Value: "", Path: "/", MaxAge: -1, HttpOnly: true,
	})

	_, sessionToken, err := h.authService.Login(profile)
	if err != nil {
		serviceError(w, err, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.authService.TokenDuration().Seconds()),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session cookie and redirects through the provider's
// logout endpoint
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, h.logoutURL, http.StatusSeeOther)
}

// CurrentUser returns the authenticated user's account
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r))
}

func (h *AuthHandler) fetchProfile(ctx context.Context, token *oauth2.Token) (service.ExternalProfile, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return service.ExternalProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return service.ExternalProfile{}, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var payload struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return service.ExternalProfile{}, err
	}

	return service.ExternalProfile{
		Subject:   payload.Sub,
		Email:     payload.Email,
		GivenName: payload.GivenName,
		Surname:   payload.FamilyName,
	}, nil
}

func generateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package handlers

import (
	"net/http"
	"strconv"

	"kiwilearn/internal/models"
	"kiwilearn/internal/service"
)

const defaultRecentSessions = 10

// PracticeHandler exposes the practice session lifecycle and question
// endpoints
type PracticeHandler struct {
	practice *service.PracticeService
	stories  *service.StoryService
}

// NewPracticeHandler creates a new practice handler
func NewPracticeHandler(practice *service.PracticeService, stories *service.StoryService) *PracticeHandler {
	return &PracticeHandler{practice: practice, stories: stories}
}

// StartSession handles POST /api/practice-sessions
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		Subject   models.Subject `json:"subject"`
		YearLevel int            `json:"yearLevel"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.YearLevel == 0 {
		req.YearLevel = user.YearLevel
	}

	session, err := h.practice.StartSession(user.ID, req.Subject, req.YearLevel)
	if err != nil {
		serviceError(w, err, "Failed to start practice session")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// GenerateQuestion handles POST /api/questions/generate
func (h *PracticeHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		Subject   models.Subject `json:"subject"`
		YearLevel int            `json:"yearLevel"`
		Topic     string         `json:"topic"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.YearLevel == 0 {
		req.YearLevel = user.YearLevel
	}

	question, err := h.practice.RequestQuestion(r.Context(), user.ID, req.Subject, req.YearLevel, req.Topic)
	if err != nil {
		serviceError(w, err, "Failed to generate question")
		return
	}
	writeJSON(w, http.StatusOK, question)
}

// ValidateAnswer handles POST /api/questions/validate. When the request
// names a story, the answered question also counts toward the user's
// current chapter.
func (h *PracticeHandler) ValidateAnswer(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		SessionID     string         `json:"sessionId"`
		Question      string         `json:"question"`
		CorrectAnswer string         `json:"correctAnswer"`
		UserAnswer    string         `json:"userAnswer"`
		Subject       models.Subject `json:"subject"`
		StoryID       string         `json:"storyId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.practice.SubmitAnswer(r.Context(), user.ID, req.SessionID, req.Question, req.CorrectAnswer, req.UserAnswer, req.Subject)
	if err != nil {
		serviceError(w, err, "Failed to validate answer")
		return
	}

	if req.StoryID != "" {
		if err := h.stories.RecordQuestion(user.ID, req.StoryID); err != nil {
			serviceError(w, err, "Failed to record story question")
			return
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// CompleteSession handles POST /api/practice-sessions/{id}/complete
func (h *PracticeHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	session, err := h.practice.CompleteSession(user.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "Failed to complete practice session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// RecentSessions handles GET /api/practice-sessions/recent
func (h *PracticeHandler) RecentSessions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	limit := defaultRecentSessions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := h.practice.RecentSessions(user.ID, limit)
	if err != nil {
		serviceError(w, err, "Failed to list recent sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// AllSessions handles GET /api/practice-sessions
func (h *PracticeHandler) AllSessions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	sessions, err := h.practice.AllSessions(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// SessionQuestions handles GET /api/practice-sessions/{id}/questions
func (h *PracticeHandler) SessionQuestions(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	questions, err := h.practice.SessionQuestions(user.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "Failed to list session questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

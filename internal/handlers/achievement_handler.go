package handlers

import (
	"net/http"

	"kiwilearn/internal/service"
)

// AchievementHandler exposes the achievement catalog and unlocks
type AchievementHandler struct {
	progression *service.ProgressionService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(progression *service.ProgressionService) *AchievementHandler {
	return &AchievementHandler{progression: progression}
}

// Catalog handles GET /api/achievements
func (h *AchievementHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.progression.Catalog()
	if err != nil {
		serviceError(w, err, "Failed to list achievements")
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

// Mine handles GET /api/achievements/mine
func (h *AchievementHandler) Mine(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	unlocked, err := h.progression.UserAchievements(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to list unlocked achievements")
		return
	}
	writeJSON(w, http.StatusOK, unlocked)
}

package handlers

import (
	"net/http"
	"strconv"

	"kiwilearn/internal/service"
)

// StoryHandler exposes the story adventure endpoints
type StoryHandler struct {
	stories *service.StoryService
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(stories *service.StoryService) *StoryHandler {
	return &StoryHandler{stories: stories}
}

// List handles GET /api/stories
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	summaries, err := h.stories.ListStories(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to list stories")
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/stories/{id}
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	story, err := h.stories.GetStory(user.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "Failed to fetch story")
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// Start handles POST /api/stories/{id}/start
func (h *StoryHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	progress, err := h.stories.StartStory(user.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "Failed to start story")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// CompleteChapter handles POST /api/stories/{id}/chapters/{chapterNumber}/complete
func (h *StoryHandler) CompleteChapter(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	chapterNumber, err := strconv.Atoi(r.PathValue("chapterNumber"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid chapter number", "", nil)
		return
	}

	storyDone, err := h.stories.CompleteChapter(user.ID, r.PathValue("id"), chapterNumber)
	if err != nil {
		serviceError(w, err, "Failed to complete chapter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"storyCompleted": storyDone})
}

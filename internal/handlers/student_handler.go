package handlers

import (
	"net/http"

	"kiwilearn/internal/models"
	"kiwilearn/internal/service"
)

// StudentHandler exposes supervisor-student link management and the
// supervisor's read-only view of student stats
type StudentHandler struct {
	links *service.LinkService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(links *service.LinkService) *StudentHandler {
	return &StudentHandler{links: links}
}

// CreateLink handles POST /api/links
func (h *StudentHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		StudentID    string              `json:"studentId"`
		Relationship models.Relationship `json:"relationship"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.links.CreateLink(r.Context(), user.ID, req.StudentID, req.Relationship)
	if err != nil {
		serviceError(w, err, "Failed to create link")
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// ApproveLink handles POST /api/links/{id}/approve
func (h *StudentHandler) ApproveLink(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := h.links.ApproveLink(user.ID, r.PathValue("id")); err != nil {
		serviceError(w, err, "Failed to approve link")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// DeleteLink handles DELETE /api/links/{id}
func (h *StudentHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := h.links.DeleteLink(user.ID, r.PathValue("id")); err != nil {
		serviceError(w, err, "Failed to delete link")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStudents handles GET /api/students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	students, err := h.links.ListStudents(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to list students")
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// StudentStats handles GET /api/students/{id}/stats
func (h *StudentHandler) StudentStats(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	stats, err := h.links.StudentStats(user.ID, r.PathValue("id"))
	if err != nil {
		serviceError(w, err, "Failed to fetch student stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

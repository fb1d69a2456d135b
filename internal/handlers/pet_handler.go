package handlers

import (
	"net/http"

	"kiwilearn/internal/models"
	"kiwilearn/internal/service"
)

// PetHandler exposes the virtual pet endpoints
type PetHandler struct {
	pets *service.PetService
}

// NewPetHandler creates a new pet handler
func NewPetHandler(pets *service.PetService) *PetHandler {
	return &PetHandler{pets: pets}
}

// Adopt handles POST /api/pets
func (h *PetHandler) Adopt(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		PetType models.PetType `json:"petType"`
		Name    string         `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	pet, err := h.pets.Adopt(user.ID, req.PetType, req.Name)
	if err != nil {
		serviceError(w, err, "Failed to adopt pet")
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

// Get handles GET /api/pets/mine
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	pet, err := h.pets.Get(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to fetch pet")
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// Feed handles POST /api/pets/feed
func (h *PetHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	pet, err := h.pets.Feed(user.ID)
	if err != nil {
		serviceError(w, err, "Failed to feed pet")
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

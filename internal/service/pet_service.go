package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"kiwilearn/internal/models"
)

// PetService manages virtual pet adoption, feeding and hunger decay
type PetService struct {
	pets  PetRepository
	users UserRepository
}

// NewPetService creates a new pet service
func NewPetService(pets PetRepository, users UserRepository) *PetService {
	return &PetService{pets: pets, users: users}
}

// Adopt creates a user's pet. Each user can have one pet; adopting a
// second is a conflict.
func (s *PetService) Adopt(userID string, petType models.PetType, name string) (*models.Pet, error) {
	if !petType.Valid() {
		return nil, fmt.Errorf("%w: unknown pet type %q", models.ErrInvalidInput, petType)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: pet name is required", models.ErrInvalidInput)
	}

	_, err := s.pets.ByUserID(userID)
	if err == nil {
		return nil, fmt.Errorf("%w: user already has a pet", models.ErrConflict)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	pet := &models.Pet{
		ID:         uuid.NewString(),
		UserID:     userID,
		PetType:    petType,
		Name:       name,
		Level:      1,
		Experience: 0,
		Happiness:  100,
		Hunger:     50,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.pets.Create(pet); err != nil {
		return nil, err
	}
	return pet, nil
}

// Get retrieves a user's pet
func (s *PetService) Get(userID string) (*models.Pet, error) {
	return s.pets.ByUserID(userID)
}

// Feed spends the user's points to raise the pet's happiness and lower
// its hunger. The points debit is atomic, so a double-tap can't spend
// more than the user has.
func (s *PetService) Feed(userID string) (*models.Pet, error) {
	pet, err := s.pets.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	spent, err := s.users.SpendPoints(userID, FeedCost)
	if err != nil {
		return nil, err
	}
	if !spent {
		return nil, fmt.Errorf("%w: not enough points to feed pet", models.ErrInvalidInput)
	}

	now := time.Now()
	pet.Happiness = clampStat(pet.Happiness + FeedHappinessBoost)
	pet.Hunger = clampStat(pet.Hunger - FeedHungerDrop)
	pet.LastFed = &now

	if err := s.pets.UpdateCare(pet.ID, pet.Happiness, pet.Hunger, now); err != nil {
		return nil, err
	}
	return pet, nil
}

// DecayHunger is the periodic sweep: hunger climbs with hours since the
// last feeding and sustained hunger erodes happiness. Last-writer-wins
// against a concurrent feed is acceptable for this decay model.
func (s *PetService) DecayHunger(now time.Time) {
	pets, err := s.pets.AllPets()
	if err != nil {
		log.Printf("Hunger decay sweep failed to list pets: %v", err)
		return
	}

	for _, pet := range pets {
		hours := 24.0
		if pet.LastFed != nil {
			hours = now.Sub(*pet.LastFed).Hours()
		}

		hunger, happiness := decayVitals(pet.Hunger, pet.Happiness, hours)
		if hunger == pet.Hunger && happiness == pet.Happiness {
			continue
		}

		if err := s.pets.UpdateVitals(pet.ID, happiness, hunger); err != nil {
			log.Printf("Failed to update vitals for pet %s: %v", pet.ID, err)
		}
	}
}

// decayVitals computes post-sweep hunger and happiness from hours since
// the pet was last fed
func decayVitals(hunger, happiness int, hoursSinceFed float64) (int, int) {
	increase := int(hoursSinceFed * HungerPerHour)
	if increase <= 0 {
		return hunger, happiness
	}

	hunger = clampStat(hunger + increase)
	if hunger > HungryThreshold {
		happiness = clampStat(happiness - HungryHappinessPenalty)
	}
	return hunger, happiness
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}

package models

import "time"

// PetType is the species of a virtual pet
type PetType string

const (
	PetCat    PetType = "cat"
	PetDog    PetType = "dog"
	PetDragon PetType = "dragon"
	PetRobot  PetType = "robot"
	PetOwl    PetType = "owl"
	PetFox    PetType = "fox"
)

// Valid reports whether the pet type is a known species
func (t PetType) Valid() bool {
	switch t {
	case PetCat, PetDog, PetDragon, PetRobot, PetOwl, PetFox:
		return true
	}
	return false
}

// Pet is a user's virtual companion, one per user. Experience is always
// the remainder after level-ups: 0 <= Experience < ExpPerLevel.
type Pet struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	PetType    PetType    `json:"petType"`
	Name       string     `json:"name"`
	Level      int        `json:"level"`
	Experience int        `json:"experience"`
	Happiness  int        `json:"happiness"` // 0-100
	Hunger     int        `json:"hunger"`    // 0-100, higher = hungrier
	LastFed    *time.Time `json:"lastFed,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

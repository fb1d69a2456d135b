package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiwilearn/internal/database"
	"kiwilearn/internal/models"
)

// PetRepository handles virtual pet database operations
type PetRepository struct {
	db database.DBTX
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db database.DBTX) *PetRepository {
	return &PetRepository{db: db}
}

const petColumns = `id, user_id, pet_type, name, level, experience, happiness, hunger, last_fed, created_at, updated_at`

// Create adopts a pet for a user. The unique index on user_id enforces
// one pet per user at the database level.
func (r *PetRepository) Create(pet *models.Pet) error {
	query := `
		INSERT INTO pets
		(id, user_id, pet_type, name, level, experience, happiness, hunger, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		pet.ID, pet.UserID, pet.PetType, pet.Name, pet.Level,
		pet.Experience, pet.Happiness, pet.Hunger, pet.CreatedAt, pet.UpdatedAt)
	return err
}

// ByUserID retrieves a user's pet
func (r *PetRepository) ByUserID(userID string) (*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE user_id = ?`

	pet, err := scanPet(r.db.QueryRow(query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pet for user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return pet, nil
}

// UpdateGrowth persists a pet's level and leftover experience after
// session completion
func (r *PetRepository) UpdateGrowth(petID string, level, experience int) error {
	query := `
		UPDATE pets
		SET level = ?, experience = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, level, experience, time.Now(), petID)
	return err
}

// UpdateCare persists feeding results including the fed timestamp
func (r *PetRepository) UpdateCare(petID string, happiness, hunger int, lastFed time.Time) error {
	query := `
		UPDATE pets
		SET happiness = ?, hunger = ?, last_fed = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, happiness, hunger, lastFed, time.Now(), petID)
	return err
}

// UpdateVitals persists decay results without touching last_fed
func (r *PetRepository) UpdateVitals(petID string, happiness, hunger int) error {
	query := `
		UPDATE pets
		SET happiness = ?, hunger = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, happiness, hunger, time.Now(), petID)
	return err
}

// AllPets retrieves every pet for the hunger decay sweep
func (r *PetRepository) AllPets() ([]models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		var pet models.Pet
		var lastFed sql.NullTime

		err := rows.Scan(
			&pet.ID, &pet.UserID, &pet.PetType, &pet.Name, &pet.Level,
			&pet.Experience, &pet.Happiness, &pet.Hunger, &lastFed,
			&pet.CreatedAt, &pet.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if lastFed.Valid {
			pet.LastFed = &lastFed.Time
		}
		pets = append(pets, pet)
	}

	return pets, rows.Err()
}

func scanPet(row *sql.Row) (*models.Pet, error) {
	pet := &models.Pet{}
	var lastFed sql.NullTime

	err := row.Scan(
		&pet.ID, &pet.UserID, &pet.PetType, &pet.Name, &pet.Level,
		&pet.Experience, &pet.Happiness, &pet.Hunger, &lastFed,
		&pet.CreatedAt, &pet.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastFed.Valid {
		pet.LastFed = &lastFed.Time
	}
	return pet, nil
}

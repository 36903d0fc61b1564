package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
)

type residentRepository struct {
	db *sql.DB
}

// NewResidentRepository creates a new instance of the resident repository.
func NewResidentRepository(db *sql.DB) domain.ResidentRepository {
	return &residentRepository{db: db}
}

// GetByID fetches a resident by id.
func (r *residentRepository) GetByID(id uuid.UUID) (*domain.Resident, error) {
	query := `
		SELECT resident_id, full_name, email, phone_number, block_number, flat_number, created_at
		FROM resident
		WHERE resident_id = $1
	`

	resident := &domain.Resident{}
	err := r.db.QueryRow(query, id).Scan(
		&resident.ID,
		&resident.FullName,
		&resident.Email,
		&resident.PhoneNumber,
		&resident.BlockNumber,
		&resident.FlatNumber,
		&resident.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResidentNotFound
		}
		return nil, fmt.Errorf("failed to fetch resident: %w", err)
	}
	return resident, nil
}

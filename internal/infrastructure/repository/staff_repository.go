package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
)

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of the staff repository.
func NewStaffRepository(db *sql.DB) domain.StaffRepository {
	return &staffRepository{db: db}
}

// GetByID fetches a staff user by id.
func (r *staffRepository) GetByID(id uuid.UUID) (*domain.StaffUser, error) {
	query := `
		SELECT staff_id, full_name, email, role, created_at
		FROM staff_user
		WHERE staff_id = $1
	`

	staff := &domain.StaffUser{}
	err := r.db.QueryRow(query, id).Scan(
		&staff.ID,
		&staff.FullName,
		&staff.Email,
		&staff.Role,
		&staff.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActorNotFound
		}
		return nil, fmt.Errorf("failed to fetch staff user: %w", err)
	}
	return staff, nil
}

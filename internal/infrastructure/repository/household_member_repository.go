package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
)

type householdMemberRepository struct {
	db *sql.DB
}

// NewHouseholdMemberRepository creates a new instance of the household member repository.
func NewHouseholdMemberRepository(db *sql.DB) domain.HouseholdMemberRepository {
	return &householdMemberRepository{db: db}
}

// Create inserts a new household member.
func (r *householdMemberRepository) Create(member *domain.HouseholdMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}

	query := `
		INSERT INTO household_member (member_id, resident_id, full_name, email, phone_number, relationship)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		member.ID,
		member.ResidentID,
		member.FullName,
		member.Email,
		member.PhoneNumber,
		member.Relationship,
	).Scan(&member.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert household member: %w", err)
	}
	return nil
}

// GetByID fetches a household member by id.
func (r *householdMemberRepository) GetByID(id uuid.UUID) (*domain.HouseholdMember, error) {
	query := `
		SELECT member_id, resident_id, full_name, email, phone_number, relationship, created_at
		FROM household_member
		WHERE member_id = $1
	`

	member := &domain.HouseholdMember{}
	err := r.db.QueryRow(query, id).Scan(
		&member.ID,
		&member.ResidentID,
		&member.FullName,
		&member.Email,
		&member.PhoneNumber,
		&member.Relationship,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to fetch household member: %w", err)
	}
	return member, nil
}

// ListByResident returns a household's members, newest first.
func (r *householdMemberRepository) ListByResident(residentID uuid.UUID) ([]domain.HouseholdMember, error) {
	query := `
		SELECT member_id, resident_id, full_name, email, phone_number, relationship, created_at
		FROM household_member
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list household members: %w", err)
	}
	defer rows.Close()

	var members []domain.HouseholdMember
	for rows.Next() {
		var member domain.HouseholdMember
		err := rows.Scan(
			&member.ID,
			&member.ResidentID,
			&member.FullName,
			&member.Email,
			&member.PhoneNumber,
			&member.Relationship,
			&member.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read household members: %w", err)
	}
	return members, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resident is the primary account holder of a unit.
type Resident struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	BlockNumber string    `json:"blockNumber"`
	FlatNumber  string    `json:"flatNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HouseholdMember is an additional person on a resident's unit who can
// register visitors on the household's behalf.
type HouseholdMember struct {
	ID           uuid.UUID `json:"id"`
	ResidentID   uuid.UUID `json:"residentId"`
	FullName     string    `json:"fullName"`
	Email        *string   `json:"email,omitempty"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StaffUser is an estate staff account (gate, facility or admin).
type StaffUser struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type ResidentRepository interface {
	// GetByID fetches a resident by id.
	GetByID(id uuid.UUID) (*Resident, error)
}

type HouseholdMemberRepository interface {
	// Create inserts a new household member.
	Create(member *HouseholdMember) error
	// GetByID fetches a member by id.
	GetByID(id uuid.UUID) (*HouseholdMember, error)
	// ListByResident returns a household's members, newest first.
	ListByResident(residentID uuid.UUID) ([]HouseholdMember, error)
}

type StaffRepository interface {
	// GetByID fetches a staff user by id.
	GetByID(id uuid.UUID) (*StaffUser, error)
}

package domain

import "github.com/google/uuid"

type ActorKind string

const (
	ActorStaff    ActorKind = "staff"
	ActorResident ActorKind = "resident"
	ActorMember   ActorKind = "member"
)

// Actor is the resolved identity of the authenticated caller. It is
// resolved once per request and passed into lifecycle operations instead
// of re-deriving who the caller is at every call site.
type Actor struct {
	Kind     ActorKind `json:"kind"`
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	// PrimaryResidentID is the household the actor belongs to. For a
	// resident it equals ID; for staff it is the zero UUID.
	PrimaryResidentID uuid.UUID `json:"primaryResidentId,omitempty"`
}

// IsStaff reports whether the actor may perform gate operations
// (check-in, check-out, resolve issues).
func (a Actor) IsStaff() bool {
	return a.Kind == ActorStaff
}

// BelongsToHousehold reports whether the actor is the resident of, or a
// member in, the given household.
func (a Actor) BelongsToHousehold(primaryResidentID uuid.UUID) bool {
	return a.Kind != ActorStaff && a.PrimaryResidentID == primaryResidentID
}

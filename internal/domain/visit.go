package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitActive    VisitStatus = "active"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
	VisitIssue     VisitStatus = "issue"
)

// visitTransitions is the single source of truth for legal status changes.
// Check-in, check-out, cancel, report-issue and resolve-issue all validate
// against this table before touching the database.
var visitTransitions = map[VisitStatus][]VisitStatus{
	VisitPending:   {VisitActive, VisitCancelled},
	VisitActive:    {VisitCompleted, VisitIssue},
	VisitIssue:     {VisitCompleted},
	VisitCompleted: {},
	VisitCancelled: {},
}

// Valid reports whether s is one of the known visit statuses.
func (s VisitStatus) Valid() bool {
	_, ok := visitTransitions[s]
	return ok
}

// CanTransition reports whether a visit in status s may move to target.
func (s VisitStatus) CanTransition(target VisitStatus) bool {
	for _, t := range visitTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s VisitStatus) Terminal() bool {
	return len(visitTransitions[s]) == 0
}

// Label returns the display name used by dashboard tiles and status counts.
func (s VisitStatus) Label() string {
	switch s {
	case VisitPending:
		return "expected"
	case VisitActive:
		return "Checked In"
	case VisitCompleted:
		return "Checked Out"
	case VisitIssue:
		return "issue"
	case VisitCancelled:
		return "cancelled"
	default:
		return string(s)
	}
}

// Visit represents one recorded visitor stay.
type Visit struct {
	ID                uuid.UUID   `json:"id"`
	GuestCode         string      `json:"guestId"`
	FullName          string      `json:"fullName"`
	Email             *string     `json:"email,omitempty"`
	PhoneNumber       *string     `json:"phoneNumber,omitempty"`
	PurposeOfVisit    *string     `json:"purposeOfVisit,omitempty"`
	BlockNumber       string      `json:"blockNumber"`
	FlatNumber        string      `json:"flatNumber"`
	HostName          string      `json:"hostName"`
	RegisteredByKind  ActorKind   `json:"registeredByKind"`
	RegisteredByID    uuid.UUID   `json:"registeredById"`
	PrimaryResidentID uuid.UUID   `json:"primaryResidentId"`
	VisitDate         time.Time   `json:"visitDate"`
	VisitTime         string      `json:"visitTime"`
	Status            VisitStatus `json:"status"`
	CheckInTime       *time.Time  `json:"checkInTime,omitempty"`
	CheckOutTime      *time.Time  `json:"checkOutTime,omitempty"`
	Duration          *string     `json:"duration,omitempty"`
	ResolvedAt        *time.Time  `json:"resolvedAt,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// FormatVisitDuration breaks the stay length down into whole hours and
// remainder minutes, e.g. 125 minutes -> "2h 5m". The delta is taken in
// whole milliseconds and floor-divided; a checkout before the check-in
// clamps to zero.
func FormatVisitDuration(checkIn, checkOut time.Time) string {
	delta := checkOut.Sub(checkIn).Milliseconds()
	if delta < 0 {
		delta = 0
	}
	hours := delta / 3600000
	minutes := (delta % 3600000) / 60000
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// VisitRepository defines the persistence operations for visits. Every
// Transition* method performs a conditional update against the expected
// current status and returns the persisted row; a conflicting concurrent
// transition surfaces as ErrInvalidTransition instead of a silent overwrite.
type VisitRepository interface {
	// Create inserts a new visit, generating a unique guest code.
	Create(visit *Visit) error
	// GetByID fetches a visit by its row id.
	GetByID(id uuid.UUID) (*Visit, error)
	// GetByGuestCode fetches a visit by its human-shareable code.
	GetByGuestCode(code string) (*Visit, error)
	// List returns all visits, newest first.
	List() ([]Visit, error)
	// ListByResident returns the visits belonging to a household, newest first.
	ListByResident(primaryResidentID uuid.UUID) ([]Visit, error)
	// TransitionCheckIn moves pending -> active and records the arrival time.
	TransitionCheckIn(id uuid.UUID, at time.Time) (*Visit, error)
	// TransitionCheckOut moves active -> completed and records departure and duration.
	TransitionCheckOut(id uuid.UUID, at time.Time, duration string) (*Visit, error)
	// TransitionCancel moves pending -> cancelled.
	TransitionCancel(id uuid.UUID) (*Visit, error)
	// TransitionReportIssue moves active -> issue and persists the issue record atomically.
	TransitionReportIssue(id uuid.UUID, issue *Issue) (*Visit, error)
	// TransitionResolveIssue moves issue -> completed and records the resolution time.
	TransitionResolveIssue(id uuid.UUID, at time.Time) (*Visit, error)
	// CancelExpiredPending bulk-cancels pending visits whose visit date is before cutoff.
	CancelExpiredPending(cutoff time.Time) (int64, error)
}

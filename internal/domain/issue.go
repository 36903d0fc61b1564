package domain

import (
	"time"

	"github.com/google/uuid"
)

// Issue is a reported problem on an active visit. It blocks normal
// checkout until staff resolves it.
type Issue struct {
	ID          uuid.UUID `json:"id"`
	GuestCode   string    `json:"guestId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IssueRepository defines read access to reported issues. Issue rows are
// written by VisitRepository.TransitionReportIssue inside the same
// transaction as the status change.
type IssueRepository interface {
	// GetLatestByGuestCode fetches the most recent issue for a visit.
	GetLatestByGuestCode(code string) (*Issue, error)
	// ListByGuestCode returns all issues for a visit, newest first.
	ListByGuestCode(code string) ([]Issue, error)
}

package repository

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// visitColumns is the column list shared by every SELECT and RETURNING
// clause so that scanVisit stays in sync with a single definition.
const visitColumns = `
	guest_id,
	guest_code,
	full_name,
	email,
	phone_number,
	purpose_of_visit,
	block_number,
	flat_number,
	host_name,
	registered_by_kind,
	registered_by_id,
	primary_resident_id,
	visit_date,
	visit_time,
	status,
	check_in_time,
	check_out_time,
	duration,
	resolved_at,
	created_at`

const guestCodePrefix = "VIS-"
const guestCodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const guestCodeLength = 6

// maxCodeAttempts bounds the retry loop on guest code collisions.
const maxCodeAttempts = 5

type visitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new instance of the visit repository.
func NewVisitRepository(db *sql.DB) domain.VisitRepository {
	return &visitRepository{db: db}
}

// generateGuestCode generates a human-shareable code of the form
// VIS-XXXXXX with characters drawn from [0-9A-Z].
func generateGuestCode() (string, error) {
	bytes := make([]byte, guestCodeLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	code := make([]byte, guestCodeLength)
	for i, b := range bytes {
		code[i] = guestCodeCharset[int(b)%len(guestCodeCharset)]
	}
	return guestCodePrefix + string(code), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*domain.Visit, error) {
	visit := &domain.Visit{}
	err := row.Scan(
		&visit.ID,
		&visit.GuestCode,
		&visit.FullName,
		&visit.Email,
		&visit.PhoneNumber,
		&visit.PurposeOfVisit,
		&visit.BlockNumber,
		&visit.FlatNumber,
		&visit.HostName,
		&visit.RegisteredByKind,
		&visit.RegisteredByID,
		&visit.PrimaryResidentID,
		&visit.VisitDate,
		&visit.VisitTime,
		&visit.Status,
		&visit.CheckInTime,
		&visit.CheckOutTime,
		&visit.Duration,
		&visit.ResolvedAt,
		&visit.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return visit, nil
}

// Create inserts a new visit. The guest code is generated here and
// retried on a unique-constraint conflict so that client randomness is
// never trusted for uniqueness.
func (r *visitRepository) Create(visit *domain.Visit) error {
	if visit.ID == uuid.Nil {
		visit.ID = uuid.New()
	}

	query := `
		INSERT INTO guest (
			guest_id,
			guest_code,
			full_name,
			email,
			phone_number,
			purpose_of_visit,
			block_number,
			flat_number,
			host_name,
			registered_by_kind,
			registered_by_id,
			primary_resident_id,
			visit_date,
			visit_time,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateGuestCode()
		if err != nil {
			return fmt.Errorf("failed to generate guest code: %w", err)
		}

		err = r.db.QueryRow(
			query,
			visit.ID,
			code,
			visit.FullName,
			visit.Email,
			visit.PhoneNumber,
			visit.PurposeOfVisit,
			visit.BlockNumber,
			visit.FlatNumber,
			visit.HostName,
			visit.RegisteredByKind,
			visit.RegisteredByID,
			visit.PrimaryResidentID,
			visit.VisitDate,
			visit.VisitTime,
			visit.Status,
		).Scan(&visit.CreatedAt)

		if err == nil {
			visit.GuestCode = code
			return nil
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Guest code collision, roll a new one.
			continue
		}
		return fmt.Errorf("failed to insert visit: %w", err)
	}

	return fmt.Errorf("failed to generate a unique guest code after %d attempts", maxCodeAttempts)
}

// GetByID fetches a visit by its row id.
func (r *visitRepository) GetByID(id uuid.UUID) (*domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM guest WHERE guest_id = $1`

	visit, err := scanVisit(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	return visit, nil
}

// GetByGuestCode fetches a visit by its human-shareable code.
func (r *visitRepository) GetByGuestCode(code string) (*domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM guest WHERE guest_code = $1`

	visit, err := scanVisit(r.db.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	return visit, nil
}

// List returns all visits, newest first.
func (r *visitRepository) List() ([]domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM guest ORDER BY created_at DESC`
	return r.queryVisits(query)
}

// ListByResident returns all visits for a household, newest first.
func (r *visitRepository) ListByResident(primaryResidentID uuid.UUID) ([]domain.Visit, error) {
	query := `SELECT ` + visitColumns + ` FROM guest WHERE primary_resident_id = $1 ORDER BY created_at DESC`
	return r.queryVisits(query, primaryResidentID)
}

func (r *visitRepository) queryVisits(query string, args ...any) ([]domain.Visit, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []domain.Visit
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, *visit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read visits: %w", err)
	}
	return visits, nil
}

// TransitionCheckIn moves a visit from pending to active. The status
// precondition is part of the UPDATE so a concurrent transition loses
// cleanly instead of overwriting.
func (r *visitRepository) TransitionCheckIn(id uuid.UUID, at time.Time) (*domain.Visit, error) {
	query := `
		UPDATE guest
		SET status = $1, check_in_time = $2
		WHERE guest_id = $3 AND status = $4
		RETURNING ` + visitColumns

	visit, err := scanVisit(r.db.QueryRow(query, domain.VisitActive, at, id, domain.VisitPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedTransition(id)
		}
		return nil, fmt.Errorf("failed to check in visit: %w", err)
	}
	return visit, nil
}

// TransitionCheckOut moves a visit from active to completed, recording
// departure time and the precomputed duration. The check_in_time guard is
// part of the condition: a visit never completes without an arrival.
func (r *visitRepository) TransitionCheckOut(id uuid.UUID, at time.Time, duration string) (*domain.Visit, error) {
	query := `
		UPDATE guest
		SET status = $1, check_out_time = $2, duration = $3
		WHERE guest_id = $4 AND status = $5 AND check_in_time IS NOT NULL
		RETURNING ` + visitColumns

	visit, err := scanVisit(r.db.QueryRow(query, domain.VisitCompleted, at, duration, id, domain.VisitActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedTransition(id)
		}
		return nil, fmt.Errorf("failed to check out visit: %w", err)
	}
	return visit, nil
}

// TransitionCancel moves a visit from pending to cancelled. No timestamp
// fields are touched.
func (r *visitRepository) TransitionCancel(id uuid.UUID) (*domain.Visit, error) {
	query := `
		UPDATE guest
		SET status = $1
		WHERE guest_id = $2 AND status = $3
		RETURNING ` + visitColumns

	visit, err := scanVisit(r.db.QueryRow(query, domain.VisitCancelled, id, domain.VisitPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedTransition(id)
		}
		return nil, fmt.Errorf("failed to cancel visit: %w", err)
	}
	return visit, nil
}

// TransitionReportIssue moves a visit from active to issue and inserts
// the issue record in the same transaction.
func (r *visitRepository) TransitionReportIssue(id uuid.UUID, issue *domain.Issue) (*domain.Visit, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE guest
		SET status = $1
		WHERE guest_id = $2 AND status = $3
		RETURNING ` + visitColumns

	visit, err := scanVisit(tx.QueryRow(updateQuery, domain.VisitIssue, id, domain.VisitActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedTransition(id)
		}
		return nil, fmt.Errorf("failed to flag visit issue: %w", err)
	}

	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}
	issue.GuestCode = visit.GuestCode

	insertQuery := `
		INSERT INTO guest_issue (issue_id, guest_code, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := tx.QueryRow(insertQuery, issue.ID, issue.GuestCode, issue.Description).Scan(&issue.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert issue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return visit, nil
}

// TransitionResolveIssue moves a visit from issue to completed. Checkout
// fields are left untouched; resolution does not force a departure time.
func (r *visitRepository) TransitionResolveIssue(id uuid.UUID, at time.Time) (*domain.Visit, error) {
	query := `
		UPDATE guest
		SET status = $1, resolved_at = $2
		WHERE guest_id = $3 AND status = $4
		RETURNING ` + visitColumns

	visit, err := scanVisit(r.db.QueryRow(query, domain.VisitCompleted, at, id, domain.VisitIssue))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedTransition(id)
		}
		return nil, fmt.Errorf("failed to resolve visit issue: %w", err)
	}
	return visit, nil
}

// CancelExpiredPending bulk-cancels pending visits whose visit date is
// before cutoff. Returns the number of visits cancelled.
func (r *visitRepository) CancelExpiredPending(cutoff time.Time) (int64, error) {
	query := `
		UPDATE guest
		SET status = $1
		WHERE status = $2 AND visit_date < $3
	`

	result, err := r.db.Exec(query, domain.VisitCancelled, domain.VisitPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel expired visits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rowsAffected, nil
}

// classifyMissedTransition distinguishes a missing visit from one whose
// persisted status no longer allows the attempted transition.
func (r *visitRepository) classifyMissedTransition(id uuid.UUID) error {
	var status domain.VisitStatus
	err := r.db.QueryRow(`SELECT status FROM guest WHERE guest_id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrVisitNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch visit status: %w", err)
	}
	return fmt.Errorf("%w: visit is %s", domain.ErrInvalidTransition, status)
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/adhcode/estate-backend/internal/domain"
)

type issueRepository struct {
	db *sql.DB
}

// NewIssueRepository creates a new instance of the issue repository.
func NewIssueRepository(db *sql.DB) domain.IssueRepository {
	return &issueRepository{db: db}
}

// GetLatestByGuestCode fetches the most recent issue for a visit.
func (r *issueRepository) GetLatestByGuestCode(code string) (*domain.Issue, error) {
	query := `
		SELECT issue_id, guest_code, description, created_at
		FROM guest_issue
		WHERE guest_code = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	issue := &domain.Issue{}
	err := r.db.QueryRow(query, code).Scan(
		&issue.ID,
		&issue.GuestCode,
		&issue.Description,
		&issue.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to fetch issue: %w", err)
	}
	return issue, nil
}

// ListByGuestCode returns all issues for a visit, newest first.
func (r *issueRepository) ListByGuestCode(code string) ([]domain.Issue, error) {
	query := `
		SELECT issue_id, guest_code, description, created_at
		FROM guest_issue
		WHERE guest_code = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		var issue domain.Issue
		if err := rows.Scan(&issue.ID, &issue.GuestCode, &issue.Description, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read issues: %w", err)
	}
	return issues, nil
}

package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
)

type VisitService struct {
	visitRepo    domain.VisitRepository
	issueRepo    domain.IssueRepository
	residentRepo domain.ResidentRepository
	publisher    domain.ChangePublisher
	validator    *Validator
}

// NewVisitService creates a new instance of the visit lifecycle service.
// publisher may be nil when no change feed is configured.
func NewVisitService(
	visitRepo domain.VisitRepository,
	issueRepo domain.IssueRepository,
	residentRepo domain.ResidentRepository,
	publisher domain.ChangePublisher,
) *VisitService {
	return &VisitService{
		visitRepo:    visitRepo,
		issueRepo:    issueRepo,
		residentRepo: residentRepo,
		publisher:    publisher,
		validator:    &Validator{},
	}
}

// RegisterVisit creates a new pending visit on behalf of the actor's
// household. The guest code is generated at the persistence boundary.
func (s *VisitService) RegisterVisit(actor domain.Actor, visit *domain.Visit) error {
	if actor.IsStaff() {
		return fmt.Errorf("%w: staff cannot register visitors for a household", domain.ErrNotAllowed)
	}

	if strings.TrimSpace(visit.FullName) == "" {
		return domain.NewValidationError("the visitor's full name is required")
	}
	if visit.VisitDate.IsZero() {
		return domain.NewValidationError("the visit date is required")
	}
	if visit.Email != nil {
		if err := s.validator.ValidateEmail(*visit.Email); err != nil {
			return err
		}
	}
	if visit.PhoneNumber != nil {
		if err := s.validator.ValidatePhone(*visit.PhoneNumber); err != nil {
			return err
		}
	}

	resident, err := s.residentRepo.GetByID(actor.PrimaryResidentID)
	if err != nil {
		return fmt.Errorf("failed to load host resident: %w", err)
	}

	visit.RegisteredByKind = actor.Kind
	visit.RegisteredByID = actor.ID
	visit.PrimaryResidentID = resident.ID
	visit.HostName = resident.FullName
	visit.BlockNumber = resident.BlockNumber
	visit.FlatNumber = resident.FlatNumber
	visit.Status = domain.VisitPending
	visit.CheckInTime = nil
	visit.CheckOutTime = nil
	visit.Duration = nil
	visit.ResolvedAt = nil

	if err := s.visitRepo.Create(visit); err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	s.publish(domain.ChangeCreated, visit)
	return nil
}

// CheckIn marks the guest's arrival. Only staff may check a guest in, and
// only from pending; a second check-in fails instead of silently succeeding.
func (s *VisitService) CheckIn(actor domain.Actor, visitID uuid.UUID) (*domain.Visit, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can check guests in", domain.ErrNotAllowed)
	}

	visit, err := s.visitRepo.GetByID(visitID)
	if err != nil {
		return nil, err
	}
	if !visit.Status.CanTransition(domain.VisitActive) {
		return nil, fmt.Errorf("%w: cannot check in a %s visit", domain.ErrInvalidTransition, visit.Status)
	}

	updated, err := s.visitRepo.TransitionCheckIn(visitID, time.Now())
	if err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, updated)
	return updated, nil
}

// CheckOut marks the guest's departure and computes the stay duration.
// Fails if the guest was never checked in, or while an issue is unresolved.
func (s *VisitService) CheckOut(actor domain.Actor, visitID uuid.UUID) (*domain.Visit, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can check guests out", domain.ErrNotAllowed)
	}

	visit, err := s.visitRepo.GetByID(visitID)
	if err != nil {
		return nil, err
	}
	if visit.CheckInTime == nil {
		return nil, fmt.Errorf("%w: guest has not been checked in", domain.ErrInvalidTransition)
	}
	if !visit.Status.CanTransition(domain.VisitCompleted) || visit.Status == domain.VisitIssue {
		return nil, fmt.Errorf("%w: cannot check out a %s visit", domain.ErrInvalidTransition, visit.Status)
	}

	now := time.Now()
	duration := domain.FormatVisitDuration(*visit.CheckInTime, now)

	updated, err := s.visitRepo.TransitionCheckOut(visitID, now, duration)
	if err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, updated)
	return updated, nil
}

// Cancel voids a pending visit. Only the registering household may cancel;
// cancelled is terminal and no timestamp fields are touched.
func (s *VisitService) Cancel(actor domain.Actor, visitID uuid.UUID) (*domain.Visit, error) {
	visit, err := s.visitRepo.GetByID(visitID)
	if err != nil {
		return nil, err
	}
	if !actor.BelongsToHousehold(visit.PrimaryResidentID) {
		return nil, fmt.Errorf("%w: only the registering household can cancel a visit", domain.ErrNotAllowed)
	}
	if !visit.Status.CanTransition(domain.VisitCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s visit", domain.ErrInvalidTransition, visit.Status)
	}

	updated, err := s.visitRepo.TransitionCancel(visitID)
	if err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, updated)
	return updated, nil
}

// ReportIssue records a problem on an active visit, blocking normal
// checkout until resolved. The issue row and the status change are
// persisted in the same transaction.
func (s *VisitService) ReportIssue(actor domain.Actor, visitID uuid.UUID, description string) (*domain.Visit, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewValidationError("the issue description is required")
	}

	visit, err := s.visitRepo.GetByID(visitID)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !actor.BelongsToHousehold(visit.PrimaryResidentID) {
		return nil, fmt.Errorf("%w: only staff or the registering household can report an issue", domain.ErrNotAllowed)
	}
	if !visit.Status.CanTransition(domain.VisitIssue) {
		return nil, fmt.Errorf("%w: can only report an issue on an active visit", domain.ErrInvalidTransition)
	}

	issue := &domain.Issue{
		GuestCode:   visit.GuestCode,
		Description: description,
	}

	updated, err := s.visitRepo.TransitionReportIssue(visitID, issue)
	if err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, updated)
	return updated, nil
}

// ResolveIssue closes an issue visit as completed. Checkout fields are
// left as they were; resolution does not force a checkout time.
func (s *VisitService) ResolveIssue(actor domain.Actor, visitID uuid.UUID) (*domain.Visit, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can resolve issues", domain.ErrNotAllowed)
	}

	visit, err := s.visitRepo.GetByID(visitID)
	if err != nil {
		return nil, err
	}
	if visit.Status != domain.VisitIssue {
		return nil, fmt.Errorf("%w: visit has no open issue", domain.ErrInvalidTransition)
	}

	updated, err := s.visitRepo.TransitionResolveIssue(visitID, time.Now())
	if err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, updated)
	return updated, nil
}

// GetVisitByID fetches a single visit.
func (s *VisitService) GetVisitByID(id uuid.UUID) (*domain.Visit, error) {
	return s.visitRepo.GetByID(id)
}

// GetVisitByGuestCode fetches a visit by its human-shareable code.
func (s *VisitService) GetVisitByGuestCode(code string) (*domain.Visit, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.NewValidationError("the guest code is required")
	}
	return s.visitRepo.GetByGuestCode(code)
}

// ListVisits returns the full logbook, newest first. Filtering and
// pagination are applied by the caller via the query helpers.
func (s *VisitService) ListVisits(actor domain.Actor) ([]domain.Visit, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can view the full logbook", domain.ErrNotAllowed)
	}
	return s.visitRepo.List()
}

// GetHouseholdHistory returns the actor's own household guest history.
func (s *VisitService) GetHouseholdHistory(actor domain.Actor) ([]domain.Visit, error) {
	if actor.IsStaff() {
		return nil, fmt.Errorf("%w: staff have no household history", domain.ErrNotAllowed)
	}
	return s.visitRepo.ListByResident(actor.PrimaryResidentID)
}

// GetLatestIssue fetches the most recent issue reported on a visit.
func (s *VisitService) GetLatestIssue(guestCode string) (*domain.Issue, error) {
	return s.issueRepo.GetLatestByGuestCode(guestCode)
}

// GetIssueHistory returns all issues reported on a visit, newest first.
func (s *VisitService) GetIssueHistory(guestCode string) ([]domain.Issue, error) {
	return s.issueRepo.ListByGuestCode(guestCode)
}

func (s *VisitService) publish(action domain.ChangeAction, visit *domain.Visit) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishVisitChange(context.Background(), domain.VisitChange{
		Action: action,
		Visit:  visit,
	})
}

package application

import (
	"fmt"
	"strings"

	"github.com/adhcode/estate-backend/internal/domain"
)

type MemberService struct {
	memberRepo   domain.HouseholdMemberRepository
	residentRepo domain.ResidentRepository
	validator    *Validator
}

// NewMemberService creates a new instance of the household member service.
func NewMemberService(memberRepo domain.HouseholdMemberRepository, residentRepo domain.ResidentRepository) *MemberService {
	return &MemberService{
		memberRepo:   memberRepo,
		residentRepo: residentRepo,
		validator:    &Validator{},
	}
}

// AddMember registers a new household member under the acting resident's
// unit. Only the primary resident can add members to their household.
func (s *MemberService) AddMember(actor domain.Actor, member *domain.HouseholdMember) error {
	if actor.Kind != domain.ActorResident {
		return fmt.Errorf("%w: only the primary resident can add household members", domain.ErrNotAllowed)
	}

	if strings.TrimSpace(member.FullName) == "" {
		return domain.NewValidationError("the member's full name is required")
	}
	if strings.TrimSpace(member.Relationship) == "" {
		return domain.NewValidationError("the member's relationship is required")
	}
	if member.Email != nil {
		if err := s.validator.ValidateEmail(*member.Email); err != nil {
			return err
		}
	}
	if member.PhoneNumber != nil {
		if err := s.validator.ValidatePhone(*member.PhoneNumber); err != nil {
			return err
		}
	}

	if _, err := s.residentRepo.GetByID(actor.ID); err != nil {
		return fmt.Errorf("failed to load resident: %w", err)
	}

	member.ResidentID = actor.ID
	if err := s.memberRepo.Create(member); err != nil {
		return fmt.Errorf("failed to create household member: %w", err)
	}
	return nil
}

// ListMembers returns the members of the actor's own household.
func (s *MemberService) ListMembers(actor domain.Actor) ([]domain.HouseholdMember, error) {
	if actor.IsStaff() {
		return nil, fmt.Errorf("%w: staff have no household", domain.ErrNotAllowed)
	}
	return s.memberRepo.ListByResident(actor.PrimaryResidentID)
}

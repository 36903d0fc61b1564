package application

import (
	"errors"
	"fmt"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
)

type ActorService struct {
	staffRepo    domain.StaffRepository
	residentRepo domain.ResidentRepository
	memberRepo   domain.HouseholdMemberRepository
}

// NewActorService creates a new instance of the actor resolution service.
func NewActorService(
	staffRepo domain.StaffRepository,
	residentRepo domain.ResidentRepository,
	memberRepo domain.HouseholdMemberRepository,
) *ActorService {
	return &ActorService{
		staffRepo:    staffRepo,
		residentRepo: residentRepo,
		memberRepo:   memberRepo,
	}
}

// Resolve maps an authenticated principal id to its capability-typed
// actor, checking staff first, then residents, then household members.
func (s *ActorService) Resolve(userID uuid.UUID) (domain.Actor, error) {
	staff, err := s.staffRepo.GetByID(userID)
	if err == nil {
		return domain.Actor{
			Kind:     domain.ActorStaff,
			ID:       staff.ID,
			FullName: staff.FullName,
		}, nil
	}
	if !errors.Is(err, domain.ErrActorNotFound) {
		return domain.Actor{}, fmt.Errorf("failed to look up staff: %w", err)
	}

	resident, err := s.residentRepo.GetByID(userID)
	if err == nil {
		return domain.Actor{
			Kind:              domain.ActorResident,
			ID:                resident.ID,
			FullName:          resident.FullName,
			PrimaryResidentID: resident.ID,
		}, nil
	}
	if !errors.Is(err, domain.ErrResidentNotFound) {
		return domain.Actor{}, fmt.Errorf("failed to look up resident: %w", err)
	}

	member, err := s.memberRepo.GetByID(userID)
	if err == nil {
		return domain.Actor{
			Kind:              domain.ActorMember,
			ID:                member.ID,
			FullName:          member.FullName,
			PrimaryResidentID: member.ResidentID,
		}, nil
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		return domain.Actor{}, fmt.Errorf("failed to look up household member: %w", err)
	}

	return domain.Actor{}, domain.ErrActorNotFound
}

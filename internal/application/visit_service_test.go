package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVisitStore is an in-memory stand-in for the visit and issue
// repositories. Its transition methods enforce the same conditional
// semantics as the SQL implementation: the expected current status is
// part of the update condition.
type fakeVisitStore struct {
	mu      sync.Mutex
	visits  map[uuid.UUID]*domain.Visit
	issues  []domain.Issue
	codeSeq int
}

func newFakeVisitStore() *fakeVisitStore {
	return &fakeVisitStore{visits: make(map[uuid.UUID]*domain.Visit)}
}

func (f *fakeVisitStore) Create(visit *domain.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.codeSeq++
	visit.ID = uuid.New()
	visit.GuestCode = fmt.Sprintf("VIS-%06d", f.codeSeq)
	visit.CreatedAt = time.Now()

	clone := *visit
	f.visits[visit.ID] = &clone
	return nil
}

func (f *fakeVisitStore) GetByID(id uuid.UUID) (*domain.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	visit, ok := f.visits[id]
	if !ok {
		return nil, domain.ErrVisitNotFound
	}
	clone := *visit
	return &clone, nil
}

func (f *fakeVisitStore) GetByGuestCode(code string) (*domain.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, visit := range f.visits {
		if visit.GuestCode == code {
			clone := *visit
			return &clone, nil
		}
	}
	return nil, domain.ErrVisitNotFound
}

func (f *fakeVisitStore) List() ([]domain.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	visits := make([]domain.Visit, 0, len(f.visits))
	for _, visit := range f.visits {
		visits = append(visits, *visit)
	}
	return visits, nil
}

func (f *fakeVisitStore) ListByResident(primaryResidentID uuid.UUID) ([]domain.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var visits []domain.Visit
	for _, visit := range f.visits {
		if visit.PrimaryResidentID == primaryResidentID {
			visits = append(visits, *visit)
		}
	}
	return visits, nil
}

func (f *fakeVisitStore) transition(id uuid.UUID, expected domain.VisitStatus, mutate func(*domain.Visit)) (*domain.Visit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	visit, ok := f.visits[id]
	if !ok {
		return nil, domain.ErrVisitNotFound
	}
	if visit.Status != expected {
		return nil, fmt.Errorf("%w: visit is %s", domain.ErrInvalidTransition, visit.Status)
	}
	mutate(visit)
	clone := *visit
	return &clone, nil
}

func (f *fakeVisitStore) TransitionCheckIn(id uuid.UUID, at time.Time) (*domain.Visit, error) {
	return f.transition(id, domain.VisitPending, func(v *domain.Visit) {
		v.Status = domain.VisitActive
		v.CheckInTime = &at
	})
}

func (f *fakeVisitStore) TransitionCheckOut(id uuid.UUID, at time.Time, duration string) (*domain.Visit, error) {
	return f.transition(id, domain.VisitActive, func(v *domain.Visit) {
		v.Status = domain.VisitCompleted
		v.CheckOutTime = &at
		v.Duration = &duration
	})
}

func (f *fakeVisitStore) TransitionCancel(id uuid.UUID) (*domain.Visit, error) {
	return f.transition(id, domain.VisitPending, func(v *domain.Visit) {
		v.Status = domain.VisitCancelled
	})
}

func (f *fakeVisitStore) TransitionReportIssue(id uuid.UUID, issue *domain.Issue) (*domain.Visit, error) {
	return f.transition(id, domain.VisitActive, func(v *domain.Visit) {
		v.Status = domain.VisitIssue
		issue.ID = uuid.New()
		issue.GuestCode = v.GuestCode
		issue.CreatedAt = time.Now()
		f.issues = append(f.issues, *issue)
	})
}

func (f *fakeVisitStore) TransitionResolveIssue(id uuid.UUID, at time.Time) (*domain.Visit, error) {
	return f.transition(id, domain.VisitIssue, func(v *domain.Visit) {
		v.Status = domain.VisitCompleted
		v.ResolvedAt = &at
	})
}

func (f *fakeVisitStore) CancelExpiredPending(cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var cancelled int64
	for _, visit := range f.visits {
		if visit.Status == domain.VisitPending && visit.VisitDate.Before(cutoff) {
			visit.Status = domain.VisitCancelled
			cancelled++
		}
	}
	return cancelled, nil
}

func (f *fakeVisitStore) GetLatestByGuestCode(code string) (*domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := len(f.issues) - 1; i >= 0; i-- {
		if f.issues[i].GuestCode == code {
			issue := f.issues[i]
			return &issue, nil
		}
	}
	return nil, domain.ErrIssueNotFound
}

func (f *fakeVisitStore) ListByGuestCode(code string) ([]domain.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var issues []domain.Issue
	for i := len(f.issues) - 1; i >= 0; i-- {
		if f.issues[i].GuestCode == code {
			issues = append(issues, f.issues[i])
		}
	}
	return issues, nil
}

type fakeResidentRepo struct {
	residents map[uuid.UUID]*domain.Resident
}

func (f *fakeResidentRepo) GetByID(id uuid.UUID) (*domain.Resident, error) {
	resident, ok := f.residents[id]
	if !ok {
		return nil, domain.ErrResidentNotFound
	}
	clone := *resident
	return &clone, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []domain.VisitChange
}

func (f *fakePublisher) PublishVisitChange(_ context.Context, change domain.VisitChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, change)
}

type serviceFixture struct {
	service   *VisitService
	store     *fakeVisitStore
	publisher *fakePublisher
	staff     domain.Actor
	resident  domain.Actor
	member    domain.Actor
	stranger  domain.Actor
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	hostID := uuid.New()
	otherID := uuid.New()
	residents := &fakeResidentRepo{residents: map[uuid.UUID]*domain.Resident{
		hostID: {
			ID:          hostID,
			FullName:    "John Ekwueme",
			Email:       "john@example.com",
			BlockNumber: "A",
			FlatNumber:  "12",
		},
		otherID: {
			ID:          otherID,
			FullName:    "Mary Okafor",
			Email:       "mary@example.com",
			BlockNumber: "B",
			FlatNumber:  "3",
		},
	}}

	store := newFakeVisitStore()
	publisher := &fakePublisher{}

	return &serviceFixture{
		service:   NewVisitService(store, store, residents, publisher),
		store:     store,
		publisher: publisher,
		staff:     domain.Actor{Kind: domain.ActorStaff, ID: uuid.New(), FullName: "Gate Officer"},
		resident:  domain.Actor{Kind: domain.ActorResident, ID: hostID, FullName: "John Ekwueme", PrimaryResidentID: hostID},
		member:    domain.Actor{Kind: domain.ActorMember, ID: uuid.New(), FullName: "Nkechi Ekwueme", PrimaryResidentID: hostID},
		stranger:  domain.Actor{Kind: domain.ActorResident, ID: otherID, FullName: "Mary Okafor", PrimaryResidentID: otherID},
	}
}

func (fx *serviceFixture) registerVisit(t *testing.T) *domain.Visit {
	t.Helper()

	visit := &domain.Visit{
		FullName:  "Ada Obi",
		VisitDate: time.Now().AddDate(0, 0, 1),
		VisitTime: "10:00",
	}
	require.NoError(t, fx.service.RegisterVisit(fx.resident, visit))
	return visit
}

func TestRegisterVisit(t *testing.T) {
	fx := newServiceFixture(t)

	visit := fx.registerVisit(t)

	assert.Equal(t, domain.VisitPending, visit.Status)
	assert.Nil(t, visit.CheckInTime)
	assert.Nil(t, visit.CheckOutTime)
	assert.Nil(t, visit.Duration)
	assert.Regexp(t, `^VIS-`, visit.GuestCode)
	assert.Equal(t, fx.resident.ID, visit.PrimaryResidentID)
	assert.Equal(t, "John Ekwueme", visit.HostName)
	assert.Equal(t, "A", visit.BlockNumber)
	assert.Equal(t, "12", visit.FlatNumber)

	require.Len(t, fx.publisher.changes, 1)
	assert.Equal(t, domain.ChangeCreated, fx.publisher.changes[0].Action)
}

func TestRegisterVisitByHouseholdMember(t *testing.T) {
	fx := newServiceFixture(t)

	visit := &domain.Visit{
		FullName:  "Bola Ade",
		VisitDate: time.Now().AddDate(0, 0, 1),
		VisitTime: "14:30",
	}
	require.NoError(t, fx.service.RegisterVisit(fx.member, visit))

	// The visit belongs to the member's household, not the member.
	assert.Equal(t, fx.resident.ID, visit.PrimaryResidentID)
	assert.Equal(t, domain.ActorMember, visit.RegisteredByKind)
	assert.Equal(t, fx.member.ID, visit.RegisteredByID)
}

func TestRegisterVisitValidation(t *testing.T) {
	fx := newServiceFixture(t)

	var validationErr *domain.ValidationError

	err := fx.service.RegisterVisit(fx.resident, &domain.Visit{VisitDate: time.Now()})
	require.ErrorAs(t, err, &validationErr)

	badEmail := "not-an-email"
	err = fx.service.RegisterVisit(fx.resident, &domain.Visit{
		FullName:  "Ada Obi",
		Email:     &badEmail,
		VisitDate: time.Now(),
		VisitTime: "10:00",
	})
	require.ErrorAs(t, err, &validationErr)

	err = fx.service.RegisterVisit(fx.staff, &domain.Visit{FullName: "Ada Obi", VisitDate: time.Now()})
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestCheckInAndOutScenario(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	checkedIn, err := fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitActive, checkedIn.Status)
	require.NotNil(t, checkedIn.CheckInTime)
	assert.WithinDuration(t, time.Now(), *checkedIn.CheckInTime, 2*time.Second)

	checkedOut, err := fx.service.CheckOut(fx.staff, visit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitCompleted, checkedOut.Status)
	require.NotNil(t, checkedOut.CheckOutTime)
	require.NotNil(t, checkedOut.Duration)
	assert.Equal(t, "0h 0m", *checkedOut.Duration)
}

func TestCheckInTwiceFails(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)

	_, err = fx.service.CheckIn(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCheckOutBeforeCheckInFails(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckOut(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := fx.service.GetVisitByID(visit.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Duration)
}

func TestCheckInRequiresStaff(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckIn(fx.resident, visit.ID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)

	_, err = fx.service.CheckIn(fx.member, visit.ID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestIssueScenario(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)

	flagged, err := fx.service.ReportIssue(fx.resident, visit.ID, "loud behavior")
	require.NoError(t, err)
	assert.Equal(t, domain.VisitIssue, flagged.Status)

	issue, err := fx.service.GetLatestIssue(visit.GuestCode)
	require.NoError(t, err)
	assert.Equal(t, "loud behavior", issue.Description)
	assert.Equal(t, visit.GuestCode, issue.GuestCode)

	// An unresolved issue blocks normal checkout.
	_, err = fx.service.CheckOut(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	resolved, err := fx.service.ResolveIssue(fx.staff, visit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitCompleted, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	// Resolution does not force a checkout time.
	assert.Nil(t, resolved.CheckOutTime)
}

func TestReportIssueValidation(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	var validationErr *domain.ValidationError
	_, err := fx.service.ReportIssue(fx.resident, visit.ID, "   ")
	require.ErrorAs(t, err, &validationErr)

	// Issues can only be reported on active visits.
	_, err = fx.service.ReportIssue(fx.resident, visit.ID, "loitering")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Another household cannot report on this visit.
	_, err = fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)
	_, err = fx.service.ReportIssue(fx.stranger, visit.ID, "loitering")
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestResolveIssueRequiresOpenIssue(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.ResolveIssue(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = fx.service.ResolveIssue(fx.resident, visit.ID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestCancelScenario(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	cancelled, err := fx.service.Cancel(fx.resident, visit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitCancelled, cancelled.Status)
	assert.Nil(t, cancelled.CheckInTime)
	assert.Nil(t, cancelled.CheckOutTime)

	// Cancelled is terminal.
	_, err = fx.service.CheckIn(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelPermissions(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.Cancel(fx.stranger, visit.ID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)

	_, err = fx.service.Cancel(fx.staff, visit.ID)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)

	// A household member may cancel their household's visit.
	_, err = fx.service.Cancel(fx.member, visit.ID)
	assert.NoError(t, err)
}

func TestCancelAfterCheckInFails(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)

	_, err = fx.service.Cancel(fx.resident, visit.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUnknownVisit(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.CheckIn(fx.staff, uuid.New())
	assert.ErrorIs(t, err, domain.ErrVisitNotFound)
}

func TestLogbookAccess(t *testing.T) {
	fx := newServiceFixture(t)
	fx.registerVisit(t)

	visits, err := fx.service.ListVisits(fx.staff)
	require.NoError(t, err)
	assert.Len(t, visits, 1)

	_, err = fx.service.ListVisits(fx.resident)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestHouseholdHistory(t *testing.T) {
	fx := newServiceFixture(t)
	fx.registerVisit(t)

	history, err := fx.service.GetHouseholdHistory(fx.resident)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	history, err = fx.service.GetHouseholdHistory(fx.stranger)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = fx.service.GetHouseholdHistory(fx.staff)
	assert.ErrorIs(t, err, domain.ErrNotAllowed)
}

func TestTransitionsPublishChanges(t *testing.T) {
	fx := newServiceFixture(t)
	visit := fx.registerVisit(t)

	_, err := fx.service.CheckIn(fx.staff, visit.ID)
	require.NoError(t, err)
	_, err = fx.service.CheckOut(fx.staff, visit.ID)
	require.NoError(t, err)

	require.Len(t, fx.publisher.changes, 3)
	assert.Equal(t, domain.ChangeCreated, fx.publisher.changes[0].Action)
	assert.Equal(t, domain.ChangeUpdated, fx.publisher.changes[1].Action)
	assert.Equal(t, domain.VisitCompleted, fx.publisher.changes[2].Visit.Status)
}

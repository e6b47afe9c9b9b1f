package seats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/notifications"
)

// fakeRepository drives the service without a database. LockSeats applies
// the same eligibility condition as the SQL update so conflict behavior can
// be exercised.
type fakeRepository struct {
	seats     []Seat
	lockErr   error
	lockCalls [][]uuid.UUID

	// onLock runs before the eligibility check, simulating a rival writer
	// slipping in between the service's read and its conditional update
	onLock func(f *fakeRepository)
}

func (f *fakeRepository) CreateSeats(ctx context.Context, seats []Seat) error {
	f.seats = append(f.seats, seats...)
	return nil
}

func (f *fakeRepository) GetAllSeats(ctx context.Context) ([]Seat, error) {
	out := make([]Seat, len(f.seats))
	copy(out, f.seats)
	return out, nil
}

func (f *fakeRepository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	for i := range f.seats {
		if f.seats[i].ID == id {
			seat := f.seats[i]
			return &seat, nil
		}
	}
	return nil, ErrSeatNotFound
}

func (f *fakeRepository) GetSeatsByIDs(ctx context.Context, seatIDs []uuid.UUID) ([]Seat, error) {
	var out []Seat
	for _, id := range seatIDs {
		for i := range f.seats {
			if f.seats[i].ID == id {
				out = append(out, f.seats[i])
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) CountSeats(ctx context.Context) (int64, error) {
	return int64(len(f.seats)), nil
}

func (f *fakeRepository) GetSeatsLockedByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]Seat, error) {
	var out []Seat
	for i := range f.seats {
		if f.seats[i].LockedBy(userID, now) {
			out = append(out, f.seats[i])
		}
	}
	return out, nil
}

func (f *fakeRepository) GetSeatsLockedByUserIn(ctx context.Context, userID uuid.UUID, seatIDs []uuid.UUID, now time.Time) ([]Seat, error) {
	var out []Seat
	for _, id := range seatIDs {
		for i := range f.seats {
			if f.seats[i].ID == id && f.seats[i].LockedBy(userID, now) {
				out = append(out, f.seats[i])
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) LockSeats(ctx context.Context, seatIDs []uuid.UUID, userID uuid.UUID, now, till time.Time) error {
	f.lockCalls = append(f.lockCalls, seatIDs)
	if f.lockErr != nil {
		return f.lockErr
	}
	if f.onLock != nil {
		f.onLock(f)
	}

	eligible := 0
	for _, id := range seatIDs {
		for i := range f.seats {
			seat := &f.seats[i]
			if seat.ID != id {
				continue
			}
			free := seat.LockedByUserID == nil ||
				*seat.LockedByUserID == userID ||
				!seat.LockedTill.After(now)
			if seat.Status == StatusEmpty && seat.OrderID == nil && free {
				eligible++
			}
		}
	}
	if eligible != len(seatIDs) {
		return ErrLockConflict
	}

	for _, id := range seatIDs {
		for i := range f.seats {
			if f.seats[i].ID == id {
				uid := userID
				t := till
				f.seats[i].LockedByUserID = &uid
				f.seats[i].LockedTill = &t
			}
		}
	}
	return nil
}

func (f *fakeRepository) ListSeats(ctx context.Context, query SeatListQuery) ([]Seat, int64, error) {
	return f.seats, int64(len(f.seats)), nil
}

func (f *fakeRepository) UpdateSeatStatus(ctx context.Context, id uuid.UUID, status Status) error {
	for i := range f.seats {
		if f.seats[i].ID == id {
			if f.seats[i].OrderID != nil {
				return ErrSeatPurchased
			}
			if f.seats[i].Status == status {
				return ErrStatusUnchanged
			}
			f.seats[i].Status = status
			return nil
		}
	}
	return ErrSeatNotFound
}

type capturingPublisher struct {
	events []notifications.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event notifications.Event) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService(repo *fakeRepository, publisher notifications.Publisher) Service {
	return NewService(repo, nil, publisher, 20*time.Minute, 10)
}

func TestTrySelectGrantsLocks(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{seats: newSection(1, 1, StatusEmpty, StatusEmpty)}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)
	userID := uuid.New()

	ids := idsOf(repo.seats, 0, 1)
	resp, err := svc.TrySelect(context.Background(), userID, ids)
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}

	if !resp.CanCheckOut {
		t.Error("expected CanCheckOut after a clean selection")
	}
	if resp.LockedTill == nil || !resp.LockedTill.After(time.Now()) {
		t.Error("expected a future lock expiry")
	}
	if len(repo.lockCalls) != 1 {
		t.Fatalf("expected 1 lock attempt, got %d", len(repo.lockCalls))
	}

	now := time.Now()
	for i := range repo.seats {
		if !repo.seats[i].LockedBy(userID, now) {
			t.Errorf("seat %d not locked for the selector", i)
		}
	}

	if len(publisher.events) != 1 || publisher.events[0].Type != notifications.EventSeatsLocked {
		t.Errorf("expected one seats.locked event, got %+v", publisher.events)
	}
}

func TestTrySelectPlacementFailureLocksNothing(t *testing.T) {
	t.Parallel()

	// Taking only the middle seat of three strands its left neighbor
	repo := &fakeRepository{seats: newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty)}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, publisher)

	resp, err := svc.TrySelect(context.Background(), uuid.New(), idsOf(repo.seats, 1))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}

	if resp.CanCheckOut {
		t.Error("expected CanCheckOut false on placement failure")
	}
	if len(resp.Detail) != 1 || resp.Detail[0].Success {
		t.Errorf("expected per-seat failure detail, got %+v", resp.Detail)
	}
	if len(repo.lockCalls) != 0 {
		t.Error("no lock attempt may happen when placement validation fails")
	}
	if len(publisher.events) != 0 {
		t.Error("no event may be published when nothing was locked")
	}
}

func TestTrySelectLockConflict(t *testing.T) {
	t.Parallel()

	// Both seats are free at read time, but a rival locks one between the
	// read and the conditional update, so the batch comes up short.
	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	rival := uuid.New()
	till := time.Now().Add(10 * time.Minute)

	repo := &fakeRepository{seats: section}
	repo.onLock = func(f *fakeRepository) {
		f.seats[0].LockedByUserID = &rival
		f.seats[0].LockedTill = &till
	}
	svc := newTestService(repo, &capturingPublisher{})

	resp, err := svc.TrySelect(context.Background(), uuid.New(), idsOf(section, 0, 1))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if resp.CanCheckOut {
		t.Fatal("expected canCheckOut=false after losing the lock race")
	}
	if len(resp.Detail) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Detail))
	}
	if resp.Detail[0].Success || resp.Detail[0].Message == "" {
		t.Errorf("raced seat should fail with a message, got %+v", resp.Detail[0])
	}
	if !resp.Detail[1].Success {
		t.Errorf("uncontested seat should be reported claimable, got %+v", resp.Detail[1])
	}
	if len(repo.lockCalls) != 1 {
		t.Errorf("expected exactly one lock attempt, got %d", len(repo.lockCalls))
	}
}

func TestTrySelectSeesRivalLocksAsOccupied(t *testing.T) {
	t.Parallel()

	// Seat 0 is live-locked by a rival. Its stored status is still EMPTY,
	// but the selection view must treat it as occupied: taking seat 2
	// would strand seat 1 between the rival's lock and the new lock.
	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty, StatusEmpty, StatusEmpty)
	rival := uuid.New()
	till := time.Now().Add(10 * time.Minute)
	section[0].LockedByUserID = &rival
	section[0].LockedTill = &till

	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})

	resp, err := svc.TrySelect(context.Background(), uuid.New(), idsOf(section, 2))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if resp.CanCheckOut {
		t.Fatal("expected canCheckOut=false: the selection strands a seat next to a rival's lock")
	}
	if resp.Detail[0].Success {
		t.Errorf("seat 2 should fail the orphan rule, got %+v", resp.Detail[0])
	}
	if len(repo.lockCalls) != 0 {
		t.Errorf("placement failure must not attempt any lock, got %d calls", len(repo.lockCalls))
	}

	// Requesting the rival's seat itself is also a placement failure, not
	// a lock conflict: the view already shows it occupied.
	resp, err = svc.TrySelect(context.Background(), uuid.New(), idsOf(section, 0))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if resp.CanCheckOut || resp.Detail[0].Success {
		t.Errorf("rival-locked seat should fail validation, got %+v", resp.Detail[0])
	}
	if len(repo.lockCalls) != 0 {
		t.Errorf("expected no lock attempts, got %d", len(repo.lockCalls))
	}
}

func TestTrySelectDeduplicatesRequest(t *testing.T) {
	t.Parallel()

	// A repeated id must not make the batch update fall short of the
	// request and fail a legitimate selection.
	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})

	ids := idsOf(section, 0, 0, 1)
	resp, err := svc.TrySelect(context.Background(), uuid.New(), ids)
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if !resp.CanCheckOut {
		t.Fatalf("expected canCheckOut=true, got detail %+v", resp.Detail)
	}
	if len(resp.Detail) != 2 {
		t.Errorf("expected one result per distinct seat, got %d", len(resp.Detail))
	}
	if len(repo.lockCalls) != 1 || len(repo.lockCalls[0]) != 2 {
		t.Errorf("expected one lock attempt on 2 distinct seats, got %+v", repo.lockCalls)
	}
}

func TestTrySelectReclaimsExpiredLock(t *testing.T) {
	t.Parallel()

	// An expired lock is dead: any user may claim the seat
	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	previous := uuid.New()
	past := time.Now().Add(-time.Minute)
	section[0].LockedByUserID = &previous
	section[0].LockedTill = &past

	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})
	claimer := uuid.New()

	resp, err := svc.TrySelect(context.Background(), claimer, idsOf(section, 0, 1))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if !resp.CanCheckOut {
		t.Error("expected expired lock to be claimable")
	}
	if !repo.seats[0].LockedBy(claimer, time.Now()) {
		t.Error("seat not relocked for the new claimer")
	}
}

func TestTrySelectRenewsOwnLock(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	userID := uuid.New()
	soon := time.Now().Add(time.Minute)
	section[0].LockedByUserID = &userID
	section[0].LockedTill = &soon

	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})

	resp, err := svc.TrySelect(context.Background(), userID, idsOf(section, 0, 1))
	if err != nil {
		t.Fatalf("TrySelect() error: %v", err)
	}
	if !resp.CanCheckOut {
		t.Fatal("expected selection including own locked seat to succeed")
	}
	if !repo.seats[0].LockedTill.After(soon) {
		t.Error("expected own lock window to be renewed")
	}
}

func TestTrySelectRequestLimits(t *testing.T) {
	t.Parallel()

	repo := &fakeRepository{seats: newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty)}
	svc := NewService(repo, nil, &capturingPublisher{}, 20*time.Minute, 2)

	if _, err := svc.TrySelect(context.Background(), uuid.New(), nil); !errors.Is(err, ErrNoSeatsRequested) {
		t.Errorf("empty request: expected ErrNoSeatsRequested, got %v", err)
	}

	ids := idsOf(repo.seats, 0, 1, 2)
	if _, err := svc.TrySelect(context.Background(), uuid.New(), ids); !errors.Is(err, ErrTooManySeats) {
		t.Errorf("oversized request: expected ErrTooManySeats, got %v", err)
	}

	if _, err := svc.TrySelect(context.Background(), uuid.New(), []string{"not-a-uuid"}); !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("malformed id: expected ErrSeatNotFound, got %v", err)
	}
}

func TestGetMyLockedSeats(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty)
	userID := uuid.New()
	near := time.Now().Add(5 * time.Minute)
	far := time.Now().Add(15 * time.Minute)
	section[0].LockedByUserID = &userID
	section[0].LockedTill = &far
	section[2].LockedByUserID = &userID
	section[2].LockedTill = &near

	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})

	resp, err := svc.GetMyLockedSeats(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetMyLockedSeats() error: %v", err)
	}
	if len(resp.Seats) != 2 {
		t.Fatalf("expected 2 locked seats, got %d", len(resp.Seats))
	}
	for _, view := range resp.Seats {
		if !view.LockedForYou {
			t.Errorf("seat %s missing locked_for_you flag", view.Label)
		}
	}
	// The earliest expiry bounds the whole selection
	if resp.LockedTill == nil || !resp.LockedTill.Equal(near) {
		t.Errorf("expected LockedTill %v, got %v", near, resp.LockedTill)
	}
}

func TestGetSeatMapViewerPerspective(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	owner := uuid.New()
	till := time.Now().Add(10 * time.Minute)
	section[0].LockedByUserID = &owner
	section[0].LockedTill = &till

	repo := &fakeRepository{seats: section}
	svc := newTestService(repo, &capturingPublisher{})

	ownerView, err := svc.GetSeatMap(context.Background(), owner)
	if err != nil {
		t.Fatalf("GetSeatMap() error: %v", err)
	}
	if ownerView.Seats[0].Status != StatusEmpty || !ownerView.Seats[0].LockedForYou {
		t.Errorf("owner view wrong: %+v", ownerView.Seats[0])
	}

	strangerView, err := svc.GetSeatMap(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetSeatMap() error: %v", err)
	}
	if strangerView.Seats[0].Status != StatusOccupied || strangerView.Seats[0].LockedForYou {
		t.Errorf("stranger view wrong: %+v", strangerView.Seats[0])
	}
}

package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/notifications"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

type Service interface {
	// Public seat map and lock views
	GetSeatMap(ctx context.Context, viewerID uuid.UUID) (*SeatMapResponse, error)
	GetMyLockedSeats(ctx context.Context, userID uuid.UUID) (*MyLockedSeatsResponse, error)

	// Selection
	TrySelect(ctx context.Context, userID uuid.UUID, seatIDs []string) (*SelectSeatsResponse, error)

	// Admin
	ListSeatsAdmin(ctx context.Context, query SeatListQuery) (*AdminSeatListResponse, error)
	UpdateSeatStatus(ctx context.Context, id uuid.UUID, status Status) (*AdminSeatView, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	publisher    notifications.Publisher
	log          *logger.Logger
	lockTTL      time.Duration
	maxSelection int
}

func NewService(repo Repository, cacheService cache.Service, publisher notifications.Publisher, lockTTL time.Duration, maxSelection int) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		publisher:    publisher,
		log:          logger.GetDefault(),
		lockTTL:      lockTTL,
		maxSelection: maxSelection,
	}
}

// GetSeatMap returns every seat with its status as seen by the given viewer.
// Raw rows are cached, never the viewer-specific projection: the effective
// status depends on who is asking and on the clock, so it is derived per call.
func (s *service) GetSeatMap(ctx context.Context, viewerID uuid.UUID) (*SeatMapResponse, error) {
	seats, err := s.loadSeatsCached(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		views = append(views, toSeatView(seat, now, viewerID))
	}

	return &SeatMapResponse{Seats: views, Total: len(views)}, nil
}

func (s *service) GetMyLockedSeats(ctx context.Context, userID uuid.UUID) (*MyLockedSeatsResponse, error) {
	now := time.Now()
	seats, err := s.repo.GetSeatsLockedByUser(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	resp := &MyLockedSeatsResponse{Seats: make([]SeatView, 0, len(seats))}
	for _, seat := range seats {
		resp.Seats = append(resp.Seats, toSeatView(seat, now, userID))
		if resp.LockedTill == nil || seat.LockedTill.Before(*resp.LockedTill) {
			till := *seat.LockedTill
			resp.LockedTill = &till
		}
	}
	return resp, nil
}

// TrySelect validates placement for the whole request, then attempts to take
// a time-boxed lock on every requested seat at once. Placement failures are
// reported per seat and nothing is locked. A lost race against another
// selector also comes back as canCheckOut=false, with the raced seats called
// out, so the client refreshes and retries rather than treating it as an
// error.
func (s *service) TrySelect(ctx context.Context, userID uuid.UUID, seatIDs []string) (*SelectSeatsResponse, error) {
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsRequested
	}

	// Repeated ids would make the conditional update's affected-row count
	// fall short of the request and fail a legitimate selection
	seatIDs = dedupe(seatIDs)
	if len(seatIDs) > s.maxSelection {
		return nil, ErrTooManySeats
	}

	ids := make([]uuid.UUID, 0, len(seatIDs))
	for _, raw := range seatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrSeatNotFound
		}
		ids = append(ids, id)
	}

	// Selection always reads fresh rows. The cache is only for the
	// public map; stale lock state here would defeat the placement check.
	allSeats, err := s.repo.GetAllSeats(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// The picker judges the layout as this user sees it right now. A
	// rival's live lock reads as occupied so its adjacency effects reach
	// the placement rules, while an expired lock reads as empty again.
	// The user's own live locks stay selectable.
	view := make([]Seat, len(allSeats))
	copy(view, allSeats)
	for i := range view {
		view[i].Status = view[i].EffectiveStatus(now, userID)
	}

	results := PickSeats(view, seatIDs)
	for _, res := range results {
		if !res.Success {
			return &SelectSeatsResponse{Detail: results, CanCheckOut: false}, nil
		}
	}

	till := now.Add(s.lockTTL)

	// All requested ids go through the conditional update, including seats
	// this user already holds: their lock window is renewed in the same
	// statement, so a selection always ends with one uniform expiry.
	if err := s.repo.LockSeats(ctx, ids, userID, now, till); err != nil {
		if errors.Is(err, ErrLockConflict) {
			return s.conflictDetail(ctx, userID, ids, seatIDs, now)
		}
		return nil, err
	}

	s.invalidateSeatMap(ctx)
	s.log.LogSeatsLocked(ctx, userID.String(), seatIDs, till)
	if s.publisher != nil {
		s.publisher.Publish(ctx, notifications.Event{
			Type:      notifications.EventSeatsLocked,
			UserID:    userID.String(),
			Payload:   map[string]interface{}{"seat_ids": seatIDs, "locked_till": till},
			Timestamp: now,
		})
	}

	return &SelectSeatsResponse{Detail: results, CanCheckOut: true, LockedTill: &till}, nil
}

// conflictDetail re-reads the requested seats after a failed batch lock and
// reports which ones another writer took in the meantime, so the client can
// highlight them the same way it highlights placement failures.
func (s *service) conflictDetail(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, seatIDs []string, now time.Time) (*SelectSeatsResponse, error) {
	current, err := s.repo.GetSeatsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Seat, len(current))
	for _, seat := range current {
		byID[seat.ID.String()] = seat
	}

	detail := make([]PickResult, 0, len(seatIDs))
	for _, raw := range seatIDs {
		seat, found := byID[raw]
		switch {
		case !found:
			detail = append(detail, PickResult{SeatID: raw, Success: false, Message: fmt.Sprintf("seat %s not found", raw)})
		case seat.IsSold(), seat.HasLiveLock(now) && !seat.LockedBy(userID, now):
			detail = append(detail, PickResult{SeatID: raw, Success: false, Message: fmt.Sprintf("seat %s was just taken by another user", raw)})
		default:
			detail = append(detail, PickResult{SeatID: raw, Success: true})
		}
	}
	return &SelectSeatsResponse{Detail: detail, CanCheckOut: false}, nil
}

// ADMIN

func (s *service) ListSeatsAdmin(ctx context.Context, query SeatListQuery) (*AdminSeatListResponse, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 10
	}

	key := constants.AdminSeatPageKey(query.Page, query.PageSize, query.SearchTerm)
	if s.cacheService != nil {
		var cached AdminSeatListResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	seatRows, total, err := s.repo.ListSeats(ctx, query)
	if err != nil {
		return nil, err
	}

	views := make([]AdminSeatView, 0, len(seatRows))
	for _, seat := range seatRows {
		views = append(views, toAdminSeatView(seat))
	}

	totalPages := int((total + int64(query.PageSize) - 1) / int64(query.PageSize))
	result := &AdminSeatListResponse{
		Seats: views,
		Pagination: Pagination{
			Page:       query.Page,
			PageSize:   query.PageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, result, constants.TTL_ADMIN_LIST); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache admin seat page", map[string]interface{}{"error": err.Error()})
		}
	}
	return result, nil
}

func (s *service) UpdateSeatStatus(ctx context.Context, id uuid.UUID, status Status) (*AdminSeatView, error) {
	if err := s.repo.UpdateSeatStatus(ctx, id, status); err != nil {
		return nil, err
	}

	seat, err := s.repo.GetSeatByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateSeatMap(ctx)

	view := toAdminSeatView(*seat)
	return &view, nil
}

// CACHE

func (s *service) loadSeatsCached(ctx context.Context) ([]Seat, error) {
	key := constants.SeatMapKey()

	var seats []Seat
	if s.cacheService != nil {
		if err := s.cacheService.Get(ctx, key, &seats); err == nil {
			return seats, nil
		}
	}

	seats, err := s.repo.GetAllSeats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, seats, constants.TTL_SEAT_MAP); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache seat map", map[string]interface{}{"error": err.Error()})
		}
	}
	return seats, nil
}

// dedupe drops repeated ids, keeping first-occurrence order
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *service) invalidateSeatMap(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.SeatMapKey()); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate seat map cache", map[string]interface{}{"error": err.Error()})
	}
	if err := s.cacheService.DeletePattern(ctx, constants.AdminSeatPagePattern()); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate admin seat cache", map[string]interface{}{"error": err.Error()})
	}
}

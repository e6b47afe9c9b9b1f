package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/orders"
	"stagepass/internal/seats"
	"stagepass/pkg/cache"
)

const testSecret = "whsec_test"

type fakeSeatRepo struct {
	locked []seats.Seat
}

func (f *fakeSeatRepo) CreateSeats(ctx context.Context, s []seats.Seat) error { return nil }
func (f *fakeSeatRepo) GetAllSeats(ctx context.Context) ([]seats.Seat, error) { return nil, nil }
func (f *fakeSeatRepo) GetSeatByID(ctx context.Context, id uuid.UUID) (*seats.Seat, error) {
	return nil, seats.ErrSeatNotFound
}
func (f *fakeSeatRepo) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]seats.Seat, error) {
	return nil, nil
}
func (f *fakeSeatRepo) CountSeats(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeSeatRepo) GetSeatsLockedByUser(ctx context.Context, userID uuid.UUID, now time.Time) ([]seats.Seat, error) {
	return f.locked, nil
}
func (f *fakeSeatRepo) GetSeatsLockedByUserIn(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, now time.Time) ([]seats.Seat, error) {
	return f.locked, nil
}
func (f *fakeSeatRepo) LockSeats(ctx context.Context, ids []uuid.UUID, userID uuid.UUID, now, till time.Time) error {
	return nil
}
func (f *fakeSeatRepo) ListSeats(ctx context.Context, q seats.SeatListQuery) ([]seats.Seat, int64, error) {
	return nil, 0, nil
}
func (f *fakeSeatRepo) UpdateSeatStatus(ctx context.Context, id uuid.UUID, status seats.Status) error {
	return nil
}

// fakeCache is a map-backed cache.Service without TTL handling
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

type fakeOrderService struct {
	finalized []orders.FinalizeInput
}

func (f *fakeOrderService) Finalize(ctx context.Context, input orders.FinalizeInput) (*orders.OrderView, error) {
	f.finalized = append(f.finalized, input)
	return &orders.OrderView{ID: uuid.New(), CheckoutSessionID: input.CheckoutSessionID}, nil
}

func (f *fakeOrderService) GetMyOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) (*orders.OrderListResponse, error) {
	return nil, nil
}

func (f *fakeOrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderView, error) {
	return nil, orders.ErrOrderNotFound
}

func (f *fakeOrderService) GetOrderBySession(ctx context.Context, userID uuid.UUID, sessionID string) (*orders.OrderView, error) {
	for _, input := range f.finalized {
		if input.CheckoutSessionID == sessionID && input.UserID == userID {
			return &orders.OrderView{CheckoutSessionID: sessionID}, nil
		}
	}
	return nil, orders.ErrOrderNotFound
}

func (f *fakeOrderService) ListAllAdmin(ctx context.Context, page, pageSize int, search string) (*orders.AdminOrderListResponse, error) {
	return nil, nil
}

func lockedSeat(price float64, userID uuid.UUID, till time.Time) seats.Seat {
	return seats.Seat{
		ID:             uuid.New(),
		Label:          "101-1",
		Row:            1,
		Column:         1,
		IndexFromLeft:  1,
		Price:          price,
		Status:         seats.StatusEmpty,
		LockedByUserID: &userID,
		LockedTill:     &till,
	}
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateCheckoutRequiresLocks(t *testing.T) {
	t.Parallel()

	svc := NewService(NewStubProvider("https://pay.test"), &fakeSeatRepo{}, &fakeOrderService{}, newFakeCache(), testSecret, 6)

	_, err := svc.CreateCheckout(context.Background(), uuid.New())
	if !errors.Is(err, ErrNoLockedSeats) {
		t.Fatalf("expected ErrNoLockedSeats, got %v", err)
	}
}

func TestCreateCheckout(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	till := time.Now().Add(15 * time.Minute)
	seatRepo := &fakeSeatRepo{locked: []seats.Seat{
		lockedSeat(100, userID, till),
		lockedSeat(80, userID, till),
	}}
	cacheSvc := newFakeCache()
	svc := NewService(NewStubProvider("https://pay.test"), seatRepo, &fakeOrderService{}, cacheSvc, testSecret, 6)

	checkout, err := svc.CreateCheckout(context.Background(), userID)
	if err != nil {
		t.Fatalf("CreateCheckout() error: %v", err)
	}

	if checkout.Amount != 180 {
		t.Errorf("amount = %v, want 180", checkout.Amount)
	}
	if checkout.ProcessingFee != 10.8 {
		t.Errorf("processing fee = %v, want 10.8", checkout.ProcessingFee)
	}
	if checkout.Total != checkout.Amount+checkout.ProcessingFee {
		t.Errorf("total = %v, want %v", checkout.Total, checkout.Amount+checkout.ProcessingFee)
	}
	if checkout.SessionID == "" || checkout.CheckoutURL == "" {
		t.Error("expected a session id and checkout url")
	}
	if !checkout.ExpiresAt.Equal(till) {
		t.Errorf("expiry = %v, want lock expiry %v", checkout.ExpiresAt, till)
	}

	// The pending session must be retrievable for the webhook
	if len(cacheSvc.entries) != 1 {
		t.Errorf("expected 1 cached pending session, got %d", len(cacheSvc.entries))
	}
}

func TestHandleCompletedEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	till := time.Now().Add(15 * time.Minute)
	seatRepo := &fakeSeatRepo{locked: []seats.Seat{lockedSeat(100, userID, till)}}
	cacheSvc := newFakeCache()
	orderSvc := &fakeOrderService{}
	svc := NewService(NewStubProvider("https://pay.test"), seatRepo, orderSvc, cacheSvc, testSecret, 0)

	checkout, err := svc.CreateCheckout(context.Background(), userID)
	if err != nil {
		t.Fatalf("CreateCheckout() error: %v", err)
	}

	event := PaymentCompletedEvent{
		Type:          EventTypeCheckoutCompleted,
		SessionID:     checkout.SessionID,
		AmountPaid:    100,
		PaymentMethod: "card",
	}
	body, _ := json.Marshal(event)

	order, err := svc.HandleCompletedEvent(context.Background(), body, sign(body), event)
	if err != nil {
		t.Fatalf("HandleCompletedEvent() error: %v", err)
	}
	if order.CheckoutSessionID != checkout.SessionID {
		t.Errorf("order session mismatch: %s", order.CheckoutSessionID)
	}

	if len(orderSvc.finalized) != 1 {
		t.Fatalf("expected 1 finalize call, got %d", len(orderSvc.finalized))
	}
	got := orderSvc.finalized[0]
	if got.UserID != userID {
		t.Errorf("finalize user = %s, want %s", got.UserID, userID)
	}
	if len(got.SeatIDs) != 1 || got.SeatIDs[0] != seatRepo.locked[0].ID {
		t.Errorf("finalize seats wrong: %v", got.SeatIDs)
	}
	if got.PaidAmount != 100 {
		t.Errorf("paid amount = %v, want 100", got.PaidAmount)
	}
}

func TestHandleCompletedEventRejections(t *testing.T) {
	t.Parallel()

	svc := NewService(NewStubProvider("https://pay.test"), &fakeSeatRepo{}, &fakeOrderService{}, newFakeCache(), testSecret, 0)

	event := PaymentCompletedEvent{Type: EventTypeCheckoutCompleted, SessionID: "cs_missing"}
	body, _ := json.Marshal(event)

	if _, err := svc.HandleCompletedEvent(context.Background(), body, "bad-signature", event); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}

	if _, err := svc.HandleCompletedEvent(context.Background(), body, sign(body), event); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("expected ErrUnknownSession, got %v", err)
	}

	other := PaymentCompletedEvent{Type: "checkout.session.expired", SessionID: "cs_x"}
	otherBody, _ := json.Marshal(other)
	if _, err := svc.HandleCompletedEvent(context.Background(), otherBody, sign(otherBody), other); !errors.Is(err, ErrUnexpectedEvent) {
		t.Errorf("expected ErrUnexpectedEvent, got %v", err)
	}
}

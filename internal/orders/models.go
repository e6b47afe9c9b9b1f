package orders

import (
	"time"

	"github.com/google/uuid"

	"stagepass/internal/seats"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// Order is a finalized purchase. CheckoutSessionID carries a unique index:
// replayed payment events for the same session collapse into one order.
type Order struct {
	ID                  uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID              uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`
	CheckoutSessionID   string      `json:"checkout_session_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Status              OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	PaidAmount          float64     `json:"paid_amount" gorm:"type:decimal(10,2);not null"`
	ProcessingFeeAmount float64     `json:"processing_fee_amount" gorm:"type:decimal(10,2);not null;default:0"`
	PaymentMethod       string      `json:"payment_method" gorm:"type:varchar(50)"`
	CollectionMethod    string      `json:"collection_method" gorm:"type:varchar(50)"`
	ReceiptURL          *string     `json:"receipt_url,omitempty" gorm:"type:text"`
	Seats               []seats.Seat `json:"seats,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// FinalizeInput is everything the payment webhook knows about a completed
// checkout session.
type FinalizeInput struct {
	CheckoutSessionID string
	UserID            uuid.UUID
	SeatIDs           []uuid.UUID
	PaidAmount        float64
	ProcessingFee     float64
	PaymentMethod     string
	CollectionMethod  string
	ReceiptURL        *string
}

// RESPONSES

type OrderSeatView struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Row   int       `json:"row"`
	Price float64   `json:"price"`
}

type OrderView struct {
	ID                  uuid.UUID       `json:"id"`
	CheckoutSessionID   string          `json:"checkout_session_id"`
	Status              OrderStatus     `json:"status"`
	PaidAmount          float64         `json:"paid_amount"`
	ProcessingFeeAmount float64         `json:"processing_fee_amount"`
	PaymentMethod       string          `json:"payment_method,omitempty"`
	CollectionMethod    string          `json:"collection_method,omitempty"`
	ReceiptURL          *string         `json:"receipt_url,omitempty"`
	Seats               []OrderSeatView `json:"seats"`
	CreatedAt           time.Time       `json:"created_at"`
}

type OrderListResponse struct {
	Orders     []OrderView `json:"orders"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// AdminOrderView adds the buyer to the order projection
type AdminOrderView struct {
	OrderView
	UserID uuid.UUID `json:"user_id"`
}

type AdminOrderListResponse struct {
	Orders     []AdminOrderView `json:"orders"`
	Pagination Pagination       `json:"pagination"`
}

func toOrderView(o Order) OrderView {
	seatViews := make([]OrderSeatView, 0, len(o.Seats))
	for _, seat := range o.Seats {
		seatViews = append(seatViews, OrderSeatView{
			ID:    seat.ID,
			Label: seat.Label,
			Row:   seat.Row,
			Price: seat.Price,
		})
	}
	return OrderView{
		ID:                  o.ID,
		CheckoutSessionID:   o.CheckoutSessionID,
		Status:              o.Status,
		PaidAmount:          o.PaidAmount,
		ProcessingFeeAmount: o.ProcessingFeeAmount,
		PaymentMethod:       o.PaymentMethod,
		CollectionMethod:    o.CollectionMethod,
		ReceiptURL:          o.ReceiptURL,
		Seats:               seatViews,
		CreatedAt:           o.CreatedAt,
	}
}

func toAdminOrderView(o Order) AdminOrderView {
	return AdminOrderView{OrderView: toOrderView(o), UserID: o.UserID}
}

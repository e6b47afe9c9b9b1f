package seats

import (
	"time"

	"github.com/google/uuid"
)

// REQUESTS

type SelectSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

type UpdateSeatStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=EMPTY OCCUPIED"`
}

// RESPONSES

// SeatView is the public projection of a seat. Status is the effective
// status for the requesting viewer, never the raw stored column.
type SeatView struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label"`
	Row           int       `json:"row"`
	Column        int       `json:"column"`
	IndexFromLeft int       `json:"index_from_left"`
	Price         float64   `json:"price"`
	Status        Status    `json:"status"`
	LockedForYou  bool      `json:"locked_for_you"`
}

type SeatMapResponse struct {
	Seats []SeatView `json:"seats"`
	Total int        `json:"total"`
}

type MyLockedSeatsResponse struct {
	Seats      []SeatView `json:"seats"`
	LockedTill *time.Time `json:"locked_till,omitempty"`
}

type SelectSeatsResponse struct {
	Detail      []PickResult `json:"detail"`
	CanCheckOut bool         `json:"can_check_out"`
	LockedTill  *time.Time   `json:"locked_till,omitempty"`
}

// AdminSeatView exposes lock internals hidden from the public view.
type AdminSeatView struct {
	ID             uuid.UUID  `json:"id"`
	Label          string     `json:"label"`
	Row            int        `json:"row"`
	Column         int        `json:"column"`
	IndexFromLeft  int        `json:"index_from_left"`
	Price          float64    `json:"price"`
	Status         Status     `json:"status"`
	LockedByUserID *uuid.UUID `json:"locked_by_user_id,omitempty"`
	LockedTill     *time.Time `json:"locked_till,omitempty"`
	OrderID        *uuid.UUID `json:"order_id,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type AdminSeatListResponse struct {
	Seats      []AdminSeatView `json:"seats"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func toSeatView(s Seat, now time.Time, viewerID uuid.UUID) SeatView {
	return SeatView{
		ID:            s.ID,
		Label:         s.Label,
		Row:           s.Row,
		Column:        s.Column,
		IndexFromLeft: s.IndexFromLeft,
		Price:         s.Price,
		Status:        s.EffectiveStatus(now, viewerID),
		LockedForYou:  viewerID != uuid.Nil && s.LockedBy(viewerID, now),
	}
}

func toAdminSeatView(s Seat) AdminSeatView {
	return AdminSeatView{
		ID:             s.ID,
		Label:          s.Label,
		Row:            s.Row,
		Column:         s.Column,
		IndexFromLeft:  s.IndexFromLeft,
		Price:          s.Price,
		Status:         s.Status,
		LockedByUserID: s.LockedByUserID,
		LockedTill:     s.LockedTill,
		OrderID:        s.OrderID,
		UpdatedAt:      s.UpdatedAt,
	}
}

package seats

import (
	"time"

	"github.com/google/uuid"
)

// Status is a seat's availability state. EMPTY and OCCUPIED are the only
// values ever persisted; TEMP_OCCUPIED exists solely inside one placement
// validation pass.
type Status string

const (
	StatusEmpty        Status = "EMPTY"
	StatusOccupied     Status = "OCCUPIED"
	StatusTempOccupied Status = "TEMP_OCCUPIED"
)

// Seat defines the structure for individual seats.
//
// A seat's physical placement is (Row, Column, IndexFromLeft): Column names a
// contiguous sub-block within the row, and adjacency rules only apply between
// seats of the same (Row, Column) section. Seats within one section must be
// stored and returned in left-to-right order; the placement validator derives
// adjacency from array order, not from IndexFromLeft.
type Seat struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Label         string    `gorm:"uniqueIndex;not null" json:"label"`
	Row           int       `gorm:"not null" json:"row"`
	Column        int       `gorm:"not null" json:"column"`
	IndexFromLeft int       `gorm:"not null" json:"index_from_left"` // 1-based within its section
	Price         float64   `gorm:"not null" json:"price"`
	Status        Status    `gorm:"type:varchar(20);check:status IN ('EMPTY', 'OCCUPIED');default:'EMPTY'" json:"status"`

	// A lock is the transient pair (LockedByUserID, LockedTill). There is no
	// sweeper: a lock whose LockedTill has passed is dead and every read path
	// must treat the seat as unlocked.
	LockedByUserID *uuid.UUID `gorm:"type:uuid;index:idx_seats_locked_by_till" json:"locked_by_user_id,omitempty"`
	LockedTill     *time.Time `gorm:"index:idx_seats_locked_by_till" json:"locked_till,omitempty"`

	// Set once the seat is permanently sold
	OrderID *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// IsSold reports whether the seat belongs to a finalized order
func (s *Seat) IsSold() bool {
	return s.OrderID != nil || s.Status == StatusOccupied
}

// LockedBy reports whether the given user holds an unexpired lock on the seat
func (s *Seat) LockedBy(userID uuid.UUID, now time.Time) bool {
	return s.LockedByUserID != nil &&
		*s.LockedByUserID == userID &&
		s.LockedTill != nil &&
		s.LockedTill.After(now)
}

// HasLiveLock reports whether any user holds an unexpired lock on the seat
func (s *Seat) HasLiveLock(now time.Time) bool {
	return s.LockedByUserID != nil && s.LockedTill != nil && s.LockedTill.After(now)
}

// EffectiveStatus computes the seat's status as seen by viewerID at the given
// instant: OCCUPIED when sold or locked by somebody else with an unexpired
// lock, otherwise EMPTY. The viewer's own live lock does not occupy the seat;
// it is surfaced separately as a flag. Pass uuid.Nil for anonymous viewers.
// The derived value is never persisted.
func (s *Seat) EffectiveStatus(now time.Time, viewerID uuid.UUID) Status {
	if s.IsSold() {
		return StatusOccupied
	}
	if s.HasLiveLock(now) && *s.LockedByUserID != viewerID {
		return StatusOccupied
	}
	return StatusEmpty
}

// isOccupiedLike reports whether a status blocks the seat for placement
// purposes during validation.
func isOccupiedLike(status Status) bool {
	return status == StatusOccupied || status == StatusTempOccupied
}

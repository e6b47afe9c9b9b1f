package seats

import "fmt"

// PickResult is the verdict for one requested seat id. Placement failures are
// values, not errors: a bad seat never aborts its siblings in the same batch.
type PickResult struct {
	SeatID  string `json:"seat_id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PickSeats validates that occupying every seat in seatIDs at once leaves no
// single stranded empty seat anywhere in the affected sections. It returns one
// result per requested id, in request order.
//
// The check runs against a clone of the input: the caller's slice is never
// mutated, so calling twice with the same inputs is deterministic.
//
// The pre-pass marks all requested empty seats TEMP_OCCUPIED before any
// per-seat verdict is computed. The orphan rule has to see the combined effect
// of the whole request: judging seats one at a time against the pre-selection
// layout would reject valid contiguous block selections.
func PickSeats(all []Seat, seatIDs []string) []PickResult {
	cloned := withTempOccupied(all, seatIDs)

	results := make([]PickResult, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		results = append(results, pickOne(cloned, seatID))
	}
	return results
}

// withTempOccupied clones the seat slice and marks every requested seat that
// is currently empty as TEMP_OCCUPIED. Seats that are already occupied (sold,
// or blocked by someone else's live lock in the effective view) keep their
// status and fail naturally in later checks.
func withTempOccupied(all []Seat, seatIDs []string) []Seat {
	requested := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		requested[id] = true
	}

	cloned := make([]Seat, len(all))
	copy(cloned, all)
	for i := range cloned {
		if requested[cloned[i].ID.String()] && cloned[i].Status == StatusEmpty {
			cloned[i].Status = StatusTempOccupied
		}
	}
	return cloned
}

func pickOne(cloned []Seat, seatID string) PickResult {
	seat := findSeat(cloned, seatID)
	if seat == nil {
		return PickResult{
			SeatID:  seatID,
			Message: fmt.Sprintf("seat %s not found", seatID),
		}
	}

	section := sectionOf(cloned, seat.Row, seat.Column)
	seatIndex := indexInSection(section, seatID)
	if seatIndex < 0 || seatIndex >= len(section) {
		return PickResult{
			SeatID:  seatID,
			Message: fmt.Sprintf("seat %s is out of bounds of its section", seatID),
		}
	}

	// The pre-pass marks every empty candidate TEMP_OCCUPIED. Anything else
	// here means the seat was not claimable: sold, blocked, or concurrently
	// taken between the caller's read and this validation.
	if section[seatIndex].Status != StatusTempOccupied {
		return PickResult{
			SeatID:  seatID,
			Message: fmt.Sprintf("seat %s is already occupied", seatID),
		}
	}

	if wouldOrphanNeighbor(section, seatIndex) {
		return PickResult{
			SeatID:  seatID,
			Message: fmt.Sprintf("selecting seat %s would leave a single seat left or right", seatID),
		}
	}

	return PickResult{SeatID: seatID, Success: true}
}

// wouldOrphanNeighbor applies the orphan rule to the seat at seatIndex within
// its section. A section edge is a safe boundary, so the neighbors two places
// past either end count as occupied.
func wouldOrphanNeighbor(section []Seat, seatIndex int) bool {
	leftIndex := seatIndex - 1
	rightIndex := seatIndex + 1

	leftLeftStatus := StatusOccupied
	if seatIndex-2 >= 0 {
		leftLeftStatus = section[seatIndex-2].Status
	}
	rightRightStatus := StatusOccupied
	if seatIndex+2 < len(section) {
		rightRightStatus = section[seatIndex+2].Status
	}

	// Occupied blocks two seats away on both sides: any empty immediate
	// neighbor becomes a stranded single.
	if isOccupiedLike(leftLeftStatus) && isOccupiedLike(rightRightStatus) &&
		leftIndex >= 0 && rightIndex < len(section) {
		leftEmpty := section[leftIndex].Status == StatusEmpty
		rightEmpty := section[rightIndex].Status == StatusEmpty
		if (leftEmpty && isOccupiedLike(section[rightIndex].Status)) ||
			(isOccupiedLike(section[leftIndex].Status) && rightEmpty) ||
			(leftEmpty && rightEmpty) {
			return true
		}
	}

	// Occupied block two seats to the left with an empty seat in between
	if isOccupiedLike(leftLeftStatus) && leftIndex >= 0 &&
		section[leftIndex].Status == StatusEmpty {
		return true
	}

	// Occupied block two seats to the right with an empty seat in between
	if isOccupiedLike(rightRightStatus) && rightIndex < len(section) &&
		section[rightIndex].Status == StatusEmpty {
		return true
	}

	return false
}

func findSeat(all []Seat, seatID string) *Seat {
	for i := range all {
		if all[i].ID.String() == seatID {
			return &all[i]
		}
	}
	return nil
}

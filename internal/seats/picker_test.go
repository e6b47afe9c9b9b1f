package seats

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// newSection builds one (row, column) section with the given statuses in
// left-to-right order.
func newSection(row, column int, statuses ...Status) []Seat {
	section := make([]Seat, 0, len(statuses))
	for i, status := range statuses {
		section = append(section, Seat{
			ID:            uuid.New(),
			Label:         fmt.Sprintf("%d%d-%d", row, column, i+1),
			Row:           row,
			Column:        column,
			IndexFromLeft: i + 1,
			Price:         80,
			Status:        status,
		})
	}
	return section
}

func idsOf(section []Seat, indexes ...int) []string {
	ids := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		ids = append(ids, section[idx].ID.String())
	}
	return ids
}

func TestPickSeatsNextToOccupiedEdge(t *testing.T) {
	t.Parallel()

	// [E E E E O]: the seat directly left of the occupied one is fine
	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty, StatusEmpty, StatusOccupied)
	results := PickSeats(section, idsOf(section, 3))

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("expected success, got failure: %s", results[0].Message)
	}
}

func TestPickSeatsStrandsMiddleSeat(t *testing.T) {
	t.Parallel()

	// [E E E E O]: taking seats 1 and 3 leaves seat 2 as a stranded single
	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty, StatusEmpty, StatusOccupied)
	results := PickSeats(section, idsOf(section, 1, 3))

	failed := 0
	for _, res := range results {
		if !res.Success {
			failed++
		}
	}
	if failed == 0 {
		t.Error("expected at least one seat to fail the orphan rule")
	}
}

func TestPickSeatsWholeSection(t *testing.T) {
	t.Parallel()

	// [E E E]: a full-section block leaves nothing stranded
	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty)
	results := PickSeats(section, idsOf(section, 0, 1, 2))

	for _, res := range results {
		if !res.Success {
			t.Errorf("seat %s: expected success, got %s", res.SeatID, res.Message)
		}
	}
}

func TestPickSeatsBetweenOccupiedBlocks(t *testing.T) {
	t.Parallel()

	// [O E E O]: one of the two middle seats alone strands the other,
	// but both together fill the gap.
	t.Run("single middle seat fails", func(t *testing.T) {
		t.Parallel()
		section := newSection(1, 1, StatusOccupied, StatusEmpty, StatusEmpty, StatusOccupied)
		results := PickSeats(section, idsOf(section, 1))

		if results[0].Success {
			t.Error("expected failure, the remaining middle seat would be stranded")
		}
	})

	t.Run("both middle seats succeed", func(t *testing.T) {
		t.Parallel()
		section := newSection(1, 1, StatusOccupied, StatusEmpty, StatusEmpty, StatusOccupied)
		results := PickSeats(section, idsOf(section, 1, 2))

		for _, res := range results {
			if !res.Success {
				t.Errorf("seat %s: expected success, got %s", res.SeatID, res.Message)
			}
		}
	})
}

func TestPickSeatsEdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statuses    []Status
		pick        []int
		wantSuccess []bool
	}{
		{
			name:        "single seat section",
			statuses:    []Status{StatusEmpty},
			pick:        []int{0},
			wantSuccess: []bool{true},
		},
		{
			name:        "two seat section take one strands the other",
			statuses:    []Status{StatusEmpty, StatusEmpty},
			pick:        []int{0},
			wantSuccess: []bool{false},
		},
		{
			name:        "two seat section take both",
			statuses:    []Status{StatusEmpty, StatusEmpty},
			pick:        []int{0, 1},
			wantSuccess: []bool{true, true},
		},
		{
			name:        "leave single at left edge",
			statuses:    []Status{StatusEmpty, StatusEmpty, StatusOccupied},
			pick:        []int{1},
			wantSuccess: []bool{false},
		},
		{
			name:        "leave single at right edge",
			statuses:    []Status{StatusOccupied, StatusEmpty, StatusEmpty},
			pick:        []int{1},
			wantSuccess: []bool{false},
		},
		{
			name:        "take pair at left edge",
			statuses:    []Status{StatusEmpty, StatusEmpty, StatusOccupied},
			pick:        []int{0, 1},
			wantSuccess: []bool{true, true},
		},
		{
			name:        "already occupied seat",
			statuses:    []Status{StatusOccupied, StatusEmpty},
			pick:        []int{0},
			wantSuccess: []bool{false},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			section := newSection(1, 1, tt.statuses...)
			results := PickSeats(section, idsOf(section, tt.pick...))

			if len(results) != len(tt.wantSuccess) {
				t.Fatalf("expected %d results, got %d", len(tt.wantSuccess), len(results))
			}
			for i, want := range tt.wantSuccess {
				if results[i].Success != want {
					t.Errorf("result %d: success = %v, want %v (message: %s)",
						i, results[i].Success, want, results[i].Message)
				}
			}
		})
	}
}

func TestPickSeatsUnknownID(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty)
	unknown := uuid.New().String()
	results := PickSeats(section, []string{unknown})

	if results[0].Success {
		t.Error("expected unknown seat id to fail")
	}
	if results[0].SeatID != unknown {
		t.Errorf("result carries wrong seat id: %s", results[0].SeatID)
	}
}

func TestPickSeatsSectionsAreIndependent(t *testing.T) {
	t.Parallel()

	// Adjacent sections never interact: the lone empty seat at the right
	// edge of section 1 is protected by the section boundary, not by
	// anything in section 2.
	sectionOne := newSection(1, 1, StatusOccupied, StatusEmpty, StatusEmpty)
	sectionTwo := newSection(1, 2, StatusEmpty, StatusEmpty, StatusEmpty)
	all := append(append([]Seat{}, sectionOne...), sectionTwo...)

	results := PickSeats(all, []string{sectionOne[2].ID.String()})
	if results[0].Success {
		t.Error("expected failure: seat 1 of section one would be stranded")
	}

	results = PickSeats(all, []string{sectionTwo[0].ID.String()})
	if !results[0].Success {
		t.Errorf("expected success at section two edge, got %s", results[0].Message)
	}
}

func TestPickSeatsPreservesRequestOrder(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty, StatusEmpty)
	ids := idsOf(section, 2, 0, 3)
	results := PickSeats(section, ids)

	for i, id := range ids {
		if results[i].SeatID != id {
			t.Errorf("result %d: got seat %s, want %s", i, results[i].SeatID, id)
		}
	}
}

func TestPickSeatsDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	section := newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty)
	PickSeats(section, idsOf(section, 0, 1))

	for i, seat := range section {
		if seat.Status != StatusEmpty {
			t.Errorf("seat %d: input status mutated to %s", i, seat.Status)
		}
	}

	// Same inputs, same verdicts
	first := PickSeats(section, idsOf(section, 0, 1))
	second := PickSeats(section, idsOf(section, 0, 1))
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("result %d differs between identical calls", i)
		}
	}
}

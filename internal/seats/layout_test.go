package seats

import (
	"testing"
)

func TestGroupByRow(t *testing.T) {
	t.Parallel()

	rowOne := newSection(1, 1, StatusEmpty, StatusEmpty)
	rowTwo := newSection(2, 1, StatusEmpty, StatusEmpty, StatusEmpty)
	all := append(append([]Seat{}, rowOne...), rowTwo...)

	byRow := GroupByRow(all)
	if len(byRow) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(byRow))
	}
	if len(byRow[1]) != 2 || len(byRow[2]) != 3 {
		t.Errorf("row sizes wrong: row1=%d row2=%d", len(byRow[1]), len(byRow[2]))
	}

	// Order within a row must match input order
	for i, seat := range byRow[2] {
		if seat.ID != rowTwo[i].ID {
			t.Errorf("row 2 seat %d out of order", i)
		}
	}
}

func TestGroupByColumn(t *testing.T) {
	t.Parallel()

	left := newSection(1, 1, StatusEmpty, StatusEmpty)
	right := newSection(1, 2, StatusEmpty)
	all := append(append([]Seat{}, left...), right...)

	byColumn := GroupByColumn(GroupByRow(all))
	if len(byColumn[1]) != 2 {
		t.Fatalf("expected 2 columns in row 1, got %d", len(byColumn[1]))
	}
	if len(byColumn[1][1]) != 2 || len(byColumn[1][2]) != 1 {
		t.Errorf("column sizes wrong: col1=%d col2=%d", len(byColumn[1][1]), len(byColumn[1][2]))
	}
}

func TestSectionOf(t *testing.T) {
	t.Parallel()

	target := newSection(2, 3, StatusEmpty, StatusOccupied)
	other := newSection(2, 4, StatusEmpty)
	all := append(append([]Seat{}, target...), other...)

	section := sectionOf(all, 2, 3)
	if len(section) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(section))
	}
	for i := range section {
		if section[i].ID != target[i].ID {
			t.Errorf("seat %d out of order", i)
		}
	}

	if got := sectionOf(all, 9, 9); len(got) != 0 {
		t.Errorf("expected empty section for unknown coordinates, got %d seats", len(got))
	}
}

func TestValidateLayout(t *testing.T) {
	t.Parallel()

	t.Run("well formed", func(t *testing.T) {
		t.Parallel()
		all := append(
			newSection(1, 1, StatusEmpty, StatusEmpty, StatusEmpty),
			newSection(1, 2, StatusEmpty, StatusEmpty)...,
		)
		if err := ValidateLayout(all); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("index mismatch", func(t *testing.T) {
		t.Parallel()
		all := newSection(1, 1, StatusEmpty, StatusEmpty)
		all[1].IndexFromLeft = 5
		if err := ValidateLayout(all); err == nil {
			t.Error("expected error for index_from_left mismatch")
		}
	})
}

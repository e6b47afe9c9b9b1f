package seats

import "fmt"

// Seat layout grouping. All functions are pure: they never reorder or mutate
// the input slice, and grouping preserves the input's insertion order, which
// callers rely on matching physical left-to-right order within a section.

// GroupByRow groups seats by row number, preserving input order within each row.
func GroupByRow(all []Seat) map[int][]Seat {
	byRow := make(map[int][]Seat)
	for _, seat := range all {
		byRow[seat.Row] = append(byRow[seat.Row], seat)
	}
	return byRow
}

// GroupByColumn groups each row's seats by column, preserving the row grouping's
// order within each column block.
func GroupByColumn(byRow map[int][]Seat) map[int]map[int][]Seat {
	byColumn := make(map[int]map[int][]Seat, len(byRow))
	for row, rowSeats := range byRow {
		byColumn[row] = make(map[int][]Seat)
		for _, seat := range rowSeats {
			byColumn[row][seat.Column] = append(byColumn[row][seat.Column], seat)
		}
	}
	return byColumn
}

// sectionOf filters the seats sharing the given (row, column), preserving
// array order.
func sectionOf(all []Seat, row, column int) []Seat {
	var section []Seat
	for _, seat := range all {
		if seat.Row == row && seat.Column == column {
			section = append(section, seat)
		}
	}
	return section
}

// indexInSection returns the position of seatID within the section, or -1.
func indexInSection(section []Seat, seatID string) int {
	for i := range section {
		if section[i].ID.String() == seatID {
			return i
		}
	}
	return -1
}

// ValidateLayout checks the ordering invariant the placement validator depends
// on: within every (row, column) section, array position must equal
// IndexFromLeft - 1. Venue data violating this would silently corrupt
// adjacency decisions, so loaders should reject it up front.
func ValidateLayout(all []Seat) error {
	byColumn := GroupByColumn(GroupByRow(all))
	for row, columns := range byColumn {
		for column, section := range columns {
			for i, seat := range section {
				if seat.IndexFromLeft != i+1 {
					return fmt.Errorf("seat %s in section (row %d, column %d): array position %d does not match index_from_left %d",
						seat.Label, row, column, i, seat.IndexFromLeft)
				}
			}
		}
	}
	return nil
}

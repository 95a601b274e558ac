// Package layout produces the static seat grid of the study space.
package layout

import "strconv"

// The room has 18 numbered seats and one door gap in the second row.
const (
	SeatCount   = 18
	MinSeatID   = 1
	MaxSeatID   = SeatCount
	DoorLabel   = "출입문"
	firstRowEnd = 10
	doorAfter   = 14
)

type CellKind string

const (
	CellSeat CellKind = "seat"
	CellDoor CellKind = "door"
)

// Cell is one slot of the rendered grid. Door cells carry no seat id and
// are never selectable.
type Cell struct {
	Kind   CellKind `json:"kind"`
	SeatID int      `json:"seat_id,omitempty"`
	Label  string   `json:"label"`
}

// Build returns the grid in its fixed order: seats 1-10, seats 11-14,
// the door, seats 15-18. The result is freshly allocated on every call,
// so rebuilding always regenerates the full contents.
func Build() []Cell {
	cells := make([]Cell, 0, SeatCount+1)
	for i := MinSeatID; i <= firstRowEnd; i++ {
		cells = append(cells, seatCell(i))
	}
	for i := firstRowEnd + 1; i <= doorAfter; i++ {
		cells = append(cells, seatCell(i))
	}
	cells = append(cells, Cell{Kind: CellDoor, Label: DoorLabel})
	for i := doorAfter + 1; i <= MaxSeatID; i++ {
		cells = append(cells, seatCell(i))
	}
	return cells
}

// SeatIDs returns all bookable seat ids in grid order.
func SeatIDs() []int {
	ids := make([]int, 0, SeatCount)
	for _, c := range Build() {
		if c.Kind == CellSeat {
			ids = append(ids, c.SeatID)
		}
	}
	return ids
}

// ValidSeatID reports whether id refers to a bookable seat.
func ValidSeatID(id int) bool {
	return id >= MinSeatID && id <= MaxSeatID
}

func seatCell(id int) Cell {
	return Cell{Kind: CellSeat, SeatID: id, Label: seatLabel(id)}
}

func seatLabel(id int) string {
	// Seats are labeled by their bare number on the grid itself; the
	// summary panel uses the long "좌석 #N" form.
	return strconv.Itoa(id)
}

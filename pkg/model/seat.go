package model

// SeatState is the projected display state of a single seat. Exactly one
// state is assigned per seat per projection. Precedence:
// occupied-by-self > occupied > selected > free.
type SeatState string

const (
	SeatFree           SeatState = "free"
	SeatOccupied       SeatState = "occupied"
	SeatOccupiedBySelf SeatState = "occupied-by-self"
	SeatSelected       SeatState = "selected"
)

// SeatView pairs a seat with its projected state.
type SeatView struct {
	SeatID int       `json:"seat_id"`
	State  SeatState `json:"state"`
}

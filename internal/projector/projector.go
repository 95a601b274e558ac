// Package projector derives per-seat display states from the current
// booking set and selection.
package projector

import (
	"lumina/internal/layout"
	"lumina/pkg/model"
)

// Project assigns exactly one state to every bookable seat.
//
// Precedence: occupied-by-self > occupied > selected > free. A seat can
// only be "selected" while free, so a selection pointing at a booked
// seat is rendered occupied; the state machine is responsible for
// clearing such selections.
//
// The projection has no state of its own and is recomputed wholesale on
// every booking-set or selection change; running it twice on the same
// inputs yields identical output.
func Project(bookings []model.Booking, selectedSeat int, identity string) []model.SeatView {
	occupiedBy := make(map[int]string, len(bookings))
	for _, b := range bookings {
		occupiedBy[b.SeatID] = b.Identity
	}

	views := make([]model.SeatView, 0, layout.SeatCount)
	for _, id := range layout.SeatIDs() {
		views = append(views, model.SeatView{
			SeatID: id,
			State:  seatState(id, occupiedBy, selectedSeat, identity),
		})
	}
	return views
}

func seatState(seatID int, occupiedBy map[int]string, selectedSeat int, identity string) model.SeatState {
	if holder, occupied := occupiedBy[seatID]; occupied {
		if identity != "" && holder == identity {
			return model.SeatOccupiedBySelf
		}
		return model.SeatOccupied
	}
	if seatID == selectedSeat {
		return model.SeatSelected
	}
	return model.SeatFree
}

// OccupiedByOther reports whether the seat is booked by someone other
// than the acting identity. The anonymous single-tenant identity never
// owns a seat through this check; ownership there is tracked by the
// store holding at most one booking.
func OccupiedByOther(bookings []model.Booking, seatID int, identity string) bool {
	for _, b := range bookings {
		if b.SeatID == seatID {
			return identity == "" || b.Identity != identity
		}
	}
	return false
}

// BookingFor returns the active booking held by the identity, if any.
// With the anonymous identity it returns the first booking, matching
// the single-tenant assumption that the whole store belongs to one
// actor.
func BookingFor(bookings []model.Booking, identity string) *model.Booking {
	for i := range bookings {
		if identity == "" || bookings[i].Identity == identity {
			return &bookings[i]
		}
	}
	return nil
}

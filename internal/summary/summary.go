// Package summary renders selection and booking state into the
// user-facing summary panel. It holds no business logic.
package summary

import (
	"fmt"

	"lumina/pkg/model"
)

const (
	noSelection  = "-"
	seatLabelFmt = "좌석 #%d"
)

// Summary is the read-only panel state: the current day, the selection
// label, whether the confirm control is enabled, and the identity's
// active booking when one exists.
type Summary struct {
	Date           string         `json:"date"`
	Seat           string         `json:"seat"`
	ConfirmEnabled bool           `json:"confirm_enabled"`
	Booking        *model.Booking `json:"booking,omitempty"`
	BookingLine    string         `json:"booking_line,omitempty"`
}

// Render builds the summary for the given state. The confirm control is
// enabled exactly when a seat is selected and no booking is held.
func Render(date string, selectedSeat int, booked *model.Booking) Summary {
	s := Summary{
		Date: date,
		Seat: noSelection,
	}

	if selectedSeat != 0 {
		s.Seat = SeatLabel(selectedSeat)
		s.ConfirmEnabled = true
	}

	if booked != nil {
		s.Booking = booked
		s.BookingLine = fmt.Sprintf("%s | %s | %s", booked.Date, SeatLabel(booked.SeatID), booked.TimeLabel)
		// An active booking disables further confirmation outright.
		s.ConfirmEnabled = false
	}

	return s
}

// SeatLabel formats a seat id for display.
func SeatLabel(seatID int) string {
	return fmt.Sprintf(seatLabelFmt, seatID)
}

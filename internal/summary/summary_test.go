package summary

import (
	"testing"

	"lumina/pkg/model"
)

func TestRender_NoSelection(t *testing.T) {
	s := Render("2025-03-01", 0, nil)

	if s.Date != "2025-03-01" {
		t.Errorf("expected date carried through, got %q", s.Date)
	}
	if s.Seat != "-" {
		t.Errorf("expected placeholder seat label, got %q", s.Seat)
	}
	if s.ConfirmEnabled {
		t.Error("confirm must be disabled without a selection")
	}
	if s.Booking != nil || s.BookingLine != "" {
		t.Error("expected no booking info")
	}
}

func TestRender_Selection(t *testing.T) {
	s := Render("2025-03-01", 7, nil)

	if s.Seat != "좌석 #7" {
		t.Errorf("unexpected seat label %q", s.Seat)
	}
	if !s.ConfirmEnabled {
		t.Error("confirm must be enabled with a selection and no booking")
	}
}

func TestRender_Booked(t *testing.T) {
	booked := &model.Booking{
		Date:      "2025-03-01",
		SeatID:    12,
		TimeLabel: model.TimeLabelAllDay,
	}

	s := Render("2025-03-01", 0, booked)

	if s.Booking != booked {
		t.Error("expected booking carried through")
	}
	if want := "2025-03-01 | 좌석 #12 | 종일"; s.BookingLine != want {
		t.Errorf("expected booking line %q, got %q", want, s.BookingLine)
	}
	if s.ConfirmEnabled {
		t.Error("confirm must be disabled while booked")
	}
}

func TestRender_BookedOverridesSelection(t *testing.T) {
	booked := &model.Booking{Date: "2025-03-01", SeatID: 2, TimeLabel: model.TimeLabelAllDay}

	s := Render("2025-03-01", 5, booked)

	if s.ConfirmEnabled {
		t.Error("an active booking must disable confirmation even with a selection pending")
	}
	if s.Seat != "좌석 #5" {
		t.Errorf("selection label still renders, got %q", s.Seat)
	}
}

func TestSeatLabel(t *testing.T) {
	if got := SeatLabel(3); got != "좌석 #3" {
		t.Errorf("unexpected label %q", got)
	}
}

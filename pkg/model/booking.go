package model

import (
	"time"
)

// Display values carried on every booking. The system has no time-slot
// granularity: a booking always covers the whole day.
const (
	TimeAllDay      = "All Day"
	TimeLabelAllDay = "종일"
)

// DateLayout is the calendar-day partition key format. All reads and
// writes filter bookings to the current day using this layout.
const DateLayout = "2006-01-02"

// Booking binds a seat to an acting identity for a calendar day.
// Identity is empty in the local single-tenant variant, which has no
// concept of distinct users. Bookings are never mutated in place.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	SeatID    int       `json:"seat_id" bson:"seat_id" validate:"required,min=1,max=18"`
	Identity  string    `json:"identity,omitempty" bson:"identity,omitempty"`
	Time      string    `json:"time" bson:"time"`
	TimeLabel string    `json:"time_label" bson:"time_label"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Today returns the current calendar day in the partition-key format.
func Today() string {
	return time.Now().Format(DateLayout)
}

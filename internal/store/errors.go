package store

import "errors"

var (
	// ErrSeatTaken is returned by Create when another booking already
	// holds the same (date, seat) pair.
	ErrSeatTaken = errors.New("seat already booked for this date")

	// ErrNotFound is returned by Remove when the acting identity holds
	// no active booking.
	ErrNotFound = errors.New("booking not found")
)

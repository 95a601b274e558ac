package events

import (
	"context"

	"lumina/pkg/model"
)

// Noop drops every notification. Used when no brokers are configured.
type Noop struct{}

func (Noop) BookingCreated(ctx context.Context, b model.Booking)   {}
func (Noop) BookingCancelled(ctx context.Context, b model.Booking) {}

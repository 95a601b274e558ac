// Package store defines the booking persistence contract shared by the
// local single-tenant store and the remote Mongo-backed store.
package store

import (
	"context"

	"lumina/pkg/model"
)

// BookingStore is the single source of truth for active bookings.
//
// The two implementations deliberately differ on Remove: the local store
// truncates the whole set (single-tab, single-tenant assumption), while
// the mongo store deletes exactly the booking held by the acting
// identity. Callers should not rely on cross-variant Remove semantics.
type BookingStore interface {
	// ListActive returns the bookings for the given calendar day.
	ListActive(ctx context.Context, date string) ([]model.Booking, error)

	// Create persists a new booking. It fails with ErrSeatTaken when a
	// booking for the same (date, seat) already exists. The check is
	// best-effort on the client side; it is not a transactional
	// compare-and-set.
	Create(ctx context.Context, booking *model.Booking) error

	// Remove cancels the acting identity's booking for the given day.
	// See the interface comment for the local/remote asymmetry.
	Remove(ctx context.Context, date, identity string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}

// Snapshot is one full-state delivery from a live subscription.
// Consumers always replace their view with it, never merge.
type Snapshot struct {
	Date     string
	Bookings []model.Booking
}

// Watcher is implemented by stores that can push change notifications.
// The local store does not: its callers re-read after each mutation.
type Watcher interface {
	// Watch delivers a full snapshot of the day's bookings after every
	// change to the backing collection. Delivery stops when the context
	// is cancelled or the subscription is closed.
	Watch(ctx context.Context, date string, onChange func(Snapshot)) (Subscription, error)
}

// Subscription is a cancellable handle on a live snapshot feed.
type Subscription interface {
	Close(ctx context.Context) error
}

// Package booking implements the seat-booking state machine: selection,
// the one-booking-per-identity rule, confirmation and cancellation, and
// re-projection after every state change.
package booking

import (
	"context"
	"errors"
	"sort"
	"sync"

	"lumina/internal/booking/validator"
	"lumina/internal/layout"
	"lumina/internal/projector"
	"lumina/internal/store"
	"lumina/internal/summary"
	apperrors "lumina/pkg/errors"
	"lumina/pkg/logger"
	"lumina/pkg/model"
)

// Phase is the machine's coarse state. The canonical cycle is
// Idle → Selected → Booked → Idle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSelected Phase = "selected"
	PhaseBooked   Phase = "booked"
)

// NoSeat marks the empty selection.
const NoSeat = 0

// EventSink receives booking lifecycle notifications, called in the
// mutation path. Implementations should return promptly; delivery
// failures are the sink's problem.
type EventSink interface {
	BookingCreated(ctx context.Context, b model.Booking)
	BookingCancelled(ctx context.Context, b model.Booking)
}

// View is the full rendered state handed to the presentation layer.
type View struct {
	Phase    Phase            `json:"phase"`
	Seats    []model.SeatView `json:"seats"`
	Selected int              `json:"selected_seat,omitempty"`
	Summary  summary.Summary  `json:"summary"`
}

// Machine reconciles one identity's seat-selection state against the
// booking store. The browser original ran on a single event loop; here
// user actions and subscription deliveries race, so a mutex guards the
// state and snapshot application always replaces the cached set.
type Machine struct {
	store     store.BookingStore
	validator *validator.BookingValidator
	events    EventSink
	log       *logger.Logger

	identity string
	date     string

	// live is set when a subscription feeds ApplySnapshot; without it
	// the machine re-reads the store after every mutation.
	live bool

	mu       sync.Mutex
	selected int
	bookings []model.Booking
}

func NewMachine(st store.BookingStore, v *validator.BookingValidator, events EventSink, log *logger.Logger, date, identity string) *Machine {
	return &Machine{
		store:     st,
		validator: v,
		events:    events,
		log:       log,
		identity:  identity,
		date:      date,
		selected:  NoSeat,
	}
}

// SetLive marks the machine as snapshot-fed. Mutations then stop
// re-reading the store; the next subscription delivery carries the
// change instead, which is the remote variant's observable lag window.
func (m *Machine) SetLive() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live = true
}

// Refresh re-reads the active booking set from the store.
func (m *Machine) Refresh(ctx context.Context) error {
	bookings, err := m.store.ListActive(ctx, m.date)
	if err != nil {
		return apperrors.Internal("Failed to load bookings", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(bookings)
	return nil
}

// ApplySnapshot replaces the cached booking set with a subscription
// delivery. If the selected seat turns out occupied by someone else,
// the selection is forcibly cleared (Selected → Idle).
func (m *Machine) ApplySnapshot(snap store.Snapshot) {
	if snap.Date != m.date {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(snap.Bookings)
}

func (m *Machine) replaceLocked(bookings []model.Booking) {
	m.bookings = bookings
	if m.selected != NoSeat && projector.OccupiedByOther(bookings, m.selected, m.identity) {
		m.log.Info("Selected seat taken by another identity, reverting to idle",
			"seat_id", m.selected,
			"identity", m.identity,
		)
		m.selected = NoSeat
	}
}

// SelectSeat toggles the selection. Selecting an occupied seat is
// ignored; selecting the current selection clears it. The transition is
// only legal before a booking is held — while booked, clicks are no-ops.
func (m *Machine) SelectSeat(ctx context.Context, seatID int) (View, error) {
	if !layout.ValidSeatID(seatID) {
		return m.view(), apperrors.InvalidInput("Unknown seat")
	}

	if err := m.ensureFresh(ctx); err != nil {
		return View{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if projector.BookingFor(m.bookings, m.identity) != nil {
		return m.viewLocked(), nil
	}

	if occupied(m.bookings, seatID) {
		return m.viewLocked(), nil
	}

	if m.selected == seatID {
		m.selected = NoSeat
	} else {
		m.selected = seatID
	}

	return m.viewLocked(), nil
}

// Confirm turns the current selection into a booking. It is legal only
// from Selected; an identity that already holds a booking gets a
// non-fatal duplicate-booking warning and no state change.
func (m *Machine) Confirm(ctx context.Context) (View, error) {
	if err := m.ensureFresh(ctx); err != nil {
		return View{}, err
	}

	m.mu.Lock()
	seat := m.selected
	if seat == NoSeat {
		defer m.mu.Unlock()
		return m.viewLocked(), apperrors.InvalidInput("No seat selected")
	}
	if projector.BookingFor(m.bookings, m.identity) != nil {
		defer m.mu.Unlock()
		return m.viewLocked(), apperrors.DuplicateBooking("You already have an active booking for today")
	}
	m.mu.Unlock()

	booking := model.Booking{
		Date:      m.date,
		SeatID:    seat,
		Identity:  m.identity,
		Time:      model.TimeAllDay,
		TimeLabel: model.TimeLabelAllDay,
	}

	if err := m.validator.Validate(&booking); err != nil {
		m.log.Warn("Booking validation failed", "error", err)
		return m.view(), apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := m.store.Create(ctx, &booking); err != nil {
		if errors.Is(err, store.ErrSeatTaken) {
			// Someone beat us to the seat; keep the selection so the
			// user sees what happened once the next projection runs.
			return m.view(), apperrors.Conflict("Seat is already booked for today")
		}
		return m.view(), apperrors.Internal("Failed to create booking", err)
	}

	m.mu.Lock()
	m.selected = NoSeat
	m.mu.Unlock()

	if m.events != nil {
		m.events.BookingCreated(ctx, booking)
	}

	m.log.Info("Booking confirmed",
		"id", booking.ID,
		"seat_id", booking.SeatID,
		"date", booking.Date,
		"identity", booking.Identity,
	)

	if err := m.refreshAfterMutation(ctx); err != nil {
		return m.view(), err
	}
	return m.view(), nil
}

// Cancel removes the identity's active booking. It requires the caller
// to have confirmed interactively and is legal only from Booked.
func (m *Machine) Cancel(ctx context.Context, confirmed bool) (View, error) {
	if !confirmed {
		return m.view(), apperrors.InvalidInput("Cancellation requires confirmation")
	}

	if err := m.ensureFresh(ctx); err != nil {
		return View{}, err
	}

	m.mu.Lock()
	booked := projector.BookingFor(m.bookings, m.identity)
	if booked == nil {
		defer m.mu.Unlock()
		return m.viewLocked(), apperrors.NotFound("Active booking")
	}
	cancelled := *booked
	m.mu.Unlock()

	if err := m.store.Remove(ctx, m.date, m.identity); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return m.view(), apperrors.NotFound("Active booking")
		}
		return m.view(), apperrors.Internal("Failed to cancel booking", err)
	}

	if m.events != nil {
		m.events.BookingCancelled(ctx, cancelled)
	}

	m.log.Info("Booking cancelled",
		"seat_id", cancelled.SeatID,
		"date", cancelled.Date,
		"identity", cancelled.Identity,
	)

	if err := m.refreshAfterMutation(ctx); err != nil {
		return m.view(), err
	}
	return m.view(), nil
}

// Phase derives the machine's state from the cached bookings and the
// selection, so a subscription delivery can never leave the phase and
// the data disagreeing.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phaseLocked()
}

func (m *Machine) View() View {
	return m.view()
}

// History returns the cached bookings newest-first for the history
// panel.
func (m *Machine) History() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Booking, len(m.bookings))
	copy(out, m.bookings)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

func (m *Machine) phaseLocked() Phase {
	if projector.BookingFor(m.bookings, m.identity) != nil {
		return PhaseBooked
	}
	if m.selected != NoSeat {
		return PhaseSelected
	}
	return PhaseIdle
}

func (m *Machine) view() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Machine) viewLocked() View {
	booked := projector.BookingFor(m.bookings, m.identity)
	return View{
		Phase:    m.phaseLocked(),
		Seats:    projector.Project(m.bookings, m.selected, m.identity),
		Selected: m.selected,
		Summary:  summary.Render(m.date, m.selected, booked),
	}
}

// ensureFresh re-reads the store for the pull-based variant; the live
// variant trusts its subscription feed.
func (m *Machine) ensureFresh(ctx context.Context) error {
	m.mu.Lock()
	live := m.live
	m.mu.Unlock()
	if live {
		return nil
	}
	return m.Refresh(ctx)
}

func (m *Machine) refreshAfterMutation(ctx context.Context) error {
	m.mu.Lock()
	live := m.live
	m.mu.Unlock()
	if live {
		// The change stream will deliver the updated set; until then
		// the view lags, which is the remote variant's documented
		// behavior.
		return nil
	}
	return m.Refresh(ctx)
}

func occupied(bookings []model.Booking, seatID int) bool {
	for _, b := range bookings {
		if b.SeatID == seatID {
			return true
		}
	}
	return false
}

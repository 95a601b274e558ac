package booking

import (
	"context"
	"testing"

	"lumina/internal/booking/validator"
	"lumina/internal/store"
	apperrors "lumina/pkg/errors"
	"lumina/pkg/logger"
	"lumina/pkg/model"
)

const (
	testDate     = "2025-03-01"
	testIdentity = "s-100"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.LevelError,
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

// Mock store for testing
type mockStore struct {
	bookings   []model.Booking
	listFunc   func(ctx context.Context, date string) ([]model.Booking, error)
	createFunc func(ctx context.Context, b *model.Booking) error
	removeFunc func(ctx context.Context, date, identity string) error
}

func (m *mockStore) ListActive(ctx context.Context, date string) ([]model.Booking, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, date)
	}
	out := make([]model.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *mockStore) Create(ctx context.Context, b *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	for _, existing := range m.bookings {
		if existing.Date == b.Date && existing.SeatID == b.SeatID {
			return store.ErrSeatTaken
		}
	}
	b.ID = "mock-id"
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *mockStore) Remove(ctx context.Context, date, identity string) error {
	if m.removeFunc != nil {
		return m.removeFunc(ctx, date, identity)
	}
	for i, b := range m.bookings {
		if b.Date == date && b.Identity == identity {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) Ping(ctx context.Context) error  { return nil }
func (m *mockStore) Close(ctx context.Context) error { return nil }

type mockSink struct {
	created   []model.Booking
	cancelled []model.Booking
}

func (m *mockSink) BookingCreated(ctx context.Context, b model.Booking) {
	m.created = append(m.created, b)
}

func (m *mockSink) BookingCancelled(ctx context.Context, b model.Booking) {
	m.cancelled = append(m.cancelled, b)
}

func newTestMachine(st store.BookingStore, sink EventSink) *Machine {
	return NewMachine(st, validator.NewBookingValidator(true, testLogger()), sink, testLogger(), testDate, testIdentity)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return apperrors.AsAppError(err).Code
}

func TestSelectSeat_Toggle(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)
	ctx := context.Background()

	view, err := m.SelectSeat(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != 5 || view.Phase != PhaseSelected {
		t.Errorf("expected seat 5 selected, got selected=%d phase=%q", view.Selected, view.Phase)
	}

	// Selecting another free seat moves the selection.
	view, err = m.SelectSeat(ctx, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != 9 {
		t.Errorf("expected selection moved to 9, got %d", view.Selected)
	}

	// Re-selecting the current seat clears it.
	view, err = m.SelectSeat(ctx, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != NoSeat || view.Phase != PhaseIdle {
		t.Errorf("expected selection cleared, got selected=%d phase=%q", view.Selected, view.Phase)
	}
}

func TestSelectSeat_OccupiedIsNoOp(t *testing.T) {
	st := &mockStore{bookings: []model.Booking{
		{Date: testDate, SeatID: 5, Identity: "s-200"},
	}}
	m := newTestMachine(st, nil)

	view, err := m.SelectSeat(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != NoSeat || view.Phase != PhaseIdle {
		t.Errorf("occupied seat must not be selectable, got selected=%d phase=%q", view.Selected, view.Phase)
	}
}

func TestSelectSeat_UnknownSeat(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)

	_, err := m.SelectSeat(context.Background(), 99)
	if code := appCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

func TestSelectSeat_WhileBookedIsNoOp(t *testing.T) {
	st := &mockStore{bookings: []model.Booking{
		{Date: testDate, SeatID: 3, Identity: testIdentity},
	}}
	m := newTestMachine(st, nil)

	view, err := m.SelectSeat(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Selected != NoSeat || view.Phase != PhaseBooked {
		t.Errorf("selection must be frozen while booked, got selected=%d phase=%q", view.Selected, view.Phase)
	}
}

func TestConfirm_NoSelection(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)

	_, err := m.Confirm(context.Background())
	if code := appCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
}

func TestConfirm_FullCycle(t *testing.T) {
	st := &mockStore{}
	sink := &mockSink{}
	m := newTestMachine(st, sink)
	ctx := context.Background()

	if _, err := m.SelectSeat(ctx, 5); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	view, err := m.Confirm(ctx)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if view.Phase != PhaseBooked {
		t.Errorf("expected booked phase, got %q", view.Phase)
	}
	if view.Selected != NoSeat {
		t.Errorf("expected selection cleared after confirm, got %d", view.Selected)
	}
	if view.Summary.ConfirmEnabled {
		t.Error("confirm control must be disabled once booked")
	}

	if len(st.bookings) != 1 {
		t.Fatalf("expected one stored booking, got %d", len(st.bookings))
	}
	b := st.bookings[0]
	if b.SeatID != 5 || b.Date != testDate || b.Identity != testIdentity {
		t.Errorf("unexpected stored booking %+v", b)
	}
	if b.Time != model.TimeAllDay || b.TimeLabel != model.TimeLabelAllDay {
		t.Errorf("expected all-day slot, got time=%q label=%q", b.Time, b.TimeLabel)
	}

	if len(sink.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(sink.created))
	}
	if sink.created[0].SeatID != 5 {
		t.Errorf("created event carries seat %d, expected 5", sink.created[0].SeatID)
	}
}

func TestConfirm_DuplicateBookingWarning(t *testing.T) {
	st := &mockStore{}
	m := newTestMachine(st, nil)
	m.SetLive()
	ctx := context.Background()

	if _, err := m.SelectSeat(ctx, 5); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	// A booking for this identity lands on another seat before the
	// confirmation goes through.
	m.ApplySnapshot(store.Snapshot{Date: testDate, Bookings: []model.Booking{
		{Date: testDate, SeatID: 3, Identity: testIdentity},
	}})

	view, err := m.Confirm(ctx)
	if code := appCode(t, err); code != apperrors.CodeDuplicateBooking {
		t.Errorf("expected %s, got %s", apperrors.CodeDuplicateBooking, code)
	}
	if view.Phase != PhaseBooked {
		t.Errorf("duplicate warning must leave the booked state intact, got %q", view.Phase)
	}
	if len(st.bookings) != 0 {
		t.Error("duplicate warning must not write to the store")
	}
}

func TestConfirm_SeatTakenKeepsSelection(t *testing.T) {
	st := &mockStore{
		createFunc: func(ctx context.Context, b *model.Booking) error {
			return store.ErrSeatTaken
		},
	}
	m := newTestMachine(st, nil)
	ctx := context.Background()

	if _, err := m.SelectSeat(ctx, 5); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	view, err := m.Confirm(ctx)
	if code := appCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected %s, got %s", apperrors.CodeConflict, code)
	}
	if view.Selected != 5 {
		t.Errorf("losing the race must keep the selection, got %d", view.Selected)
	}
}

func TestCancel_RequiresConfirmation(t *testing.T) {
	st := &mockStore{bookings: []model.Booking{
		{Date: testDate, SeatID: 3, Identity: testIdentity},
	}}
	m := newTestMachine(st, nil)

	_, err := m.Cancel(context.Background(), false)
	if code := appCode(t, err); code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
	}
	if len(st.bookings) != 1 {
		t.Error("unconfirmed cancellation must not touch the store")
	}
}

func TestCancel_NoActiveBooking(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)

	_, err := m.Cancel(context.Background(), true)
	if code := appCode(t, err); code != apperrors.CodeNotFound {
		t.Errorf("expected %s, got %s", apperrors.CodeNotFound, code)
	}
}

func TestCancel_Flow(t *testing.T) {
	st := &mockStore{bookings: []model.Booking{
		{Date: testDate, SeatID: 3, Identity: testIdentity},
	}}
	sink := &mockSink{}
	m := newTestMachine(st, sink)

	view, err := m.Cancel(context.Background(), true)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if view.Phase != PhaseIdle {
		t.Errorf("expected idle after cancellation, got %q", view.Phase)
	}
	if len(st.bookings) != 0 {
		t.Errorf("expected store emptied, got %d bookings", len(st.bookings))
	}
	if len(sink.cancelled) != 1 || sink.cancelled[0].SeatID != 3 {
		t.Errorf("expected one cancelled event for seat 3, got %+v", sink.cancelled)
	}
}

func TestApplySnapshot_ForcedDeselect(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)
	m.SetLive()
	ctx := context.Background()

	if _, err := m.SelectSeat(ctx, 5); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	m.ApplySnapshot(store.Snapshot{Date: testDate, Bookings: []model.Booking{
		{Date: testDate, SeatID: 5, Identity: "s-200"},
	}})

	view := m.View()
	if view.Selected != NoSeat || view.Phase != PhaseIdle {
		t.Errorf("expected forced deselect, got selected=%d phase=%q", view.Selected, view.Phase)
	}
	for _, s := range view.Seats {
		if s.SeatID == 5 && s.State != model.SeatOccupied {
			t.Errorf("seat 5 must render occupied, got %q", s.State)
		}
	}
}

func TestApplySnapshot_OtherDateIgnored(t *testing.T) {
	m := newTestMachine(&mockStore{}, nil)
	m.SetLive()

	m.ApplySnapshot(store.Snapshot{Date: "1999-01-01", Bookings: []model.Booking{
		{Date: "1999-01-01", SeatID: 5, Identity: "s-200"},
	}})

	view := m.View()
	for _, s := range view.Seats {
		if s.State != model.SeatFree {
			t.Errorf("stale-date snapshot must be dropped, seat %d got %q", s.SeatID, s.State)
		}
	}
}

func TestConfirm_LiveViewLagsUntilSnapshot(t *testing.T) {
	st := &mockStore{}
	m := newTestMachine(st, nil)
	m.SetLive()
	ctx := context.Background()

	if _, err := m.SelectSeat(ctx, 4); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	view, err := m.Confirm(ctx)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// The write happened but no snapshot has arrived yet; the live view
	// lags behind the store.
	if view.Phase != PhaseIdle {
		t.Errorf("expected idle before the snapshot lands, got %q", view.Phase)
	}

	m.ApplySnapshot(store.Snapshot{Date: testDate, Bookings: st.bookings})

	if phase := m.Phase(); phase != PhaseBooked {
		t.Errorf("expected booked after the snapshot lands, got %q", phase)
	}
}

func TestHistory_NewestFirst(t *testing.T) {
	st := &mockStore{bookings: []model.Booking{
		{Date: testDate, SeatID: 1, Identity: "s-300"},
		{Date: testDate, SeatID: 9, Identity: testIdentity},
	}}
	m := newTestMachine(st, nil)

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	history := m.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
}

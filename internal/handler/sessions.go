package handler

import (
	"context"
	"sync"

	"lumina/internal/booking"
	"lumina/internal/booking/validator"
	"lumina/internal/store"
	apperrors "lumina/pkg/errors"
	"lumina/pkg/logger"
	"lumina/pkg/model"
)

// anonymousKey is the single shared session of the local variant, which
// has no concept of distinct users.
const anonymousKey = ""

// Registry owns one state machine per acting identity for the current
// day. When the store supports live snapshots it keeps a single
// subscription open and fans each delivery out to every machine; when
// the day rolls over, all sessions and the subscription are rebuilt.
type Registry struct {
	store     store.BookingStore
	watcher   store.Watcher // nil when the store cannot push
	validator *validator.BookingValidator
	events    booking.EventSink
	log       *logger.Logger
	anonymous bool

	mu       sync.Mutex
	date     string
	machines map[string]*booking.Machine
	sub      store.Subscription
	cancel   context.CancelFunc
}

func NewRegistry(st store.BookingStore, v *validator.BookingValidator, events booking.EventSink, log *logger.Logger, anonymous bool) *Registry {
	watcher, _ := st.(store.Watcher)
	return &Registry{
		store:     st,
		watcher:   watcher,
		validator: v,
		events:    events,
		log:       log,
		anonymous: anonymous,
		machines:  make(map[string]*booking.Machine),
	}
}

// Machine returns the state machine for the acting identity, creating
// it (and the day's subscription) on first use.
func (r *Registry) Machine(ctx context.Context, identity string) (*booking.Machine, error) {
	if r.anonymous {
		identity = anonymousKey
	} else if identity == "" {
		return nil, apperrors.InvalidInput("Identity is required")
	}

	date := model.Today()

	r.mu.Lock()

	var staleSub store.Subscription
	var staleCancel context.CancelFunc
	if r.date != date {
		// Day rollover: drop every session and replace the subscription.
		// The old subscription is only detached here; closing it waits
		// for its delivery goroutine, which must not happen under r.mu.
		staleSub, staleCancel = r.detachSubscriptionLocked()
		r.date = date
		r.machines = make(map[string]*booking.Machine)
		r.openSubscriptionLocked(date)
	}

	m, ok := r.machines[identity]
	var err error
	if !ok {
		m = booking.NewMachine(r.store, r.validator, r.events, r.log, date, identity)
		// Live mode requires an actual snapshot feed; a store that could
		// push but whose subscription failed to open stays in pull mode.
		if r.sub != nil {
			m.SetLive()
		}
		if err = m.Refresh(ctx); err == nil {
			r.machines[identity] = m
		}
	}

	r.mu.Unlock()

	r.closeSubscription(staleSub, staleCancel)

	if err != nil {
		return nil, err
	}
	return m, nil
}

// openSubscriptionLocked starts the change-stream subscription for the
// day on push-capable stores.
func (r *Registry) openSubscriptionLocked(date string) {
	if r.watcher == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := r.watcher.Watch(ctx, date, r.broadcast)
	if err != nil {
		cancel()
		// Machines created now stay in pull mode and re-read the store
		// on every operation; log loudly since live updates are gone.
		r.log.Error("Failed to open booking subscription", "date", date, "error", err)
		return
	}
	r.sub = sub
	r.cancel = cancel
}

// detachSubscriptionLocked hands the current subscription to the caller
// and clears it from the registry. The caller must close it after
// releasing r.mu: closing waits for the delivery goroutine, and that
// goroutine takes r.mu in broadcast.
func (r *Registry) detachSubscriptionLocked() (store.Subscription, context.CancelFunc) {
	sub, cancel := r.sub, r.cancel
	r.sub, r.cancel = nil, nil
	return sub, cancel
}

func (r *Registry) closeSubscription(sub store.Subscription, cancel context.CancelFunc) {
	if cancel != nil {
		cancel()
	}
	if sub == nil {
		return
	}
	if err := sub.Close(context.Background()); err != nil {
		r.log.Warn("Failed to close previous subscription", "error", err)
	}
}

// broadcast hands one snapshot to every live machine. Deliveries always
// replace the machines' cached state.
func (r *Registry) broadcast(snap store.Snapshot) {
	r.mu.Lock()
	machines := make([]*booking.Machine, 0, len(r.machines))
	for _, m := range r.machines {
		machines = append(machines, m)
	}
	r.mu.Unlock()

	for _, m := range machines {
		m.ApplySnapshot(snap)
	}
}

func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	sub, cancel := r.detachSubscriptionLocked()
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		return sub.Close(ctx)
	}
	return nil
}

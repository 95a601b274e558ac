// Package local implements the single-tenant booking store backed by one
// serialized file, mirroring the browser-local persistence variant.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"lumina/internal/store"
	"lumina/pkg/logger"
	"lumina/pkg/model"
)

// Store keeps the full booking list under a single key on disk. All
// operations are synchronous; there are no push notifications, so
// callers re-read after each mutation.
type Store struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func New(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{path: path, log: log}

	// Touch the file so a fresh deployment starts from an empty list.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
	}

	log.Info("Local booking store initialized", "path", path)
	return s, nil
}

func (s *Store) ListActive(_ context.Context, date string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}

	var active []model.Booking
	for _, b := range all {
		if b.Date == date {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *Store) Create(_ context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}

	for _, b := range all {
		if b.Date == booking.Date && b.SeatID == booking.SeatID {
			return store.ErrSeatTaken
		}
	}

	if booking.ID == "" {
		// Timestamp-derived id, as the single-tab variant has no
		// database to assign one.
		booking.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if booking.Timestamp.IsZero() {
		booking.Timestamp = time.Now().UTC()
	}

	all = append(all, *booking)
	if err := s.write(all); err != nil {
		return err
	}

	s.log.Info("Booking created", "id", booking.ID, "seat_id", booking.SeatID, "date", booking.Date)
	return nil
}

// Remove truncates the entire store. The single-tenant variant treats
// the whole list as belonging to one actor, so cancellation clears
// everything rather than a single record.
func (s *Store) Remove(_ context.Context, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return store.ErrNotFound
	}

	if err := s.write(nil); err != nil {
		return err
	}

	s.log.Info("All bookings cleared", "removed", len(all))
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.read()
	return err
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) read() ([]model.Booking, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read booking store: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var bookings []model.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode booking store: %w", err)
	}
	return bookings, nil
}

func (s *Store) write(bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}

	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode booking store: %w", err)
	}

	// Write-then-rename keeps the store readable if the process dies
	// mid-write.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write booking store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace booking store: %w", err)
	}
	return nil
}

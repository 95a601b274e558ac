// Package mongostore implements the shared booking store on a MongoDB
// collection, with a change-stream subscription for live snapshots.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lumina/internal/store"
	"lumina/pkg/logger"
	"lumina/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        *logger.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration
}

func Connect(ctx context.Context, uri, database, collection string, connTimeout time.Duration, log *logger.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB", "database", database, "collection", collection)
	return &Store{
		client:       client,
		collection:   client.Database(database).Collection(collection),
		log:          log,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
	}, nil
}

func (s *Store) ListActive(ctx context.Context, date string) ([]model.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "seat_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Create inserts the booking after a best-effort conflict check. The
// check and the insert are not atomic; two near-simultaneous writers can
// still double-book a seat, which the collection is assumed to tolerate.
func (s *Store) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, bson.M{
		"date":    booking.Date,
		"seat_id": booking.SeatID,
	})
	if err != nil {
		return fmt.Errorf("failed to check seat availability: %w", err)
	}
	if count > 0 {
		return store.ErrSeatTaken
	}

	if booking.Timestamp.IsZero() {
		booking.Timestamp = time.Now().UTC().Truncate(time.Millisecond)
	}

	if booking.ID == "" {
		// Hex string ids keep the document shape decodable into the
		// shared model, which uses string ids across both drivers.
		booking.ID = primitive.NewObjectID().Hex()
	}

	doc := bson.M{
		"_id":        booking.ID,
		"date":       booking.Date,
		"seat_id":    booking.SeatID,
		"identity":   booking.Identity,
		"time":       booking.Time,
		"time_label": booking.TimeLabel,
		"timestamp":  booking.Timestamp,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	s.log.Info("Booking created", "id", booking.ID, "seat_id", booking.SeatID, "date", booking.Date, "identity", booking.Identity)
	return nil
}

// Remove deletes exactly the booking held by the acting identity on the
// given day.
func (s *Store) Remove(ctx context.Context, date, identity string) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"date": date, "identity": identity})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}

	s.log.Info("Booking removed", "date", date, "identity", identity)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Watch opens a change stream on the collection and delivers a fresh
// full snapshot of the day's bookings after every change. An initial
// snapshot is delivered asynchronously so subscribers start consistent;
// all deliveries happen on the stream goroutine, never on the caller's.
// Incremental merging is deliberately avoided: each delivery replaces
// the consumer's entire view.
func (s *Store) Watch(ctx context.Context, date string, onChange func(store.Snapshot)) (store.Subscription, error) {
	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		stream: stream,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		if err := s.deliver(watchCtx, date, onChange); err != nil {
			s.log.Warn("Initial snapshot delivery failed", "date", date, "error", err)
		}
		for stream.Next(watchCtx) {
			if err := s.deliver(watchCtx, date, onChange); err != nil {
				s.log.Warn("Snapshot delivery failed", "date", date, "error", err)
			}
		}
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Error("Change stream terminated", "date", date, "error", err)
		}
	}()

	s.log.Info("Change stream subscription opened", "date", date)
	return sub, nil
}

func (s *Store) deliver(ctx context.Context, date string, onChange func(store.Snapshot)) error {
	bookings, err := s.ListActive(ctx, date)
	if err != nil {
		return err
	}
	onChange(store.Snapshot{Date: date, Bookings: bookings})
	return nil
}

type subscription struct {
	stream *mongo.ChangeStream
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Close(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.stream.Close(ctx)
}

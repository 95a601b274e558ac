package main

import (
	"context"

	"lumina/internal/booking"
	"lumina/internal/booking/validator"
	"lumina/internal/events"
	"lumina/internal/handler"
	"lumina/internal/store"
	"lumina/internal/store/local"
	"lumina/internal/store/mongostore"
	"lumina/internal/webhook"
	"lumina/pkg/app"
	"lumina/pkg/config"
)

const ServiceName = "lumina"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Lumina service")

	st := initStore(cfg)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			cfg.Log.Error("Failed to close booking store", "error", err)
		}
	}()

	sink := initEvents(cfg)
	if p, ok := sink.(*events.Publisher); ok {
		defer func() {
			if err := p.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		}()
	}

	sessions := handler.NewRegistry(
		st,
		validator.NewBookingValidator(cfg.StoreDriver == config.DriverMongo, cfg.Log),
		sink,
		cfg.Log,
		cfg.StoreDriver == config.DriverLocal,
	)
	defer func() {
		if err := sessions.Close(context.Background()); err != nil {
			cfg.Log.Error("Failed to close session registry", "error", err)
		}
	}()

	webhookClient := webhook.NewClient(cfg.WebhookBaseURL, cfg.WebhookTimeout)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewHealthHandler(st, cfg.Log),
		handler.NewBookingHandler(sessions, cfg.Log),
		handler.NewRelayHandler(
			webhook.NewReservationsClient(webhookClient, cfg.ReservationsID, cfg.Log),
			webhook.NewChatClient(webhookClient, cfg.ChatID, cfg.Log),
			cfg.Log,
		),
	)
	serverApp.Run()
}

func initStore(cfg *config.Config) store.BookingStore {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
		defer cancel()

		st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.MongoConnTimeout, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		cfg.Log.Info("Booking store initialized", "driver", config.DriverMongo, "database", cfg.MongoDatabase)
		return st

	default:
		st, err := local.New(cfg.LocalStorePath, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to open local booking store", "error", err, "path", cfg.LocalStorePath)
		}
		cfg.Log.Info("Booking store initialized", "driver", config.DriverLocal, "path", cfg.LocalStorePath)
		return st
	}
}

func initEvents(cfg *config.Config) booking.EventSink {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return events.Noop{}
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.Log)
	cfg.Log.Info("Booking event publisher initialized", "topic", cfg.KafkaTopic)
	return publisher
}

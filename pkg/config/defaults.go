package config

import "time"

const (
	DriverLocal = "local"
	DriverMongo = "mongo"

	DefaultStoreDriver    = DriverLocal
	DefaultLocalStorePath = "data/lumina_bookings.json"

	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "lumina"
	DefaultMongoCollection  = "bookings"
	DefaultMongoConnTimeout = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultWebhookBaseURL = "https://n8n.taetae.dev"
	DefaultReservationsID = "reservations"
	DefaultChatID         = "2b078be8-7e2b-472e-b483-8356f24c7186/chat"
	DefaultWebhookTimeout = 10 * time.Second

	DefaultKafkaTopic = "lumina.bookings"

	DefaultRequestTimeout  = 30 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxRequestSize  = 1 << 20
)

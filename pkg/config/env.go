package config

const (
	EnvStoreDriver    = "STORE_DRIVER"
	EnvLocalStorePath = "LOCAL_STORE_PATH"

	EnvMongoURI         = "MONGO_URI"
	EnvMongoDatabase    = "MONGO_DATABASE_NAME"
	EnvMongoCollection  = "MONGO_COLLECTION_NAME"
	EnvMongoConnTimeout = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvWebhookBaseURL = "WEBHOOK_BASE_URL"
	EnvReservationsID = "WEBHOOK_RESERVATIONS_ID"
	EnvChatID         = "WEBHOOK_CHAT_ID"
	EnvWebhookTimeout = "WEBHOOK_TIMEOUT"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRequestTimeout  = "REQUEST_TIMEOUT"
	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvMaxRequestSize  = "MAX_REQUEST_SIZE"
)

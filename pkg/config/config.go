package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lumina/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver    string
	LocalStorePath string

	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	MongoConnTimeout time.Duration

	Port string

	WebhookBaseURL string
	ReservationsID string
	ChatID         string
	WebhookTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RequestTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxRequestSize  int

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	// Missing .env is fine; real deployments use the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		StoreDriver:    getEnvStr(EnvStoreDriver, DefaultStoreDriver),
		LocalStorePath: getEnvStr(EnvLocalStorePath, DefaultLocalStorePath),

		MongoURI:         getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabase:    getEnvStr(EnvMongoDatabase, DefaultMongoDatabase),
		MongoCollection:  getEnvStr(EnvMongoCollection, DefaultMongoCollection),
		MongoConnTimeout: getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		WebhookBaseURL: getEnvStr(EnvWebhookBaseURL, DefaultWebhookBaseURL),
		ReservationsID: getEnvStr(EnvReservationsID, DefaultReservationsID),
		ChatID:         getEnvStr(EnvChatID, DefaultChatID),
		WebhookTimeout: getEnvDuration(EnvWebhookTimeout, DefaultWebhookTimeout),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		MaxRequestSize:  getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) Validate() error {
	var errs []string

	if cfg.StoreDriver != DriverLocal && cfg.StoreDriver != DriverMongo {
		errs = append(errs, fmt.Sprintf("StoreDriver must be %q or %q, got: %s", DriverLocal, DriverMongo, cfg.StoreDriver))
	}
	if cfg.StoreDriver == DriverLocal && cfg.LocalStorePath == "" {
		errs = append(errs, "LocalStorePath cannot be empty for the local driver")
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.StoreDriver == DriverMongo {
		if cfg.MongoURI == "" {
			errs = append(errs, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
		}
		if cfg.MongoDatabase == "" {
			errs = append(errs, "MongoDatabase cannot be empty")
		}
		if cfg.MongoCollection == "" {
			errs = append(errs, "MongoCollection cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if cfg.WebhookBaseURL == "" {
		errs = append(errs, "WebhookBaseURL cannot be empty")
	}
	if cfg.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WebhookTimeout must be positive, got: %s", cfg.WebhookTimeout))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		errs = append(errs, "KafkaTopic cannot be empty when brokers are configured")
	}

	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"local_store_path", cfg.LocalStorePath,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabase,
		"mongo_collection", cfg.MongoCollection,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"webhook_base_url", cfg.WebhookBaseURL,
		"webhook_reservations_id", cfg.ReservationsID,
		"webhook_chat_configured", cfg.ChatID != "",
		"webhook_timeout", cfg.WebhookTimeout,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
		"request_timeout", cfg.RequestTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"max_request_size", cfg.MaxRequestSize,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

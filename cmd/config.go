package cmd

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"

	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT,default=8080"`
	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     string `env:"DB_PORT,default=5432"`
	DBUser     string `env:"DB_USER,default=postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME,default=catering"`
	DBSslMode  string `env:"DB_SSLMODE,default=disable"`

	StorageBackend  string `env:"STORAGE_BACKEND,default=postgres"`
	SequenceBackend string `env:"SEQUENCE_BACKEND,default=postgres"`
	RedisAddr       string `env:"REDIS_ADDR,default=localhost:6379"`

	// KafkaBrokers is a comma separated list; empty logs notifications instead.
	KafkaBrokers           string `env:"KAFKA_BROKERS"`
	KafkaNotificationTopic string `env:"KAFKA_NOTIFICATION_TOPIC,default=order-notifications"`

	AuthorizationSecret  string        `env:"AUTHORIZATION_SECRET,required"`
	OrderExpiry          time.Duration `env:"ORDER_EXPIRY,default=2h"`
	VoucherSweepSchedule string        `env:"VOUCHER_SWEEP_SCHEDULE,default=0 0 12 * * *"`

	PaymentRatePerSecond float64       `env:"PAYMENT_RATE_PER_SECOND,default=20"`
	PaymentTimeout       time.Duration `env:"PAYMENT_TIMEOUT,default=10s"`

	// AdminUserID, when set, is registered as an admin in the user directory at startup.
	AdminUserID string `env:"ADMIN_USER_ID"`
}

// LoadConfig decodes the configuration from the environment.
func LoadConfig() (Config, error) {
	var config Config
	if err := envdecode.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.StorageBackend)
	}

	switch c.SequenceBackend {
	case SequenceBackendPostgres, SequenceBackendRedis:
	default:
		return fmt.Errorf("unsupported SEQUENCE_BACKEND %q", c.SequenceBackend)
	}

	if c.StorageBackend == StorageBackendMemory && c.SequenceBackend == SequenceBackendPostgres {
		return fmt.Errorf("SEQUENCE_BACKEND %q needs STORAGE_BACKEND %q", SequenceBackendPostgres, StorageBackendPostgres)
	}

	if c.OrderExpiry <= 0 {
		return fmt.Errorf("ORDER_EXPIRY must be positive, got %s", c.OrderExpiry)
	}
	if c.PaymentRatePerSecond <= 0 {
		return fmt.Errorf("PAYMENT_RATE_PER_SECOND must be positive, got %v", c.PaymentRatePerSecond)
	}
	return nil
}

// DSN is the postgres connection string for GORM.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

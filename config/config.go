package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the subscription lease service
type Config struct {
	Database DatabaseConfig
	Kafka    KafkaConfig
	Provider ProviderConfig
	Lease    LeaseConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"DATABASE_HOST" envDefault:"localhost"`
	Port     string `env:"DATABASE_PORT" envDefault:"5432"`
	User     string `env:"DATABASE_USER" envDefault:"subscriptions_user"`
	Password string `env:"DATABASE_PASSWORD" envDefault:"subscriptions_pass"`
	DBName   string `env:"DATABASE_NAME" envDefault:"subscriptions_db"`
	SSLMode  string `env:"DATABASE_SSLMODE" envDefault:"disable"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9093" envSeparator:","`
}

// ProviderConfig holds the notification provider API configuration
type ProviderConfig struct {
	BaseURL string        `env:"PROVIDER_API_URL" envDefault:"http://localhost:8081"`
	Token   string        `env:"PROVIDER_API_TOKEN"`
	Timeout time.Duration `env:"PROVIDER_API_TIMEOUT" envDefault:"15s"`
}

// LeaseConfig holds renewal timing configuration.
// RenewalInterval is the lead time before expiry at which a subscription
// becomes a renewal candidate; SubscriptionDuration is the lease length
// granted on renewal; SweepInterval is the scan cadence and must not
// exceed RenewalInterval or a subscription could lapse between sweeps.
type LeaseConfig struct {
	RenewalInterval      time.Duration `env:"RENEWAL_INTERVAL" envDefault:"1h"`
	SubscriptionDuration time.Duration `env:"SUBSCRIPTION_DURATION" envDefault:"24h"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string `env:"SERVICE_NAME" envDefault:"subscription-lease-service"`
	Port string `env:"SERVICE_PORT" envDefault:"8001"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Provider.BaseURL == "" {
		return fmt.Errorf("PROVIDER_API_URL is required")
	}

	if c.Lease.RenewalInterval <= 0 {
		return fmt.Errorf("RENEWAL_INTERVAL must be positive")
	}

	if c.Lease.SubscriptionDuration <= 0 {
		return fmt.Errorf("SUBSCRIPTION_DURATION must be positive")
	}

	if c.Lease.SweepInterval <= 0 || c.Lease.SweepInterval > c.Lease.RenewalInterval {
		return fmt.Errorf("SWEEP_INTERVAL must be positive and not exceed RENEWAL_INTERVAL")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Result exposes the loaded config and its sections to the fx graph
type Result struct {
	fx.Out

	Config   *Config
	Database *DatabaseConfig
	Kafka    *KafkaConfig
	Provider *ProviderConfig
	Lease    *LeaseConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads the configuration and provides each section
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Database: &cfg.Database,
		Kafka:    &cfg.Kafka,
		Provider: &cfg.Provider,
		Lease:    &cfg.Lease,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type StoreDriver string

const (
	StorePostgres StoreDriver = "postgres"
	StoreMemory   StoreDriver = "memory" // local runs and tests only
)

type Config struct {
	Environment string      `env:"ENVIRONMENT" envDefault:"development"`
	Store       StoreDriver `env:"STORE_DRIVER" envDefault:"postgres"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
		AutoMigrate        bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	} `envPrefix:"DATABASE_"`
	Email struct {
		From string `env:"FROM"`
		SMTP struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		Queue          string `env:"QUEUE" envDefault:"asset_mail_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD"`
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Dashboard struct {
		CacheTTL           int `env:"CACHE_TTL" envDefault:"30"`
		WarrantyWindowDays int `env:"WARRANTY_WINDOW_DAYS" envDefault:"90"`
		WarrantyAlertLimit int `env:"WARRANTY_ALERT_LIMIT" envDefault:"10"`
	} `envPrefix:"DASHBOARD_"`
}

var (
	ErrMissingDSN       = errors.New("DATABASE_DSN is required when STORE_DRIVER=postgres")
	ErrUnknownDriver    = errors.New("STORE_DRIVER must be postgres or memory")
	ErrInvalidDashboard = errors.New("DASHBOARD_WARRANTY_WINDOW_DAYS and DASHBOARD_WARRANTY_ALERT_LIMIT must be positive")
)

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// only the first error, keeps the log readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.Database.DSN == "" {
			return ErrMissingDSN
		}
	case StoreMemory:
	default:
		return ErrUnknownDriver
	}

	if c.Dashboard.WarrantyWindowDays <= 0 || c.Dashboard.WarrantyAlertLimit <= 0 {
		return ErrInvalidDashboard
	}

	return nil
}

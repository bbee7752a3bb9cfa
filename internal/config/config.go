package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"lendqube"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"lendqube"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET" default:""`
	}

	Paystack struct {
		SecretKey string `envconfig:"PAYSTACK_SECRET_KEY" default:""`
		BaseURL   string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	}

	Jobs struct {
		SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
		CollectInterval time.Duration `envconfig:"COLLECT_INTERVAL" default:"24h"`
		RetryInterval   time.Duration `envconfig:"RETRY_INTERVAL" default:"1h"`
	}

	Reservation struct {
		TTL time.Duration `envconfig:"RESERVATION_TTL" default:"15m"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

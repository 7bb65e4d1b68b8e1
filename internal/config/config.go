package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	CatalogBaseURL  string        `envconfig:"CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	CatalogTimeout  time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
	ExchangeRate    float64       `envconfig:"EXCHANGE_RATE" default:"15500"`
	OrderTTL        time.Duration `envconfig:"ORDER_TTL" default:"1h"`
	PaymentDelay    time.Duration `envconfig:"PAYMENT_DELAY" default:"2s"`
	RedisAddr       string        `envconfig:"REDIS_ADDR" default:""` // empty = in-memory sessions
	SessionTTL      time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

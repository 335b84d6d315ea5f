package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config carries everything the server reads from the environment.
// Precedence: explicit env var > .env file (loaded by main) > default.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"file:sirest.db"`
	Env         string `envconfig:"APP_ENV" default:"development"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"devjwtsecret"`

	// Defaults applied until an admin saves a configuration record.
	RestaurantName string          `envconfig:"RESTAURANT_NAME" default:"SiRest"`
	TaxRate        decimal.Decimal `envconfig:"TAX_RATE" default:"0.19"`
	ServiceRate    decimal.Decimal `envconfig:"SERVICE_RATE" default:"0.10"`
	Currency       string          `envconfig:"CURRENCY" default:"COP"`
	Timezone       string          `envconfig:"BUSINESS_TIMEZONE" default:"America/Bogota"`

	// Optional broker for kitchen/cashier alert fan-out. Empty disables it.
	AMQPURL      string `envconfig:"AMQP_URL" default:""`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"sirest.alerts"`

	Migrations bool `envconfig:"MIGRATIONS" default:"false"`
	Seed       bool `envconfig:"DB_SEED" default:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

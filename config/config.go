package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime setting the API process reads. Values come
// from the environment; cmd/api loads a .env file first when present.
type Config struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	// BaseURL is the public origin used to build checkout redirect targets.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000"`

	ContactFeeCents int64  `env:"CONTACT_FEE_CENTS" envDefault:"9900"`
	PaymentAPIURL   string `env:"PAYMENT_API_URL" envDefault:"https://api.payments.example.com"`
	PaymentAPIKey   string `env:"PAYMENT_API_KEY"`
	WebhookSecret   string `env:"PAYMENT_WEBHOOK_SECRET,required"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"PitchFlow <noreply@pitchflow.example.com>"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	PostgresHost string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser string `envconfig:"POSTGRES_USER" default:"deezprints"`
	PostgresPass string `envconfig:"POSTGRES_PASSWORD" default:"deezprints"`
	PostgresDB   string `envconfig:"POSTGRES_DB" default:"deezprints_db"`

	// Guest carts live in a local SQLite file next to the binary by default.
	GuestCartPath string `envconfig:"GUEST_CART_PATH" default:"guest_carts.db"`

	CartSaveDebounce time.Duration `envconfig:"CART_SAVE_DEBOUNCE" default:"1s"`

	// Idle session carts are evicted after this long; their state
	// stays in the backing stores.
	CartSessionTTL time.Duration `envconfig:"CART_SESSION_TTL" default:"30m"`

	JWTSecret     string `envconfig:"JWT_SECRET"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	EmailFrom      string `envconfig:"EMAIL_FROM" default:"Deez Prints <orders@deezprints.example>"`

	LLMAPIKey  string `envconfig:"LLM_API_KEY"`
	LLMBaseURL string `envconfig:"LLM_BASE_URL" default:"https://api.openai.com"`
	LLMModel   string `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
}

func Load() (Config, error) {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD must be set")
	}
	return cfg, nil
}

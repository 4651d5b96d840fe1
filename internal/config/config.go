package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"deudasacero.db"`
	// JWTSecret has no default on purpose: the server refuses to boot
	// without an explicit secret.
	JWTSecret string `envconfig:"JWT_SECRET"`

	ResendAPIKey string `envconfig:"RESEND_API_KEY"`
	ResendFrom   string `envconfig:"RESEND_FROM" default:"notificaciones@deudasacero.es"`

	PerplexityAPIKey string `envconfig:"PERPLEXITY_API_KEY"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}
	return &cfg, nil
}

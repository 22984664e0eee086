package config

import "github.com/Skotchmaster/storefront/pkg/config"

type ServiceConfig struct {
	config.Config
}

// Load reads the environment and exits when a required value is missing.
// AUTH_URL, KAFKA_BROKERS and ES_URL are optional.
func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(
		config.Var{Name: "DATABASE_URL", Value: cfg.DatabaseURL},
		config.Var{Name: "JWT_SECRET", Value: string(cfg.JWTAccessSecret)},
	)

	return ServiceConfig{Config: cfg}
}

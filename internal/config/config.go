package config

import (
	"os"
	"strconv"
)

// Config carries process-level settings. Infrastructure packages read their
// own connection env vars (DB_URL, REDIS_URL, JWT_SECRET) in their
// constructors.
type Config struct {
	Port int
}

func Load() Config {
	port := 8080
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	return Config{Port: port}
}

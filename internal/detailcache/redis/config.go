package redis

import "time"

type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	DetailTTL time.Duration
	TeamsTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DetailTTL:    6 * time.Hour,
		TeamsTTL:     24 * time.Hour,
	}
}

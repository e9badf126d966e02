// Package config loads client settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrMissingAPIURL = errors.New("DRAFT_API_URL is required")

type Config struct {
	APIURL string `env:"API_URL" envDefault:"http://localhost:8000"`
	// WSURL defaults to APIURL with its scheme switched to ws/wss.
	WSURL string `env:"WS_URL"`
	Token string `env:"TOKEN"`

	Mode           string        `env:"MODE" envDefault:"auto"`
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" envDefault:"500ms"`
	SpinDuration   time.Duration `env:"SPIN_DURATION" envDefault:"800ms"`
	SpinSteps      int           `env:"SPIN_STEPS" envDefault:"100"`
	SpinSeed       uint64        `env:"SPIN_SEED"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Dev      bool   `env:"DEV"`
}

// Load reads DRAFT_* variables. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse(env.Options{Prefix: "DRAFT_"})
}

func Parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Finish normalises the URLs and derives WSURL when it is unset.
func (c *Config) Finish() error {
	c.APIURL = strings.TrimSuffix(c.APIURL, "/")
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}
	if c.WSURL == "" {
		u, err := url.Parse(c.APIURL)
		if err != nil {
			return fmt.Errorf("parse api url: %w", err)
		}
		switch u.Scheme {
		case "https":
			u.Scheme = "wss"
		default:
			u.Scheme = "ws"
		}
		c.WSURL = u.String()
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"

	minSecretLen = 32
	devJWTSecret = "cricnagar-development-secret-change-me"
)

var ErrWeakSecret = errors.New("JWT_SECRET must be at least 32 chars")

type Config struct {
	AppEnv string
	Port   string
	Debug  bool

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	ClientTTL     time.Duration

	JWTSecret    string
	TokenTTL     time.Duration
	MetricsToken string
	BcryptCost   int

	AuthLatency     time.Duration
	CheckoutLatency time.Duration
	ClientIdle      time.Duration
}

// LoadEnv reads .env.local into the process environment when APP_ENV is
// "local". A missing file is not an error.
func LoadEnv() (loaded bool) {
	if os.Getenv("APP_ENV") != EnvLocal {
		return false
	}
	return godotenv.Load(".env.local") == nil
}

// Load builds the config from the process environment.
func Load() (Config, error) {
	LoadEnv()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from getenv. Unset keys take defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	env := lookup(getenv)

	c := Config{
		AppEnv:        env.str("APP_ENV", EnvDevelopment),
		Port:          env.str("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET"),
		MetricsToken:  getenv("METRICS_TOKEN"),
	}

	var err error
	if c.Debug, err = env.boolean("DEBUG", false); err != nil {
		return Config{}, err
	}
	if c.BcryptCost, err = env.integer("BCRYPT_COST", 0); err != nil {
		return Config{}, err
	}
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"AUTH_LATENCY", time.Second, &c.AuthLatency},
		{"CHECKOUT_LATENCY", 2 * time.Second, &c.CheckoutLatency},
		{"TOKEN_TTL", 24 * time.Hour, &c.TokenTTL},
		{"CLIENT_TTL", 30 * 24 * time.Hour, &c.ClientTTL},
		{"CLIENT_IDLE", 30 * time.Minute, &c.ClientIdle},
	}
	for _, d := range durations {
		if *d.dst, err = env.duration(d.key, d.def); err != nil {
			return Config{}, err
		}
	}

	if len(c.JWTSecret) < minSecretLen {
		if c.AppEnv == EnvProduction {
			return Config{}, ErrWeakSecret
		}
		c.JWTSecret = devJWTSecret
	}
	return c, nil
}

type lookup func(string) string

func (l lookup) str(k, def string) string {
	if v := l(k); v != "" {
		return v
	}
	return def
}

func (l lookup) duration(k string, def time.Duration) (time.Duration, error) {
	v := l(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", k, v)
	}
	return d, nil
}

func (l lookup) integer(k string, def int) (int, error) {
	v := l(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", k, v)
	}
	return n, nil
}

func (l lookup) boolean(k string, def bool) (bool, error) {
	v := l(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", k, v)
	}
	return b, nil
}

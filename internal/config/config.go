package config

import (
	"net"
	"os"
	"strconv"
	"time"
)

// AppConfig is the centralized configuration for the site.
// It is built once at startup from environment variables and passed by value,
// so nothing downstream can change it after the listener is configured.
type AppConfig struct {
	Host string
	Port string

	// Debug selects development mode: verbose error pages, template
	// auto-reload, unminified assets. Enabled unless APP_DEBUG says otherwise.
	Debug bool

	// TemplatesDir and StaticDir point at on-disk copies of the web assets.
	// Empty means the copies embedded in the binary are served.
	TemplatesDir string
	StaticDir    string

	Timezone         string
	MetricsEnabled   bool
	HealthTimeoutSec int
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() AppConfig {
	return AppConfig{
		Host:             getEnv("APP_HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "5000"),
		Debug:            debugFromEnv("APP_DEBUG"),
		TemplatesDir:     getEnv("APP_TEMPLATES_DIR", ""),
		StaticDir:        getEnv("APP_STATIC_DIR", ""),
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		HealthTimeoutSec: getEnvInt("HEALTH_TIMEOUT_SEC", 2),
	}
}

// Addr returns the host:port the listener binds to.
func (c AppConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Location resolves Timezone, falling back to UTC when it is empty or unknown.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HealthTimeout is the per-check deadline used by the health endpoint.
func (c AppConfig) HealthTimeout() time.Duration {
	if c.HealthTimeoutSec <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.HealthTimeoutSec) * time.Second
}

// debugFromEnv is on when the variable is unset. A value that does not parse
// as a boolean turns debug off, so a typo never exposes debug pages.
func debugFromEnv(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

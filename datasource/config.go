package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"weatherlux/models"
)

// ProviderConfig configures one weather provider
type ProviderConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	BaseURL string `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	// RateLimit is in requests per second, Burst in requests
	RateLimit float64 `json:"rateLimit" yaml:"rateLimit"`
	Burst     int     `json:"burst" yaml:"burst"`
}

// FeedConfig configures an RSS/Atom alert feed
type FeedConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	URL        string `json:"url" yaml:"url"`
	ValidHours int    `json:"validHours" yaml:"validHours"`
}

// LocationConfig is the city used when geolocation fails and for fallback data
type LocationConfig struct {
	Name      string  `json:"name" yaml:"name"`
	Country   string  `json:"country" yaml:"country"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Coordinate returns the location as a coordinate
func (l LocationConfig) Coordinate() models.Coordinate {
	return models.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// PreferencesConfig selects where settings and favorites are persisted
type PreferencesConfig struct {
	Backend   string `json:"backend" yaml:"backend"` // memory, sqlite or redis
	Path      string `json:"path" yaml:"path"`
	RedisAddr string `json:"redisAddr" yaml:"redisAddr"`
	RedisDB   int    `json:"redisDB" yaml:"redisDB"`
}

// GeolocationConfig configures IP based geolocation
type GeolocationConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	URL            string `json:"url" yaml:"url"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Config represents the application configuration
type Config struct {
	WeatherAPI     ProviderConfig `json:"weatherAPI" yaml:"weatherAPI"`
	OpenWeatherMap ProviderConfig `json:"openWeatherMap" yaml:"openWeatherMap"`
	AlertFeed      FeedConfig     `json:"alertFeed" yaml:"alertFeed"`

	DefaultLocation LocationConfig `json:"defaultLocation" yaml:"defaultLocation"`

	RequestTimeoutSeconds int   `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`
	CacheTTLSeconds       int   `json:"cacheTTLSeconds" yaml:"cacheTTLSeconds"`
	RefreshMinutes        int   `json:"refreshMinutes" yaml:"refreshMinutes"`
	FallbackSeed          int64 `json:"fallbackSeed" yaml:"fallbackSeed"`

	Preferences PreferencesConfig `json:"preferences" yaml:"preferences"`
	Geolocation GeolocationConfig `json:"geolocation" yaml:"geolocation"`

	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		WeatherAPI: ProviderConfig{
			BaseURL: "https://api.weatherapi.com/v1",
			// free tier allows ~23 calls/minute
			RateLimit: 0.4,
			Burst:     3,
		},
		OpenWeatherMap: ProviderConfig{
			BaseURL: "https://api.openweathermap.org",
			// free tier allows 60 calls/minute
			RateLimit: 1.0,
			Burst:     5,
		},
		AlertFeed: FeedConfig{ValidHours: 24},
		DefaultLocation: LocationConfig{
			Name:      "Madrid",
			Country:   "ES",
			Latitude:  40.4168,
			Longitude: -3.7038,
		},
		RequestTimeoutSeconds: 10,
		CacheTTLSeconds:       300,
		RefreshMinutes:        10,
		FallbackSeed:          1,
		Preferences: PreferencesConfig{
			Backend:   "memory",
			Path:      "weatherlux.db",
			RedisAddr: "localhost:6379",
		},
		Geolocation: GeolocationConfig{
			Enabled:        true,
			URL:            "https://ipapi.co/json/",
			TimeoutSeconds: 10,
		},
		LogLevel: "INFO",
	}
}

// LoadConfig loads configuration from a JSON or YAML file (by extension)
// on top of the defaults, then applies environment overrides. A missing
// file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", filename, err)
	default:
		if err := config.decode(filename, data); err != nil {
			return nil, err
		}
	}

	config.applyEnv(os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) decode(filename string, data []byte) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", filename, err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse JSON config %s: %w", filename, err)
		}
	}
	return nil
}

// applyEnv overrides fields from the environment. Setting a provider key
// enables that provider.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("WEATHERAPI_KEY"); v != "" {
		c.WeatherAPI.APIKey = v
		c.WeatherAPI.Enabled = true
	}
	if v := getenv("OPENWEATHERMAP_API_KEY"); v != "" {
		c.OpenWeatherMap.APIKey = v
		c.OpenWeatherMap.Enabled = true
	}
	if v := getenv("WEATHERLUX_ALERT_FEED_URL"); v != "" {
		c.AlertFeed.URL = v
		c.AlertFeed.Enabled = true
	}
	if v := getenv("WEATHERLUX_PREFS_BACKEND"); v != "" {
		c.Preferences.Backend = v
	}
	if v := getenv("WEATHERLUX_PREFS_PATH"); v != "" {
		c.Preferences.Path = v
	}
	if v := getenv("WEATHERLUX_REDIS_ADDR"); v != "" {
		c.Preferences.RedisAddr = v
	}
	if v := getenv("WEATHERLUX_FALLBACK_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.FallbackSeed = seed
		}
	}
	if v := getenv("WEATHERLUX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.WeatherAPI.Enabled && c.WeatherAPI.APIKey == "" {
		return errors.New("WeatherAPI is enabled but no API key provided")
	}
	if c.OpenWeatherMap.Enabled && c.OpenWeatherMap.APIKey == "" {
		return errors.New("OpenWeatherMap is enabled but no API key provided")
	}
	if c.AlertFeed.Enabled && c.AlertFeed.URL == "" {
		return errors.New("alert feed is enabled but no URL provided")
	}
	if err := c.DefaultLocation.Coordinate().Validate(); err != nil {
		return fmt.Errorf("default location: %w", err)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("requestTimeoutSeconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.RefreshMinutes <= 0 {
		return fmt.Errorf("refreshMinutes must be positive, got %d", c.RefreshMinutes)
	}
	switch c.Preferences.Backend {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown preferences backend %q", c.Preferences.Backend)
	}
	return nil
}

// RequestTimeout is the per-request deadline
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheTTL is how long successful responses are reused; zero disables caching
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RefreshInterval is how often the dashboard refetches
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Geocode  GeocodeConfig  `mapstructure:"geocode"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig controls the HTTP listener and browser sessions.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	SessionTTL   int    `mapstructure:"session_ttl"` // seconds
	CookieName   string `mapstructure:"cookie_name"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		APIKey      string `mapstructure:"api_key"`
		Model       string `mapstructure:"model"`
		Timeout     int    `mapstructure:"timeout"` // milliseconds, 0 = no client deadline
		Country     string `mapstructure:"country"`
		CountryCode string `mapstructure:"country_code"`
	} `mapstructure:"genai"`
}

// GeocodeConfig points at a Nominatim-compatible place lookup service.
type GeocodeConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	UserAgent string  `mapstructure:"user_agent"`
	Rate      float64 `mapstructure:"rate"` // requests per second
	Timeout   int     `mapstructure:"timeout"`   // milliseconds
	CacheTTL  int     `mapstructure:"cache_ttl"` // seconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig is optional; an empty address keeps sessions in process memory.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Enabled reports whether a redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// SessionTTLDuration converts the session TTL to a time.Duration.
func (s ServerConfig) SessionTTLDuration() time.Duration {
	return time.Duration(s.SessionTTL) * time.Second
}

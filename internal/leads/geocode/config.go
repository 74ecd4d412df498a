// internal/leads/geocode/config.go
package geocode

import "time"

type Config struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	Rate        float64 // requests per second
	Timeout     time.Duration
	CacheTTL    time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:     "https://nominatim.openstreetmap.org",
		UserAgent:   "leadgen/1.0",
		CountryCode: "pk",
		Rate:        1,
		Timeout:     10 * time.Second,
		CacheTTL:    24 * time.Hour,
	}
}

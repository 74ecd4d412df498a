// internal/leads/search/config.go
package search

import "time"

type Config struct {
	APIKey  string
	Model   string
	Country string
	// Timeout bounds a single model call; zero leaves the call unbounded.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Model:   "gemini-2.5-flash",
		Country: "Pakistan",
	}
}

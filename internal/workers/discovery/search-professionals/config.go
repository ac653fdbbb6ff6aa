// internal/workers/discovery/search-professionals/config.go
package searchprofessionals

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}

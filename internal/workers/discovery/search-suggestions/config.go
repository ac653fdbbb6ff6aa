// internal/workers/discovery/search-suggestions/config.go
package searchsuggestions

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

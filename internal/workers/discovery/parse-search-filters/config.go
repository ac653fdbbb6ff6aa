// internal/workers/discovery/parse-search-filters/config.go
package parsesearchfilters

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

// internal/workers/discovery/get-search-facets/config.go
package getsearchfacets

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

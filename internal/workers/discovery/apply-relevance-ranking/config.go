// internal/workers/discovery/apply-relevance-ranking/config.go
package applyrelevanceranking

import (
	"time"

	"pro-discovery/internal/discovery"
)

type Config struct {
	MaxItems int
	Weights  discovery.Weights
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxItems: 100,
		Weights:  discovery.DefaultWeights(),
		Timeout:  10 * time.Second,
	}
}

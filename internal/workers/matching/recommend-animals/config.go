// internal/workers/matching/recommend-animals/config.go
package recommendanimals

import (
	"time"

	"adoption-workers/internal/matching"
)

type Config struct {
	Timeout         time.Duration
	DefaultStrategy string
	DefaultLimit    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultStrategy: matching.StrategyCompatibility,
		DefaultLimit:    10,
	}
}

// internal/workers/matching/calculate-compatibility/config.go
package calculatecompatibility

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultLimit caps the returned results when the job sets no limit.
	// Zero returns every candidate.
	DefaultLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

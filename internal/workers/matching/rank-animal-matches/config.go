// internal/workers/matching/rank-animal-matches/config.go
package rankanimalmatches

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	// K replaces the scaler artifact's K when positive and the job does not
	// set one.
	K int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 10 * time.Minute,
	}
}

// internal/workers/application/score-adoption-application/config.go
package scoreadoptionapplication

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

// internal/workers/application/validate-adoption-application/config.go
package validateadoptionapplication

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

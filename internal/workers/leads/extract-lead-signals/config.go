// internal/workers/leads/extract-lead-signals/config.go
package extractleadsignals

import (
	"time"

	"bizplan-workers/internal/common/config"
)

// Config bounds one job. The timeout covers both generation attempts.
type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	timeout := config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout)
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Config{Timeout: timeout}
}

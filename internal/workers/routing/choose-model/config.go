// internal/workers/routing/choose-model/config.go
package choosemodel

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	timeout := config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{Timeout: timeout}
}

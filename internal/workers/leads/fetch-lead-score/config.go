// internal/workers/leads/fetch-lead-score/config.go
package fetchleadscore

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	HotLeadThreshold int
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:          config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout),
		HotLeadThreshold: appCfg.Leads.HotLeadThreshold,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.HotLeadThreshold == 0 {
		cfg.HotLeadThreshold = 70
	}
	return cfg
}

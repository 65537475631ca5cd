// internal/workers/leads/index-lead-signals/config.go
package indexleadsignals

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout   time.Duration
	IndexName string
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:   config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout),
		IndexName: appCfg.Leads.IndexName,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "leads"
	}
	return cfg
}

// internal/workers/crm/crm-lead-create/config.go
package crmleadcreate

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	LeadSource string
}

func LoadConfig(appCfg *config.Config) *Config {
	timeout := config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		Timeout:    timeout,
		LeadSource: "Business Plan Assistant",
	}
}

// internal/workers/leads/notify-hot-lead/config.go
package notifyhotlead

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	HotLeadThreshold int
	TopicARN         string
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:          config.GetDuration(appCfg.GetWorkerConfig(TaskType).Timeout),
		HotLeadThreshold: appCfg.Leads.HotLeadThreshold,
		TopicARN:         appCfg.Integrations.AWS.SNS.TopicARN,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HotLeadThreshold == 0 {
		cfg.HotLeadThreshold = 70
	}
	return cfg
}

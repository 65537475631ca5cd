// internal/workers/leads/fetch-lead-score/models.go
package fetchleadscore

import (
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/leads"
)

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	LeadID      string               `json:"leadId"`
	LeadScore   int                  `json:"leadScore"`
	ModelScore  float64              `json:"modelScore"`
	Breakdown   leads.ScoreBreakdown `json:"breakdown"`
	LeadSignals leads.LeadSignals    `json:"leadSignals"`
	IsHotLead   bool                 `json:"isHotLead"`
	ScoredAt    string               `json:"scoredAt"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {Type: "string", MinLength: validation.IntPtr(1)},
		},
		Required:             []string{"sessionId"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

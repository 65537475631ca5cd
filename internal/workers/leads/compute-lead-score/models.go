// internal/workers/leads/compute-lead-score/models.go
package computeleadscore

import (
	"encoding/json"

	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/leads"
)

// Input carries the signals as raw JSON so they are re-validated here
// rather than trusted from an upstream job.
type Input struct {
	LeadSignals json.RawMessage `json:"leadSignals"`
}

type Output struct {
	LeadScore  int                  `json:"leadScore"`
	ModelScore float64              `json:"modelScore"`
	Breakdown  leads.ScoreBreakdown `json:"breakdown"`
	IsHotLead  bool                 `json:"isHotLead"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"leadSignals": {Type: "object"},
		},
		Required:             []string{"leadSignals"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

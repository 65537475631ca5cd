// internal/workers/leads/index-lead-signals/models.go
package indexleadsignals

import (
	"encoding/json"

	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/leads"
)

type Input struct {
	LeadID      string          `json:"leadId"`
	SessionID   string          `json:"sessionId"`
	Email       string          `json:"email,omitempty"`
	Company     string          `json:"company,omitempty"`
	LeadSignals json.RawMessage `json:"leadSignals"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

// LeadDocument is the search-index shape: flat signal fields so they can
// be filtered and aggregated on directly.
type LeadDocument struct {
	LeadID        string               `json:"leadId"`
	SessionID     string               `json:"sessionId"`
	Email         string               `json:"email,omitempty"`
	Company       string               `json:"company,omitempty"`
	BudgetBand    string               `json:"budgetBand"`
	Authority     string               `json:"authority"`
	Urgency       string               `json:"urgency"`
	NeedClarity   string               `json:"needClarity"`
	DataReadiness string               `json:"dataReadiness"`
	StackMaturity string               `json:"stackMaturity"`
	Complexity    string               `json:"complexity"`
	Geography     *string              `json:"geography,omitempty"`
	Industry      *string              `json:"industry,omitempty"`
	LeadScore     int                  `json:"leadScore"`
	ModelScore    float64              `json:"modelScore"`
	Breakdown     leads.ScoreBreakdown `json:"breakdown"`
	IndexedAt     string               `json:"indexedAt"`
	CreatedAt     string               `json:"createdAt,omitempty"`
}

type Output struct {
	Indexed     bool   `json:"indexed"`
	IndexResult string `json:"indexResult"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"leadId":      {Type: "string", MinLength: validation.IntPtr(1)},
			"sessionId":   {Type: "string", MinLength: validation.IntPtr(1)},
			"leadSignals": {Type: "object"},
		},
		Required:             []string{"leadId", "sessionId", "leadSignals"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

// internal/workers/leads/save-lead-record/models.go
package saveleadrecord

import (
	"encoding/json"

	"bizplan-workers/internal/common/validation"
)

type Input struct {
	SessionID   string          `json:"sessionId"`
	Email       string          `json:"email,omitempty"`
	Company     string          `json:"company,omitempty"`
	LeadSignals json.RawMessage `json:"leadSignals"`
	Model       string          `json:"extractionModel,omitempty"`
	Attempts    int             `json:"attempts,omitempty"`
}

type Output struct {
	LeadID    string `json:"leadId"`
	LeadScore int    `json:"leadScore"`
	CreatedAt string `json:"createdAt"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId":       {Type: "string", MinLength: validation.IntPtr(1)},
			"email":           {Type: "string", Nullable: true},
			"company":         {Type: "string", Nullable: true},
			"leadSignals":     {Type: "object"},
			"extractionModel": {Type: "string", Nullable: true},
			"attempts":        {Type: "integer", Nullable: true, Minimum: validation.Float64Ptr(0)},
		},
		Required:             []string{"sessionId", "leadSignals"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

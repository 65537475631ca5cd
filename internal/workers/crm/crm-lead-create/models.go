// internal/workers/crm/crm-lead-create/models.go
package crmleadcreate

import (
	"encoding/json"

	"bizplan-workers/internal/common/validation"
)

type Input struct {
	LeadID      string          `json:"leadId,omitempty"`
	SessionID   string          `json:"sessionId"`
	Email       string          `json:"email,omitempty"`
	Company     string          `json:"company,omitempty"`
	LastName    string          `json:"lastName,omitempty"`
	LeadSignals json.RawMessage `json:"leadSignals"`
}

type Output struct {
	Created   bool   `json:"crmLeadCreated"`
	CRMLeadID string `json:"crmLeadId,omitempty"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId":   {Type: "string", MinLength: validation.IntPtr(1)},
			"email":       {Type: "string", Nullable: true},
			"company":     {Type: "string", Nullable: true},
			"lastName":    {Type: "string", Nullable: true},
			"leadSignals": {Type: "object"},
		},
		Required:             []string{"sessionId", "leadSignals"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

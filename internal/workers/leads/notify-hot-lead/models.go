// internal/workers/leads/notify-hot-lead/models.go
package notifyhotlead

import (
	"encoding/json"

	"bizplan-workers/internal/common/validation"
)

type Input struct {
	LeadID      string          `json:"leadId,omitempty"`
	SessionID   string          `json:"sessionId"`
	Email       string          `json:"email,omitempty"`
	Company     string          `json:"company,omitempty"`
	LeadScore   int             `json:"leadScore"`
	ModelScore  float64         `json:"modelScore"`
	LeadSignals json.RawMessage `json:"leadSignals,omitempty"`
}

type Output struct {
	Notified  bool   `json:"notified"`
	MessageID string `json:"notificationId,omitempty"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId":  {Type: "string", MinLength: validation.IntPtr(1)},
			"leadScore":  {Type: "integer", Minimum: validation.Float64Ptr(0), Maximum: validation.Float64Ptr(100)},
			"modelScore": {Type: "number", Nullable: true},
		},
		Required:             []string{"sessionId", "leadScore"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

const (
	statusSent    = "sent"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// internal/models/notification.go
package models

// HotLeadAlert is the SNS message body published for a hot lead.
type HotLeadAlert struct {
	LeadID     string  `json:"leadId,omitempty"`
	SessionID  string  `json:"sessionId"`
	Email      string  `json:"email,omitempty"`
	Company    string  `json:"company,omitempty"`
	LeadScore  int     `json:"leadScore"`
	ModelScore float64 `json:"modelScore"`
	Threshold  int     `json:"threshold"`
	BudgetBand string  `json:"budgetBand"`
	Urgency    string  `json:"urgency"`
	Authority  string  `json:"authority"`
	DetectedAt string  `json:"detectedAt"`
}

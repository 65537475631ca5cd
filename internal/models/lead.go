// internal/models/lead.go
package models

import (
	"time"

	"bizplan-workers/internal/leads"
)

// LeadRecord is one persisted extraction for a chat session. LeadScore is
// the rule-based score; ModelScore is what the model reported.
type LeadRecord struct {
	ID         string               `json:"id"`
	SessionID  string               `json:"sessionId"`
	Email      string               `json:"email,omitempty"`
	Company    string               `json:"company,omitempty"`
	Signals    leads.LeadSignals    `json:"signals"`
	LeadScore  int                  `json:"leadScore"`
	ModelScore float64              `json:"modelScore"`
	Breakdown  leads.ScoreBreakdown `json:"breakdown"`
	Model      string               `json:"model,omitempty"`
	Attempts   int                  `json:"attempts,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// IsHot reports whether the record meets the alert threshold.
func (r *LeadRecord) IsHot(threshold int) bool {
	return r.LeadScore >= threshold
}

// internal/leads/scorer.go
package leads

const (
	pointsOwnerPartner     = 20
	pointsBudgetMid        = 15
	pointsBudgetHigh       = 30
	pointsUrgent           = 15
	pointsReadinessMedium  = 10
	pointsReadinessHigh    = 20
	pointsStackMature      = 10
	pointsResearchCoverage = 5

	researchCoverageThreshold = 60

	minLeadScore = 0
	maxLeadScore = 100
)

// ScoreBreakdown is the per-rule contribution to a lead score.
type ScoreBreakdown struct {
	Authority        int `json:"authority"`
	Budget           int `json:"budget"`
	Urgency          int `json:"urgency"`
	DataReadiness    int `json:"dataReadiness"`
	StackMaturity    int `json:"stackMaturity"`
	ResearchCoverage int `json:"researchCoverage"`
}

// Total is the unclamped sum.
func (b ScoreBreakdown) Total() int {
	return b.Authority + b.Budget + b.Urgency + b.DataReadiness + b.StackMaturity + b.ResearchCoverage
}

func Breakdown(s *LeadSignals) ScoreBreakdown {
	var b ScoreBreakdown
	if s == nil {
		return b
	}

	if s.Authority == AuthorityOwnerPartner {
		b.Authority = pointsOwnerPartner
	}

	switch s.BudgetBand {
	case Budget5kTo20k:
		b.Budget = pointsBudgetMid
	case Budget20kTo50k, BudgetOver50k:
		b.Budget = pointsBudgetHigh
	}

	switch s.Urgency {
	case UrgencyNow, UrgencySoon:
		b.Urgency = pointsUrgent
	}

	switch s.DataReadiness {
	case ReadinessMedium:
		b.DataReadiness = pointsReadinessMedium
	case ReadinessHigh:
		b.DataReadiness = pointsReadinessHigh
	}

	switch s.StackMaturity {
	case StackBasicSaaS, StackIntegrated:
		b.StackMaturity = pointsStackMature
	}

	coverage := 0.0
	if s.ResearchCoverage != nil {
		coverage = *s.ResearchCoverage
	}
	if coverage >= researchCoverageThreshold {
		b.ResearchCoverage = pointsResearchCoverage
	}

	return b
}

// ComputeLeadScore is the rule-based 0-100 score. It is independent of
// the model's own Score field.
func ComputeLeadScore(s *LeadSignals) int {
	return clamp(Breakdown(s).Total(), minLeadScore, maxLeadScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

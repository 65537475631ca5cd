// Package routing picks the generation model for a conversation phase and
// decides when a turn should escalate into a research step.
package routing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPhase is returned by ParsePhase for anything outside the three
// known phases.
var ErrUnknownPhase = errors.New("INVALID_PHASE")

type Phase string

const (
	PhaseIntake   Phase = "intake"
	PhasePlan     Phase = "plan"
	PhaseResearch Phase = "research"
)

// ParsePhase is the only way an untrusted string becomes a Phase.
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(strings.ToLower(strings.TrimSpace(s))); p {
	case PhaseIntake, PhasePlan, PhaseResearch:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}

// DocumentStats describes the documents gathered so far in a session.
type DocumentStats struct {
	Pages     int  `json:"pages"`
	Sources   int  `json:"sources"`
	Conflicts bool `json:"conflicts"`
}

type UserFlags struct {
	CostMode bool `json:"costMode"`
}

// ModelID names a generation model. It is never interpreted here.
type ModelID string

// Models is the set of configured identifiers. Fast is reserved and no
// branch selects it yet.
type Models struct {
	Default  ModelID
	Plan     ModelID
	CostMode ModelID
	Fast     ModelID
}

const (
	researchEscalationPages   = 40
	researchEscalationSources = 6

	researchTriggerPages   = 20
	researchTriggerSources = 3
)

var researchKeywords = []string{"competitor", "market review", "benchmark", "compare", "research"}

type Router struct {
	models Models
}

// NewRouter resolves the Plan and CostMode fallbacks once, so ChooseModel
// never has to.
func NewRouter(models Models) *Router {
	if models.Plan == "" {
		models.Plan = models.Default
	}
	if models.CostMode == "" {
		models.CostMode = models.Default
	}
	return &Router{models: models}
}

func (r *Router) Models() Models {
	return r.models
}

// ChooseModel maps a phase and document profile onto a model identifier.
// Intake never uses the plan model, even for heavy documents. An unknown
// phase panics; callers are expected to go through ParsePhase.
func (r *Router) ChooseModel(phase Phase, stats DocumentStats, flags UserFlags) ModelID {
	switch phase {
	case PhaseIntake:
		if flags.CostMode {
			return r.models.CostMode
		}
		return r.models.Default
	case PhasePlan:
		return r.models.Plan
	case PhaseResearch:
		if stats.Conflicts || stats.Pages > researchEscalationPages || stats.Sources > researchEscalationSources {
			return r.models.Plan
		}
		return r.models.Default
	default:
		panic(fmt.Sprintf("routing: unhandled phase %q", string(phase)))
	}
}

// ShouldTriggerResearch reports whether the query or the document profile
// calls for a research step.
func ShouldTriggerResearch(stats DocumentStats, userQuery string) bool {
	return len(ResearchReasons(stats, userQuery)) > 0
}

// ResearchReasons lists every condition that matched, in evaluation order:
// keywords, pages, sources, conflicts.
func ResearchReasons(stats DocumentStats, userQuery string) []string {
	var reasons []string

	q := strings.ToLower(userQuery)
	for _, kw := range researchKeywords {
		if strings.Contains(q, kw) {
			reasons = append(reasons, "keyword:"+kw)
		}
	}
	if stats.Pages > researchTriggerPages {
		reasons = append(reasons, fmt.Sprintf("pages>%d", researchTriggerPages))
	}
	if stats.Sources > researchTriggerSources {
		reasons = append(reasons, fmt.Sprintf("sources>%d", researchTriggerSources))
	}
	if stats.Conflicts {
		reasons = append(reasons, "conflicts")
	}
	return reasons
}

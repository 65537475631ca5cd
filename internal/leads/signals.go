// Package leads extracts lead-qualification signals from conversation text
// and turns them into a deterministic lead score.
package leads

import (
	"encoding/json"
	"fmt"
	"strings"

	"bizplan-workers/internal/common/validation"
)

type BudgetBand string

const (
	BudgetNotSpecified BudgetBand = "Not specified"
	BudgetUnder5k      BudgetBand = "<$5k"
	Budget5kTo20k      BudgetBand = "$5k–$20k"
	Budget20kTo50k     BudgetBand = "$20k–$50k"
	BudgetOver50k      BudgetBand = ">$50k"
)

type Authority string

const (
	AuthorityOwnerPartner Authority = "Owner/Partner"
	AuthorityDirectorPlus Authority = "Director+"
	AuthorityStaff        Authority = "Staff"
	AuthorityUnknown      Authority = "Unknown"
)

type Urgency string

const (
	UrgencyNow     Urgency = "Now (0–30d)"
	UrgencySoon    Urgency = "Soon (31–90d)"
	UrgencyLater   Urgency = "Later (90+d)"
	UrgencyUnknown Urgency = "Unknown"
)

type NeedClarity string

const (
	NeedClear       NeedClarity = "Clear"
	NeedVague       NeedClarity = "Vague"
	NeedExploratory NeedClarity = "Exploratory"
)

type DataReadiness string

const (
	ReadinessLow    DataReadiness = "Low"
	ReadinessMedium DataReadiness = "Medium"
	ReadinessHigh   DataReadiness = "High"
)

type StackMaturity string

const (
	StackManual     StackMaturity = "Manual/Spreadsheets"
	StackBasicSaaS  StackMaturity = "Basic SaaS"
	StackIntegrated StackMaturity = "Integrated"
	StackUnknown    StackMaturity = "Unknown"
)

type Complexity string

const (
	ComplexityLow  Complexity = "Low"
	ComplexityMed  Complexity = "Med"
	ComplexityHigh Complexity = "High"
)

var (
	BudgetBands     = []BudgetBand{BudgetNotSpecified, BudgetUnder5k, Budget5kTo20k, Budget20kTo50k, BudgetOver50k}
	Authorities     = []Authority{AuthorityOwnerPartner, AuthorityDirectorPlus, AuthorityStaff, AuthorityUnknown}
	Urgencies       = []Urgency{UrgencyNow, UrgencySoon, UrgencyLater, UrgencyUnknown}
	NeedClarities   = []NeedClarity{NeedClear, NeedVague, NeedExploratory}
	DataReadinesses = []DataReadiness{ReadinessLow, ReadinessMedium, ReadinessHigh}
	StackMaturities = []StackMaturity{StackManual, StackBasicSaaS, StackIntegrated, StackUnknown}
	Complexities    = []Complexity{ComplexityLow, ComplexityMed, ComplexityHigh}
)

// LeadSignals is a validated lead-qualification record. Score is the
// model's own estimate; the rule-based score comes from ComputeLeadScore.
type LeadSignals struct {
	BudgetBand    BudgetBand    `json:"budgetBand"`
	Authority     Authority     `json:"authority"`
	Urgency       Urgency       `json:"urgency"`
	NeedClarity   NeedClarity   `json:"needClarity"`
	DataReadiness DataReadiness `json:"dataReadiness"`
	StackMaturity StackMaturity `json:"stackMaturity"`
	Complexity    Complexity    `json:"complexity"`

	Geography        *string  `json:"geography,omitempty"`
	Industry         *string  `json:"industry,omitempty"`
	WebsiteFound     *bool    `json:"websiteFound,omitempty"`
	DocsCount        *float64 `json:"docsCount,omitempty"`
	ResearchCoverage *float64 `json:"researchCoverage,omitempty"`

	Score float64 `json:"score"`
}

// SignalsSchema is the JSON Schema for LeadSignals. The same document is
// sent to the model as a guided-decoding constraint and used locally.
func SignalsSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"budgetBand":    {Type: "string", Enum: enumValues(BudgetBands)},
			"authority":     {Type: "string", Enum: enumValues(Authorities)},
			"urgency":       {Type: "string", Enum: enumValues(Urgencies)},
			"needClarity":   {Type: "string", Enum: enumValues(NeedClarities)},
			"dataReadiness": {Type: "string", Enum: enumValues(DataReadinesses)},
			"stackMaturity": {Type: "string", Enum: enumValues(StackMaturities)},
			"complexity":    {Type: "string", Enum: enumValues(Complexities)},
			"geography":     {Type: "string", Nullable: true},
			"industry":      {Type: "string", Nullable: true},
			"websiteFound":  {Type: "boolean", Nullable: true},
			"docsCount": {
				Type:     "number",
				Nullable: true,
				Minimum:  validation.Float64Ptr(0),
			},
			"researchCoverage": {
				Type:     "number",
				Nullable: true,
				Minimum:  validation.Float64Ptr(0),
				Maximum:  validation.Float64Ptr(100),
			},
			"score": {
				Type:        "number",
				Description: "model estimate of lead quality",
				Minimum:     validation.Float64Ptr(0),
				Maximum:     validation.Float64Ptr(100),
			},
		},
		Required: []string{
			"budgetBand", "authority", "urgency", "needClarity",
			"dataReadiness", "stackMaturity", "complexity", "score",
		},
		AdditionalProperties: false,
	}
}

var signalsValidator = validation.MustCompile(SignalsSchema())

// SchemaError lists every reason a document is not a valid LeadSignals.
type SchemaError struct {
	Violations []validation.ValidationError
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "lead signals invalid: " + strings.Join(parts, "; ")
}

// ParseSignals validates raw against SignalsSchema and decodes it. A
// record is either fully valid or rejected; there is no partial result.
func ParseSignals(raw []byte) (*LeadSignals, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, &SchemaError{Violations: []validation.ValidationError{{
			Field:   "(root)",
			Message: "empty document",
			Code:    "MALFORMED_JSON",
		}}}
	}

	result, err := signalsValidator.ValidateJSON([]byte(trimmed))
	if err != nil {
		return nil, &SchemaError{Violations: []validation.ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "MALFORMED_JSON",
		}}}
	}
	if !result.Valid {
		return nil, &SchemaError{Violations: result.Errors}
	}

	var signals LeadSignals
	if err := json.Unmarshal([]byte(trimmed), &signals); err != nil {
		return nil, &SchemaError{Violations: []validation.ValidationError{{
			Field:   "(root)",
			Message: err.Error(),
			Code:    "DECODE_FAILED",
		}}}
	}
	return &signals, nil
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

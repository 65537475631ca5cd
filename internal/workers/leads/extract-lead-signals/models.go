// internal/workers/leads/extract-lead-signals/models.go
package extractleadsignals

import (
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/leads"
)

// Input is the extraction context plus an optional model override.
// DocsCount shadows the embedded field so integral numbers such as 2.0,
// which the schema accepts as integers, still decode.
type Input struct {
	leads.ExtractionInput
	DocsCount *float64 `json:"docsCount,omitempty"`
	Model     string   `json:"model,omitempty"`
}

// extractionInput folds the shadowed docsCount back into the core input.
func (in *Input) extractionInput() leads.ExtractionInput {
	out := in.ExtractionInput
	if in.DocsCount != nil {
		n := int(*in.DocsCount)
		out.DocsCount = &n
	}
	return out
}

type Output struct {
	LeadSignals *leads.LeadSignals `json:"leadSignals"`
	ModelScore  float64            `json:"modelScore"`
	Attempts    int                `json:"attempts"`
	Model       string             `json:"extractionModel"`
}

func GetInputSchema() validation.JSONSchema {
	nullableString := validation.Property{Type: "string", Nullable: true}
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"transcript":       {Type: "string", MinLength: validation.IntPtr(1)},
			"contextSummary":   nullableString,
			"websiteSummary":   nullableString,
			"financialSummary": nullableString,
			"researchBrief":    nullableString,
			"docsCount":        {Type: "integer", Nullable: true, Minimum: validation.Float64Ptr(0)},
			"websiteFound":     {Type: "boolean", Nullable: true},
			"researchCoverage": {Type: "number", Nullable: true, Minimum: validation.Float64Ptr(0), Maximum: validation.Float64Ptr(100)},
			"model":            nullableString,
		},
		Required:             []string{"transcript"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

// internal/workers/routing/check-research-trigger/models.go
package checkresearchtrigger

import (
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/routing"
)

type Input struct {
	DocStats  routing.DocumentStats `json:"docStats"`
	UserQuery string                `json:"userQuery"`
}

type Output struct {
	TriggerResearch bool     `json:"triggerResearch"`
	Reasons         []string `json:"reasons"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"userQuery": {Type: "string"},
			"docStats": {
				Type: "object",
				Properties: map[string]validation.Property{
					"pages":     {Type: "integer", Minimum: validation.Float64Ptr(0)},
					"sources":   {Type: "integer", Minimum: validation.Float64Ptr(0)},
					"conflicts": {Type: "boolean"},
				},
			},
		},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

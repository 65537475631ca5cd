// internal/workers/routing/choose-model/models.go
package choosemodel

import (
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/internal/routing"
)

type Input struct {
	Phase     string                `json:"phase"`
	DocStats  routing.DocumentStats `json:"docStats"`
	UserFlags routing.UserFlags     `json:"userFlags"`
}

type Output struct {
	Model string `json:"model"`
	Phase string `json:"phase"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"phase": {Type: "string", Description: "intake, plan or research"},
			"docStats": {
				Type: "object",
				Properties: map[string]validation.Property{
					"pages":     {Type: "integer", Minimum: validation.Float64Ptr(0)},
					"sources":   {Type: "integer", Minimum: validation.Float64Ptr(0)},
					"conflicts": {Type: "boolean"},
				},
			},
			"userFlags": {
				Type: "object",
				Properties: map[string]validation.Property{
					"costMode": {Type: "boolean"},
				},
			},
		},
		Required:             []string{"phase"},
		AdditionalProperties: true,
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())

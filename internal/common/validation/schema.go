// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas.
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Nullable    bool                `json:"-"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Map renders the schema as a plain JSON Schema document. The result is
// what gets handed to gojsonschema and to remote guided-generation APIs.
func (s JSONSchema) Map() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Properties))
	for name, p := range s.Properties {
		props[name] = p.Map()
	}
	out := map[string]interface{}{
		"type":                 s.Type,
		"properties":           props,
		"additionalProperties": s.AdditionalProperties,
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	return out
}

func (p Property) Map() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Nullable {
		out["type"] = []string{p.Type, "null"}
	} else {
		out["type"] = p.Type
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Minimum != nil {
		out["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		out["maximum"] = *p.Maximum
	}
	if len(p.Enum) > 0 {
		out["enum"] = append([]string(nil), p.Enum...)
	}
	if p.Pattern != nil {
		out["pattern"] = *p.Pattern
	}
	if p.MinLength != nil {
		out["minLength"] = *p.MinLength
	}
	if p.MaxLength != nil {
		out["maxLength"] = *p.MaxLength
	}
	if p.Items != nil {
		out["items"] = p.Items.Map()
	}
	if len(p.Properties) > 0 {
		nested := make(map[string]interface{}, len(p.Properties))
		for name, np := range p.Properties {
			nested[name] = np.Map()
		}
		out["properties"] = nested
	}
	if len(p.Required) > 0 {
		out["required"] = append([]string(nil), p.Required...)
	}
	return out
}

// Validator is a compiled schema, safe for concurrent use.
type Validator struct {
	schema *gojsonschema.Schema
}

func Compile(schema JSONSchema) (*Validator, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema.Map()))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// MustCompile is Compile for package-level schemas known at build time.
func MustCompile(schema JSONSchema) *Validator {
	v, err := Compile(schema)
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateJSON validates a raw JSON document. A document that is not
// syntactically valid JSON is reported as an error, not a result.
func (v *Validator) ValidateJSON(raw []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}
	return toValidationResult(result), nil
}

func (v *Validator) ValidateMap(input map[string]interface{}) *ValidationResult {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_DOCUMENT",
			}},
		}
	}
	return toValidationResult(result)
}

// ValidateInput validates job variables against a schema with detailed errors.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	v, err := Compile(schema)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(schema)",
				Message: err.Error(),
				Code:    "INVALID_SCHEMA",
			}},
		}
	}
	return v.ValidateMap(input)
}

func toValidationResult(result *gojsonschema.Result) *ValidationResult {
	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}
	return &ValidationResult{Valid: false, Errors: errs}
}

// fieldName reports the offending property. Required and additional
// property errors are raised on the parent object, so the property name
// comes from the error details.
func fieldName(desc gojsonschema.ResultError) string {
	field := desc.Field()
	prop, ok := desc.Details()["property"].(string)
	if !ok || prop == "" {
		return field
	}
	if field == "" || field == "(root)" {
		return prop
	}
	if strings.HasSuffix(field, "."+prop) || field == prop {
		return field
	}
	return field + "." + prop
}

func errorCode(resultType string) string {
	switch resultType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	case "invalid_type":
		return "INVALID_TYPE"
	case "enum":
		return "INVALID_ENUM_VALUE"
	case "number_gte", "number_gt":
		return "MINIMUM_VIOLATION"
	case "number_lte", "number_lt":
		return "MAXIMUM_VIOLATION"
	case "string_gte":
		return "MIN_LENGTH_VIOLATION"
	case "string_lte":
		return "MAX_LENGTH_VIOLATION"
	case "pattern":
		return "PATTERN_MISMATCH"
	default:
		return strings.ToUpper(resultType)
	}
}

// GetErrorMessages returns formatted error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(fieldName string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == fieldName {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func IntPtr(i int) *int {
	return &i
}

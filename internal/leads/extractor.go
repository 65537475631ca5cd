// internal/leads/extractor.go
package leads

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bizplan-workers/internal/common/genai"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/routing"
)

const (
	extractionMaxTokens = 400

	extractionSystemPrompt = "You extract lead-qualification signals from a business-planning conversation " +
		"and its supporting documents. Output JSON only."
)

var (
	ErrTranscriptRequired = errors.New("transcript is required")
	ErrModelRequired      = errors.New("model is required")
)

// ExtractionInput is everything the model sees. Nil optional fields are
// shown to the model as null rather than left out.
type ExtractionInput struct {
	Transcript       string   `json:"transcript"`
	ContextSummary   *string  `json:"contextSummary,omitempty"`
	WebsiteSummary   *string  `json:"websiteSummary,omitempty"`
	FinancialSummary *string  `json:"financialSummary,omitempty"`
	ResearchBrief    *string  `json:"researchBrief,omitempty"`
	DocsCount        *int     `json:"docsCount,omitempty"`
	WebsiteFound     *bool    `json:"websiteFound,omitempty"`
	ResearchCoverage *float64 `json:"researchCoverage,omitempty"`
}

// Extraction is a successful extraction plus how it was obtained.
type Extraction struct {
	Signals    *LeadSignals
	Model      routing.ModelID
	Attempts   int
	RawContent string
}

// Extractor turns conversation text into LeadSignals through guided JSON
// generation. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	generator genai.ChatCompleter
	policy    RetryPolicy
	logger    logger.Logger
}

func NewExtractor(generator genai.ChatCompleter, log logger.Logger) *Extractor {
	return &Extractor{
		generator: generator,
		policy:    DefaultRetryPolicy(),
		logger:    log,
	}
}

func (e *Extractor) Extract(ctx context.Context, model routing.ModelID, input ExtractionInput) (*LeadSignals, error) {
	ext, err := e.ExtractDetailed(ctx, model, input)
	if err != nil {
		return nil, err
	}
	return ext.Signals, nil
}

// ExtractDetailed is Extract with the attempt count and raw model output.
func (e *Extractor) ExtractDetailed(ctx context.Context, model routing.ModelID, input ExtractionInput) (*Extraction, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, ErrTranscriptRequired
	}
	if model == "" {
		return nil, ErrModelRequired
	}

	messages := BuildMessages(input)
	schema := SignalsSchema().Map()

	var lastRaw string
	call := func(ctx context.Context, temperature float64) (string, error) {
		resp, err := e.generator.ChatCompletion(ctx, &genai.ChatRequest{
			Model:       string(model),
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   extractionMaxTokens,
			NVExt:       &genai.NVExt{GuidedJSON: schema},
		})
		if err != nil {
			return "", err
		}
		lastRaw = resp.Content
		return resp.Content, nil
	}
	parse := func(raw string) (*LeadSignals, error) {
		return ParseSignals([]byte(raw))
	}

	policy := e.policy
	policy.OnInvalid = func(attempt int, raw string, err error) {
		e.logger.Warn("lead signals rejected", map[string]interface{}{
			"model":   string(model),
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	signals, attempts, err := RetryOnInvalid(ctx, policy, call, parse)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("lead signals extracted", map[string]interface{}{
		"model":    string(model),
		"attempts": attempts,
	})

	return &Extraction{
		Signals:    signals,
		Model:      model,
		Attempts:   attempts,
		RawContent: lastRaw,
	}, nil
}

// BuildMessages renders the fixed system instruction and the user prompt.
func BuildMessages(input ExtractionInput) []genai.Message {
	return []genai.Message{
		{Role: genai.RoleSystem, Content: extractionSystemPrompt},
		{Role: genai.RoleUser, Content: buildUserPrompt(input)},
	}
}

func buildUserPrompt(input ExtractionInput) string {
	var b strings.Builder

	b.WriteString("Extract lead-qualification signals from the material below.\n\n")
	b.WriteString("Conversation transcript:\n")
	b.WriteString(strings.TrimSpace(input.Transcript))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Context summary: %s\n", optString(input.ContextSummary))
	fmt.Fprintf(&b, "Website analysis: %s\n", optString(input.WebsiteSummary))
	fmt.Fprintf(&b, "Financial analysis: %s\n", optString(input.FinancialSummary))
	fmt.Fprintf(&b, "Research brief: %s\n", optString(input.ResearchBrief))
	fmt.Fprintf(&b, "Documents uploaded: %s\n", optInt(input.DocsCount))
	fmt.Fprintf(&b, "Website found: %s\n", optBool(input.WebsiteFound))
	fmt.Fprintf(&b, "Research coverage (%%): %s\n", optFloat(input.ResearchCoverage))

	b.WriteString("\nRules:\n")
	b.WriteString(`- Use "Unknown" or "Not specified" when the information is missing.` + "\n")
	b.WriteString("- Return only the JSON object. No additional keys, no commentary.\n")

	return b.String()
}

const nullLiteral = "null"

func optString(s *string) string {
	if s == nil {
		return nullLiteral
	}
	return *s
}

func optInt(i *int) string {
	if i == nil {
		return nullLiteral
	}
	return strconv.Itoa(*i)
}

func optBool(v *bool) string {
	if v == nil {
		return nullLiteral
	}
	return strconv.FormatBool(*v)
}

func optFloat(f *float64) string {
	if f == nil {
		return nullLiteral
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

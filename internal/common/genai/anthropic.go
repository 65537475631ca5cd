// internal/common/genai/anthropic.go
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
}

// AnthropicClient serves ChatCompletion through the Messages API. There is
// no guided decoding, so a GuidedJSON schema is appended to the system
// prompt and the caller still validates the output.
type AnthropicClient struct {
	client sdk.Client
}

func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicClient{client: sdk.NewClient(opts...)}
}

func (c *AnthropicClient) ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: sdk.Float(req.Temperature),
	}

	var system []string
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}

	if req.NVExt != nil && len(req.NVExt.GuidedJSON) > 0 {
		schema, err := json.Marshal(req.NVExt.GuidedJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: encode schema: %v", ErrRequestFailed, err)
		}
		system = append(system, "Respond with a single JSON object that validates against this JSON Schema:\n"+string(schema))
	}
	if len(system) > 0 {
		params.System = []sdk.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: anthropic: %v", ErrRequestFailed, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &ChatResponse{
		ID:           msg.ID,
		Model:        string(msg.Model),
		Content:      text.String(),
		FinishReason: string(msg.StopReason),
		Usage: Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}

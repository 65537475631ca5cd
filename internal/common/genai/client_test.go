// internal/common/genai/client_test.go
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "cmpl-1",
		"model": "meta/llama-3.1-70b-instruct",
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{"prompt_tokens": 12, "completion_tokens": 30, "total_tokens": 42},
	}
}

// ==========================
// Chat completions client
// ==========================

func TestClient_ChatCompletion_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer nim-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "meta/llama-3.1-70b-instruct", body["model"])
		assert.Equal(t, float64(0), body["temperature"])
		assert.Equal(t, float64(400), body["max_tokens"])

		nvext, ok := body["nvext"].(map[string]interface{})
		require.True(t, ok, "nvext must be sent")
		guided, ok := nvext["guided_json"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "object", guided["type"])

		msgs := body["messages"].([]interface{})
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionBody(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIKey: "nim-key", Timeout: 5 * time.Second})
	resp, err := client.ChatCompletion(context.Background(), &ChatRequest{
		Model: "meta/llama-3.1-70b-instruct",
		Messages: []Message{
			{Role: RoleSystem, Content: "system"},
			{Role: RoleUser, Content: "user"},
		},
		Temperature: 0.0,
		MaxTokens:   400,
		NVExt:       &NVExt{GuidedJSON: map[string]interface{}{"type": "object"}},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 42, resp.Usage.TotalTokens)
}

func TestClient_ChatCompletion_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(completionBody("done"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 2, Timeout: 5 * time.Second})
	resp, err := client.ChatCompletion(context.Background(), &ChatRequest{Model: "m"})

	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ChatCompletion_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad schema"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, MaxRetries: 3, Timeout: 5 * time.Second})
	_, err := client.ChatCompletion(context.Background(), &ChatRequest{Model: "m"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ChatCompletion_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), &ChatRequest{Model: "m"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestClient_ChatCompletion_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond, MaxRetries: 2})
	_, err := client.ChatCompletion(context.Background(), &ChatRequest{Model: "m"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

// ==========================
// Anthropic backend
// ==========================

func TestAnthropicClient_ChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/messages")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-haiku-4-5-20251001", body["model"])
		assert.Equal(t, float64(400), body["max_tokens"])
		assert.Equal(t, 0.1, body["temperature"])

		system := body["system"].([]interface{})
		require.Len(t, system, 1)
		text := system[0].(map[string]interface{})["text"].(string)
		assert.Contains(t, text, "extract signals")
		assert.Contains(t, text, "JSON Schema")
		assert.Contains(t, text, `"additionalProperties":false`)

		msgs := body["messages"].([]interface{})
		require.Len(t, msgs, 1)
		assert.Equal(t, "user", msgs[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":   "msg_1",
			"type": "message",
			"role": "assistant",
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"score":50}`},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage":       map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer server.Close()

	client := NewAnthropicClient(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	resp, err := client.ChatCompletion(context.Background(), &ChatRequest{
		Model: "claude-haiku-4-5-20251001",
		Messages: []Message{
			{Role: RoleSystem, Content: "extract signals"},
			{Role: RoleUser, Content: "transcript"},
		},
		Temperature: 0.1,
		MaxTokens:   400,
		NVExt: &NVExt{GuidedJSON: map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"score":50}`, resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestAnthropicClient_ChatCompletion_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), &ChatRequest{Model: "m", MaxTokens: 10})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

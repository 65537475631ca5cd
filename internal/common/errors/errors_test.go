// internal/common/errors/errors_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Normalize
// ==========================

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{
			name:     "standard error passes through",
			err:      NewLeadNotFoundError("sess-1"),
			wantCode: ErrCodeLeadNotFound,
		},
		{
			name:     "wrapped standard error is unwrapped",
			err:      fmt.Errorf("save: %w", NewDatabaseInsertFailedError(stderrors.New("conn reset"))),
			wantCode: ErrCodeDatabaseInsertFailed,
		},
		{
			name:     "deadline becomes timeout",
			err:      fmt.Errorf("call: %w", context.DeadlineExceeded),
			wantCode: "TIMEOUT_ERROR",
		},
		{
			name:     "plain error is internal",
			err:      stderrors.New("boom"),
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, Normalize(tt.err).Code)
		})
	}
}

// ==========================
// BPMN conversion
// ==========================

func TestConvertToBPMNError_Retries(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantRetries int
	}{
		{"invalid input throws", NewInvalidJobInputError("missing transcript"), 0},
		{"invalid signals throws", NewLeadSignalsInvalidError(stderrors.New("bad enum")), 0},
		{"crm not configured throws", NewCRMNotConfiguredError(), 0},
		{"db insert retries", NewDatabaseInsertFailedError(stderrors.New("conn reset")), 3},
		{"genai timeout retries twice", NewGenAITimeoutError(context.DeadlineExceeded), 2},
		{"sns publish retries", NewNotificationSendFailedError("sns", stderrors.New("throttled")), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, string(tt.err.Code), bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewLeadSignalsInvalidError(stderrors.New("score out of range")).
		WithMetadata("model", "fast-model").
		WithMetadata("attempts", 2)

	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "LEAD_SIGNALS_INVALID", vars["errorCode"])
	assert.Equal(t, "LEAD_SIGNALS_INVALID", vars["originalErrorCode"])
	assert.Equal(t, "fast-model", vars["model"])
	assert.Equal(t, 2, vars["attempts"])
	assert.Equal(t, false, vars["retryable"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeGenAITimeout))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLeadSignalsInvalid))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeLeadNotFound))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "CRM", GetErrorCategory(ErrCodeCRMNotConfigured))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidPhase))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

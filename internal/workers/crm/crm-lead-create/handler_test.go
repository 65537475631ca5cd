// internal/workers/crm/crm-lead-create/handler_test.go
package crmleadcreate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/zoho"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signalsJSON = `{
	"budgetBand": "$5k–$20k",
	"authority": "Owner/Partner",
	"urgency": "Soon (31–90d)",
	"needClarity": "Clear",
	"dataReadiness": "Medium",
	"stackMaturity": "Basic SaaS",
	"complexity": "Med",
	"geography": "Canada",
	"industry": "Food & Beverage",
	"score": 67.6
}`

func createTestInput() *Input {
	return &Input{
		LeadID:      "lead-11",
		SessionID:   "sess-11",
		Email:       "owner@bakery.example",
		Company:     "Bakery Co",
		LeadSignals: []byte(signalsJSON),
	}
}

// ==========================
// Test Helper Functions
// ==========================

// newZohoServer records the single lead posted to /Leads into *received.
func newZohoServer(t *testing.T, received *map[string]interface{}) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Leads", r.URL.Path)
		var payload struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		*received = payload.Data[0]

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"990001"},"status":"success"}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	var received map[string]interface{}
	server := newZohoServer(t, &received)

	h := NewHandler(LoadConfig(&config.Config{}), zoho.NewCRMClient(server.URL, "tok"), logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.Equal(t, "990001", out.CRMLeadID)

	assert.Equal(t, "Bakery Co", received["Last_Name"])
	assert.Equal(t, float64(70), received["Lead_Score"])
	assert.Equal(t, float64(68), received["Model_Score"])
	assert.Equal(t, "Canada", received["Country"])
	assert.Equal(t, "Food & Beverage", received["Industry"])
	assert.Equal(t, "sess-11", received["Session_ID"])
}

func TestHandler_ExecuteIgnoresSuppliedLeadScore(t *testing.T) {
	var received map[string]interface{}
	server := newZohoServer(t, &received)

	variables := `{"sessionId":"sess-11","company":"Bakery Co","leadScore":99,"leadSignals":` + signalsJSON + `}`
	var input Input
	require.NoError(t, camunda.ParseVariables(variables, inputValidator, &input))

	h := NewHandler(LoadConfig(&config.Config{}), zoho.NewCRMClient(server.URL, "tok"), logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &input)
	require.NoError(t, err)

	assert.Equal(t, float64(70), received["Lead_Score"])
}

func TestHandler_ExecuteErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"INVALID_TOKEN"}`))
	}))
	defer failing.Close()

	tests := []struct {
		name     string
		crm      LeadCreator
		input    *Input
		wantCode errors.ErrorCode
	}{
		{name: "no token", crm: zoho.NewCRMClient("", ""), input: createTestInput(), wantCode: errors.ErrCodeCRMNotConfigured},
		{name: "nil client", crm: nil, input: createTestInput(), wantCode: errors.ErrCodeCRMNotConfigured},
		{name: "zoho rejects", crm: zoho.NewCRMClient(failing.URL, "expired"), input: createTestInput(), wantCode: errors.ErrCodeCRMSyncFailed},
		{
			name:     "invalid signals",
			crm:      zoho.NewCRMClient(failing.URL, "tok"),
			input:    &Input{SessionID: "s", LeadSignals: []byte(`{}`)},
			wantCode: errors.ErrCodeLeadSignalsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(&config.Config{}), tt.crm, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), tt.input)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestLastName(t *testing.T) {
	assert.Equal(t, "Ng", lastName(&Input{LastName: "Ng", Company: "Co"}))
	assert.Equal(t, "Co", lastName(&Input{Company: "Co", Email: "a@b"}))
	assert.Equal(t, "a@b", lastName(&Input{Email: "a@b"}))
	assert.Equal(t, "Session s-1", lastName(&Input{SessionID: "s-1"}))
}

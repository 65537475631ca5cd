// internal/workers/leads/index-lead-signals/handler_test.go
package indexleadsignals

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/database"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signalsJSON = `{
	"budgetBand": "$20k–$50k",
	"authority": "Owner/Partner",
	"urgency": "Now (0–30d)",
	"needClarity": "Clear",
	"dataReadiness": "Low",
	"stackMaturity": "Manual/Spreadsheets",
	"complexity": "Low",
	"industry": "Retail",
	"score": 77
}`

func setupElasticsearch(t *testing.T, handler http.HandlerFunc) *database.ElasticsearchClient {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: server.URL})
	require.NoError(t, err)
	return es
}

func TestHandler_Execute(t *testing.T) {
	var indexed LeadDocument
	es := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/leads-test/_doc/lead-3", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&indexed))
		_, _ = w.Write([]byte(`{"_index":"leads-test","_id":"lead-3","result":"created"}`))
	})

	appCfg := &config.Config{}
	appCfg.Leads.IndexName = "leads-test"
	h := NewHandler(LoadConfig(appCfg), es, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		LeadID:      "lead-3",
		SessionID:   "sess-3",
		Company:     "Corner Shop",
		LeadSignals: []byte(signalsJSON),
	})
	require.NoError(t, err)

	assert.True(t, out.Indexed)
	assert.Equal(t, "created", out.IndexResult)
	assert.Equal(t, "$20k–$50k", indexed.BudgetBand)
	// 20 owner + 30 budget + 15 urgency
	assert.Equal(t, 65, indexed.LeadScore)
	require.NotNil(t, indexed.Industry)
	assert.Equal(t, "Retail", *indexed.Industry)
}

func TestHandler_ExecuteIndexError(t *testing.T) {
	es := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception"}}`))
	})

	h := NewHandler(LoadConfig(&config.Config{}), es, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{LeadID: "lead-3", SessionID: "sess-3", LeadSignals: []byte(signalsJSON)})

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeSearchIndexFailed, stdErr.Code)
}

// internal/workers/leads/save-lead-record/handler_test.go
package saveleadrecord

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const signalsJSON = `{
	"budgetBand": ">$50k",
	"authority": "Director+",
	"urgency": "Later (90+d)",
	"needClarity": "Vague",
	"dataReadiness": "High",
	"stackMaturity": "Integrated",
	"complexity": "High",
	"score": 55
}`

func setupMockDB(t *testing.T) (*store.PostgresLeadStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.NewPostgresLeadStore(db), mock
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func createTestInput() *Input {
	return &Input{
		SessionID:   "sess-9",
		Email:       "cfo@example.com",
		LeadSignals: []byte(signalsJSON),
		Model:       "default-model",
		Attempts:    1,
	}
}

// ==========================
// Execute
// ==========================

func TestHandler_ExecuteSavesAndCaches(t *testing.T) {
	pg, mock := setupMockDB(t)
	mr, rdb := setupRedis(t)
	log := logger.NewTestLogger(t)
	cached := store.NewCachedLeadStore(pg, rdb, time.Minute, log)

	mock.ExpectExec(`INSERT INTO lead_signals`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	h := NewHandler(LoadConfig(&config.Config{}), cached, pg, log)
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	// 30 budget + 20 readiness + 10 stack
	assert.Equal(t, 60, out.LeadScore)
	assert.NotEmpty(t, out.LeadID)
	_, err = time.Parse(time.RFC3339, out.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, mr.Exists(store.LeadCacheKey("sess-9")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_ExecuteAuditFailureIsIgnored(t *testing.T) {
	pg, mock := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO lead_signals`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(stderrors.New("permission denied"))

	h := NewHandler(LoadConfig(&config.Config{}), pg, pg, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.LeadID)
}

func TestHandler_ExecuteErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		dbErr    error
		wantCode errors.ErrorCode
	}{
		{
			name:     "insert fails",
			input:    createTestInput(),
			dbErr:    stderrors.New("connection refused"),
			wantCode: errors.ErrCodeDatabaseInsertFailed,
		},
		{
			name: "invalid signals",
			input: &Input{
				SessionID:   "sess-9",
				LeadSignals: []byte(`{"score": 10}`),
			},
			wantCode: errors.ErrCodeLeadSignalsInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg, mock := setupMockDB(t)
			if tt.dbErr != nil {
				mock.ExpectExec(`INSERT INTO lead_signals`).WillReturnError(tt.dbErr)
			}

			h := NewHandler(LoadConfig(&config.Config{}), pg, nil, logger.NewTestLogger(t))
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

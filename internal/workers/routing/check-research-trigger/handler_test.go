// internal/workers/routing/check-research-trigger/handler_test.go
package checkresearchtrigger

import (
	"context"
	"encoding/json"
	"testing"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/routing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name        string
		input       Input
		wantTrigger bool
		wantReasons []string
	}{
		{
			name:        "quiet session",
			input:       Input{UserQuery: "help me price my cupcakes", DocStats: routing.DocumentStats{Pages: 20, Sources: 3}},
			wantTrigger: false,
			wantReasons: []string{},
		},
		{
			name:        "keyword",
			input:       Input{UserQuery: "Can you do a market review?"},
			wantTrigger: true,
			wantReasons: []string{"keyword:market review"},
		},
		{
			name:        "page and source thresholds",
			input:       Input{DocStats: routing.DocumentStats{Pages: 21, Sources: 4}},
			wantTrigger: true,
			wantReasons: []string{"pages>20", "sources>3"},
		},
		{
			name:        "conflicts",
			input:       Input{DocStats: routing.DocumentStats{Conflicts: true}},
			wantTrigger: true,
			wantReasons: []string{"conflicts"},
		},
	}

	h := NewHandler(LoadConfig(&config.Config{}), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrigger, out.TriggerResearch)
			assert.Equal(t, tt.wantReasons, out.Reasons)
		})
	}
}

func TestOutput_ReasonsNeverNull(t *testing.T) {
	h := NewHandler(LoadConfig(&config.Config{}), logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"triggerResearch":false,"reasons":[]}`, string(data))
}

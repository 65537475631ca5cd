// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestObservability_RecordsJobMetrics(t *testing.T) {
	registry := promclient.NewRegistry()
	obs, err := NewWithOptions(Options{ServiceName: "bizplan-workers-test", Registerer: registry})
	require.NoError(t, err)
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "compute-lead-score", "completed")
	obs.RecordJobDuration(ctx, "compute-lead-score", 25*time.Millisecond, "completed")

	families, err := registry.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "jobs_processed")
	assert.Contains(t, joined, "jobs_duration")
}

func TestObservability_StartSpanWithoutTracer(t *testing.T) {
	obs, err := NewWithOptions(Options{ServiceName: "svc", Registerer: promclient.NewRegistry()})
	require.NoError(t, err)

	ctx, span := obs.StartSpan(context.Background(), "extract-lead-signals", attribute.Int64("jobKey", 1))
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End()

	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "noop")
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	obs.RecordJobProcessed(ctx, "t", "completed")
	obs.RecordJobDuration(ctx, "t", time.Second, "completed")
	assert.NoError(t, obs.Shutdown(ctx))
}

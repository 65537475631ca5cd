// internal/common/camunda/job_test.go
package camunda

import (
	stderrors "errors"
	"strings"
	"testing"

	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionSchema = validation.MustCompile(validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"sessionId": {Type: "string"},
	},
	Required:             []string{"sessionId"},
	AdditionalProperties: true,
})

type sessionInput struct {
	SessionID string `json:"sessionId"`
}

// ==========================
// ParseVariables
// ==========================

func TestParseVariables(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		wantErr   bool
		wantID    string
	}{
		{name: "valid", variables: `{"sessionId":"sess-1","other":true}`, wantID: "sess-1"},
		{name: "missing required", variables: `{"other":true}`, wantErr: true},
		{name: "wrong type", variables: `{"sessionId":42}`, wantErr: true},
		{name: "empty treated as object", variables: "  ", wantErr: true},
		{name: "malformed", variables: `{"sessionId":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in sessionInput
			err := ParseVariables(tt.variables, sessionSchema, &in)
			if tt.wantErr {
				require.Error(t, err)
				var stdErr *errors.StandardError
				require.True(t, stderrors.As(err, &stdErr))
				assert.Equal(t, errors.ErrCodeInvalidJobInput, stdErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, in.SessionID)
		})
	}
}

func TestParseVariables_NoSchema(t *testing.T) {
	var in sessionInput
	require.NoError(t, ParseVariables("", nil, &in))
	assert.Empty(t, in.SessionID)
}

// ==========================
// Instrument
// ==========================

func testJob() entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, ProcessInstanceKey: 2, Type: "choose-model"}}
}

func TestInstrument_NilObservability(t *testing.T) {
	calls := 0
	handler := JobHandlerFunc(func(worker.JobClient, entities.Job) { calls++ })

	wrapped := Instrument(handler, nil, "choose-model")
	wrapped.Handle(nil, testJob())

	assert.Equal(t, 1, calls)
}

// stubJobClient hands out nil commands; handlers under test only create them.
type stubJobClient struct {
	worker.JobClient
}

func (stubJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (stubJobClient) NewFailJobCommand() commands.FailJobCommandStep1 { return nil }
func (stubJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 { return nil }

// jobStatuses returns the status label of every jobs_processed series.
func jobStatuses(t *testing.T, registry *prometheus.Registry) []string {
	families, err := registry.Gather()
	require.NoError(t, err)

	var statuses []string
	for _, f := range families {
		if !strings.Contains(f.GetName(), "jobs_processed") {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" {
					statuses = append(statuses, label.GetValue())
				}
			}
		}
	}
	return statuses
}

func TestInstrument_RecordsOutcome(t *testing.T) {
	tests := []struct {
		name       string
		handle     func(client worker.JobClient)
		wantStatus string
	}{
		{name: "completed", handle: func(c worker.JobClient) { c.NewCompleteJobCommand() }, wantStatus: OutcomeSuccess},
		{name: "failed with retries", handle: func(c worker.JobClient) { c.NewFailJobCommand() }, wantStatus: OutcomeFailed},
		{name: "bpmn error thrown", handle: func(c worker.JobClient) { c.NewThrowErrorCommand() }, wantStatus: OutcomeFailed},
		{name: "nothing sent", handle: func(worker.JobClient) {}, wantStatus: OutcomeUnreported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := prometheus.NewRegistry()
			obs, err := observability.NewWithOptions(observability.Options{
				ServiceName: "instrument-test",
				Registerer:  registry,
			})
			require.NoError(t, err)

			handler := JobHandlerFunc(func(client worker.JobClient, _ entities.Job) { tt.handle(client) })
			Instrument(handler, obs, "choose-model").Handle(stubJobClient{}, testJob())

			assert.Equal(t, []string{tt.wantStatus}, jobStatuses(t, registry))
		})
	}
}

func TestInstrument_RecordsJob(t *testing.T) {
	obs, err := observability.NewWithOptions(observability.Options{
		ServiceName: "instrument-test",
		Registerer:  prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	var seen int64
	handler := JobHandlerFunc(func(_ worker.JobClient, job entities.Job) { seen = job.Key })

	Instrument(handler, obs, "choose-model").Handle(nil, testJob())

	assert.Equal(t, int64(1), seen)
}

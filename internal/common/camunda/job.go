// internal/common/camunda/job.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ParseVariables validates raw job variables against schema and decodes
// them into out. Any failure is an INVALID_JOB_INPUT error.
func ParseVariables(variables string, schema *validation.Validator, out interface{}) error {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	if schema != nil {
		result, err := schema.ValidateJSON([]byte(variables))
		if err != nil {
			return errors.NewInvalidJobInputError(err.Error())
		}
		if !result.Valid {
			return errors.NewInvalidJobInputError(strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidJobInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}

// Complete sends output as the job's result variables.
func Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return fmt.Errorf("send complete command: %w", err)
	}
	return nil
}

// JobHandlerFunc adapts a plain function to JobHandler.
type JobHandlerFunc func(client worker.JobClient, job entities.Job)

func (f JobHandlerFunc) Handle(client worker.JobClient, job entities.Job) {
	f(client, job)
}

// Job outcomes recorded by Instrument.
const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeUnreported = "unreported"
)

// outcomeClient records which terminal command a handler issued.
type outcomeClient struct {
	worker.JobClient
	outcome string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = OutcomeSuccess
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps handler in a span and records the job in the OTel
// meters, labelled with the outcome the handler reported to Zeebe. A nil
// obs returns handler unchanged.
func Instrument(handler JobHandler, obs *observability.Observability, taskType string) JobHandler {
	if obs == nil {
		return handler
	}
	return JobHandlerFunc(func(client worker.JobClient, job entities.Job) {
		ctx, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.String("zeebe.task_type", taskType),
			attribute.Int64("zeebe.job_key", job.Key),
			attribute.Int64("zeebe.process_instance_key", job.ProcessInstanceKey),
		)
		defer span.End()

		recorder := &outcomeClient{JobClient: client, outcome: OutcomeUnreported}
		start := time.Now()
		handler.Handle(recorder, job)

		if recorder.outcome == OutcomeSuccess {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, recorder.outcome)
		}
		obs.RecordJobProcessed(ctx, taskType, recorder.outcome)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), recorder.outcome)
	})
}

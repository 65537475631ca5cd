// internal/workers/leads/compute-lead-score/handler.go
package computeleadscore

import (
	"context"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/leads"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "compute-lead-score"

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.ParseVariables(job.Variables, inputValidator, &input); err != nil {
		timer.Failed(string(errors.ErrCodeInvalidJobInput))
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		timer.Failed(string(errors.Normalize(err).Code))
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.Complete(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err.Error()})
		timer.Failed(string(errors.ErrCodeInternal))
		return
	}
	timer.Completed()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	signals, err := leads.ParseSignals(input.LeadSignals)
	if err != nil {
		return nil, errors.NewLeadSignalsInvalidError(err)
	}

	breakdown := leads.Breakdown(signals)
	score := leads.ComputeLeadScore(signals)
	metrics.LeadScore.Observe(float64(score))

	output := &Output{
		LeadScore:  score,
		ModelScore: signals.Score,
		Breakdown:  breakdown,
		IsHotLead:  score >= h.config.HotLeadThreshold,
	}

	h.logger.Info("lead scored", map[string]interface{}{
		"leadScore":  output.LeadScore,
		"modelScore": output.ModelScore,
		"isHotLead":  output.IsHotLead,
	})
	return output, nil
}

// internal/workers/leads/fetch-lead-score/handler.go
package fetchleadscore

import (
	"context"
	stderrors "errors"
	"time"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "fetch-lead-score"

type Handler struct {
	config       *Config
	store        store.LeadStore
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, leadStore store.LeadStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		store:        leadStore,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	record, err := h.store.LatestLead(ctx, input.SessionID)
	if stderrors.Is(err, store.ErrLeadNotFound) {
		return nil, errors.NewLeadNotFoundError(input.SessionID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("latest_lead", err)
	}

	return &Output{
		LeadID:      record.ID,
		LeadScore:   record.LeadScore,
		ModelScore:  record.ModelScore,
		Breakdown:   record.Breakdown,
		LeadSignals: record.Signals,
		IsHotLead:   record.IsHot(h.config.HotLeadThreshold),
		ScoredAt:    record.CreatedAt.Format(time.RFC3339),
	}, nil
}

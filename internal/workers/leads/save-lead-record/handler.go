// internal/workers/leads/save-lead-record/handler.go
package saveleadrecord

import (
	"context"
	"time"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/leads"
	"bizplan-workers/internal/models"
	"bizplan-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "save-lead-record"

// Auditor records a change to a lead. Failures never fail the job.
type Auditor interface {
	RecordAudit(ctx context.Context, leadID, action string, details map[string]interface{}) error
}

type Handler struct {
	config       *Config
	store        store.LeadStore
	auditor      Auditor
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

// NewHandler accepts a nil auditor.
func NewHandler(cfg *Config, leadStore store.LeadStore, auditor Auditor, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		store:        leadStore,
		auditor:      auditor,
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
	signals, err := leads.ParseSignals(input.LeadSignals)
	if err != nil {
		return nil, errors.NewLeadSignalsInvalidError(err)
	}

	record := &models.LeadRecord{
		SessionID:  input.SessionID,
		Email:      input.Email,
		Company:    input.Company,
		Signals:    *signals,
		LeadScore:  leads.ComputeLeadScore(signals),
		ModelScore: signals.Score,
		Breakdown:  leads.Breakdown(signals),
		Model:      input.Model,
		Attempts:   input.Attempts,
	}

	if err := h.store.SaveLead(ctx, record); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	if h.auditor != nil {
		details := map[string]interface{}{
			"sessionId":  record.SessionID,
			"leadScore":  record.LeadScore,
			"modelScore": record.ModelScore,
		}
		if err := h.auditor.RecordAudit(ctx, record.ID, "lead_saved", details); err != nil {
			h.logger.Warn("audit log write failed", map[string]interface{}{
				"leadId": record.ID,
				"error":  err.Error(),
			})
		}
	}

	h.logger.Info("lead record saved", map[string]interface{}{
		"leadId":    record.ID,
		"sessionId": record.SessionID,
		"leadScore": record.LeadScore,
	})

	return &Output{
		LeadID:    record.ID,
		LeadScore: record.LeadScore,
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
	}, nil
}

// internal/workers/leads/index-lead-signals/handler.go
package indexleadsignals

import (
	"context"
	"time"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/leads"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "index-lead-signals"

// Indexer is satisfied by *database.ElasticsearchClient.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) (string, error)
}

type Handler struct {
	config       *Config
	indexer      Indexer
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		indexer:      indexer,
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

	doc := buildDocument(input, signals)
	result, err := h.indexer.IndexDocument(ctx, h.config.IndexName, input.LeadID, doc)
	if err != nil {
		return nil, errors.NewSearchIndexFailedError(h.config.IndexName, err)
	}

	h.logger.Info("lead indexed", map[string]interface{}{
		"leadId": input.LeadID,
		"index":  h.config.IndexName,
		"result": result,
	})

	return &Output{Indexed: true, IndexResult: result}, nil
}

func buildDocument(input *Input, signals *leads.LeadSignals) *LeadDocument {
	return &LeadDocument{
		LeadID:        input.LeadID,
		SessionID:     input.SessionID,
		Email:         input.Email,
		Company:       input.Company,
		BudgetBand:    string(signals.BudgetBand),
		Authority:     string(signals.Authority),
		Urgency:       string(signals.Urgency),
		NeedClarity:   string(signals.NeedClarity),
		DataReadiness: string(signals.DataReadiness),
		StackMaturity: string(signals.StackMaturity),
		Complexity:    string(signals.Complexity),
		Geography:     signals.Geography,
		Industry:      signals.Industry,
		LeadScore:     leads.ComputeLeadScore(signals),
		ModelScore:    signals.Score,
		Breakdown:     leads.Breakdown(signals),
		IndexedAt:     time.Now().UTC().Format(time.RFC3339),
		CreatedAt:     input.CreatedAt,
	}
}

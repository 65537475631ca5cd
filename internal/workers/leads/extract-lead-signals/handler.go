// internal/workers/leads/extract-lead-signals/handler.go
package extractleadsignals

import (
	"context"
	stderrors "errors"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/genai"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/leads"
	"bizplan-workers/internal/routing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "extract-lead-signals"

// SignalExtractor is satisfied by *leads.Extractor.
type SignalExtractor interface {
	ExtractDetailed(ctx context.Context, model routing.ModelID, input leads.ExtractionInput) (*leads.Extraction, error)
}

type Handler struct {
	config       *Config
	extractor    SignalExtractor
	router       *routing.Router
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, extractor SignalExtractor, router *routing.Router, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		extractor:    extractor,
		router:       router,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.Key,
		"processInstanceKey": job.ProcessInstanceKey,
	})

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
	model := routing.ModelID(input.Model)
	if model == "" {
		model = h.router.ChooseModel(routing.PhaseIntake, routing.DocumentStats{}, routing.UserFlags{})
	}

	extraction, err := h.extractor.ExtractDetailed(ctx, model, input.extractionInput())
	if err != nil {
		return nil, h.classify(err, model)
	}

	metrics.LeadExtractionAttempts.WithLabelValues(metrics.OutcomeValid).Inc()
	if extraction.Attempts > 1 {
		metrics.LeadExtractionRetries.Inc()
	}

	h.logger.Info("lead signals extracted", map[string]interface{}{
		"model":      string(extraction.Model),
		"attempts":   extraction.Attempts,
		"budgetBand": string(extraction.Signals.BudgetBand),
		"urgency":    string(extraction.Signals.Urgency),
	})

	return &Output{
		LeadSignals: extraction.Signals,
		ModelScore:  extraction.Signals.Score,
		Attempts:    extraction.Attempts,
		Model:       string(extraction.Model),
	}, nil
}

func (h *Handler) classify(err error, model routing.ModelID) error {
	switch {
	case stderrors.Is(err, leads.ErrInvalidOutput):
		metrics.LeadExtractionAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
		stdErr := errors.NewLeadSignalsInvalidError(err).WithMetadata("model", string(model))
		var invalid *leads.InvalidOutputError
		if stderrors.As(err, &invalid) {
			stdErr.WithMetadata("attempts", invalid.Attempts)
		}
		return stdErr
	case stderrors.Is(err, leads.ErrTranscriptRequired), stderrors.Is(err, leads.ErrModelRequired):
		return errors.NewInvalidJobInputError(err.Error())
	case stderrors.Is(err, genai.ErrTimeout), stderrors.Is(err, context.DeadlineExceeded):
		metrics.LeadExtractionAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		return errors.NewGenAITimeoutError(err)
	default:
		metrics.LeadExtractionAttempts.WithLabelValues(metrics.OutcomeError).Inc()
		return errors.NewGenAIRequestFailedError(err)
	}
}

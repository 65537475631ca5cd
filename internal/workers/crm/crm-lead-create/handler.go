// internal/workers/crm/crm-lead-create/handler.go
package crmleadcreate

import (
	"context"
	"fmt"
	"math"

	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/common/zoho"
	"bizplan-workers/internal/leads"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "crm-lead-create"

// LeadCreator is satisfied by *zoho.CRMClient.
type LeadCreator interface {
	Configured() bool
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
}

type Handler struct {
	config       *Config
	crm          LeadCreator
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(cfg *Config, crm LeadCreator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		crm:          crm,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing CRM lead create", map[string]interface{}{
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
	if h.crm == nil || !h.crm.Configured() {
		return nil, errors.NewCRMNotConfiguredError()
	}

	signals, err := leads.ParseSignals(input.LeadSignals)
	if err != nil {
		return nil, errors.NewLeadSignalsInvalidError(err)
	}

	lead := h.buildLead(input, signals)
	id, err := h.crm.CreateLead(ctx, lead)
	if err != nil {
		return nil, errors.NewCRMSyncFailedError(err)
	}

	h.logger.Info("CRM lead created", map[string]interface{}{
		"sessionId": input.SessionID,
		"crmLeadId": id,
		"leadScore": lead.LeadScore,
	})

	return &Output{Created: true, CRMLeadID: id}, nil
}

func (h *Handler) buildLead(input *Input, signals *leads.LeadSignals) *zoho.Lead {
	lead := &zoho.Lead{
		LastName:      lastName(input),
		Company:       input.Company,
		Email:         input.Email,
		LeadSource:    h.config.LeadSource,
		LeadScore:     leads.ComputeLeadScore(signals),
		ModelScore:    int(math.Round(signals.Score)),
		BudgetBand:    string(signals.BudgetBand),
		Authority:     string(signals.Authority),
		Urgency:       string(signals.Urgency),
		DataReadiness: string(signals.DataReadiness),
		StackMaturity: string(signals.StackMaturity),
		SessionID:     input.SessionID,
		Description: fmt.Sprintf("Need: %s. Complexity: %s. Local lead id: %s.",
			signals.NeedClarity, signals.Complexity, input.LeadID),
	}
	if signals.Industry != nil {
		lead.Industry = *signals.Industry
	}
	if signals.Geography != nil {
		lead.Country = *signals.Geography
	}
	return lead
}

// lastName fills Zoho's one mandatory field from the best identifier on hand.
func lastName(input *Input) string {
	switch {
	case input.LastName != "":
		return input.LastName
	case input.Company != "":
		return input.Company
	case input.Email != "":
		return input.Email
	default:
		return "Session " + input.SessionID
	}
}

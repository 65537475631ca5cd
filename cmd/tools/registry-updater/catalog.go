// cmd/tools/registry-updater/catalog.go
package main

import (
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/validation"
	"bizplan-workers/pkg/registry"

	clc "bizplan-workers/internal/workers/crm/crm-lead-create"
	cls "bizplan-workers/internal/workers/leads/compute-lead-score"
	els "bizplan-workers/internal/workers/leads/extract-lead-signals"
	fls "bizplan-workers/internal/workers/leads/fetch-lead-score"
	ils "bizplan-workers/internal/workers/leads/index-lead-signals"
	nhl "bizplan-workers/internal/workers/leads/notify-hot-lead"
	slr "bizplan-workers/internal/workers/leads/save-lead-record"
	crt "bizplan-workers/internal/workers/routing/check-research-trigger"
	cm "bizplan-workers/internal/workers/routing/choose-model"
)

type entry struct {
	taskType    string
	displayName string
	description string
	category    string
	schema      validation.JSONSchema
	outputs     []string
	errorCodes  []errors.ErrorCode
}

var catalog = []entry{
	{
		taskType:    cm.TaskType,
		displayName: "Choose Model",
		description: "Picks the generation model for a conversation phase and document profile",
		category:    "routing",
		schema:      cm.GetInputSchema(),
		outputs:     []string{"model", "phase"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInvalidPhase, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    crt.TaskType,
		displayName: "Check Research Trigger",
		description: "Decides whether the turn should escalate into a research step",
		category:    "routing",
		schema:      crt.GetInputSchema(),
		outputs:     []string{"triggerResearch", "reasons"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    els.TaskType,
		displayName: "Extract Lead Signals",
		description: "Generates schema-constrained lead signals from the conversation, retrying once at temperature 0",
		category:    "leads",
		schema:      els.GetInputSchema(),
		outputs:     []string{"leadSignals", "modelScore", "attempts", "extractionModel"},
		errorCodes: []errors.ErrorCode{
			errors.ErrCodeLeadSignalsInvalid, errors.ErrCodeGenAITimeout,
			errors.ErrCodeGenAIRequestFailed, errors.ErrCodeInvalidJobInput,
		},
	},
	{
		taskType:    cls.TaskType,
		displayName: "Compute Lead Score",
		description: "Re-validates lead signals and computes the rule-based 0-100 score",
		category:    "leads",
		schema:      cls.GetInputSchema(),
		outputs:     []string{"leadScore", "modelScore", "breakdown", "isHotLead"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeLeadSignalsInvalid, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    slr.TaskType,
		displayName: "Save Lead Record",
		description: "Persists the scored lead to Postgres and refreshes the Redis score cache",
		category:    "leads",
		schema:      slr.GetInputSchema(),
		outputs:     []string{"leadId", "leadScore", "createdAt"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeDatabaseInsertFailed, errors.ErrCodeLeadSignalsInvalid, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    fls.TaskType,
		displayName: "Fetch Lead Score",
		description: "Reads the latest lead for a session, Redis first",
		category:    "leads",
		schema:      fls.GetInputSchema(),
		outputs:     []string{"leadId", "leadScore", "modelScore", "breakdown", "leadSignals", "isHotLead", "scoredAt"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeLeadNotFound, errors.ErrCodeQueryExecutionFailed, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    ils.TaskType,
		displayName: "Index Lead Signals",
		description: "Indexes the lead into Elasticsearch for sales search",
		category:    "leads",
		schema:      ils.GetInputSchema(),
		outputs:     []string{"indexed", "indexResult"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeSearchIndexFailed, errors.ErrCodeLeadSignalsInvalid, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    nhl.TaskType,
		displayName: "Notify Hot Lead",
		description: "Publishes an SNS alert when the lead score reaches the hot threshold",
		category:    "leads",
		schema:      nhl.GetInputSchema(),
		outputs:     []string{"notified", "notificationId"},
		errorCodes:  []errors.ErrorCode{errors.ErrCodeNotificationSendFailed, errors.ErrCodeInvalidJobInput},
	},
	{
		taskType:    clc.TaskType,
		displayName: "CRM Lead Create",
		description: "Creates a Zoho CRM lead carrying the score and signal fields",
		category:    "crm",
		schema:      clc.GetInputSchema(),
		outputs:     []string{"crmLeadCreated", "crmLeadId"},
		errorCodes: []errors.ErrorCode{
			errors.ErrCodeCRMNotConfigured, errors.ErrCodeCRMSyncFailed,
			errors.ErrCodeLeadSignalsInvalid, errors.ErrCodeInvalidJobInput,
		},
	},
}

func (e entry) activity(version string) registry.Activity {
	codes := make([]string, len(e.errorCodes))
	maxRetries := 0
	for i, code := range e.errorCodes {
		codes[i] = string(code)
		if r := errors.GetRetryCount(code); r > maxRetries {
			maxRetries = r
		}
	}
	return registry.Activity{
		ID:                   e.taskType,
		DisplayName:          e.displayName,
		Description:          e.description,
		Category:             e.category,
		Version:              version,
		TaskType:             e.taskType,
		ImplementationStatus: "completed",
		InputSchema:          e.schema.Map(),
		OutputVariables:      e.outputs,
		ErrorCodes:           codes,
		Retries:              maxRetries,
	}
}

// internal/workers/leads/notify-hot-lead/handler.go
package notifyhotlead

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	awsclient "bizplan-workers/internal/common/aws"
	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/errors"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/metrics"
	"bizplan-workers/internal/leads"
	"bizplan-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "notify-hot-lead"

type Handler struct {
	config       *Config
	publisher    awsclient.SNSAPI
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

// NewHandler accepts a nil publisher; hot leads are then logged and the
// job completes with notified=false.
func NewHandler(cfg *Config, publisher awsclient.SNSAPI, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       cfg,
		publisher:    publisher,
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
	signals := h.parseSignals(input)
	score := input.LeadScore
	if signals != nil {
		score = leads.ComputeLeadScore(signals)
	}

	if score < h.config.HotLeadThreshold {
		metrics.HotLeadNotifications.WithLabelValues(statusSkipped).Inc()
		return &Output{Notified: false}, nil
	}

	if h.publisher == nil || h.config.TopicARN == "" {
		h.logger.Warn("hot lead detected but no SNS topic is configured", map[string]interface{}{
			"sessionId": input.SessionID,
			"leadScore": score,
		})
		metrics.HotLeadNotifications.WithLabelValues(statusSkipped).Inc()
		return &Output{Notified: false}, nil
	}

	alert := h.buildAlert(input, signals, score)
	body, err := json.Marshal(alert)
	if err != nil {
		return nil, errors.NewNotificationSendFailedError("sns", err)
	}

	result, err := h.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(subject(input, score)),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"leadScore": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.Itoa(score)),
			},
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("hot_lead"),
			},
		},
	})
	if err != nil {
		metrics.HotLeadNotifications.WithLabelValues(statusFailed).Inc()
		return nil, errors.NewNotificationSendFailedError("sns", err)
	}

	metrics.HotLeadNotifications.WithLabelValues(statusSent).Inc()
	messageID := aws.ToString(result.MessageId)

	h.logger.Info("hot lead alert published", map[string]interface{}{
		"sessionId": input.SessionID,
		"leadScore": score,
		"messageId": messageID,
	})

	return &Output{Notified: true, MessageID: messageID}, nil
}

func (h *Handler) buildAlert(input *Input, signals *leads.LeadSignals, score int) *models.HotLeadAlert {
	alert := &models.HotLeadAlert{
		LeadID:     input.LeadID,
		SessionID:  input.SessionID,
		Email:      input.Email,
		Company:    input.Company,
		LeadScore:  score,
		ModelScore: input.ModelScore,
		Threshold:  h.config.HotLeadThreshold,
		DetectedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if signals != nil {
		alert.ModelScore = signals.Score
		alert.BudgetBand = string(signals.BudgetBand)
		alert.Urgency = string(signals.Urgency)
		alert.Authority = string(signals.Authority)
	}
	return alert
}

// parseSignals returns nil when the job carries no usable signals. Valid
// signals take precedence over the supplied leadScore.
func (h *Handler) parseSignals(input *Input) *leads.LeadSignals {
	if len(input.LeadSignals) == 0 || string(input.LeadSignals) == "null" {
		return nil
	}
	signals, err := leads.ParseSignals(input.LeadSignals)
	if err != nil {
		h.logger.Debug("ignoring unparseable lead signals on alert", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return signals
}

// subject stays under the 100 character SNS limit.
func subject(input *Input, score int) string {
	who := input.Company
	if who == "" {
		who = input.SessionID
	}
	s := fmt.Sprintf("Hot lead (%d): %s", score, who)
	if r := []rune(s); len(r) > 100 {
		s = string(r[:100])
	}
	return s
}

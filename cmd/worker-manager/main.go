// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	awsclient "bizplan-workers/internal/common/aws"
	"bizplan-workers/internal/common/camunda"
	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/database"
	"bizplan-workers/internal/common/genai"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/common/zoho"
	"bizplan-workers/internal/leads"
	"bizplan-workers/internal/routing"
	"bizplan-workers/internal/store"

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

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("llmProvider", cfg.LLM.Provider),
	)

	ctx := context.Background()

	obs, err := observability.NewWithOptions(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe connection failed", zap.Error(err))
	}
	zapLog.Info("zeebe client connected", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	zapLog.Info("postgres connected")

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("redis connected")

	// --- Elasticsearch (only for the index worker) ---
	var esClient *database.ElasticsearchClient
	if cfg.IsWorkerEnabled(ils.TaskType) {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("elasticsearch connected")
	}

	// --- External clients ---
	var publisher awsclient.SNSAPI
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		publisher = snsClient
	}

	crm := zoho.NewCRMClient(cfg.Integrations.Zoho.BaseURL, cfg.Integrations.Zoho.AuthToken)
	if !crm.Configured() && cfg.IsWorkerEnabled(clc.TaskType) {
		zapLog.Warn("crm-lead-create is enabled but no Zoho token is configured")
	}

	generator := newGenerator(cfg)
	router := routing.NewRouter(routing.Models{
		Default:  routing.ModelID(cfg.LLM.DefaultModel),
		Plan:     routing.ModelID(cfg.LLM.PlanModel),
		CostMode: routing.ModelID(cfg.LLM.CostModeModel),
		Fast:     routing.ModelID(cfg.LLM.FastModel),
	})
	extractor := leads.NewExtractor(generator, log.WithFields(map[string]interface{}{"component": "extractor"}))

	pgStore := store.NewPostgresLeadStore(pg.DB)
	leadStore := store.NewCachedLeadStore(pgStore, redis.Client, time.Duration(cfg.Leads.CacheTTL)*time.Second, log)

	// --- Workers ---
	registrations := []struct {
		taskType string
		build    func() camunda.JobHandler
	}{
		{cm.TaskType, func() camunda.JobHandler {
			return cm.NewHandler(cm.LoadConfig(cfg), router, log)
		}},
		{crt.TaskType, func() camunda.JobHandler {
			return crt.NewHandler(crt.LoadConfig(cfg), log)
		}},
		{els.TaskType, func() camunda.JobHandler {
			return els.NewHandler(els.LoadConfig(cfg), extractor, router, log)
		}},
		{cls.TaskType, func() camunda.JobHandler {
			return cls.NewHandler(cls.LoadConfig(cfg), log)
		}},
		{slr.TaskType, func() camunda.JobHandler {
			return slr.NewHandler(slr.LoadConfig(cfg), leadStore, pgStore, log)
		}},
		{fls.TaskType, func() camunda.JobHandler {
			return fls.NewHandler(fls.LoadConfig(cfg), leadStore, log)
		}},
		{ils.TaskType, func() camunda.JobHandler {
			return ils.NewHandler(ils.LoadConfig(cfg), esClient, log)
		}},
		{nhl.TaskType, func() camunda.JobHandler {
			return nhl.NewHandler(nhl.LoadConfig(cfg), publisher, log)
		}},
		{clc.TaskType, func() camunda.JobHandler {
			return clc.NewHandler(clc.LoadConfig(cfg), crm, log)
		}},
	}

	var workers []*camunda.Worker
	for _, reg := range registrations {
		if !cfg.IsWorkerEnabled(reg.taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", reg.taskType))
			continue
		}
		handler := camunda.Instrument(reg.build(), obs, reg.taskType)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), reg.taskType, cfg.GetWorkerConfig(reg.taskType), handler, log))
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := newHTTPServer(cfg.App.HTTPAddr, readinessChecks{
		"zeebe":    zeebe.HealthCheck,
		"postgres": pg.Ping,
		"redis":    redis.Ping,
	})
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("addr", cfg.App.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutdown signal received, stopping workers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error stopping http server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("error closing zeebe client", zap.Error(err))
	}
	if err := redis.Close(); err != nil {
		zapLog.Error("error closing redis", zap.Error(err))
	}
	if err := pg.Close(); err != nil {
		zapLog.Error("error closing postgres", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("worker manager stopped")
}

// newGenerator picks the chat backend named by llm.provider.
func newGenerator(cfg *config.Config) genai.ChatCompleter {
	if cfg.LLM.Provider == "anthropic" {
		return genai.NewAnthropicClient(genai.AnthropicConfig{
			APIKey:     cfg.APIs.Anthropic.APIKey,
			BaseURL:    cfg.APIs.Anthropic.BaseURL,
			MaxRetries: cfg.APIs.GenAI.MaxRetries,
		})
	}
	return genai.NewClient(genai.Config{
		BaseURL:    cfg.APIs.GenAI.BaseURL,
		APIKey:     cfg.APIs.GenAI.APIKey,
		Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxRetries: cfg.APIs.GenAI.MaxRetries,
	})
}

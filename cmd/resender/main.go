// Package main is the entrypoint for the Resender Lambda function.
//
// The Resender runs on an EventBridge schedule. Each invocation is one
// single-pass reconciliation: poll Magento for recent orders whose
// confirmation email has not gone out, ask the backend to resend the email
// while the order is within its retry budget, and escalate to the operator
// webhooks once the budget is exhausted.
//
// This file handles dependency wiring (cold start) and delegates all
// business logic to the internal/resender package.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/google/uuid"

	"ordersweep/internal/config"
	"ordersweep/internal/external"
	"ordersweep/internal/observe"
	"ordersweep/internal/resender"
	"ordersweep/internal/types"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))

	logger.Info("resender initializing (cold start)")

	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	runner, err := buildRunner(cfg, logger)
	if err != nil {
		logger.Error("failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	logger.Info("resender initialized",
		"magento_base_url", cfg.Magento.BaseURL,
		"order_age_mins", cfg.Resend.OrderAgeMins,
		"max_attempts", cfg.Resend.MaxAttempts,
		"reference_timezone", cfg.TimeAPI.Timezone,
		"metrics_enabled", cfg.Metrics.Enabled,
	)

	lambda.Start(newHandler(runner, logger))
}

// buildRunner wires the HTTP clients and the reconciliation pipeline from
// the loaded configuration.
func buildRunner(cfg *config.Config, logger *slog.Logger) (*resender.Runner, error) {
	httpClient := &http.Client{Timeout: cfg.Magento.HTTPTimeout}

	magento := external.NewMagentoClient(httpClient, external.MagentoClientConfig{
		BaseURL:           cfg.Magento.BaseURL,
		SearchPath:        cfg.Magento.SearchPath,
		OrderPath:         cfg.Magento.OrderPath,
		AuthToken:         cfg.Magento.AuthToken,
		SecretHeaderName:  cfg.Magento.SecretHeaderName,
		SecretHeaderValue: cfg.Magento.SecretHeaderValue,
		Logger:            logger,
	})

	oracle := external.NewTimeAPIClient(httpClient, external.TimeAPIClientConfig{
		BaseURL: cfg.TimeAPI.BaseURL,
		Logger:  logger,
	})

	webhooks := external.NewWebhookClient(httpClient, external.WebhookClientConfig{
		AlertURL: cfg.Webhooks.AlertURL,
		EmailURL: cfg.Webhooks.EmailURL,
		Logger:   logger,
	})

	var metrics resender.MetricsRecorder
	if cfg.Metrics.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Metrics.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config for CloudWatch: %w", err)
		}
		metrics = observe.NewCloudWatchRecorder(
			cloudwatch.NewFromConfig(awsCfg),
			cfg.Metrics.Namespace,
			logger,
		)
	}

	windows := resender.NewWindowCalculator(
		oracle,
		types.RealClock{},
		cfg.TimeAPI.Timezone,
		cfg.Resend.OrderAgeMins,
	)

	dispatcher := resender.NewDispatcher(resender.DispatcherConfig{
		Backend:       magento,
		Sink:          webhooks,
		MaxAttempts:   cfg.Resend.MaxAttempts,
		CommentPrefix: cfg.Resend.CommentPrefix,
		CommentField:  cfg.Resend.CommentField,
		Logger:        logger,
	})

	return resender.NewRunner(resender.RunnerConfig{
		Windows:    windows,
		Backend:    magento,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	}), nil
}

// newHandler creates the Lambda handler. Benign-empty outcomes (no orders,
// backend error envelope) resolve to a success result; hard failures return
// an error so the invocation is marked failed and alarms can fire.
func newHandler(runner *resender.Runner, logger *slog.Logger) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		runID := uuid.New().String()
		ctx = types.WithRunID(ctx, runID)

		logger.InfoContext(ctx, "resender handler invoked", "run_id", runID)

		summary, err := runner.Run(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "resender run failed",
				"run_id", runID,
				"error", err,
			)
			return "", fmt.Errorf("resender run failed: %w", err)
		}

		result := fmt.Sprintf("run complete: outcome=%s found=%d resent=%d escalated=%d skipped=%d",
			summary.Outcome,
			summary.TotalFound,
			summary.Dispatch.Resent,
			summary.Dispatch.Escalated,
			summary.Dispatch.Skipped,
		)
		logger.InfoContext(ctx, result, "run_id", runID, "window_start", summary.WindowStart)

		return result, nil
	}
}

// logLevel maps the LOG_LEVEL environment value to a slog.Level, defaulting
// to info.
func logLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

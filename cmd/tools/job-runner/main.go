// Package main implements the job-runner CLI tool for invoking the resender
// directly, bypassing the AWS Lambda shim.
//
// This tool is intended for local development, manual reconciliation runs,
// and operational debugging.
//
// Usage:
//
//	go run ./cmd/tools/job-runner
//	go run ./cmd/tools/job-runner --print-window
//	go run ./cmd/tools/job-runner --timeout=2m
//
// Configuration is read from environment variables (or a .env file via
// godotenv, resolved inside config.LoadConfig). With --print-window the tool
// computes and prints the sync window lower bound without touching any
// order, which is useful for verifying the daylight-saving compensation.
//
// Exit codes: 0 for a completed run, including the benign "no orders found"
// and "backend error envelope" outcomes; 1 for configuration errors and
// hard transport/order failures.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"ordersweep/internal/config"
	"ordersweep/internal/external"
	"ordersweep/internal/resender"
	"ordersweep/internal/types"
)

func main() {
	printWindowFlag := flag.Bool("print-window", false, "Compute and print the sync window lower bound, then exit")
	timeoutFlag := flag.Duration("timeout", 5*time.Minute, "Overall run deadline")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: job-runner [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Run the order email resender directly, bypassing Lambda.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))

	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Stop cleanly between orders on SIGINT/SIGTERM; in-flight HTTP calls
	// are bounded by the client timeout.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, *timeoutFlag)
	defer cancel()

	ctx = types.WithRunID(ctx, uuid.New().String())

	httpClient := &http.Client{Timeout: cfg.Magento.HTTPTimeout}

	oracle := external.NewTimeAPIClient(httpClient, external.TimeAPIClientConfig{
		BaseURL: cfg.TimeAPI.BaseURL,
		Logger:  logger,
	})

	windows := resender.NewWindowCalculator(
		oracle,
		types.RealClock{},
		cfg.TimeAPI.Timezone,
		cfg.Resend.OrderAgeMins,
	)

	if *printWindowFlag {
		windowStart, err := windows.WindowStart(ctx)
		if err != nil {
			logger.Error("failed to compute sync window", "error", err)
			os.Exit(1)
		}
		fmt.Println(windowStart)
		return
	}

	magento := external.NewMagentoClient(httpClient, external.MagentoClientConfig{
		BaseURL:           cfg.Magento.BaseURL,
		SearchPath:        cfg.Magento.SearchPath,
		OrderPath:         cfg.Magento.OrderPath,
		AuthToken:         cfg.Magento.AuthToken,
		SecretHeaderName:  cfg.Magento.SecretHeaderName,
		SecretHeaderValue: cfg.Magento.SecretHeaderValue,
		Logger:            logger,
	})

	webhooks := external.NewWebhookClient(httpClient, external.WebhookClientConfig{
		AlertURL: cfg.Webhooks.AlertURL,
		EmailURL: cfg.Webhooks.EmailURL,
		Logger:   logger,
	})

	dispatcher := resender.NewDispatcher(resender.DispatcherConfig{
		Backend:       magento,
		Sink:          webhooks,
		MaxAttempts:   cfg.Resend.MaxAttempts,
		CommentPrefix: cfg.Resend.CommentPrefix,
		CommentField:  cfg.Resend.CommentField,
		Logger:        logger,
	})

	runner := resender.NewRunner(resender.RunnerConfig{
		Windows:    windows,
		Backend:    magento,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	for _, outcome := range summary.Dispatch.Outcomes {
		fmt.Println(outcome)
	}
	fmt.Printf("run complete: outcome=%s found=%d resent=%d escalated=%d skipped=%d\n",
		summary.Outcome,
		summary.TotalFound,
		summary.Dispatch.Resent,
		summary.Dispatch.Escalated,
		summary.Dispatch.Skipped,
	)
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

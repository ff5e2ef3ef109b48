// Package observe emits run-summary metrics to CloudWatch. Metrics are
// strictly best-effort: a failed PutMetricData is logged and swallowed, it
// never affects the run outcome.
package observe

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric and dimension names for the resender run summary.
const (
	metricOrdersFound     = "OrdersFound"
	metricOrdersResent    = "OrdersResent"
	metricOrdersEscalated = "OrdersEscalated"
	metricOrdersSkipped   = "OrdersSkipped"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchRecorder publishes run-summary counts to a CloudWatch namespace.
// It implements resender.MetricsRecorder.
type CloudWatchRecorder struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchRecorder creates a recorder publishing to the given namespace.
func NewCloudWatchRecorder(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchRecorder {
	if logger == nil {
		logger = slog.Default()
	}

	return &CloudWatchRecorder{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordRunSummary emits one datum per run-summary count.
func (r *CloudWatchRecorder) RecordRunSummary(ctx context.Context, found, resent, escalated, skipped int) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(r.namespace),
		MetricData: []cwtypes.MetricDatum{
			datum(metricOrdersFound, found),
			datum(metricOrdersResent, resent),
			datum(metricOrdersEscalated, escalated),
			datum(metricOrdersSkipped, skipped),
		},
	}

	if _, err := r.client.PutMetricData(ctx, input); err != nil {
		r.logger.ErrorContext(ctx, "failed to record run summary metrics",
			"error", err.Error(),
			"namespace", r.namespace,
		)
	}
}

func datum(name string, value int) cwtypes.MetricDatum {
	return cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(value)),
		Unit:       cwtypes.StandardUnitCount,
	}
}

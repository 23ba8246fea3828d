package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Split-server metrics
var (
	// HTTP request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Messages gated by the whitelist
	MessagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "messages_processed_total",
			Help:      "Total number of messages processed",
		},
		[]string{"platform_type", "whitelisted"},
	)

	// Oracle processing
	AIProcessingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ai_processing_total",
			Help:      "Total number of AI processing requests",
		},
		[]string{"platform_type", "status"},
	)

	AIProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ai_processing_duration_seconds",
			Help:      "Duration of AI processing in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"platform_type"},
	)

	// OCR extraction
	OCRProcessingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ocr_processing_total",
			Help:      "Total number of OCR processing requests",
		},
		[]string{"source_type", "status"},
	)

	OCRProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ocr_processing_duration_seconds",
			Help:      "Duration of OCR processing in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source_type"},
	)

	// Ledger API calls
	LedgerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ledger_calls_total",
			Help:      "Total ledger API calls",
		},
		[]string{"operation", "status"},
	)

	LedgerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "ledger_call_duration_seconds",
			Help:      "Ledger API call duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// Oracle tool invocations
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "tool_calls_total",
			Help:      "Total oracle tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "db_query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	UsersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "split",
			Subsystem: "bot",
			Name:      "users_created_total",
			Help:      "Total number of users created",
		},
	)
)

// ObserveToolCall records one tool invocation. Tool outcomes are plain
// text by contract, so failure is inferred from the conventional prefixes.
func ObserveToolCall(toolName, outcome string, duration time.Duration) {
	status := "success"
	if strings.HasPrefix(outcome, "Error") || strings.HasPrefix(outcome, "These users dont exist") {
		status = "failure"
	}
	ToolCallsTotal.WithLabelValues(toolName, status).Inc()
	ToolDuration.WithLabelValues(toolName).Observe(duration.Seconds())
}

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gosymcore",
		Name:      "tool_calls_total",
		Help:      "Tool calls by tool and outcome code.",
	}, []string{"tool", "code"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gosymcore",
		Name:      "tool_duration_seconds",
		Help:      "Tool call latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"tool"})

	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gosymcore",
		Name:      "batch_inputs",
		Help:      "Inputs per batch expand request.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	batchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gosymcore",
		Name:      "batch_failed_inputs_total",
		Help:      "Batch inputs that returned an error.",
	})
)

func outcome(resp ToolResponse) string {
	if resp.Error == "" {
		return "ok"
	}
	return resp.Code
}

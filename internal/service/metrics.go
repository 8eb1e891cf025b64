package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adventure_server_jobs_created_total",
			Help: "Total number of story generation jobs created.",
		},
	)
	generationTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_server_generation_tasks_total",
			Help: "Total number of finished generation tasks by outcome.",
		},
		[]string{"status"}, // completed / failed
	)
	generationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adventure_server_generation_duration_seconds",
			Help:    "Histogram of story generation durations.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s .. ~512s
		},
	)

	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_server_ai_requests_total",
			Help: "Total number of requests to the AI API.",
		},
		[]string{"model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_server_ai_request_duration_seconds",
			Help:    "Histogram of AI API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_server_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 20),
		},
		[]string{"model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adventure_server_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(100, 100, 20),
		},
		[]string{"model"},
	)
	aiEstimatedCostUSD = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adventure_server_ai_estimated_cost_usd_total",
			Help: "Estimated total cost of AI requests in USD.",
		},
		[]string{"model"},
	)
)

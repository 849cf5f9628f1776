package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_http_requests_total",
		Help: "Total HTTP requests by method, route, and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voice_translator_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_translator_http_requests_in_flight",
		Help: "HTTP requests currently being handled",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter",
	})
)

// Translation metrics
var (
	TranslationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_cache_hits_total",
		Help: "Translation cache hits",
	})

	TranslationCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_cache_misses_total",
		Help: "Translation cache misses (including expired entries)",
	})

	TranslationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_translation_requests_total",
		Help: "Completed translations by source (cache or model)",
	}, []string{"source"})

	TranslationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_translation_errors_total",
		Help: "Translation model errors by reason",
	}, []string{"reason"})

	TranslationModelLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_translator_translation_model_latency_seconds",
		Help:    "Latency of translation model calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15},
	})
)

// Transcription metrics
var (
	TranscriptionRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_transcription_requests_total",
		Help: "Completed speech-to-text requests",
	})

	TranscriptionErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_translator_transcription_errors_total",
		Help: "Speech-to-text errors by reason",
	}, []string{"reason"})

	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_translator_transcription_latency_seconds",
		Help:    "Latency of speech-to-text model calls",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})
)

// Storage metrics
var (
	HistoryAppendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_history_appends_total",
		Help: "Records appended to session histories",
	})

	HistoryAppendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_translator_history_append_errors_total",
		Help: "Failed history appends (best-effort, never fails the request)",
	})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_translator_cache_entries",
		Help: "Current number of translation cache entries",
	})

	CacheHitCountTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_translator_cache_hit_count_total",
		Help: "Sum of per-entry hit counts across the cache",
	})

	SessionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_translator_sessions_total",
		Help: "Number of sessions with stored history",
	})
)

package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	statusConverted = "converted"
	statusFailed    = "failed"
)

// reporter collects the conversion metrics in its own registry,
// so they can be pushed when the command finishes.
type reporter struct {
	info     ServiceInfo
	registry *prometheus.Registry

	conversionDuration           *prometheus.SummaryVec
	conversionDurationsHistogram *prometheus.HistogramVec
	conversionsTotal             *prometheus.CounterVec
	conversionFailures           *prometheus.CounterVec
}

// NewReporter
func NewReporter(info ServiceInfo) (*reporter, error) {
	r := &reporter{
		info:     info,
		registry: prometheus.NewRegistry(),

		conversionDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "conversion_duration_seconds",
				Help:       "Image conversion duration distributions.",
				Objectives: map[float64]float64{},
			},
			[]string{"engine"},
		),

		conversionDurationsHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "conversion_durations_histogram_seconds",
				Help:    "Image conversion duration distributions.",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"engine"},
		),

		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversions_total",
				Help: "Number of attempted image conversions by outcome.",
			},
			[]string{"engine", "status"},
		),

		conversionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversion_errors_total",
				Help: "Number of failed image conversions by stage.",
			},
			[]string{"engine", "stage"},
		),
	}

	for _, c := range []prometheus.Collector{
		r.conversionDuration,
		r.conversionDurationsHistogram,
		r.conversionsTotal,
		r.conversionFailures,
		collectors.NewBuildInfoCollector(),
	} {
		if err := r.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ConversionSucceeded
func (r *reporter) ConversionSucceeded(seconds float64) {
	r.conversionDuration.WithLabelValues(r.info.Engine).Observe(seconds)
	r.conversionDurationsHistogram.WithLabelValues(r.info.Engine).Observe(seconds)
	r.conversionsTotal.WithLabelValues(r.info.Engine, statusConverted).Inc()
}

// ConversionFailed
func (r *reporter) ConversionFailed(stage string) {
	r.conversionsTotal.WithLabelValues(r.info.Engine, statusFailed).Inc()
	r.conversionFailures.WithLabelValues(r.info.Engine, stage).Inc()
}

// Push sends the collected metrics to the Pushgateway.
// It does nothing if no Pushgateway is configured.
func (r *reporter) Push(ctx context.Context, conf Config) error {
	if conf.PushGateway == "" {
		return nil
	}

	return push.New(conf.PushGateway, conf.Job).
		Gatherer(r.registry).
		PushContext(ctx)
}

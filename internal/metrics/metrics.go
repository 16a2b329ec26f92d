package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"kwpulse/internal/db"
)

var (
	resolutionsDesc = prometheus.NewDesc(
		"kwpulse_resolutions_total",
		"Total resolved keyword batches by dominant provenance source",
		[]string{"source"},
		nil,
	)

	providerCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kwpulse_provider_calls_total",
		Help: "Total external provider calls by outcome",
	}, []string{"outcome"})
)

// ResolutionCollector is a custom Prometheus collector that reads resolution
// counts from the search history table on each scrape.
type ResolutionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *ResolutionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- resolutionsDesc
}

// Collect queries the database for per-source resolution counts and emits
// them as counters.
func (c *ResolutionCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountHistoryBySource(context.Background())
	if err != nil {
		slog.Error("failed to collect resolution metrics", "error", err)
		return
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			resolutionsDesc,
			prometheus.CounterValue,
			float64(sc.Count),
			string(sc.Source),
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ResolutionCollector{db: database})
		prometheus.MustRegister(providerCalls)
	})
}

// RecordProviderCall counts one external provider call by outcome. Safe to
// call before Init; the count is simply not exported until registration.
func RecordProviderCall(outcome string) {
	providerCalls.WithLabelValues(outcome).Inc()
}

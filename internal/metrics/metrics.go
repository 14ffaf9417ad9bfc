// Package metrics exposes Prometheus instruments for the catalog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/catalog/internal/database"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HttpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	BookMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_book_mutations_total",
		Help: "Book create, update and delete operations by outcome",
	}, []string{"operation", "outcome"})

	HomeVisitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_home_visits_total",
		Help: "Number of home page views",
	})
)

// StatsSource reports catalog totals.
type StatsSource interface {
	GetStats() (database.Stats, error)
}

// CatalogCollector exports catalog totals as gauges, read at scrape time.
type CatalogCollector struct {
	source StatsSource

	books    *prometheus.Desc
	labels   *prometheus.Desc
	accounts *prometheus.Desc
	onLoan   *prometheus.Desc
}

func NewCatalogCollector(source StatsSource) *CatalogCollector {
	return &CatalogCollector{
		source:   source,
		books:    prometheus.NewDesc("catalog_books", "Number of books in the catalog", nil, nil),
		labels:   prometheus.NewDesc("catalog_labels", "Number of labels", nil, nil),
		accounts: prometheus.NewDesc("catalog_accounts", "Number of accounts", nil, nil),
		onLoan:   prometheus.NewDesc("catalog_books_on_loan", "Number of books currently on loan", nil, nil),
	}
}

func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.books
	ch <- c.labels
	ch <- c.accounts
	ch <- c.onLoan
}

func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.source.GetStats()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to collect catalog stats")
		return
	}
	ch <- prometheus.MustNewConstMetric(c.books, prometheus.GaugeValue, float64(stats.Books))
	ch <- prometheus.MustNewConstMetric(c.labels, prometheus.GaugeValue, float64(stats.Labels))
	ch <- prometheus.MustNewConstMetric(c.accounts, prometheus.GaugeValue, float64(stats.Accounts))
	ch <- prometheus.MustNewConstMetric(c.onLoan, prometheus.GaugeValue, float64(stats.OnLoan))
}

// ObserveMutation counts a book mutation. err nil is a success.
func ObserveMutation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	BookMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	OperationsProcessed *prometheus.CounterVec
	ErrorsCount         *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
	PayoutsTotal        prometheus.Counter
	CreditedAmount      prometheus.Counter
	ProcessingTime      prometheus.Histogram
}

// NewMetrics creates new prometheus metrics on the default registry
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith creates new prometheus metrics on the given registerer
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_processed_total",
			Help:      "The total number of committed ledger operations",
		}, []string{"operation"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of rejected operations",
		}, []string{"operation"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "The total number of published ledger events",
		}, []string{"type"}),
		PayoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_total",
			Help:      "The total number of credit payouts",
		}),
		CreditedAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credited_amount_total",
			Help:      "The total amount credited to insurees, in base units",
		}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_processing_time_seconds",
			Help:      "Time taken to process ledger operations",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

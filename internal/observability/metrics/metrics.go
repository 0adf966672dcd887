package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medops_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medops_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	storeMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medops_store_mutations_total",
		Help: "Count of collection mutations by collection, operation and result",
	}, []string{"collection", "op", "result"})

	slotWriteDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medops_slot_write_duration_seconds",
		Help:    "Duration of durable slot writes including retries",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"slot", "result"})

	loadFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medops_load_fallbacks_total",
		Help: "Count of collection loads that fell back to the seed default",
	}, []string{"slot", "reason"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medops_login_attempts_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	collectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "medops_collection_records",
		Help: "Number of records held per collection",
	}, []string{"collection"})

	overdueTasks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "medops_overdue_tasks",
		Help: "Open tasks whose due date has passed",
	})

	changeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medops_change_events_total",
		Help: "Change events published by sink and result",
	}, []string{"sink", "result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMutation counts an add, update or delete on a collection.
func ObserveMutation(collection, op, result string) {
	storeMutations.WithLabelValues(collection, op, result).Inc()
}

// ObserveSlotWrite records how long a durable write took.
func ObserveSlotWrite(slot, result string, duration time.Duration) {
	slotWriteDuration.WithLabelValues(slot, result).Observe(duration.Seconds())
}

// ObserveLoadFallback counts a load that returned the seed instead of stored data.
func ObserveLoadFallback(slot, reason string) {
	loadFallbacks.WithLabelValues(slot, reason).Inc()
}

func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// SetCollectionSize sets the record gauge for a collection.
func SetCollectionSize(collection string, count int) {
	if count < 0 {
		count = 0
	}
	collectionSize.WithLabelValues(collection).Set(float64(count))
}

func SetOverdueTasks(count int) {
	overdueTasks.Set(float64(count))
}

func ObserveChangeEvent(sink, result string) {
	changeEvents.WithLabelValues(sink, result).Inc()
}

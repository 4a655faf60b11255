package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	httpDurationHistogram   *prometheus.HistogramVec
	conservationImbalance   *prometheus.CounterVec
	idempotencyCounter      *prometheus.CounterVec
	scheduleRunCounter      *prometheus.CounterVec
	scheduledTransfersGauge prometheus.Gauge
	scheduledVolumeGauge    prometheus.Gauge
	circulationGroupsGauge  *prometheus.GaugeVec
	workerRunCounter        *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		conservationImbalance = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circulation_imbalance_total",
			Help: "Accounts whose scheduled inflow and outflow diverged during reconciliation",
		}, []string{"account"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		scheduleRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_runs_total",
			Help: "Scheduling runs by trigger and result",
		}, []string{"trigger", "result"})

		scheduledTransfersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduled_transfers",
			Help: "Transfers in the current schedule",
		})

		scheduledVolumeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scheduled_volume_units",
			Help: "Total amount routed by the current schedule",
		})

		circulationGroupsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circulation_groups",
			Help: "Groups scheduled in the latest run by origin",
		}, []string{"origin"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			conservationImbalance,
			idempotencyCounter,
			scheduleRunCounter,
			scheduledTransfersGauge,
			scheduledVolumeGauge,
			circulationGroupsGauge,
			workerRunCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementImbalance(accountID string) {
	if conservationImbalance == nil {
		return
	}
	conservationImbalance.WithLabelValues(accountID).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func IncrementScheduleRun(trigger, result string) {
	if scheduleRunCounter == nil {
		return
	}
	scheduleRunCounter.WithLabelValues(trigger, result).Inc()
}

// SetSchedule records the size of the schedule that replaced the previous one.
func SetSchedule(transfers int, volume int64, groupsByOrigin map[string]int) {
	if scheduledTransfersGauge == nil {
		return
	}
	scheduledTransfersGauge.Set(float64(transfers))
	scheduledVolumeGauge.Set(float64(volume))
	circulationGroupsGauge.Reset()
	for origin, n := range groupsByOrigin {
		circulationGroupsGauge.WithLabelValues(origin).Set(float64(n))
	}
}

func IncrementWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}

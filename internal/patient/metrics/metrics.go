package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the patient module. Tracks mutation
// counts, collection reload latency, and reload failures (the registry keeps
// serving the stale snapshot when a reload fails, so failures are worth
// alerting on).
type Metrics struct {
	PatientsCreated prometheus.Counter
	PatientsUpdated prometheus.Counter
	PatientsDeleted prometheus.Counter
	LoadDuration    prometheus.Histogram
	ReloadFailures  prometheus.Counter
}

// New creates a new Metrics instance with all patient module metrics registered.
func New() *Metrics {
	return &Metrics{
		PatientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prontuario_patients_created_total",
			Help: "Total number of patient records created",
		}),
		PatientsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prontuario_patients_updated_total",
			Help: "Total number of patient records updated",
		}),
		PatientsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prontuario_patients_deleted_total",
			Help: "Total number of patient records deleted",
		}),
		LoadDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "prontuario_patient_load_duration_seconds",
			Help:    "Duration of full collection reloads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ReloadFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prontuario_patient_reload_failures_total",
			Help: "Total number of collection reloads that failed after a mutation",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m == nil {
		return
	}
	m.PatientsCreated.Inc()
}

func (m *Metrics) IncrementUpdated() {
	if m == nil {
		return
	}
	m.PatientsUpdated.Inc()
}

func (m *Metrics) IncrementDeleted() {
	if m == nil {
		return
	}
	m.PatientsDeleted.Inc()
}

// ObserveLoad records the duration of a collection reload.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLoad(start time.Time) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementReloadFailure() {
	if m == nil {
		return
	}
	m.ReloadFailures.Inc()
}

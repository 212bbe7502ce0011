// Package metrics exposes prometheus counters for intake outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Duplicate kinds used as the "kind" label of DuplicatesRejected.
const (
	KindPhone    = "phone"
	KindSameDay  = "same_day"
	KindOnUpdate = "update"
)

// Metrics tracks intake activity for the kiosk.
type Metrics struct {
	IntakesCreated     prometheus.Counter
	RepeatVisits       prometheus.Counter
	DuplicatesRejected *prometheus.CounterVec
	ValidationFailures prometheus.Counter
	RecordsUpdated     prometheus.Counter
	RecordsDeleted     prometheus.Counter
	RowsRepaired       prometheus.Counter
	RecordsImported    prometheus.Counter
}

// New creates a Metrics instance with every counter registered on reg.
// A nil reg gives unregistered counters, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IntakesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_intakes_created_total",
			Help: "Total number of new household intakes recorded",
		}),
		RepeatVisits: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_repeat_visits_total",
			Help: "Total number of repeat visits logged for known households",
		}),
		DuplicatesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intakehub_duplicates_rejected_total",
			Help: "Submissions refused because the household was already known",
		}, []string{"kind"}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_validation_failures_total",
			Help: "Submissions refused because of invalid fields",
		}),
		RecordsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_records_updated_total",
			Help: "Total number of records corrected",
		}),
		RecordsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_records_deleted_total",
			Help: "Total number of records deleted by an administrator",
		}),
		RowsRepaired: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_rows_repaired_total",
			Help: "Persisted rows realigned or migrated by repair",
		}),
		RecordsImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "intakehub_records_imported_total",
			Help: "Legacy rows imported into the store",
		}),
	}
}

// IncrementDuplicate records a refused duplicate of the given kind.
func (m *Metrics) IncrementDuplicate(kind string) {
	m.DuplicatesRejected.WithLabelValues(kind).Inc()
}

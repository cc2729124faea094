// Package metrics holds the Prometheus metrics of the users service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"userprofiles/internal/users/domain/validation"
)

const namespace = "users"

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UsersCreated       prometheus.Counter
	UsersReplaced      prometheus.Counter
	UsersDeleted       prometheus.Counter
	ValidationProblems *prometheus.CounterVec
	RejectedRequests   *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the metrics and registers them in reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "created_total",
			Help:      "Total number of user records created",
		}),
		UsersReplaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replaced_total",
			Help:      "Total number of user records replaced",
		}),
		UsersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_total",
			Help:      "Total number of delete requests served",
		}),
		ValidationProblems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_problems_total",
			Help:      "Validation problems reported, by field and rule",
		}, []string{"field", "rule"}),
		RejectedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_total",
			Help:      "Write requests rejected by validation, by operation",
		}, []string{"operation"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by method, route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

func (m *Metrics) IncReplaced() {
	if m != nil {
		m.UsersReplaced.Inc()
	}
}

func (m *Metrics) IncDeleted() {
	if m != nil {
		m.UsersDeleted.Inc()
	}
}

// ObserveRejection counts one rejected request and each of its problems.
func (m *Metrics) ObserveRejection(operation string, problems validation.Problems) {
	if m == nil {
		return
	}
	m.RejectedRequests.WithLabelValues(operation).Inc()
	for _, p := range problems {
		m.ValidationProblems.WithLabelValues(p.Field, string(p.Rule)).Inc()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Package metrics exposes pickup dispatch metrics to Prometheus.
//
// Gauges are refreshed by the backlog job:
//
//	pickup_jobs{status="Pending"}        jobs per lifecycle status
//	pickup_collectors_located            collectors with a usable position
//
// Counters are updated by every dispatch attempt:
//
//	pickup_dispatch_total{outcome="..."} attempts by outcome
//	pickup_dispatch_distance_km          distance of geo-matched assignments
//
// A growing pickup_jobs{status="Pending"} together with out_of_range or
// no_candidates outcomes means the collector pool does not cover demand.
package metrics

import (
	"errors"
	"net/http"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/services"
	"pickup/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes used as the "outcome" label.
const (
	OutcomeAssigned     = "assigned"
	OutcomeBlind        = "blind"
	OutcomeOutOfRange   = "out_of_range"
	OutcomeNoCandidates = "no_candidates"
	OutcomeConflict     = "conflict"
	OutcomeInvalidState = "invalid_state"
	OutcomeError        = "error"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	jobsByStatus      *prometheus.GaugeVec
	collectorsLocated prometheus.Gauge
	dispatches        *prometheus.CounterVec
	dispatchDistance  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewCollector creates the metrics and registers them with registry.
// Passing nil uses a fresh registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		jobsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pickup_jobs",
			Help: "Current number of pickup jobs per status",
		}, []string{"status"}),
		collectorsLocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pickup_collectors_located",
			Help: "Current number of collectors with a usable position",
		}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickup_dispatch_total",
			Help: "Total number of dispatch attempts by outcome",
		}, []string{"outcome"}),
		dispatchDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickup_dispatch_distance_km",
			Help:    "Distance between job origin and the assigned collector",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50},
		}),
		gatherer: registry,
	}

	registry.MustRegister(c.jobsByStatus, c.collectorsLocated, c.dispatches, c.dispatchDistance)
	return c
}

// SetBacklog replaces the per-status gauges. Statuses missing from counts are set to zero.
func (c *Collector) SetBacklog(counts map[job.Status]int64, located int) {
	for _, status := range job.Statuses() {
		c.jobsByStatus.WithLabelValues(status.String()).Set(float64(counts[status]))
	}
	c.collectorsLocated.Set(float64(located))
}

// RecordDispatch counts one dispatch attempt. distanceKm is the returned
// distance on success and nil for a blind assignment or a failure.
func (c *Collector) RecordDispatch(distanceKm *float64, err error) {
	outcome := DispatchOutcome(distanceKm, err)
	c.dispatches.WithLabelValues(outcome).Inc()
	if outcome == OutcomeAssigned {
		c.dispatchDistance.Observe(*distanceKm)
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// DispatchOutcome classifies a dispatch result.
func DispatchOutcome(distanceKm *float64, err error) string {
	switch {
	case err == nil && distanceKm != nil:
		return OutcomeAssigned
	case err == nil:
		return OutcomeBlind
	case errors.Is(err, services.ErrCollectorOutOfRange):
		return OutcomeOutOfRange
	case errors.Is(err, services.ErrNoCandidates):
		return OutcomeNoCandidates
	case errors.Is(err, errs.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, errs.ErrInvalidState):
		return OutcomeInvalidState
	default:
		return OutcomeError
	}
}

package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/core/domain/services"
	"pickup/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchOutcome(t *testing.T) {
	distance := 1.2
	tests := []struct {
		name     string
		distance *float64
		err      error
		want     string
	}{
		{"geo match", &distance, nil, OutcomeAssigned},
		{"blind", nil, nil, OutcomeBlind},
		{"out of range", nil, &services.OutOfRangeError{NearestKm: 12, RadiusKm: 10}, OutcomeOutOfRange},
		{"no candidates", nil, fmt.Errorf("dispatch: %w", services.ErrNoCandidates), OutcomeNoCandidates},
		{"conflict", nil, errs.NewConflictError("job", kernel.NewUUID().String()), OutcomeConflict},
		{"invalid state", nil, errs.NewInvalidStateError("status"), OutcomeInvalidState},
		{"other", nil, errors.New("connection refused"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DispatchOutcome(tt.distance, tt.err))
		})
	}
}

func TestCollector_RecordDispatch(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	distance := 0.8

	c.RecordDispatch(&distance, nil)
	c.RecordDispatch(&distance, nil)
	c.RecordDispatch(nil, nil)
	c.RecordDispatch(nil, services.ErrNoCandidates)

	assert.InDelta(t, 2, testutil.ToFloat64(c.dispatches.WithLabelValues(OutcomeAssigned)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.dispatches.WithLabelValues(OutcomeBlind)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.dispatches.WithLabelValues(OutcomeNoCandidates)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(c.dispatchDistance))
}

func TestCollector_SetBacklog(t *testing.T) {
	c := NewCollector(nil)

	c.SetBacklog(map[job.Status]int64{job.Pending: 4, job.Accepted: 1}, 3)
	c.SetBacklog(map[job.Status]int64{job.Pending: 2}, 5)

	assert.InDelta(t, 2, testutil.ToFloat64(c.jobsByStatus.WithLabelValues(job.Pending.String())), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(c.jobsByStatus.WithLabelValues(job.Accepted.String())), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(c.collectorsLocated), 0)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(nil)
	c.SetBacklog(map[job.Status]int64{job.Pending: 7}, 0)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pickup_jobs{status="Pending"} 7`)
}

func TestNewCollector_RegistersOncePerRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewCollector(registry)

	assert.Panics(t, func() { NewCollector(registry) })
	assert.NotPanics(t, func() { NewCollector(prometheus.NewRegistry()) })
}

package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

var (
	ErrNoCandidates        = errors.New("no collectors available")
	ErrCollectorOutOfRange = errors.New("nearest collector is out of range")
)

// OutOfRangeError reports that the nearest located collector is farther than the radius.
type OutOfRangeError struct {
	CollectorID kernel.UUID
	NearestKm   float64
	RadiusKm    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("nearest collector is %.2f km away (> %g km)", e.NearestKm, e.RadiusKm)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrCollectorOutOfRange
}

// Candidate is a collector eligible for dispatch. Location is nil when the
// collector has no usable position.
type Candidate struct {
	CollectorID kernel.UUID
	Location    *kernel.Location
}

// CandidatesFrom builds candidates from collectors. Positions older than maxAge
// at now are dropped; a non-positive maxAge keeps every reported position.
// The result is sorted by collector id.
func CandidatesFrom(collectors []*collector.Collector, now time.Time, maxAge time.Duration) []Candidate {
	candidates := make([]Candidate, 0, len(collectors))
	for _, c := range collectors {
		candidate := Candidate{CollectorID: c.ID()}
		if c.HasFreshLocation(now, maxAge) {
			candidate.Location = c.Location()
		}
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CollectorID.Compare(candidates[j].CollectorID) < 0
	})
	return candidates
}

// Assignment is the outcome of a successful dispatch. DistanceKm is nil when no
// candidate had a position and the collector was chosen blindly.
type Assignment struct {
	CollectorID kernel.UUID
	DistanceKm  *float64
	Transition  job.Transition
}

// IsGeoMatched reports whether the collector was chosen by distance.
func (a Assignment) IsGeoMatched() bool {
	return a.DistanceKm != nil
}

// JobDispatcher picks the closest collector for a job.
type JobDispatcher struct{}

func NewJobDispatcher() JobDispatcher {
	return JobDispatcher{}
}

// Dispatch selects a collector for j measured from origin and accepts the job on
// its behalf. Among located candidates the nearest wins, ties going to the lowest
// id; if none is within radiusKm an *OutOfRangeError is returned and j is left
// untouched. With no located candidates at all the lowest-id candidate is assigned
// with a nil distance.
func (d JobDispatcher) Dispatch(
	j *job.Job,
	origin kernel.Location,
	radiusKm float64,
	candidates []Candidate,
	at time.Time,
) (Assignment, error) {
	if err := j.ValidateAccept(); err != nil {
		return Assignment{}, err
	}

	if err := errors.Join(origin.Validate(), validateRadius(radiusKm)); err != nil {
		return Assignment{}, err
	}

	if len(candidates) == 0 {
		return Assignment{}, ErrNoCandidates
	}

	chosen, distance, err := d.selectCandidate(origin, candidates)
	if err != nil {
		return Assignment{}, err
	}

	if distance != nil && *distance > radiusKm {
		return Assignment{}, &OutOfRangeError{CollectorID: chosen, NearestKm: *distance, RadiusKm: radiusKm}
	}

	transition, err := j.Accept(chosen, at)
	if err != nil {
		return Assignment{}, err
	}

	return Assignment{CollectorID: chosen, DistanceKm: distance, Transition: transition}, nil
}

func (d JobDispatcher) selectCandidate(origin kernel.Location, candidates []Candidate) (kernel.UUID, *float64, error) {
	var (
		nearest   *kernel.UUID
		nearestKm float64
		lowest    = candidates[0].CollectorID
	)

	for _, c := range candidates {
		if err := c.CollectorID.Validate(); err != nil {
			return kernel.UUID{}, nil, err
		}
		if c.CollectorID.Compare(lowest) < 0 {
			lowest = c.CollectorID
		}
		if c.Location == nil {
			continue
		}

		km, err := origin.DistanceKm(*c.Location)
		if err != nil {
			return kernel.UUID{}, nil, err
		}

		if nearest == nil || km < nearestKm || (km == nearestKm && c.CollectorID.Compare(*nearest) < 0) {
			id := c.CollectorID
			nearest = &id
			nearestKm = km
		}
	}

	if nearest == nil {
		return lowest, nil, nil
	}
	return *nearest, &nearestKm, nil
}

func validateRadius(radiusKm float64) error {
	if math.IsNaN(radiusKm) || radiusKm <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("radiusKm", fmt.Errorf("%v is not greater than 0", radiusKm))
	}
	return nil
}

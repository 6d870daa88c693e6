package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
)

const maxCategoryLength = 64

var (
	// ErrJobIsNotConstructed is returned when a Job was not created through NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

	// ErrCollectorIsNotAssigned is returned when a collector acts on a job assigned to someone else.
	ErrCollectorIsNotAssigned = errors.New("collector is not assigned to the job")
)

// Details are the requester-supplied attributes of a pickup request.
type Details struct {
	Category      string
	Quantity      float64
	ScheduledTime time.Time
	Note          string
}

// Transition describes one applied state change. Stores persist the job's new
// state only while the stored record still matches From and FromVersion.
type Transition struct {
	JobID       kernel.UUID
	From        Status
	To          Status
	FromVersion int64
}

// ToVersion is the version the job carries after the transition.
func (t Transition) ToVersion() int64 {
	return t.FromVersion + 1
}

// Job is a pickup request moving through the lifecycle. It is the aggregate root
// for assignment: the assigned collector is only ever changed by a transition.
type Job struct {
	id          kernel.UUID
	requesterID kernel.UUID
	details     Details
	location    kernel.Location
	status      Status
	collectorID *kernel.UUID
	createdAt   time.Time
	updatedAt   time.Time

	// version is incremented on every transition and guards concurrent writers
	version int64

	isConstructed bool
}

// NewJob creates a Pending job with no collector at version 1.
func NewJob(
	id kernel.UUID,
	requesterID kernel.UUID,
	details Details,
	location kernel.Location,
	createdAt time.Time,
) (*Job, error) {
	j := &Job{
		status:        Pending,
		createdAt:     createdAt,
		updatedAt:     createdAt,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setRequesterID(requesterID),
		j.setDetails(details),
		j.setLocation(location),
		j.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob rebuilds a job from persisted state, re-checking every invariant.
func RestoreJob(
	id kernel.UUID,
	requesterID kernel.UUID,
	details Details,
	location kernel.Location,
	status Status,
	collectorID *kernel.UUID,
	createdAt time.Time,
	updatedAt time.Time,
	version int64,
) (*Job, error) {
	j := &Job{
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setRequesterID(requesterID),
		j.setDetails(details),
		j.setLocation(location),
		j.setCreatedAt(createdAt),
		j.setStatus(status, collectorID),
		j.setVersion(version),
	); err != nil {
		return nil, err
	}

	return j, nil
}

func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

func (j *Job) ID() kernel.UUID {
	return j.id
}

func (j *Job) RequesterID() kernel.UUID {
	return j.requesterID
}

func (j *Job) Details() Details {
	return j.details
}

func (j *Job) Category() string {
	return j.details.Category
}

func (j *Job) Quantity() float64 {
	return j.details.Quantity
}

func (j *Job) ScheduledTime() time.Time {
	return j.details.ScheduledTime
}

func (j *Job) Note() string {
	return j.details.Note
}

func (j *Job) Location() kernel.Location {
	return j.location
}

func (j *Job) Status() Status {
	return j.status
}

// Collector returns the assigned collector, nil unless Accepted, InProgress or Completed.
func (j *Job) Collector() *kernel.UUID {
	if j.collectorID == nil {
		return nil
	}
	id := *j.collectorID
	return &id
}

func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

func (j *Job) UpdatedAt() time.Time {
	return j.updatedAt
}

func (j *Job) Version() int64 {
	return j.version
}

// IsAssignedTo reports whether collectorID currently holds the job.
func (j *Job) IsAssignedTo(collectorID kernel.UUID) bool {
	return j.collectorID != nil && j.collectorID.IsEqual(collectorID)
}

// ValidateAccept checks that the job can still be given to a collector.
func (j *Job) ValidateAccept() error {
	if err := j.Validate(); err != nil {
		return err
	}
	return j.status.ValidateAccept()
}

// Accept assigns the job to collectorID: Pending -> Accepted.
func (j *Job) Accept(collectorID kernel.UUID, at time.Time) (Transition, error) {
	if err := errors.Join(j.Validate(), collectorID.Validate()); err != nil {
		return Transition{}, err
	}

	next, err := j.status.Accept()
	if err != nil {
		return Transition{}, err
	}

	return j.apply(next, &collectorID, at), nil
}

// Advance moves the job forward on behalf of its assigned collector.
// target must be InProgress (from Accepted) or Completed (from InProgress).
func (j *Job) Advance(collectorID kernel.UUID, target Status, at time.Time) (Transition, error) {
	if err := errors.Join(j.Validate(), collectorID.Validate()); err != nil {
		return Transition{}, err
	}

	var (
		next Status
		err  error
	)
	switch target {
	case InProgress:
		next, err = j.status.Start()
	case Completed:
		next, err = j.status.Complete()
	default:
		return Transition{}, errs.NewValueIsInvalidErrorWithCause(
			"targetStatus",
			fmt.Errorf("%s cannot be set by a collector", target.String()),
		)
	}
	if err != nil {
		return Transition{}, err
	}

	if !j.IsAssignedTo(collectorID) {
		return Transition{}, ErrCollectorIsNotAssigned
	}

	return j.apply(next, j.collectorID, at), nil
}

// Cancel ends the job and clears the assignment. InProgress jobs are only
// cancellable when allowInProgress is set.
func (j *Job) Cancel(allowInProgress bool, at time.Time) (Transition, error) {
	if err := j.Validate(); err != nil {
		return Transition{}, err
	}

	next, err := j.status.Cancel(allowInProgress)
	if err != nil {
		return Transition{}, err
	}

	return j.apply(next, nil, at), nil
}

// ValidateApplied checks that j carries the outcome of t, which stores require
// before persisting a transition.
func (j *Job) ValidateApplied(t Transition) error {
	if err := j.Validate(); err != nil {
		return err
	}
	if !j.id.IsEqual(t.JobID) || j.status != t.To || j.version != t.ToVersion() {
		return errs.NewValueIsInvalidErrorWithCause(
			"transition",
			fmt.Errorf("job %s is not in the state produced by %s -> %s", j.id, t.From, t.To),
		)
	}
	return nil
}

func (j *Job) apply(next Status, collectorID *kernel.UUID, at time.Time) Transition {
	t := Transition{
		JobID:       j.id,
		From:        j.status,
		To:          next,
		FromVersion: j.version,
	}

	j.status = next
	j.collectorID = collectorID
	j.updatedAt = at
	j.version = t.ToVersion()
	return t
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setRequesterID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("requesterId", err)
	}
	j.requesterID = id
	return nil
}

func (j *Job) setDetails(details Details) error {
	details.Category = strings.TrimSpace(details.Category)
	details.Note = strings.TrimSpace(details.Note)

	var errList []error
	if details.Category == "" {
		errList = append(errList, errs.NewValueIsRequiredError("category"))
	} else if len(details.Category) > maxCategoryLength {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"category", fmt.Errorf("longer than %d characters", maxCategoryLength)))
	}
	if !(details.Quantity > 0) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%v is not greater than 0", details.Quantity)))
	}
	if details.ScheduledTime.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("scheduledTime"))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	j.details = details
	return nil
}

func (j *Job) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	j.location = location
	return nil
}

func (j *Job) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	j.createdAt = createdAt
	return nil
}

func (j *Job) setStatus(status Status, collectorID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if collectorID != nil {
		if err := collectorID.Validate(); err != nil {
			return err
		}
	}
	if err := status.ValidateCanHaveCollector(collectorID != nil); err != nil {
		return err
	}
	j.status = status
	j.collectorID = collectorID
	return nil
}

func (j *Job) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	j.version = version
	return nil
}

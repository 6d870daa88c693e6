package queries

import (
	"time"

	"pickup/internal/core/domain/model/collector"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/model/kernel"
)

// JobView is the read model of a pickup job.
type JobView struct {
	ID            kernel.UUID
	RequesterID   kernel.UUID
	Category      string
	Quantity      float64
	ScheduledTime time.Time
	Note          string
	Location      kernel.Location
	Status        job.Status
	CollectorID   *kernel.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// CollectorView is the read model of a collector. Location and LastSeenAt are nil
// until the first report.
type CollectorView struct {
	ID             kernel.UUID
	OrganizationID kernel.UUID
	FullName       string
	Phone          string
	Location       *kernel.Location
	LastSeenAt     *time.Time
}

// NewJobView projects a job aggregate, e.g. one returned by a command.
func NewJobView(j *job.Job) JobView {
	return JobView{
		ID:            j.ID(),
		RequesterID:   j.RequesterID(),
		Category:      j.Category(),
		Quantity:      j.Quantity(),
		ScheduledTime: j.ScheduledTime(),
		Note:          j.Note(),
		Location:      j.Location(),
		Status:        j.Status(),
		CollectorID:   j.Collector(),
		CreatedAt:     j.CreatedAt(),
		UpdatedAt:     j.UpdatedAt(),
		Version:       j.Version(),
	}
}

func newJobViews(jobs []*job.Job) []JobView {
	views := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		views = append(views, NewJobView(j))
	}
	return views
}

func newCollectorView(c *collector.Collector) CollectorView {
	return CollectorView{
		ID:             c.ID(),
		OrganizationID: c.OrganizationID(),
		FullName:       c.FullName(),
		Phone:          c.Phone(),
		Location:       c.Location(),
		LastSeenAt:     c.LastSeenAt(),
	}
}

func newCollectorViews(collectors []*collector.Collector) []CollectorView {
	views := make([]CollectorView, 0, len(collectors))
	for _, c := range collectors {
		views = append(views, newCollectorView(c))
	}
	return views
}

package http

import (
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/kernel"
)

// Request bodies. Coordinates are pointers so that 0 is accepted and a missing
// value is reported by "required".
type (
	CreateJobRequest struct {
		Category      string    `json:"category" validate:"required,max=64"`
		Quantity      float64   `json:"quantity" validate:"required,gt=0"`
		ScheduledTime time.Time `json:"scheduledTime" validate:"required"`
		Latitude      *float64  `json:"latitude" validate:"required,latitude"`
		Longitude     *float64  `json:"longitude" validate:"required,longitude"`
		Note          string    `json:"note" validate:"max=500"`
	}

	DispatchNearestRequest struct {
		Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
		Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
		RadiusKm       *float64 `json:"radiusKm" validate:"omitempty,gt=0"`
		OrganizationID *string  `json:"organizationId" validate:"omitempty,uuid"`
	}

	AdvanceStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=InProgress Completed"`
	}

	RegisterCollectorRequest struct {
		OrganizationID string `json:"organizationId" validate:"required,uuid"`
		FullName       string `json:"fullName" validate:"required,max=128"`
		Phone          string `json:"phone" validate:"max=32"`
	}

	ReportLocationRequest struct {
		Latitude  *float64 `json:"latitude" validate:"required,latitude"`
		Longitude *float64 `json:"longitude" validate:"required,longitude"`
	}
)

// Response bodies.
type (
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	Job struct {
		ID            string    `json:"id"`
		RequesterID   string    `json:"requesterId"`
		Category      string    `json:"category"`
		Quantity      float64   `json:"quantity"`
		ScheduledTime time.Time `json:"scheduledTime"`
		Note          string    `json:"note,omitempty"`
		Location      Location  `json:"location"`
		Status        string    `json:"status"`
		CollectorID   *string   `json:"collectorId"`
		CreatedAt     time.Time `json:"createdAt"`
		UpdatedAt     time.Time `json:"updatedAt"`
		Version       int64     `json:"version"`
	}

	Collector struct {
		ID             string     `json:"id"`
		OrganizationID string     `json:"organizationId"`
		FullName       string     `json:"fullName"`
		Phone          string     `json:"phone,omitempty"`
		Location       *Location  `json:"location"`
		LastSeenAt     *time.Time `json:"lastSeenAt"`
	}

	Created struct {
		ID string `json:"id"`
	}

	// DispatchResult carries a null distanceKm for a blind assignment.
	DispatchResult struct {
		Job         Job      `json:"job"`
		CollectorID string   `json:"collectorId"`
		DistanceKm  *float64 `json:"distanceKm"`
	}

	CollectorJobs struct {
		Available []Job `json:"available"`
		Assigned  []Job `json:"assigned"`
	}

	DispatchBoard struct {
		Collectors  []Collector `json:"collectors"`
		PendingJobs []Job       `json:"pendingJobs"`
	}

	ValidationErrorDetail struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Code    string `json:"code"`
	}

	Error struct {
		Code    int                     `json:"code"`
		Message string                  `json:"message"`
		Details []ValidationErrorDetail `json:"details,omitempty"`
	}
)

func newLocation(l kernel.Location) Location {
	return Location{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func newJob(v queries.JobView) Job {
	return Job{
		ID:            v.ID.String(),
		RequesterID:   v.RequesterID.String(),
		Category:      v.Category,
		Quantity:      v.Quantity,
		ScheduledTime: v.ScheduledTime,
		Note:          v.Note,
		Location:      newLocation(v.Location),
		Status:        v.Status.String(),
		CollectorID:   optionalID(v.CollectorID),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		Version:       v.Version,
	}
}

func newJobs(views []queries.JobView) []Job {
	out := make([]Job, len(views))
	for i, v := range views {
		out[i] = newJob(v)
	}
	return out
}

func newCollector(v queries.CollectorView) Collector {
	c := Collector{
		ID:             v.ID.String(),
		OrganizationID: v.OrganizationID.String(),
		FullName:       v.FullName,
		Phone:          v.Phone,
		LastSeenAt:     v.LastSeenAt,
	}
	if v.Location != nil {
		l := newLocation(*v.Location)
		c.Location = &l
	}
	return c
}

func newCollectors(views []queries.CollectorView) []Collector {
	out := make([]Collector, len(views))
	for i, v := range views {
		out[i] = newCollector(v)
	}
	return out
}

func newDispatchResult(res commands.DispatchNearestResult) DispatchResult {
	return DispatchResult{
		Job:         newJob(queries.NewJobView(res.Job)),
		CollectorID: res.CollectorID.String(),
		DistanceKm:  res.DistanceKm,
	}
}

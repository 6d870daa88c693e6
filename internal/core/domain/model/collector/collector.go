package collector

import (
	"errors"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var (
	ErrFullNameIsRequired        = errs.NewValueIsRequiredError("fullName")
	ErrOrganizationIsRequired    = errs.NewValueIsRequiredError("organizationId")
	ErrCollectorIsNotConstructed = errors.New("Collector must be created via NewCollector constructor")
)

// Collector is a field worker that can be assigned pickup jobs.
type Collector struct {
	id             kernel.UUID
	organizationID kernel.UUID
	fullName       string
	phone          string
	location       *kernel.Location
	lastSeenAt     *time.Time
	guard          guard.ConstructorGuard
}

// NewCollector registers a collector with no known position.
func NewCollector(id, organizationID kernel.UUID, fullName, phone string) (*Collector, error) {
	c := &Collector{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setOrganizationID(organizationID),
		c.setFullName(fullName),
	); err != nil {
		return nil, err
	}
	c.phone = strings.TrimSpace(phone)

	return c, nil
}

// RestoreCollector rebuilds a collector from persisted state.
func RestoreCollector(
	id, organizationID kernel.UUID,
	fullName, phone string,
	location *kernel.Location,
	lastSeenAt *time.Time,
) (*Collector, error) {
	c, err := NewCollector(id, organizationID, fullName, phone)
	if err != nil {
		return nil, err
	}

	if (location == nil) != (lastSeenAt == nil) {
		return nil, errs.NewValueIsInvalidError("location and lastSeenAt must be set together")
	}
	if location != nil {
		if err = c.ReportLocation(*location, *lastSeenAt); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Collector) IsEqual(other *Collector) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Collector) Validate() error {
	if c == nil {
		return ErrCollectorIsNotConstructed
	}
	return c.guard.Validate(ErrCollectorIsNotConstructed)
}

func (c *Collector) ID() kernel.UUID {
	return c.id
}

func (c *Collector) OrganizationID() kernel.UUID {
	return c.organizationID
}

func (c *Collector) FullName() string {
	return c.fullName
}

func (c *Collector) Phone() string {
	return c.phone
}

// Location returns the last reported position, or nil if the collector never reported one.
func (c *Collector) Location() *kernel.Location {
	if c.location == nil {
		return nil
	}
	loc := *c.location
	return &loc
}

func (c *Collector) LastSeenAt() *time.Time {
	if c.lastSeenAt == nil {
		return nil
	}
	at := *c.lastSeenAt
	return &at
}

func (c *Collector) IsLocated() bool {
	return c.location != nil
}

// HasFreshLocation reports whether the collector reported a position within maxAge
// of now. A non-positive maxAge disables the age check.
func (c *Collector) HasFreshLocation(now time.Time, maxAge time.Duration) bool {
	if !c.IsLocated() {
		return false
	}
	if maxAge <= 0 {
		return true
	}
	return !c.lastSeenAt.Before(now.Add(-maxAge))
}

// BelongsTo reports whether the collector is a member of organizationID.
func (c *Collector) BelongsTo(organizationID kernel.UUID) bool {
	return c.organizationID.IsEqual(organizationID)
}

// ReportLocation overwrites the position and stamps it with at.
func (c *Collector) ReportLocation(location kernel.Location, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("lastSeenAt")
	}

	c.location = &location
	c.lastSeenAt = &at
	return nil
}

func (c *Collector) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Collector) setOrganizationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return ErrOrganizationIsRequired
	}
	c.organizationID = id
	return nil
}

func (c *Collector) setFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return ErrFullNameIsRequired
	}
	c.fullName = fullName
	return nil
}

package job

import (
	"fmt"
	"strings"

	"pickup/internal/pkg/errs"
)

// Status represents the lifecycle state of a pickup job.
//
// State transitions:
//
//	Pending ──> Accepted ──> InProgress ──> Completed
//	   │            │             ┆
//	   └────────────┴─────────────┴╌╌> Cancelled
//
// The dotted edge is only taken when collector abort is enabled.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending jobs wait for a collector.
	Pending

	// Accepted jobs have an assigned collector who has not started yet.
	Accepted

	// InProgress jobs are being collected.
	InProgress

	// Completed is terminal.
	Completed

	// Cancelled is terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Accepted:   "Accepted",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Accepted:   "Accepted",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// ParseStatus resolves a status name case-insensitively. Unknown is never returned without an error.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Statuses lists the valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Accepted, InProgress, Completed, Cancelled}
}

func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActive reports whether a collector is currently working the job.
func (s Status) IsActive() bool {
	return s == Accepted || s == InProgress
}

// ValidateAccept checks that a collector may still be assigned.
func (s Status) ValidateAccept() error {
	if s != Pending {
		return invalidTransition(s, "accept")
	}
	return nil
}

// ValidateCanHaveCollector checks the assignment invariant: a collector is set
// exactly in Accepted, InProgress and Completed.
func (s Status) ValidateCanHaveCollector(collector bool) error {
	requiresCollector := s == Accepted || s == InProgress || s == Completed

	if collector && !requiresCollector {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a collector", s.String()),
		)
	}

	if !collector && requiresCollector {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no collector", s.String()),
		)
	}

	return nil
}

func (s Status) Accept() (Status, error) {
	if err := s.ValidateAccept(); err != nil {
		return Unknown, err
	}
	return Accepted, nil
}

func (s Status) Start() (Status, error) {
	if s != Accepted {
		return Unknown, invalidTransition(s, "start")
	}
	return InProgress, nil
}

func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return Unknown, invalidTransition(s, "complete")
	}
	return Completed, nil
}

// Cancel allows Pending and Accepted, and InProgress only when allowInProgress is set.
func (s Status) Cancel(allowInProgress bool) (Status, error) {
	switch {
	case s == Pending, s == Accepted:
		return Cancelled, nil
	case s == InProgress && allowInProgress:
		return Cancelled, nil
	default:
		return Unknown, invalidTransition(s, "cancel")
	}
}

func invalidTransition(s Status, action string) error {
	return errs.NewInvalidStateErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to %s", s.String(), action),
	)
}

package commands

import (
	"errors"
	"time"
)

// ErrCallerIsNotAllowed is returned when the caller's role or ownership does not permit the operation.
var ErrCallerIsNotAllowed = errors.New("caller is not allowed to perform this operation")

// LifecyclePolicy holds the operator-level switches of the job lifecycle.
type LifecyclePolicy struct {
	// SingleActiveJob limits each collector to one Accepted or InProgress job.
	SingleActiveJob bool

	// AllowCollectorAbort lets the assigned collector (or an operator) cancel an InProgress job.
	AllowCollectorAbort bool

	// MaxLocationAge treats older collector positions as unknown during dispatch. Zero disables it.
	MaxLocationAge time.Duration
}

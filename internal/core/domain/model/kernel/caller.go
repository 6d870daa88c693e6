package kernel

import (
	"fmt"
	"strings"

	"pickup/internal/pkg/errs"
)

// Role is the kind of party making a request, as asserted by the identity provider.
type Role string

const (
	RoleRequester Role = "requester"
	RoleCollector Role = "collector"
	RoleOperator  Role = "operator"
)

// ParseRole accepts the three known roles case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleRequester, RoleCollector, RoleOperator:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Caller is the authenticated party behind an operation. The core trusts it as given.
type Caller struct {
	ID   UUID
	Role Role
}

func (c Caller) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("callerId", err)
	}
	if _, err := ParseRole(string(c.Role)); err != nil {
		return err
	}
	return nil
}

func (c Caller) Is(role Role) bool {
	return c.Role == role
}

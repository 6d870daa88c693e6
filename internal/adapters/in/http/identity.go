package http

import (
	"errors"
	"slices"

	"pickup/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the gateway in front of the service. Credentials are
// checked there; this service trusts the headers as given.
const (
	HeaderCallerID   = "X-Caller-Id"
	HeaderCallerRole = "X-Caller-Role"

	callerKey = "caller"
)

var (
	errMissingIdentity = errors.New("missing or malformed caller identity")
	errRoleNotAllowed  = errors.New("role is not allowed to use this endpoint")
)

// Identity reads the caller from the identity headers and rejects requests without one.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := kernel.UUIDFromString(c.Request().Header.Get(HeaderCallerID))
			if err != nil {
				return errMissingIdentity
			}
			role, err := kernel.ParseRole(c.Request().Header.Get(HeaderCallerRole))
			if err != nil {
				return errMissingIdentity
			}

			c.Set(callerKey, kernel.Caller{ID: id, Role: role})
			return next(c)
		}
	}
}

// RequireRole admits only the given roles. It must run after Identity.
func RequireRole(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := callerFrom(c)
			if !ok {
				return errMissingIdentity
			}
			if !slices.Contains(roles, caller.Role) {
				return errRoleNotAllowed
			}
			return next(c)
		}
	}
}

func callerFrom(c echo.Context) (kernel.Caller, bool) {
	caller, ok := c.Get(callerKey).(kernel.Caller)
	return caller, ok
}

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/domain/model/job"
	"pickup/internal/core/domain/services"
	"pickup/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// NewErrorHandler turns handler errors into the JSON Error body. Unexpected
// errors are logged and reported as 500 without detail.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toResponse(err)
		if status == http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "Request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "Failed to write error response", "error", err)
		}
	}
}

func toResponse(err error) (int, Error) {
	var (
		verrs   validator.ValidationErrors
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Details: formatValidationErrors(verrs),
		}
	case errors.As(err, &httpErr):
		return httpErr.Code, Error{Code: httpErr.Code, Message: http.StatusText(httpErr.Code)}
	}

	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	return status, Error{Code: status, Message: message}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errMissingIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, errRoleNotAllowed),
		errors.Is(err, commands.ErrCallerIsNotAllowed),
		errors.Is(err, job.ErrCollectorIsNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, services.ErrCollectorOutOfRange),
		errors.Is(err, services.ErrNoCandidates):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

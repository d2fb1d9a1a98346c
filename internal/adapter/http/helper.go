package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"natillera-backend/internal/domain/errs"
)

// writeError maps the engine error taxonomy onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrConsistency):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrStore):
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

// bindAndValidate reports ok=false after writing the 400 response itself;
// handlers return err as-is in that case.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// parseDate accepts a 2006-01-02 day; empty means today (UTC).
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}

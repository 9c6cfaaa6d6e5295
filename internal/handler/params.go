package handler

import (
	"net/http"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/gin-gonic/gin"
)

// DateLayout is the calendar-day format accepted in bodies and query strings.
const DateLayout = "2006-01-02"

// bindJSON decodes and validates the body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

// parseDay parses an optional calendar day. Empty input yields the zero time.
func parseDay(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errs.Validation(field + " must use the format " + DateLayout)
	}
	return t, nil
}

func parseOptionalDay(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDay(field, *value)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// queryRange reads the from/to query parameters.
func queryRange(c *gin.Context) (time.Time, time.Time, error) {
	from, err := parseDay("from", c.Query("from"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDay("to", c.Query("to"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/planner"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

var validationErrors = []error{
	backlog.ErrNoSubjects,
	backlog.ErrMissingName,
	backlog.ErrMissingDeadline,
	backlog.ErrInvalidBacklog,
	backlog.ErrInvalidDifficulty,
	backlog.ErrInvalidDailyHours,
	backlog.ErrInvalidPace,
	backlog.ErrInvalidStress,
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity, "validation_failed"
		}
	}
	switch {
	case errors.Is(err, planner.ErrSubjectNotFound):
		return http.StatusNotFound, "subject_not_found"
	case errors.Is(err, adaptive.ErrDayNotFound):
		return http.StatusNotFound, "day_not_found"
	case errors.Is(err, adaptive.ErrTaskNotFound):
		return http.StatusNotFound, "task_not_found"
	case errors.Is(err, planner.ErrNoResults):
		return http.StatusConflict, "no_plan"
	case errors.Is(err, planner.ErrStale):
		return http.StatusConflict, "plan_stale"
	}
	return http.StatusInternalServerError, "internal_error"
}

// respondErr writes err with its mapped status, logging server faults.
func (h *Handler) respondErr(c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	RespondError(c, status, code, err)
}

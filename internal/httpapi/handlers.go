package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/coach"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/planner"
	"github.com/abhisek/studyplan/internal/weekplan"
)

// maxImportBytes bounds the YAML import body.
const maxImportBytes = 1 << 20

type Handler struct {
	log   *logger.Logger
	svc   *planner.Service
	coach *coach.Coach
}

func NewHandler(log *logger.Logger, svc *planner.Service, c *coach.Coach) *Handler {
	return &Handler{
		log:   log.With("handler", "PlanHandler"),
		svc:   svc,
		coach: c,
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type SubjectRequest struct {
	Name            string `json:"name"`
	BacklogChapters int    `json:"backlog_chapters"`
	Difficulty      string `json:"difficulty"`
	// Deadline is a YYYY-MM-DD date.
	Deadline string `json:"deadline"`
}

func (r SubjectRequest) toSubject(id string) (backlog.Subject, error) {
	s := backlog.Subject{
		ID:              id,
		Name:            r.Name,
		BacklogChapters: r.BacklogChapters,
		Difficulty:      backlog.DifficultyModerate,
	}
	if r.Difficulty != "" {
		d, err := backlog.ParseDifficulty(r.Difficulty)
		if err != nil {
			return backlog.Subject{}, err
		}
		s.Difficulty = d
	}
	if r.Deadline != "" {
		d, err := backlog.ParseDate(r.Deadline)
		if err != nil {
			return backlog.Subject{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", backlog.ErrMissingDeadline, r.Deadline)
		}
		s.Deadline = &d
	}
	return s, nil
}

type ProfileRequest struct {
	DailyHours float64 `json:"daily_hours"`
	Pace       string  `json:"pace"`
	Stress     string  `json:"stress"`
}

func (r ProfileRequest) toProfile() (backlog.Profile, error) {
	if r.DailyHours <= 0 {
		return backlog.Profile{}, backlog.ErrInvalidDailyHours
	}
	p := backlog.Profile{DailyHours: backlog.ClampDailyHours(r.DailyHours)}
	if r.Pace != "" {
		pace, err := backlog.ParsePace(r.Pace)
		if err != nil {
			return backlog.Profile{}, err
		}
		p.Pace = pace
	}
	if r.Stress != "" {
		stress, err := backlog.ParseStress(r.Stress)
		if err != nil {
			return backlog.Profile{}, err
		}
		p.Stress = stress
	}
	return p.Normalized(), nil
}

type ToggleResponse struct {
	Task     weekplan.Task    `json:"task"`
	Adaptive adaptive.Metrics `json:"adaptive"`
}

type RebalanceResponse struct {
	Moved    int              `json:"moved"`
	Adaptive adaptive.Metrics `json:"adaptive"`
}

// GET /api/session
func (h *Handler) GetSession(c *gin.Context) {
	RespondOK(c, h.svc.Session())
}

// POST /api/subjects
func (h *Handler) AddSubject(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sub, err := req.toSubject("")
	if err != nil {
		h.respondErr(c, err)
		return
	}
	sub, err = h.svc.AddSubject(c.Request.Context(), sub)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// PUT /api/subjects/:id
func (h *Handler) UpdateSubject(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sub, err := req.toSubject(c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	sub, err = h.svc.UpdateSubject(c.Request.Context(), sub)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, sub)
}

// DELETE /api/subjects/:id
func (h *Handler) RemoveSubject(c *gin.Context) {
	if err := h.svc.RemoveSubject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/profile
func (h *Handler) SetProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := req.toProfile()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	p, err = h.svc.SetProfile(c.Request.Context(), p)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, p)
}

// PUT /api/materials
// The body is stored verbatim and returned in the session document.
func (h *Handler) SetMaterials(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if !json.Valid(body) {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("materials must be a JSON document"))
		return
	}
	if err := h.svc.SetMaterials(c.Request.Context(), body); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/import?replace=true
// Accepts a YAML backlog document.
func (h *Handler) Import(c *gin.Context) {
	imp, err := backlog.Parse(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			status, code = http.StatusBadRequest, "invalid_document"
		}
		RespondError(c, status, code, err)
		return
	}
	replace := strings.EqualFold(c.Query("replace"), "true")
	if err := h.svc.Import(c.Request.Context(), imp, replace); err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, h.svc.Session())
}

// POST /api/plan/generate
func (h *Handler) Generate(c *gin.Context) {
	res, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, res)
}

// POST /api/plan/days/:day/tasks/:task/toggle
func (h *Handler) ToggleTask(c *gin.Context) {
	task, m, err := h.svc.ToggleTask(c.Request.Context(), c.Param("day"), c.Param("task"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, ToggleResponse{Task: task, Adaptive: m})
}

// POST /api/plan/rebalance
func (h *Handler) Rebalance(c *gin.Context) {
	moved, m, err := h.svc.Rebalance(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, RebalanceResponse{Moved: moved, Adaptive: m})
}

// GET /api/coach
func (h *Handler) Coach(c *gin.Context) {
	sess := h.svc.Session()
	if sess.Results == nil {
		h.respondErr(c, planner.ErrNoResults)
		return
	}
	RespondOK(c, h.coach.Advise(c.Request.Context(), *sess.Results))
}

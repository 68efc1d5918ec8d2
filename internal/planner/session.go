package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/recovery"
	"github.com/abhisek/studyplan/internal/weekplan"
)

const sessionVersion = 1

// Session is everything persisted for one student.
type Session struct {
	Version  int               `json:"version"`
	Subjects []backlog.Subject `json:"subjects"`
	Profile  backlog.Profile   `json:"profile"`
	Results  *Results          `json:"results,omitempty"`
	History  adaptive.History  `json:"history"`

	// Materials is uploaded study material metadata. The planner stores it
	// untouched for the clients that manage it.
	Materials  json.RawMessage `json:"materials,omitempty"`
	LoadFactor float64         `json:"load_factor"`
}

// Results is the output of one planning cycle plus the adaptive state
// layered on top of it.
type Results struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Subjects    []backlog.Subject          `json:"subjects"`
	Recovery    recovery.Metrics           `json:"recovery"`
	Allocation  recovery.AllocationMetrics `json:"allocation"`
	Plan        weekplan.Plan              `json:"plan"`
	Adaptive    adaptive.Metrics           `json:"adaptive"`

	// Profile is the profile the plan was generated with.
	Profile backlog.Profile `json:"profile"`
	// Stale is set when subjects or profile change after generation.
	Stale bool `json:"stale"`
}

// NewSession returns an empty session with the default profile.
func NewSession() Session {
	return Session{
		Version:    sessionVersion,
		Profile:    backlog.DefaultProfile(),
		LoadFactor: recovery.DefaultLoadFactor,
	}
}

// Clone deep-copies the parts of the session that mutations touch.
func (s Session) Clone() Session {
	out := s
	out.Subjects = backlog.Clone(s.Subjects)
	out.History = adaptive.History{
		CompletionRates: append([]float64(nil), s.History.CompletionRates...),
		StressLevels:    append([]int(nil), s.History.StressLevels...),
	}
	out.Materials = append(json.RawMessage(nil), s.Materials...)
	if s.Results != nil {
		r := *s.Results
		r.Subjects = backlog.Clone(s.Results.Subjects)
		r.Plan = s.Results.Plan.Clone()
		out.Results = &r
	}
	return out
}

var errEmptySession = errors.New("planner: empty session document")

func encodeSession(s Session) ([]byte, error) {
	s.Version = sessionVersion
	return json.Marshal(s)
}

func decodeSession(data []byte) (Session, error) {
	if len(data) == 0 {
		return Session{}, errEmptySession
	}
	s := NewSession()
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.Version > sessionVersion {
		return Session{}, fmt.Errorf("decode session: unsupported version %d", s.Version)
	}
	if s.LoadFactor <= 0 {
		s.LoadFactor = recovery.DefaultLoadFactor
	}
	s.Profile = s.Profile.Normalized()
	return s, nil
}

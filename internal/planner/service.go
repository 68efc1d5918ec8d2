// Package planner owns the student's session: it runs the planning
// pipeline, applies adaptive updates, and persists every change.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/weekplan"
)

var (
	ErrNoResults       = errors.New("planner: no plan has been generated")
	ErrStale           = errors.New("planner: plan is out of date, regenerate it first")
	ErrSubjectNotFound = errors.New("planner: subject not found")
)

// Service serializes access to one session. Every mutating method saves
// the whole session before returning; on a failed save the in-memory
// state is left as it was.
type Service struct {
	mu     sync.Mutex
	repo   store.SessionRepo
	events store.EventRepo
	key    string
	log    *logger.Logger
	now    func() time.Time
	sess   Session
}

// Option configures a Service.
type Option func(*Service)

// WithEvents records planner actions in the event log.
func WithEvents(events store.EventRepo) Option {
	return func(s *Service) { s.events = events }
}

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New loads the session stored under key. A missing session starts empty;
// a corrupt one is logged and replaced with an empty session.
func New(ctx context.Context, repo store.SessionRepo, key string, opts ...Option) (*Service, error) {
	s := &Service{
		repo: repo,
		key:  key,
		log:  logger.Nop(),
		now:  time.Now,
		sess: NewSession(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("session", key)

	data, err := repo.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return s, nil
	}
	sess, err := decodeSession(data)
	if err != nil {
		s.log.Warn("discarding corrupt session", "bytes", len(data), "error", err)
		return s, nil
	}
	s.sess = sess
	return s, nil
}

// Session returns a copy of the current session.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Clone()
}

// Key is the session key the service persists under.
func (s *Service) Key() string {
	return s.key
}

// commit persists next and makes it current.
func (s *Service) commit(ctx context.Context, next Session) error {
	data, err := encodeSession(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.sess = next
	return nil
}

func (s *Service) record(ctx context.Context, action, detail string) {
	if s.events == nil {
		return
	}
	e := store.PlanEvent{
		SessionKey: s.key,
		Action:     action,
		Detail:     detail,
		LoadFactor: s.sess.LoadFactor,
	}
	if r := s.sess.Results; r != nil {
		e.CompletionRate = r.Adaptive.CompletionRate
	}
	if err := s.events.AppendPlanEvent(ctx, e); err != nil {
		s.log.Warn("failed to record plan event", "action", action, "error", err)
	}
}

// markStale flags existing results after an input edit.
func markStale(sess *Session) {
	if sess.Results != nil {
		sess.Results.Stale = true
	}
}

// AddSubject validates and appends a new subject.
func (s *Service) AddSubject(ctx context.Context, sub backlog.Subject) (backlog.Subject, error) {
	sub, err := cleanSubject(sub)
	if err != nil {
		return backlog.Subject{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub = backlog.NewSubject(sub.Name, sub.BacklogChapters, sub.Difficulty, sub.Deadline)
	} else if indexOf(s.sess.Subjects, sub.ID) >= 0 {
		return backlog.Subject{}, fmt.Errorf("planner: subject %s already exists", sub.ID)
	}
	next := s.sess.Clone()
	next.Subjects = append(next.Subjects, sub)
	markStale(&next)
	if err := s.commit(ctx, next); err != nil {
		return backlog.Subject{}, err
	}
	s.log.Info("subject added", "subject", sub.Name, "chapters", sub.BacklogChapters)
	return sub, nil
}

// UpdateSubject replaces the user-supplied fields of an existing subject.
func (s *Service) UpdateSubject(ctx context.Context, sub backlog.Subject) (backlog.Subject, error) {
	sub, err := cleanSubject(sub)
	if err != nil {
		return backlog.Subject{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sess.Clone()
	i := indexOf(next.Subjects, sub.ID)
	if i < 0 {
		return backlog.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, sub.ID)
	}
	next.Subjects[i] = sub
	markStale(&next)
	if err := s.commit(ctx, next); err != nil {
		return backlog.Subject{}, err
	}
	return sub, nil
}

// RemoveSubject deletes the subject with the given ID.
func (s *Service) RemoveSubject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sess.Clone()
	i := indexOf(next.Subjects, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSubjectNotFound, id)
	}
	next.Subjects = append(next.Subjects[:i], next.Subjects[i+1:]...)
	markStale(&next)
	return s.commit(ctx, next)
}

// FindSubject resolves a subject by ID or, failing that, by
// case-insensitive name.
func (s *Service) FindSubject(ref string) (backlog.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.sess.Subjects, ref); i >= 0 {
		return s.sess.Subjects[i], nil
	}
	for _, sub := range s.sess.Subjects {
		if strings.EqualFold(sub.Name, ref) {
			return sub, nil
		}
	}
	return backlog.Subject{}, fmt.Errorf("%w: %s", ErrSubjectNotFound, ref)
}

// cleanSubject drops derived fields, trims the name and truncates the
// deadline to its date before validating.
func cleanSubject(sub backlog.Subject) (backlog.Subject, error) {
	sub = sub.ClearDerived()
	sub.Name = strings.TrimSpace(sub.Name)
	if sub.Deadline != nil {
		d := backlog.Midnight(*sub.Deadline)
		sub.Deadline = &d
	}
	if err := backlog.ValidateSubject(sub); err != nil {
		return backlog.Subject{}, err
	}
	return sub, nil
}

func indexOf(subjects []backlog.Subject, id string) int {
	for i, sub := range subjects {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

// SetProfile stores a new profile, clamping daily hours.
func (s *Service) SetProfile(ctx context.Context, p backlog.Profile) (backlog.Profile, error) {
	p = p.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sess.Clone()
	next.Profile = p
	markStale(&next)
	if err := s.commit(ctx, next); err != nil {
		return backlog.Profile{}, err
	}
	return p, nil
}

// Import loads subjects (and the profile, when present) from a parsed
// backlog file. With replace set, existing subjects are dropped first.
func (s *Service) Import(ctx context.Context, imp *backlog.Import, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sess.Clone()
	if replace {
		next.Subjects = nil
	}
	next.Subjects = append(next.Subjects, imp.Subjects...)
	if imp.Profile != nil {
		next.Profile = imp.Profile.Normalized()
	}
	markStale(&next)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.record(ctx, store.ActionImport, fmt.Sprintf("%d subjects", len(imp.Subjects)))
	return nil
}

// SetMaterials replaces the opaque materials document.
func (s *Service) SetMaterials(ctx context.Context, materials json.RawMessage) error {
	if len(materials) > 0 && !json.Valid(materials) {
		return fmt.Errorf("planner: materials must be valid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sess.Clone()
	next.Materials = append(json.RawMessage(nil), materials...)
	return s.commit(ctx, next)
}

// Generate runs the full pipeline on the current subjects and profile.
// Invalid input leaves the previous results untouched.
func (s *Service) Generate(ctx context.Context) (Results, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := backlog.Validate(s.sess.Subjects, s.sess.Profile); err != nil {
		return Results{}, err
	}

	next := s.sess.Clone()
	if prev := next.Results; prev != nil && len(prev.Plan.Days) > 0 {
		next.History = next.History.Append(prev.Adaptive.CompletionRate, prev.Profile.Stress.Value())
	}

	res := Run(next.Subjects, next.Profile, next.History, next.LoadFactor, s.now())
	next.Results = &res
	if err := s.commit(ctx, next); err != nil {
		return Results{}, err
	}

	s.log.Info("plan generated",
		"subjects", len(res.Subjects),
		"difficulty", res.Recovery.DifficultyScore,
		"load_factor", next.LoadFactor,
		"tasks", len(res.Plan.Tasks()),
	)
	s.record(ctx, store.ActionGenerate, fmt.Sprintf("%d subjects, difficulty %d", len(res.Subjects), res.Recovery.DifficultyScore))
	return res, nil
}

// activeResults returns results that adaptive updates may touch.
func (s *Service) activeResults() (*Results, error) {
	r := s.sess.Results
	if r == nil {
		return nil, ErrNoResults
	}
	if r.Stale {
		return nil, ErrStale
	}
	return r, nil
}

// ToggleTask advances a task's status and recomputes adaptive metrics.
func (s *Service) ToggleTask(ctx context.Context, dayID, taskID string) (weekplan.Task, adaptive.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeResults(); err != nil {
		return weekplan.Task{}, adaptive.Metrics{}, err
	}
	next := s.sess.Clone()
	r := next.Results

	plan, err := adaptive.ToggleTaskStatus(r.Plan, dayID, taskID)
	if err != nil {
		return weekplan.Task{}, adaptive.Metrics{}, err
	}
	r.Plan = plan
	r.Adaptive = adaptive.ComputeMetrics(plan, r.Subjects, next.Profile, next.History, s.now())
	next.LoadFactor = r.Adaptive.LoadAdjustmentFactor

	if err := s.commit(ctx, next); err != nil {
		return weekplan.Task{}, adaptive.Metrics{}, err
	}

	task := findTask(plan, dayID, taskID)
	s.log.Info("task toggled", "day", dayID, "task", taskID, "status", task.Status,
		"completion", r.Adaptive.CompletionRate)
	s.record(ctx, store.ActionToggle, fmt.Sprintf("%s %s -> %s", dayID, task.Label, task.Status))
	return task, r.Adaptive, nil
}

func findTask(plan weekplan.Plan, dayID, taskID string) weekplan.Task {
	if di := plan.DayIndex(dayID); di >= 0 {
		for _, t := range plan.Days[di].Tasks {
			if t.ID == taskID {
				return t
			}
		}
	}
	return weekplan.Task{}
}

// Rebalance moves outstanding missed tasks into later days and applies
// the rebalance load penalty. It returns the number of tasks moved.
func (s *Service) Rebalance(ctx context.Context) (int, adaptive.Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.activeResults(); err != nil {
		return 0, adaptive.Metrics{}, err
	}
	next := s.sess.Clone()
	r := next.Results

	plan, moved := adaptive.Rebalance(r.Plan)
	if moved == 0 {
		return 0, r.Adaptive, nil
	}
	r.Plan = plan
	r.Adaptive = adaptive.ComputeMetrics(plan, r.Subjects, next.Profile, next.History, s.now())
	r.Adaptive.LoadAdjustmentFactor = adaptive.RebalancePenaltyFactor
	next.LoadFactor = adaptive.RebalancePenaltyFactor

	if err := s.commit(ctx, next); err != nil {
		return 0, adaptive.Metrics{}, err
	}
	s.log.Info("plan rebalanced", "moved", moved)
	s.record(ctx, store.ActionRebalance, fmt.Sprintf("%d tasks", moved))
	return moved, r.Adaptive, nil
}

// Reset deletes the stored session and starts over.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.sess = NewSession()
	s.log.Info("session reset")
	s.record(ctx, store.ActionReset, "")
	return nil
}

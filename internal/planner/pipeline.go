package planner

import (
	"time"

	"github.com/abhisek/studyplan/internal/adaptive"
	"github.com/abhisek/studyplan/internal/backlog"
	"github.com/abhisek/studyplan/internal/recovery"
	"github.com/abhisek/studyplan/internal/weekplan"
)

// Run executes stages one through six on fresh copies of the input and
// computes the initial adaptive metrics. It has no side effects.
func Run(subjects []backlog.Subject, profile backlog.Profile, history adaptive.History, loadFactor float64, today time.Time) Results {
	if loadFactor <= 0 {
		loadFactor = recovery.DefaultLoadFactor
	}
	cleared := make([]backlog.Subject, len(subjects))
	for i, s := range subjects {
		cleared[i] = s.ClearDerived()
	}

	scored := recovery.ComputeUrgency(cleared, today)
	scored = recovery.ComputePressure(scored, profile)
	metrics := recovery.ComputeRecoveryMetrics(scored, profile)
	ranked := recovery.Prioritize(scored)
	allocated, alloc := recovery.Allocate(ranked, profile, loadFactor)
	plan := weekplan.Generate(allocated, profile, today)

	return Results{
		GeneratedAt: today,
		Profile:     profile,
		Subjects:    allocated,
		Recovery:    metrics,
		Allocation:  alloc,
		Plan:        plan,
		Adaptive:    adaptive.ComputeMetrics(plan, allocated, profile, history, today),
	}
}

package recovery

import (
	"math"

	"github.com/abhisek/studyplan/internal/backlog"
)

// DefaultLoadFactor leaves nominal capacity unchanged.
const DefaultLoadFactor = 1.0

const (
	bufferRateDefault    = 0.10
	bufferRateHighStress = 0.15
	maxShareOfCapacity   = 0.5
	balancedShareLimit   = 0.4
	allocationStep       = 0.25
)

var minHoursByPace = map[backlog.Pace]float64{
	backlog.PaceFast:     0.25,
	backlog.PaceModerate: 0.5,
	backlog.PaceSlow:     0.75,
}

// AllocationMetrics summarizes a day's allocation.
type AllocationMetrics struct {
	AdjustedCapacity float64 `json:"adjusted_capacity"`
	UsableHours      float64 `json:"usable_hours"`
	TotalAllocated   float64 `json:"total_allocated"`
	BufferHours      float64 `json:"buffer_hours"`
	RemainingHours   float64 `json:"remaining_hours"`
	HeaviestSubject  string  `json:"heaviest_subject,omitempty"`
	Balanced         bool    `json:"balanced"`
}

// BufferRate returns the share of capacity held back as slack.
func BufferRate(stress backlog.StressLevel) float64 {
	if stress == backlog.StressHigh {
		return bufferRateHighStress
	}
	return bufferRateDefault
}

// MinHoursPerSubject returns the per-subject daily floor for a pace.
func MinHoursPerSubject(p backlog.Pace) float64 {
	if h, ok := minHoursByPace[p]; ok {
		return h
	}
	return minHoursByPace[backlog.PaceModerate]
}

// Allocate distributes dailyHours × loadFactor across subjects in
// proportion to pressure, after reserving buffer time. Shares are clamped
// to [pace floor, half of adjusted capacity]; if the clamped total exceeds
// usable hours every share is scaled down uniformly without re-clamping.
// Shares are then rounded to the nearest quarter hour.
//
// Percentages are relative to nominal daily hours so runs with different
// load factors stay comparable.
func Allocate(subjects []backlog.Subject, profile backlog.Profile, loadFactor float64) ([]backlog.Subject, AllocationMetrics) {
	out := backlog.Clone(subjects)
	if loadFactor <= 0 {
		loadFactor = DefaultLoadFactor
	}

	adjusted := profile.DailyHours * loadFactor
	buffer := adjusted * BufferRate(profile.Stress)
	usable := adjusted - buffer

	metrics := AllocationMetrics{
		AdjustedCapacity: round2(adjusted),
		UsableHours:      round2(usable),
		BufferHours:      round2(buffer),
		Balanced:         true,
	}

	shares := rawShares(out, usable)
	if shares == nil {
		metrics.RemainingHours = metrics.UsableHours
		return out, metrics
	}

	lo := MinHoursPerSubject(profile.Pace)
	hi := adjusted * maxShareOfCapacity
	var clampedSum float64
	for i := range shares {
		shares[i] = clampHours(shares[i], lo, hi)
		clampedSum += shares[i]
	}
	if clampedSum > usable {
		scale := usable / clampedSum
		for i := range shares {
			shares[i] *= scale
		}
	}

	var total, heaviest float64
	for i := range out {
		h := roundToStep(shares[i])
		out[i].AllocatedHours = h
		out[i].AllocationPercent = int(math.Round(h / profile.DailyHours * 100))
		total += h
		if h > heaviest {
			heaviest = h
			metrics.HeaviestSubject = out[i].Name
		}
		if h > profile.DailyHours*balancedShareLimit {
			metrics.Balanced = false
		}
	}

	metrics.TotalAllocated = round2(total)
	metrics.RemainingHours = round2(math.Max(0, adjusted-buffer-total))
	return out, metrics
}

// rawShares splits usable hours by pressure. It returns nil when there is
// nothing to divide by.
func rawShares(subjects []backlog.Subject, usable float64) []float64 {
	var total float64
	for _, s := range subjects {
		total += s.PressureScore
	}
	if len(subjects) == 0 || total <= 0 {
		return nil
	}
	shares := make([]float64, len(subjects))
	for i, s := range subjects {
		shares[i] = usable * (s.PressureScore / total)
	}
	return shares
}

func clampHours(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundToStep rounds to the nearest quarter hour, keeping non-zero shares
// at one step minimum.
func roundToStep(h float64) float64 {
	r := math.Round(h/allocationStep) * allocationStep
	if r == 0 && h > 0 {
		return allocationStep
	}
	return r
}

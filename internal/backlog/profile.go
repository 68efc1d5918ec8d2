package backlog

// Daily capacity bounds, in hours.
const (
	MinDailyHours = 1.0
	MaxDailyHours = 24.0
)

// Profile describes the student's capacity and context.
type Profile struct {
	DailyHours float64     `json:"daily_hours"`
	Pace       Pace        `json:"pace"`
	Stress     StressLevel `json:"stress"`
}

// DefaultProfile is used until the student sets their own.
func DefaultProfile() Profile {
	return Profile{
		DailyHours: 4,
		Pace:       PaceModerate,
		Stress:     StressModerate,
	}
}

// ClampDailyHours bounds h to [MinDailyHours, MaxDailyHours].
// Apply at input boundaries; the planning stages assume a clamped value.
func ClampDailyHours(h float64) float64 {
	if h < MinDailyHours {
		return MinDailyHours
	}
	if h > MaxDailyHours {
		return MaxDailyHours
	}
	return h
}

// Normalized returns the profile with clamped hours and defaulted enums.
func (p Profile) Normalized() Profile {
	p.DailyHours = ClampDailyHours(p.DailyHours)
	if p.Pace == "" {
		p.Pace = PaceModerate
	}
	if p.Stress == "" {
		p.Stress = StressModerate
	}
	return p
}

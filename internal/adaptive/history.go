package adaptive

// History is the long-run record of past cycles carried by the session.
// Values are appended once per regeneration.
type History struct {
	CompletionRates []float64 `json:"completion_rates"`
	StressLevels    []int     `json:"stress_levels"`
}

// Append returns a copy of h with one more cycle recorded.
func (h History) Append(completionRate float64, stress int) History {
	return History{
		CompletionRates: append(append([]float64(nil), h.CompletionRates...), completionRate),
		StressLevels:    append(append([]int(nil), h.StressLevels...), stress),
	}
}

// LastStress returns the most recent recorded stress value.
func (h History) LastStress() (int, bool) {
	if len(h.StressLevels) == 0 {
		return 0, false
	}
	return h.StressLevels[len(h.StressLevels)-1], true
}

// Len is the number of recorded cycles.
func (h History) Len() int {
	return len(h.CompletionRates)
}

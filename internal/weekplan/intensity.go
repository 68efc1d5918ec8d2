package weekplan

import "time"

// IntensityFor returns the intensity label and capacity multiplier for a weekday.
func IntensityFor(wd time.Weekday) (Intensity, float64) {
	switch wd {
	case time.Sunday:
		return IntensityRecovery, 0.5
	case time.Saturday:
		return IntensityLight, 0.7
	case time.Wednesday, time.Thursday:
		return IntensityHigh, 1.1
	default:
		return IntensityModerate, 1.0
	}
}

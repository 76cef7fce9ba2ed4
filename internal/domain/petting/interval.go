package petting

const (
	// MinIntervalHours is 30 seconds expressed in hours.
	MinIntervalHours     = 30.0 / 3600.0
	MaxIntervalHours     = 24.0
	DefaultIntervalHours = 12.0
)

func ValidIntervalHours(hours float64) bool {
	return hours >= MinIntervalHours && hours <= MaxIntervalHours
}

// IntervalOrDefault sanitizes a stored interval value: anything outside the
// allowed range (including zero values from an uninitialized store) falls
// back to the default.
func IntervalOrDefault(hours float64) float64 {
	if !ValidIntervalHours(hours) {
		return DefaultIntervalHours
	}
	return hours
}

func ClampIntervalHours(hours float64) float64 {
	if hours < MinIntervalHours {
		return MinIntervalHours
	}
	if hours > MaxIntervalHours {
		return MaxIntervalHours
	}
	return hours
}

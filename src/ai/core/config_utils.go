package core

// ClampFloat confines val to the provided [min, max] range.
func ClampFloat(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// OrInt returns v when positive, otherwise def.
func OrInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// FloatOr returns *v when set, otherwise def. An explicit zero is kept.
func FloatOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

package track

import "sort"

// Evaluate samples the track at time t (ms). It returns false when the
// track has no keyframes.
func Evaluate(tr *Track, t float64) (Value, bool) {
	if tr == nil {
		return Value{}, false
	}
	return EvaluateKeyframes(tr.Keyframes, t)
}

// EvaluateKeyframes samples a time-sorted keyframe list at time t. Times
// outside the keyframe range clamp to the first or last value, and
// keyframes sharing a time resolve to the later one.
func EvaluateKeyframes(keyframes []Keyframe, t float64) (Value, bool) {
	n := len(keyframes)
	if n == 0 {
		return Value{}, false
	}
	if n == 1 {
		return keyframes[0].Value, true
	}

	// First keyframe strictly after t.
	next := sort.Search(n, func(i int) bool {
		return keyframes[i].Time > t
	})
	if next == 0 {
		return keyframes[0].Value, true
	}
	if next == n {
		return keyframes[n-1].Value, true
	}

	from := keyframes[next-1]
	to := keyframes[next]
	u := (t - from.Time) / (to.Time - from.Time)
	if u <= 0 {
		return from.Value, true
	}

	return Interpolate(from.Value, to.Value, from.Easing.Apply(u)), true
}

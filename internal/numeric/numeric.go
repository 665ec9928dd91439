// Package numeric collects the small integer helpers the block finder
// needs on vertex ids, distances, and positions, all of which are
// int64. Adapted from the teacher's utils.go (AbsInt/MaxInt/MinInt),
// widened to int64 since every distance and position here is int64
// rather than int.
package numeric

// AbsInt64 returns the absolute value of x.
func AbsInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// MaxInt64 returns the larger of a and b.
func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// MinInt64 returns the smaller of a and b.
func MinInt64(a, b int64) int64 {
	if a > b {
		return b
	}
	return a
}

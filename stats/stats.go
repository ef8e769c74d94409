package stats

import "math"

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic accumulates one measurement series (solve times, node counts,
// fitness scores) without retaining the samples, using Welford's online
// algorithm for the moments.
type Statistic struct {
	totalIterations int
	last            float64
	min             float64
	max             float64

	// For Welford's algorithm:
	oldM float64
	newM float64
	oldS float64
	newS float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.totalIterations++
	if s.totalIterations == 1 {
		s.oldM = val
		s.newM = val
		s.oldS = 0
		s.min = val
		s.max = val
	} else {
		s.newM = s.oldM + (val-s.oldM)/float64(s.totalIterations)
		s.newS = s.oldS + (val-s.oldM)*(val-s.newM)
		s.oldM = s.newM
		s.oldS = s.newS
		if val < s.min {
			s.min = val
		}
		if val > s.max {
			s.max = val
		}
	}
}

func (s *Statistic) Mean() float64 {
	if s.totalIterations > 0 {
		return s.newM
	}
	return 0.0
}

// Variance is the unbiased sample variance.
func (s *Statistic) Variance() float64 {
	if s.totalIterations <= 1 {
		return 0.0
	}
	return s.newS / float64(s.totalIterations-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) Min() float64 {
	return s.min
}

func (s *Statistic) Max() float64 {
	return s.max
}

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.totalIterations == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.totalIterations))
}

func (s *Statistic) Iterations() int {
	return s.totalIterations
}

// ConfidenceHalfwidth returns the half-width of the confidence interval
// around the mean for the given interval in percent (e.g. 95).
func (s *Statistic) ConfidenceHalfwidth(confidenceInterval float64) float64 {
	return ZVal(confidenceInterval) * s.StandardError()
}

// ZScore compares the means of two series with a Welch-style z statistic:
// positive when a's mean is above b's. Returns 0 when both series are
// constant (no spread to scale by).
func ZScore(a, b *Statistic) float64 {
	sea, seb := a.StandardError(), b.StandardError()
	denom := math.Sqrt(sea*sea + seb*seb)
	if denom == 0 {
		return 0.0
	}
	return (a.Mean() - b.Mean()) / denom
}

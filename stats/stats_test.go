package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		samples []int
		mean    float64
		stdev   float64
	}
	cases := []tc{
		{[]int{2, 4, 4, 4, 5, 5, 7, 9}, 5, 2.1380899},
		{[]int{1, 2, 3, 4, 5}, 3, 1.5811388},
		{[]int{3}, 3, 0},
		{[]int{}, 0, 0},
		{[]int{7, 7, 7}, 7, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, v := range c.samples {
			s.Push(float64(v))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Iterations(), len(c.samples))
	}
}

func TestMinMaxLast(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.Min(), 0.0)
	is.Equal(s.Max(), 0.0)
	for _, v := range []float64{5, 2, 9, 4} {
		s.Push(v)
	}
	is.Equal(s.Min(), 2.0)
	is.Equal(s.Max(), 9.0)
	is.Equal(s.Last(), 4.0)
}

func TestStandardErrorEmpty(t *testing.T) {
	is := is.New(t)
	s := &Statistic{}
	is.Equal(s.StandardError(), 0.0)
	is.Equal(s.ConfidenceHalfwidth(95), 0.0)
}

func TestZScore(t *testing.T) {
	is := is.New(t)
	a := &Statistic{}
	b := &Statistic{}
	for _, v := range []float64{1, 2, 3} {
		a.Push(v)
	}
	for _, v := range []float64{5, 6, 7} {
		b.Push(v)
	}
	is.True(FuzzyEqual(ZScore(a, b), -4.8989795))
	is.True(FuzzyEqual(ZScore(b, a), 4.8989795))

	flat := &Statistic{}
	flat.Push(1)
	flat.Push(1)
	is.Equal(ZScore(flat, flat), 0.0)
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.9599640))
	is.True(FuzzyEqual(ZVal(99), 2.5758293))
}

func TestPValue(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(PValue(1.9599640), 0.05))
	is.True(PValue(4.9) < 0.001)
}

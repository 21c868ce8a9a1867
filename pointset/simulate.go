package pointset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// DefaultSeed keeps generated samples reproducible across runs
const DefaultSeed uint64 = 42

// NewRand returns a deterministic random source for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) AddConst(c float64) Series {
	floats.AddConst(c, s)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

// Clip bounds every value of the series to [lo, hi]
func (s Series) Clip(lo, hi float64) Series {
	for i := range s {
		s[i] = math.Max(lo, math.Min(hi, s[i]))
	}
	return s
}

func (s Series) Copy() Series {
	c := make(Series, len(s))
	copy(c, s)
	return c
}

// GenerateUniform draws n values uniformly from [lo, hi)
func GenerateUniform(rng *rand.Rand, n int, lo, hi float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, lo+rng.Float64()*(hi-lo))
	}
	return Series(y)
}

// GenerateNoise draws n normally distributed values with the given mean and standard deviation
func GenerateNoise(rng *rand.Rand, n int, mean, stddev float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, mean+rng.NormFloat64()*stddev)
	}
	return Series(y)
}

// GenerateLine evaluates slope*x + intercept over the input x
func GenerateLine(x Series, slope, intercept float64) Series {
	return x.Copy().Scale(slope).AddConst(intercept)
}

// GenerateHinge returns slope*(x-knot) wherever x exceeds the knot and zero elsewhere
func GenerateHinge(x Series, knot, slope float64) Series {
	y := make(Series, len(x))
	for i, v := range x {
		if v > knot {
			y[i] = slope * (v - knot)
		}
	}
	return y
}

package rdme

import (
	"math"

	"gonum.org/v1/gonum/mathext/prng"
	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is the single deterministic source of randomness for a Session:
// every draw a kernel or the stochastic initializer needs -- uniform,
// Poisson, or Normal -- is derived from one seeded Mersenne Twister so
// that two sessions given the same seed produce identical trajectories.
type RNG struct {
	src *prng.MT19937
}

// NewRNG seeds a fresh RNG.
func NewRNG(seed int64) *RNG {
	src := prng.NewMT19937()
	src.Seed(uint64(seed))
	return &RNG{src: src}
}

// Uniform returns a sample in [0, 1).
func (r *RNG) Uniform() float64 {
	// prng.MT19937 satisfies rand.Source64; scale a 53-bit draw into
	// [0,1) the way math/rand's Float64 does, so the RNG needs no
	// separate math/rand.Rand wrapper for this one distribution.
	return float64(r.src.Uint64()>>11) / (1 << 53)
}

// Poisson draws from a Poisson distribution with mean lambda.
func (r *RNG) Poisson(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	d := distuv.Poisson{Lambda: lambda, Src: r.src}
	return d.Rand()
}

// Normal draws from a Normal distribution with the given mean and
// standard deviation.
func (r *RNG) Normal(mean, stddev float64) float64 {
	d := distuv.Normal{Mu: mean, Sigma: stddev, Src: r.src}
	return d.Rand()
}

// Exponential draws an interevent time with the given rate, using the
// inverse-CDF method shared with the Gillespie kernels' own dt draw:
// -ln(1-U)/rate with U from Uniform, so the logarithm's argument lies
// in (0, 1].
func (r *RNG) Exponential(rate float64) float64 {
	return -math.Log(1-r.Uniform()) / rate
}

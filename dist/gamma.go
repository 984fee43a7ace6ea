package dist

import (
	"math"
	"math/rand"

	"github.com/arborbayes/bnkit/bnerr"
)

// Gamma is a Gamma(k, theta) distribution (shape k, scale theta).
type Gamma struct {
	K     float64
	Theta float64
}

// NewGamma builds Gamma(k, theta); both must be > 0.
func NewGamma(k, theta float64) (*Gamma, error) {
	if k <= 0 || theta <= 0 {
		return nil, bnerr.New(bnerr.InvalidModel, "dist.NewGamma", "shape and scale must be positive")
	}
	return &Gamma{K: k, Theta: theta}, nil
}

// Density implements Distribution: x must be a non-negative float64.
func (g *Gamma) Density(x any) (float64, error) {
	f, err := toFloat(x, "Gamma.Density")
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, nil
	}
	if f == 0 {
		if g.K < 1 {
			return math.Inf(1), nil
		} else if g.K > 1 {
			return 0, nil
		}
		// k == 1: density at 0 is 1/theta.
		return 1 / g.Theta, nil
	}
	logDensity := (g.K-1)*math.Log(f) - f/g.Theta - lgamma(g.K) - g.K*math.Log(g.Theta)
	return math.Exp(logDensity), nil
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

// Sample draws Gamma(k, theta) via Go's standard Marsaglia-Tsang-backed
// rng.Gamma-equivalent: math/rand exposes no native Gamma sampler, so this
// implements the Marsaglia-Tsang acceptance-rejection algorithm directly
// (the standard approach for k>=1, boosted by u^(1/k) for k<1), grounded on
// the Java original's cern.jet.random Gamma sampler it stands in for.
func (g *Gamma) Sample(rng *rand.Rand) (any, error) {
	k := g.K
	boost := 1.0
	if k < 1 {
		boost = math.Pow(rng.Float64(), 1/k)
		k += 1
	}
	d := k - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return boost * d * v * g.Theta, nil
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return boost * d * v * g.Theta, nil
		}
	}
}

// Kind implements Distribution.
func (g *Gamma) Kind() string { return KindGamma }

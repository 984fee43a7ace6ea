package dist

import (
	"math"
	"math/rand"

	"github.com/arborbayes/bnkit/bnerr"
)

// MinVariance is the variance floor applied by Gaussian table training
// (spec.md §4.2: "floor variance at 0.01").
const MinVariance = 0.01

// Gaussian is a univariate normal distribution N(mu, sigma^2).
type Gaussian struct {
	Mu    float64
	Sigma2 float64
}

// NewGaussian builds N(mu, sigma2); sigma2 must be > 0.
func NewGaussian(mu, sigma2 float64) (*Gaussian, error) {
	if sigma2 <= 0 {
		return nil, bnerr.New(bnerr.InvalidModel, "dist.NewGaussian", "sigma^2 must be positive")
	}
	return &Gaussian{Mu: mu, Sigma2: sigma2}, nil
}

// Density implements Distribution: x must be a float64.
func (g *Gaussian) Density(x any) (float64, error) {
	f, err := toFloat(x, "Gaussian.Density")
	if err != nil {
		return 0, err
	}
	d := f - g.Mu
	return math.Exp(-d*d/(2*g.Sigma2)) / math.Sqrt(2*math.Pi*g.Sigma2), nil
}

// Sample draws via the Box-Muller-backed rng.NormFloat64.
func (g *Gaussian) Sample(rng *rand.Rand) (any, error) {
	return g.Mu + rng.NormFloat64()*math.Sqrt(g.Sigma2), nil
}

// Kind implements Distribution.
func (g *Gaussian) Kind() string { return KindGaussian }

func toFloat(x any, op string) (float64, error) {
	switch v := x.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, bnerr.New(bnerr.InvalidDomain, op, "expected numeric value")
	}
}

// VariancePolicy selects how a Gaussian table ties variance across its
// enumerable-parent-indexed components during training.
type VariancePolicy int

const (
	// Untied fits each component's own sample variance independently.
	Untied VariancePolicy = iota
	// TiedToMaximum ties every component's variance to the maximum observed
	// sample variance across components.
	TiedToMaximum
	// TiedPooled ties every component's variance to the pooled estimate
	// Σ(ni−1)σi² / Σ(ni−1).
	TiedPooled
)

// GaussianComponentStats are the sufficient statistics training-fits from,
// one instance per enumerable-parent key.
type GaussianComponentStats struct {
	N    int
	Mean float64
	Var  float64 // sample variance (population, ddof=0), pre variance-floor
}

// FitGaussianTable estimates a Gaussian per component from observed
// statistics, applying the given variance-tying policy and the 0.01 floor.
//
// The reduction performed here is a scalar weighted pool over independently
// fit per-key components (N, Mean, Var), not a Matrix-shaped computation, so
// it is implemented directly rather than through matrix.Dense; see
// DESIGN.md.
func FitGaussianTable(stats []GaussianComponentStats, policy VariancePolicy) []*Gaussian {
	out := make([]*Gaussian, len(stats))
	switch policy {
	case Untied:
		for i, s := range stats {
			out[i] = &Gaussian{Mu: s.Mean, Sigma2: floorVar(s.Var)}
		}
	case TiedToMaximum:
		maxVar := 0.0
		for _, s := range stats {
			if s.Var > maxVar {
				maxVar = s.Var
			}
		}
		maxVar = floorVar(maxVar)
		for i, s := range stats {
			out[i] = &Gaussian{Mu: s.Mean, Sigma2: maxVar}
		}
	case TiedPooled:
		var num, den float64
		for _, s := range stats {
			if s.N > 1 {
				num += float64(s.N-1) * s.Var
				den += float64(s.N - 1)
			}
		}
		pooled := 0.0
		if den > 0 {
			pooled = num / den
		}
		pooled = floorVar(pooled)
		for i, s := range stats {
			out[i] = &Gaussian{Mu: s.Mean, Sigma2: pooled}
		}
	}
	return out
}

func floorVar(v float64) float64 {
	if v < MinVariance {
		return MinVariance
	}
	return v
}

package dist

import (
	"fmt"
	"math/rand"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/domain"
)

// Categorical is a normalised probability vector over an enumerable Domain.
type Categorical struct {
	dom *domain.Domain
	p   []float64
}

// NewCategorical builds a Categorical over dom with the given (possibly
// unnormalised) probabilities, one per domain value in declaration order.
func NewCategorical(dom *domain.Domain, p []float64) (*Categorical, error) {
	const op = "dist.NewCategorical"
	if len(p) != dom.Size() {
		return nil, bnerr.New(bnerr.InvalidDomain, op, fmt.Sprintf("expected %d probabilities, got %d", dom.Size(), len(p)))
	}
	for _, pi := range p {
		if pi < 0 {
			return nil, bnerr.New(bnerr.InvalidDomain, op, "negative probability")
		}
	}
	c := &Categorical{dom: dom, p: append([]float64(nil), p...)}
	c.Normalise()
	return c, nil
}

// Domain returns the categorical's enumerable domain.
func (c *Categorical) Domain() *domain.Domain { return c.dom }

// Get returns P(v) for the named domain value.
func (c *Categorical) Get(v string) (float64, error) {
	i, err := c.dom.Index(v)
	if err != nil {
		return 0, err
	}
	return c.p[i], nil
}

// Set overwrites P(v) without renormalising; call Normalise afterwards.
func (c *Categorical) Set(v string, p float64) error {
	i, err := c.dom.Index(v)
	if err != nil {
		return err
	}
	c.p[i] = p
	return nil
}

// Normalise divides all entries by their sum.
func (c *Categorical) Normalise() {
	sum := 0.0
	for _, pi := range c.p {
		sum += pi
	}
	if sum <= 0 {
		return
	}
	for i := range c.p {
		c.p[i] /= sum
	}
}

// Density implements Distribution: x must be a string domain value.
func (c *Categorical) Density(x any) (float64, error) {
	v, ok := x.(string)
	if !ok {
		return 0, bnerr.New(bnerr.InvalidDomain, "Categorical.Density", "expected string domain value")
	}
	return c.Get(v)
}

// Sample draws a value name according to p using rng.
func (c *Categorical) Sample(rng *rand.Rand) (any, error) {
	u := rng.Float64()
	cum := 0.0
	for i, pi := range c.p {
		cum += pi
		if u <= cum {
			v, err := c.dom.Value(i)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	// floating point slop: fall back to the last value.
	return c.dom.Value(c.dom.Size() - 1)
}

// Kind implements Distribution.
func (c *Categorical) Kind() string { return KindCategorical }

// Probabilities returns a copy of the underlying probability vector, in
// domain order.
func (c *Categorical) Probabilities() []float64 {
	return append([]float64(nil), c.p...)
}

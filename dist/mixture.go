package dist

import (
	"math/rand"

	"github.com/arborbayes/bnkit/bnerr"
)

// Mixture is a weighted mixture of Distribution components. Nested mixtures
// flatten on insertion (spec.md §3: "Mixture flattens on nested insertion
// (no mixture-of-mixture)").
type Mixture struct {
	components []Distribution
	weights    []float64
}

// NewMixture builds an empty mixture.
func NewMixture() *Mixture {
	return &Mixture{}
}

// Add inserts component with the given weight, multiplying the component's
// own weight contribution by w (spec.md §4.2: "Mixture addition with weight
// w multiplies component weights by w"). If component is itself a *Mixture,
// it is flattened: each of its sub-components is added with weight
// w*subWeight rather than nesting. A component already present in this
// mixture (by interface identity, e.g. the same *Gaussian pointer added
// twice) has its weight accumulated rather than appearing as a duplicate
// entry — spec.md §8 scenario 4 relies on this to land on exactly three
// components after three overlapping Add calls.
func (m *Mixture) Add(component Distribution, w float64) {
	if sub, ok := component.(*Mixture); ok {
		for i, c := range sub.components {
			m.addOne(c, w*sub.weights[i])
		}
		return
	}
	m.addOne(component, w)
}

func (m *Mixture) addOne(component Distribution, w float64) {
	for i, c := range m.components {
		if sameDistribution(c, component) {
			m.weights[i] += w
			return
		}
	}
	m.components = append(m.components, component)
	m.weights = append(m.weights, w)
}

// sameDistribution reports whether a and b are the identical component
// instance. Distribution implementations are always held by pointer, so
// interface equality reduces to pointer equality; non-comparable
// implementations (none exist in this package) would panic on ==, so this
// is guarded defensively.
func sameDistribution(a, b Distribution) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// Components returns the flattened component list (read-only).
func (m *Mixture) Components() []Distribution { return m.components }

// Weights returns the flattened weight list (read-only), parallel to Components.
func (m *Mixture) Weights() []float64 { return m.weights }

// totalWeight sums the mixture's weights.
func (m *Mixture) totalWeight() float64 {
	sum := 0.0
	for _, w := range m.weights {
		sum += w
	}
	return sum
}

// Density implements Distribution: the weight-normalised sum of component densities.
func (m *Mixture) Density(x any) (float64, error) {
	const op = "Mixture.Density"
	if len(m.components) == 0 {
		return 0, bnerr.New(bnerr.InvalidModel, op, "empty mixture")
	}
	total := m.totalWeight()
	if total <= 0 {
		return 0, bnerr.New(bnerr.EvidenceImpossible, op, "mixture has zero total weight")
	}
	sum := 0.0
	for i, c := range m.components {
		d, err := c.Density(x)
		if err != nil {
			return 0, err
		}
		sum += (m.weights[i] / total) * d
	}
	return sum, nil
}

// Sample picks a component proportional to its normalised weight, then
// samples from it.
func (m *Mixture) Sample(rng *rand.Rand) (any, error) {
	const op = "Mixture.Sample"
	total := m.totalWeight()
	if total <= 0 {
		return nil, bnerr.New(bnerr.EvidenceImpossible, op, "mixture has zero total weight")
	}
	u := rng.Float64() * total
	cum := 0.0
	for i, w := range m.weights {
		cum += w
		if u <= cum {
			return m.components[i].Sample(rng)
		}
	}
	return m.components[len(m.components)-1].Sample(rng)
}

// Kind implements Distribution.
func (m *Mixture) Kind() string { return KindMixture }

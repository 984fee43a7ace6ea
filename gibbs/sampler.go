// SPDX-License-Identifier: MIT
//
// Package gibbs implements approximate inference by Gibbs sampling,
// specified as a *consumer* of the factor algebra rather than a core
// package: per spec.md §9, a node's conditional is computed by multiplying
// its own CPT by every child's CPT restricted to the child's current value,
// then normalising and sampling.
//
// A Sampler is configured only by the compiled network and the seed passed
// to NewSampler. It switches on each node's network kind for the
// categorical/continuous split a Markov-blanket conditional needs, reading
// the node's tables directly rather than through network.MakeFactor.
package gibbs

import (
	"math/rand"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/network"
)

// Sampler draws successive joint assignments to every non-evidenced
// enumerable variable of a compiled Network via per-node Markov-blanket
// conditional sampling. Continuous (Gaussian/Dirichlet) variables are not
// themselves resampled — spec.md §9 describes the Gibbs contract purely in
// terms of CPT multiplication — so every continuous variable in the network
// must carry evidence; a continuous variable met unevidenced is rejected at
// construction with an Unfactorisable error, mirroring the inference
// driver's own rule for density-carrying nodes.
type Sampler struct {
	net      *network.Network
	rng      *rand.Rand
	state    map[string]string   // current value of every enumerable, non-evidenced variable
	children map[string][]string // variable name -> names of its direct children
	sweep    []string            // enumerable, non-evidenced variable names in a stable sweep order
}

// NewSampler builds a Sampler over a compiled net, seeded deterministically.
// Every enumerable, non-evidenced variable is initialised to a uniform-random
// domain value.
func NewSampler(net *network.Network, seed int64) (*Sampler, error) {
	const op = "gibbs.NewSampler"
	if !net.Compiled() {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "network must be compiled before sampling")
	}
	rng := rand.New(rand.NewSource(seed))
	s := &Sampler{
		net:      net,
		rng:      rng,
		state:    make(map[string]string),
		children: make(map[string][]string),
	}
	for _, v := range net.Variables() {
		for _, p := range net.Parents(v.Name()) {
			s.children[p.Name()] = append(s.children[p.Name()], v.Name())
		}
	}
	evidence := net.EvidenceDiscrete()
	for _, v := range net.Variables() {
		if v.Continuous() {
			_, contEvid := net.EvidenceContinuous()[v.Name()]
			_, vecEvid := net.EvidenceVector()[v.Name()]
			if !contEvid && !vecEvid {
				return nil, bnerr.New(bnerr.Unfactorisable, op, "continuous variable "+v.Name()+" has no evidence; gibbs only resamples enumerable variables")
			}
			continue
		}
		if val, ok := evidence[v.Name()]; ok {
			s.state[v.Name()] = val
			continue
		}
		idx := rng.Intn(v.Domain().Size())
		val, err := v.Domain().Value(idx)
		if err != nil {
			return nil, err
		}
		s.state[v.Name()] = val
		s.sweep = append(s.sweep, v.Name())
	}
	return s, nil
}

// State returns a copy of the current joint assignment to every enumerable
// variable (evidenced and sampled alike).
func (s *Sampler) State() map[string]string {
	out := make(map[string]string, len(s.state))
	for k, v := range s.state {
		out[k] = v
	}
	return out
}

// Step performs one full sweep: every non-evidenced enumerable variable, in
// a stable order, is resampled from its Markov-blanket conditional given the
// current value of everything else.
func (s *Sampler) Step() error {
	for _, name := range s.sweep {
		cat, err := s.conditional(name)
		if err != nil {
			return err
		}
		drawn, err := cat.Sample(s.rng)
		if err != nil {
			return err
		}
		s.state[name] = drawn.(string)
	}
	return nil
}

// Run performs n full sweeps.
func (s *Sampler) Run(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// conditional computes P(name = · | Markov blanket) as a Categorical: the
// node's own CPT value at each candidate, times every child's CPT/density
// value at the child's current observation with name substituted to that
// candidate among the child's parents.
func (s *Sampler) conditional(name string) (*dist.Categorical, error) {
	const op = "gibbs.Sampler.conditional"
	v, ok := s.net.Variable(name)
	if !ok {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "unknown variable "+name)
	}
	nd, ok := s.net.Node(name)
	if !ok {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "unknown node "+name)
	}
	dom := v.Domain()
	weights := make([]float64, dom.Size())
	for i := 0; i < dom.Size(); i++ {
		val, err := dom.Value(i)
		if err != nil {
			return nil, err
		}
		selfWeight, err := s.selfWeight(nd, val)
		if err != nil {
			return nil, err
		}
		total := selfWeight
		for _, childName := range s.children[name] {
			childNd, _ := s.net.Node(childName)
			w, err := s.childWeight(childNd, name, val)
			if err != nil {
				return nil, err
			}
			total *= w
		}
		weights[i] = total
	}
	return dist.NewCategorical(dom, weights)
}

// selfWeight returns P(nd.Var = val | current parent values).
func (s *Sampler) selfWeight(nd *network.Node, val string) (float64, error) {
	const op = "gibbs.Sampler.selfWeight"
	if nd.CPT == nil {
		return 0, bnerr.New(bnerr.IncompleteNetwork, op, "missing CPT for node "+nd.Var.Name())
	}
	key := make([]string, len(nd.Parents))
	for i, p := range nd.Parents {
		key[i] = s.state[p.Name()]
	}
	cat, ok, err := nd.CPT.GetByKey(key)
	if err != nil {
		return 0, err
	}
	if !ok || cat == nil {
		return 0, bnerr.New(bnerr.IncompleteNetwork, op, "missing CPT row for node "+nd.Var.Name())
	}
	return cat.Get(val)
}

// childWeight returns the likelihood childNd's current observation
// contributes when parentName takes candidateVal, every other parent held
// at its current state value. For a categorical/substitution child this is
// a CPT lookup; for a Gaussian/Dirichlet child (always evidenced, per
// NewSampler's precondition) this is a density evaluation.
func (s *Sampler) childWeight(childNd *network.Node, parentName, candidateVal string) (float64, error) {
	const op = "gibbs.Sampler.childWeight"
	key := make([]string, len(childNd.Parents))
	for i, p := range childNd.Parents {
		if p.Name() == parentName {
			key[i] = candidateVal
		} else {
			key[i] = s.state[p.Name()]
		}
	}
	switch childNd.Kind {
	case network.CategoricalCPT, network.Substitution:
		cat, ok, err := childNd.CPT.GetByKey(key)
		if err != nil {
			return 0, err
		}
		if !ok || cat == nil {
			return 0, bnerr.New(bnerr.IncompleteNetwork, op, "missing CPT row for node "+childNd.Var.Name())
		}
		return cat.Get(s.state[childNd.Var.Name()])
	case network.GaussianTable:
		point, ok := s.continuousEvidence(childNd.Var)
		if !ok {
			return 0, bnerr.New(bnerr.Unfactorisable, op, "continuous child "+childNd.Var.Name()+" has no evidence")
		}
		g, ok, err := childNd.Gaussian.GetByKey(key)
		if err != nil {
			return 0, err
		}
		if !ok || g == nil {
			return 0, bnerr.New(bnerr.IncompleteNetwork, op, "missing Gaussian row for node "+childNd.Var.Name())
		}
		return g.Density(point)
	case network.DirichletTable:
		point, ok := s.vectorEvidence(childNd.Var)
		if !ok {
			return 0, bnerr.New(bnerr.Unfactorisable, op, "continuous child "+childNd.Var.Name()+" has no evidence")
		}
		d, ok, err := childNd.Dirichlet.GetByKey(key)
		if err != nil {
			return 0, err
		}
		if !ok || d == nil {
			return 0, bnerr.New(bnerr.IncompleteNetwork, op, "missing Dirichlet row for node "+childNd.Var.Name())
		}
		return d.Density(point)
	default:
		return 0, bnerr.New(bnerr.IncompleteNetwork, op, "unknown node kind")
	}
}

func (s *Sampler) continuousEvidence(v *domain.Variable) (float64, bool) {
	p, ok := s.net.EvidenceContinuous()[v.Name()]
	return p, ok
}

func (s *Sampler) vectorEvidence(v *domain.Variable) ([]float64, bool) {
	p, ok := s.net.EvidenceVector()[v.Name()]
	return p, ok
}

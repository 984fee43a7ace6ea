package network

import (
	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/factor"
)

// Evidence bundles the three evidence maps a query carries: enumerable
// values, continuous points, and Dirichlet-valued probability vectors. R is
// the set of variable names the inference driver has determined are
// relevant to the current query (ancestors of query∪evidence); a parent not
// in R and not evidenced is immediately summed out inside MakeFactor, per
// spec.md §4.5.
type Evidence struct {
	Discrete   map[string]string
	Continuous map[string]float64
	Vector     map[string][]float64
	Relevant   map[string]bool
}

// MakeFactor compiles one network node into a Factor, following the
// node-type-specific recipe spec.md §4.5 names:
//
//   - CategoricalCPT / Substitution: factor over (self ∪ enumerable
//     parents); if self is evidenced, project to parents alone by fixing
//     self's dimension; each evidenced parent is projected to its fixed
//     value; each irrelevant, non-evidenced parent is summed out.
//   - GaussianTable / DirichletTable: factor over enumerable parents, cell
//     JDF holding the continuous distribution over self; if self is
//     evidenced, cell value becomes the density at the observed point and
//     the JDF is dropped; a node with zero enumerable parents met
//     non-evidenced is Unfactorisable.
func MakeFactor(nd *Node, ev Evidence) (*factor.Factor, error) {
	switch nd.Kind {
	case CategoricalCPT, Substitution:
		return makeCategoricalFactor(nd, ev)
	case GaussianTable:
		return makeGaussianFactor(nd, ev)
	case DirichletTable:
		return makeDirichletFactor(nd, ev)
	default:
		return nil, bnerr.New(bnerr.IncompleteNetwork, "network.MakeFactor", "unknown node kind")
	}
}

// assembleKey maps a set of (variable, value) pairs, given in arbitrary
// order, onto fe's own (sorted) order.
func assembleKey(fe []*domain.Variable, vars []*domain.Variable, vals []string) []string {
	out := make([]string, len(fe))
	for i, v := range fe {
		for j, vv := range vars {
			if vv == v {
				out[i] = vals[j]
				break
			}
		}
	}
	return out
}

func makeCategoricalFactor(nd *Node, ev Evidence) (*factor.Factor, error) {
	const op = "network.makeCategoricalFactor"
	if nd.CPT == nil {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing CPT for node "+nd.Var.Name())
	}
	allVars := append([]*domain.Variable{nd.Var}, nd.Parents...)
	f, err := factor.New(allVars, nil, false)
	if err != nil {
		return nil, err
	}
	for _, idx := range nd.CPT.AllIndices() {
		cat, ok := nd.CPT.GetValue(idx)
		if !ok || cat == nil {
			continue
		}
		parentVals, err := nd.CPT.Key(idx)
		if err != nil {
			return nil, err
		}
		for si := 0; si < nd.Var.Domain().Size(); si++ {
			selfVal, err := nd.Var.Domain().Value(si)
			if err != nil {
				return nil, err
			}
			p, err := cat.Get(selfVal)
			if err != nil {
				return nil, err
			}
			key := assembleKey(f.E(), allVars, append([]string{selfVal}, parentVals...))
			if err := f.SetValue(key, p); err != nil {
				return nil, err
			}
		}
	}
	f, err = reduceByEvidenceAndRelevance(f, nd.Parents, ev)
	if err != nil {
		return nil, err
	}
	if val, evidenced := ev.Discrete[nd.Var.Name()]; evidenced {
		f, err = factor.Fix(f, nd.Var, val)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// reduceByEvidenceAndRelevance projects every evidenced parent to its fixed
// value and sums out every parent that is neither evidenced nor relevant.
func reduceByEvidenceAndRelevance(f *factor.Factor, parents []*domain.Variable, ev Evidence) (*factor.Factor, error) {
	var err error
	for _, p := range parents {
		if val, evidenced := ev.Discrete[p.Name()]; evidenced {
			f, err = factor.Fix(f, p, val)
			if err != nil {
				return nil, err
			}
			continue
		}
		if ev.Relevant != nil && !ev.Relevant[p.Name()] {
			f, err = factor.SumOut(f, p)
			if err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func makeGaussianFactor(nd *Node, ev Evidence) (*factor.Factor, error) {
	const op = "network.makeGaussianFactor"
	if nd.Gaussian == nil {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing Gaussian table for node "+nd.Var.Name())
	}
	point, evidenced := ev.Continuous[nd.Var.Name()]

	if len(nd.Parents) == 0 {
		if !evidenced {
			return nil, bnerr.New(bnerr.Unfactorisable, op, "density-carrying node "+nd.Var.Name()+" has no enumerable parents and is not evidenced")
		}
		g, ok := nd.Gaussian.GetValue(0)
		if !ok || g == nil {
			return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing Gaussian for node "+nd.Var.Name())
		}
		dens, err := g.Density(point)
		if err != nil {
			return nil, err
		}
		s := factor.NewScalar(dens)
		s.SetEvidenced(true)
		return s, nil
	}

	f, err := factor.New(nd.Parents, []*domain.Variable{nd.Var}, false)
	if err != nil {
		return nil, err
	}
	for _, idx := range nd.Gaussian.AllIndices() {
		g, ok := nd.Gaussian.GetValue(idx)
		if !ok || g == nil {
			continue
		}
		parentVals, err := nd.Gaussian.Key(idx)
		if err != nil {
			return nil, err
		}
		key := assembleKey(f.E(), nd.Parents, parentVals)
		if evidenced {
			dens, err := g.Density(point)
			if err != nil {
				return nil, err
			}
			if err := f.SetValue(key, dens); err != nil {
				return nil, err
			}
		} else {
			if err := f.SetValue(key, 1); err != nil {
				return nil, err
			}
			if err := f.SetDistrib(key, nd.Var, g); err != nil {
				return nil, err
			}
		}
	}
	if evidenced {
		f.SetEvidenced(true)
	}
	return reduceByEvidenceAndRelevance(f, nd.Parents, ev)
}

// makeDirichletFactor mirrors makeGaussianFactor; Dirichlet evidence is a
// probability vector (ev.Vector), not a scalar, since a Dirichlet variable
// is itself a point on a simplex.
func makeDirichletFactor(nd *Node, ev Evidence) (*factor.Factor, error) {
	const op = "network.makeDirichletFactor"
	if nd.Dirichlet == nil {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing Dirichlet table for node "+nd.Var.Name())
	}
	point, evidenced := ev.Vector[nd.Var.Name()]

	if len(nd.Parents) == 0 {
		if !evidenced {
			return nil, bnerr.New(bnerr.Unfactorisable, op, "density-carrying node "+nd.Var.Name()+" has no enumerable parents and is not evidenced")
		}
		d, ok := nd.Dirichlet.GetValue(0)
		if !ok || d == nil {
			return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing Dirichlet for node "+nd.Var.Name())
		}
		dens, err := d.Density(point)
		if err != nil {
			return nil, err
		}
		s := factor.NewScalar(dens)
		s.SetEvidenced(true)
		return s, nil
	}

	f, err := factor.New(nd.Parents, []*domain.Variable{nd.Var}, false)
	if err != nil {
		return nil, err
	}
	for _, idx := range nd.Dirichlet.AllIndices() {
		d, ok := nd.Dirichlet.GetValue(idx)
		if !ok || d == nil {
			continue
		}
		parentVals, err := nd.Dirichlet.Key(idx)
		if err != nil {
			return nil, err
		}
		key := assembleKey(f.E(), nd.Parents, parentVals)
		if evidenced {
			dens, err := d.Density(point)
			if err != nil {
				return nil, err
			}
			if err := f.SetValue(key, dens); err != nil {
				return nil, err
			}
		} else {
			if err := f.SetValue(key, 1); err != nil {
				return nil, err
			}
			if err := f.SetDistrib(key, nd.Var, d); err != nil {
				return nil, err
			}
		}
	}
	if evidenced {
		f.SetEvidenced(true)
	}
	return reduceByEvidenceAndRelevance(f, nd.Parents, ev)
}

// SPDX-License-Identifier: MIT
//
// fixtures.go — node-recipe Constructor factories, the builder package's
// analogue of the teacher's topology factories (Cycle/Star/Grid/...).
// Each factory returns a Constructor closure that registers one or more
// nodes against the Network passed to it.
package builder

import (
	"fmt"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/dist"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/network"
	"github.com/arborbayes/bnkit/table"
)

// boolDomain returns a fresh two-value {"T","F"} domain; each call yields a
// distinct *domain.Domain instance, matching how independent variables each
// own their own Domain rather than sharing one by convention.
func boolDomain() (*domain.Domain, error) {
	return domain.NewDomain("Bool", "T", "F")
}

// namedDomain returns a fresh domain of size n with values "v0".."v(n-1)".
func namedDomain(n int) (*domain.Domain, error) {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = fmt.Sprintf("v%d", i)
	}
	return domain.NewDomain("D", vals...)
}

// randomProbs draws n non-negative values and normalises them into a
// probability vector using cfg.rng, the same "RNG-driven, seed-reproducible"
// idiom the teacher's RandomSparse/RandomRegular use for stochastic choices.
func randomProbs(cfg builderConfig, n int) []float64 {
	p := make([]float64, n)
	sum := 0.0
	for i := range p {
		p[i] = cfg.rng.Float64() + 1e-6 // keep every entry strictly positive
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p
}

// Chain builds a first-order Markov chain of n categorical variables X0->X1
// ->...->X(n-1) over a domain of the given size: X0 has a random prior;
// each Xi (i>0) has a random categorical per value of X(i-1).
func Chain(n, domainSize int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		const op = "builder.Chain"
		if err := validateMin(op, n, 1); err != nil {
			return err
		}
		dom, err := namedDomain(domainSize)
		if err != nil {
			return err
		}
		var prev *domain.Variable
		for i := 0; i < n; i++ {
			v := domain.NewEnumerable(cfg.nameFn(i), dom)
			var parents []*domain.Variable
			if prev != nil {
				parents = []*domain.Variable{prev}
			}
			cpt, err := randomCPT(cfg, dom, parents)
			if err != nil {
				return err
			}
			if err := net.AddCategoricalNode(v, parents, cpt); err != nil {
				return err
			}
			prev = v
		}
		return nil
	}
}

// NaiveBayes builds one root "Class" variable and numFeatures children, each
// depending only on Class, the canonical naive-Bayes structure: classifying
// evidence flows through independent per-feature CPTs that all share the
// same parent.
func NaiveBayes(numFeatures, domainSize int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		const op = "builder.NaiveBayes"
		if err := validateMin(op, numFeatures, 1); err != nil {
			return err
		}
		dom, err := namedDomain(domainSize)
		if err != nil {
			return err
		}
		class := domain.NewEnumerable("Class", dom)
		prior, err := randomCPT(cfg, dom, nil)
		if err != nil {
			return err
		}
		if err := net.AddCategoricalNode(class, nil, prior); err != nil {
			return err
		}
		for i := 0; i < numFeatures; i++ {
			fv := domain.NewEnumerable(fmt.Sprintf("Feature%d", i), dom)
			cpt, err := randomCPT(cfg, dom, []*domain.Variable{class})
			if err != nil {
				return err
			}
			if err := net.AddCategoricalNode(fv, []*domain.Variable{class}, cpt); err != nil {
				return err
			}
		}
		return nil
	}
}

// Tree builds a depth-level, branching-ary tree of categorical variables
// rooted at "Root": every non-root node's CPT depends on its single parent.
// This is the generic structural analogue of the phylogenetic trees package
// substitution walks (a single categorical CPT per edge), without the
// substitution-model semantics.
func Tree(depth, branching, domainSize int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		const op = "builder.Tree"
		if err := validateMin(op, depth, 0); err != nil {
			return err
		}
		if err := validateMin(op, branching, 1); err != nil {
			return err
		}
		dom, err := namedDomain(domainSize)
		if err != nil {
			return err
		}
		root := domain.NewEnumerable("Root", dom)
		prior, err := randomCPT(cfg, dom, nil)
		if err != nil {
			return err
		}
		if err := net.AddCategoricalNode(root, nil, prior); err != nil {
			return err
		}
		counter := 0
		var level func(parents []*domain.Variable, d int) error
		level = func(parents []*domain.Variable, d int) error {
			if d == 0 {
				return nil
			}
			var next []*domain.Variable
			for _, p := range parents {
				for b := 0; b < branching; b++ {
					counter++
					v := domain.NewEnumerable(fmt.Sprintf("N%d", counter), dom)
					cpt, err := randomCPT(cfg, dom, []*domain.Variable{p})
					if err != nil {
						return err
					}
					if err := net.AddCategoricalNode(v, []*domain.Variable{p}, cpt); err != nil {
						return err
					}
					next = append(next, v)
				}
			}
			return level(next, d-1)
		}
		return level([]*domain.Variable{root}, depth)
	}
}

// RandomDAG builds n categorical variables over a domain of the given size,
// wiring each node i>0 to a random subset (size up to cfg.maxParents) of
// {X0,...,X(i-1)} — parents always precede children by construction index,
// so the result is acyclic by design rather than by post-hoc cycle checking.
func RandomDAG(n, domainSize int) Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		const op = "builder.RandomDAG"
		if err := validateMin(op, n, 1); err != nil {
			return err
		}
		dom, err := namedDomain(domainSize)
		if err != nil {
			return err
		}
		vars := make([]*domain.Variable, n)
		for i := 0; i < n; i++ {
			vars[i] = domain.NewEnumerable(cfg.nameFn(i), dom)
			parents := choosePriorParents(cfg, vars[:i])
			cpt, err := randomCPT(cfg, dom, parents)
			if err != nil {
				return err
			}
			if err := net.AddCategoricalNode(vars[i], parents, cpt); err != nil {
				return err
			}
		}
		return nil
	}
}

// choosePriorParents picks up to cfg.maxParents variables from candidates
// (earlier-indexed variables only) using cfg.rng, without replacement.
func choosePriorParents(cfg builderConfig, candidates []*domain.Variable) []*domain.Variable {
	k := cfg.maxParents
	if k > len(candidates) {
		k = len(candidates)
	}
	if k == 0 {
		return nil
	}
	pool := append([]*domain.Variable(nil), candidates...)
	cfg.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return domain.SortByCanonical(pool[:k])
}

// randomCPT builds a table over parents where each cell is a random
// categorical distribution over dom (or, if parents is empty, a single
// random prior).
func randomCPT(cfg builderConfig, dom *domain.Domain, parents []*domain.Variable) (*table.Table[*dist.Categorical], error) {
	tbl, err := table.New[*dist.Categorical](parents...)
	if err != nil {
		return nil, err
	}
	for _, idx := range tbl.AllIndices() {
		cat, err := dist.NewCategorical(dom, randomProbs(cfg, dom.Size()))
		if err != nil {
			return nil, err
		}
		if err := tbl.SetValue(idx, cat); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// BurglaryNetwork builds the canonical Russell & Norvig burglary network
// (Burglary, Earthquake, Alarm, JohnCalls, MaryCalls) with its textbook
// CPTs, the fixture spec.md §8 scenario 1 names verbatim.
func BurglaryNetwork() Constructor {
	return func(net *network.Network, cfg builderConfig) error {
		dom, err := boolDomain()
		if err != nil {
			return err
		}
		burglary := domain.NewEnumerable("Burglary", dom)
		earthquake := domain.NewEnumerable("Earthquake", dom)
		alarm := domain.NewEnumerable("Alarm", dom)
		johnCalls := domain.NewEnumerable("JohnCalls", dom)
		maryCalls := domain.NewEnumerable("MaryCalls", dom)

		if err := addBoolPrior(net, burglary, 0.001); err != nil {
			return err
		}
		if err := addBoolPrior(net, earthquake, 0.002); err != nil {
			return err
		}
		alarmCPT, err := table.New[*dist.Categorical](burglary, earthquake)
		if err != nil {
			return err
		}
		alarmRows := []struct {
			b, e string
			pT   float64
		}{
			{"T", "T", 0.95},
			{"T", "F", 0.94},
			{"F", "T", 0.29},
			{"F", "F", 0.001},
		}
		for _, r := range alarmRows {
			cat, err := dist.NewCategorical(dom, []float64{r.pT, 1 - r.pT})
			if err != nil {
				return err
			}
			key := assembleByVar(alarmCPT.Vars(), []*domain.Variable{burglary, earthquake}, []string{r.b, r.e})
			if err := alarmCPT.SetByKey(key, cat); err != nil {
				return err
			}
		}
		if err := net.AddCategoricalNode(alarm, []*domain.Variable{burglary, earthquake}, alarmCPT); err != nil {
			return err
		}
		if err := addBoolChild(net, johnCalls, alarm, 0.90, 0.05); err != nil {
			return err
		}
		if err := addBoolChild(net, maryCalls, alarm, 0.70, 0.01); err != nil {
			return err
		}
		return nil
	}
}

func addBoolPrior(net *network.Network, v *domain.Variable, pTrue float64) error {
	tbl, err := table.New[*dist.Categorical]()
	if err != nil {
		return err
	}
	cat, err := dist.NewCategorical(v.Domain(), []float64{pTrue, 1 - pTrue})
	if err != nil {
		return err
	}
	if err := tbl.SetValue(0, cat); err != nil {
		return err
	}
	return net.AddCategoricalNode(v, nil, tbl)
}

func addBoolChild(net *network.Network, v, parent *domain.Variable, pTrueGivenT, pTrueGivenF float64) error {
	tbl, err := table.New[*dist.Categorical](parent)
	if err != nil {
		return err
	}
	catT, err := dist.NewCategorical(v.Domain(), []float64{pTrueGivenT, 1 - pTrueGivenT})
	if err != nil {
		return err
	}
	catF, err := dist.NewCategorical(v.Domain(), []float64{pTrueGivenF, 1 - pTrueGivenF})
	if err != nil {
		return err
	}
	if err := tbl.SetByKey([]string{"T"}, catT); err != nil {
		return err
	}
	if err := tbl.SetByKey([]string{"F"}, catF); err != nil {
		return err
	}
	return net.AddCategoricalNode(v, []*domain.Variable{parent}, tbl)
}

// assembleByVar maps vals (aligned with fromVars, in arbitrary order) onto
// tblVars' own order.
func assembleByVar(tblVars, fromVars []*domain.Variable, vals []string) []string {
	out := make([]string, len(tblVars))
	for i, tv := range tblVars {
		for j, fv := range fromVars {
			if fv == tv {
				out[i] = vals[j]
				break
			}
		}
	}
	return out
}

// This blank reference is this file's only direct use of bnerr; its own error
// paths reach bnerr.New through validateMin.
var _ = bnerr.InvalidModel

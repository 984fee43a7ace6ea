package inference

import (
	"math"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/factor"
	"github.com/arborbayes/bnkit/internal/telemetry"
	"github.com/arborbayes/bnkit/network"
	"go.uber.org/zap"
)

// Driver compiles a network.Network into factors and answers marginal,
// MPE, and log-likelihood queries via variable elimination (spec.md §4.5).
type Driver struct {
	net *network.Network
}

// NewDriver wraps a compiled Network. Compile() must have succeeded first.
func NewDriver(net *network.Network) (*Driver, error) {
	const op = "inference.NewDriver"
	if !net.Compiled() {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "network must be compiled before querying")
	}
	return &Driver{net: net}, nil
}

// evidenceBundle snapshots the network's current evidence plus the
// relevant-variable set for one query.
func (d *Driver) evidenceBundle(relevant map[string]bool) network.Evidence {
	return network.Evidence{
		Discrete:   d.net.EvidenceDiscrete(),
		Continuous: d.net.EvidenceContinuous(),
		Vector:     d.net.EvidenceVector(),
		Relevant:   relevant,
	}
}

func (d *Driver) evidenceNames() []string {
	names := make([]string, 0)
	for n := range d.net.EvidenceDiscrete() {
		names = append(names, n)
	}
	for n := range d.net.EvidenceContinuous() {
		names = append(names, n)
	}
	for n := range d.net.EvidenceVector() {
		names = append(names, n)
	}
	return names
}

// buildFactors compiles one factor per relevant node, in the network's
// compiled topological order.
func (d *Driver) buildFactors(relevant map[string]bool, ev network.Evidence) ([]*factor.Factor, error) {
	const op = "inference.buildFactors"
	factors := make([]*factor.Factor, 0, len(relevant))
	for _, name := range d.net.Order() {
		if !relevant[name] {
			continue
		}
		nd, ok := d.net.Node(name)
		if !ok {
			return nil, bnerr.New(bnerr.IncompleteNetwork, op, "missing node for relevant variable "+name)
		}
		f, err := network.MakeFactor(nd, ev)
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return factors, nil
}

// collectVars returns the unique enumerable variables appearing in any
// factor's key set.
func collectVars(factors []*factor.Factor) []*domain.Variable {
	seen := make(map[*domain.Variable]bool)
	var out []*domain.Variable
	for _, f := range factors {
		for _, v := range f.E() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

func subtractByName(vars []*domain.Variable, exclude map[string]bool) []*domain.Variable {
	out := make([]*domain.Variable, 0, len(vars))
	for _, v := range vars {
		if !exclude[v.Name()] {
			out = append(out, v)
		}
	}
	return out
}

type eliminateMode int

const (
	eliminateSum eliminateMode = iota
	eliminateMax
)

// runElimination performs bucket elimination: for each variable in order,
// it multiplies every live factor mentioning that variable, eliminates the
// variable from the product (sum or max per mode), and folds the result
// back into the pool. The final product over the remaining pool is the
// answer.
func runElimination(factors []*factor.Factor, order []*domain.Variable, mode eliminateMode) (*factor.Factor, error) {
	pool := append([]*factor.Factor(nil), factors...)
	for _, v := range order {
		var bucket, rest []*factor.Factor
		for _, f := range pool {
			inBucket := false
			for _, e := range f.E() {
				if e == v {
					inBucket = true
					break
				}
			}
			if inBucket {
				bucket = append(bucket, f)
			} else {
				rest = append(rest, f)
			}
		}
		if len(bucket) == 0 {
			continue
		}
		prod, err := factor.ProductMany(bucket)
		if err != nil {
			return nil, err
		}
		telemetry.L().Debug("inference: product-tree bucket", zap.String("variable", v.Name()), zap.Int("bucket_size", len(bucket)))
		var reduced *factor.Factor
		switch mode {
		case eliminateSum:
			reduced, err = factor.SumOut(prod, v)
		case eliminateMax:
			reduced, err = factor.MaxOut(prod, v)
		}
		if err != nil {
			return nil, err
		}
		pool = append(rest, reduced)
	}
	return factor.ProductMany(pool)
}

// Marginal answers P(query | evidence): product every relevant factor, sum
// out every relevant enumerable variable not named in query, normalise.
func (d *Driver) Marginal(query ...string) (*factor.Factor, error) {
	const op = "inference.Driver.Marginal"
	relevant := d.net.RelevantSet(query, d.evidenceNames())
	ev := d.evidenceBundle(relevant)
	factors, err := d.buildFactors(relevant, ev)
	if err != nil {
		return nil, err
	}
	querySet := make(map[string]bool, len(query))
	for _, q := range query {
		querySet[q] = true
	}
	elimVars := subtractByName(collectVars(factors), querySet)
	order := EliminationOrder(elimVars, factors)
	result, err := runElimination(factors, order, eliminateSum)
	if err != nil {
		return nil, err
	}
	if err := result.Normalise(); err != nil {
		return nil, bnerr.Wrap(bnerr.EvidenceImpossible, op, "evidence has probability zero", err)
	}
	return result, nil
}

// MPE finds the most probable explanation: the joint assignment to every
// non-evidence variable named in query (or, if query is empty, every
// enumerable non-evidence variable in the network) that maximises the joint
// probability together with evidence. It returns the assignment and the
// natural log of its joint probability.
func (d *Driver) MPE(query ...string) (map[string]string, float64, error) {
	const op = "inference.Driver.MPE"
	if len(query) == 0 {
		evNames := make(map[string]bool)
		for _, n := range d.evidenceNames() {
			evNames[n] = true
		}
		for _, v := range d.net.Variables() {
			if v.Continuous() || evNames[v.Name()] {
				continue
			}
			query = append(query, v.Name())
		}
	}
	relevant := d.net.RelevantSet(query, d.evidenceNames())
	ev := d.evidenceBundle(relevant)
	factors, err := d.buildFactors(relevant, ev)
	if err != nil {
		return nil, 0, err
	}
	elimVars := collectVars(factors)
	order := EliminationOrder(elimVars, factors)
	result, err := runElimination(factors, order, eliminateMax)
	if err != nil {
		return nil, 0, err
	}
	weight := result.SumWeights()
	if weight <= 0 {
		return nil, 0, bnerr.New(bnerr.EvidenceImpossible, op, "evidence has probability zero")
	}
	trace, err := result.Assign(nil)
	if err != nil {
		return nil, 0, err
	}
	assignment := make(map[string]string, len(trace))
	for _, a := range trace {
		assignment[a.Var.Name()] = a.Value
	}
	for name, v := range d.net.EvidenceDiscrete() {
		assignment[name] = v
	}
	return assignment, math.Log(weight), nil
}

// LogLikelihood computes the natural log probability of the current
// evidence: product every factor relevant to the evidence, sum out every
// non-evidence variable, and return log of the resulting scalar weight.
func (d *Driver) LogLikelihood() (float64, error) {
	const op = "inference.Driver.LogLikelihood"
	evNames := d.evidenceNames()
	relevant := d.net.RelevantSet(nil, evNames)
	ev := d.evidenceBundle(relevant)
	factors, err := d.buildFactors(relevant, ev)
	if err != nil {
		return 0, err
	}
	elimVars := collectVars(factors)
	order := EliminationOrder(elimVars, factors)
	result, err := runElimination(factors, order, eliminateSum)
	if err != nil {
		return 0, err
	}
	weight := result.SumWeights()
	if weight <= 0 {
		return 0, bnerr.New(bnerr.EvidenceImpossible, op, "evidence has probability zero")
	}
	return math.Log(weight), nil
}

package substitution

import (
	"context"
	"strconv"
	"sync"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/domain"
	"github.com/arborbayes/bnkit/inference"
	"github.com/arborbayes/bnkit/internal/telemetry"
	"github.com/arborbayes/bnkit/ratematrix"
	"go.uber.org/zap"
)

// Mode selects whether Reconstruct returns a joint most-probable-explanation
// assignment over every ancestor, or the posterior marginal at one named
// node (spec.md §6: mode∈{joint,marginal}, marginalNode?).
type Mode int

const (
	ModeJoint Mode = iota
	ModeMarginal
)

// Option configures a Reconstruct call.
type Option func(*config)

type config struct {
	mode         Mode
	marginalNode string
	gapPolicy    GapPolicy
	concurrency  int
}

func newConfig(opts ...Option) config {
	cfg := config{mode: ModeJoint, gapPolicy: GapAsMissing, concurrency: 4}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithMode sets joint or marginal reconstruction.
func WithMode(m Mode) Option { return func(c *config) { c.mode = m } }

// WithMarginalNode names the node ModeMarginal reports the posterior for.
func WithMarginalNode(name string) Option {
	return func(c *config) { c.mode = ModeMarginal; c.marginalNode = name }
}

// WithGapPolicy selects how leaf gap symbols are handled.
func WithGapPolicy(p GapPolicy) Option { return func(c *config) { c.gapPolicy = p } }

// WithConcurrency bounds how many alignment columns are processed at once.
// Panics if n < 1.
func WithConcurrency(n int) Option {
	if n < 1 {
		panic("substitution: WithConcurrency(n<1)")
	}
	return func(c *config) { c.concurrency = n }
}

// Result is the outcome of one Reconstruct call.
type Result struct {
	// Ancestors[nodeName][column] = reconstructed symbol (ModeJoint only).
	Ancestors map[string][]string
	// Marginals[column] = posterior probability vector at the configured
	// marginal node, in its domain's value order (ModeMarginal only).
	Marginals [][]float64
	// GapAncestors[nodeName][column] = reconstructed presence/absence
	// symbol ("X" present, "-" gap), filled only under GapAsModel in ModeJoint.
	GapAncestors map[string][]string
	// PerColumnLogLikelihood[i] = log P(column i's leaf observations).
	PerColumnLogLikelihood []float64
	// TotalLogLikelihood is the sum of PerColumnLogLikelihood.
	TotalLogLikelihood float64
}

// Reconstruct runs ancestral reconstruction over every column of alignment
// independently, using modelName's catalogue entry, following the recipe
// spec.md §4.6 names: build a tree network, instantiate leaves, query. Up to
// cfg.concurrency columns run at once; ctx is checked between columns and,
// if already cancelled, Reconstruct returns a Cancelled error immediately
// without partial output.
func Reconstruct(ctx context.Context, tree *PhyloTree, alignment *Alignment, modelName string, opts ...Option) (*Result, error) {
	const op = "substitution.Reconstruct"
	cfg := newConfig(opts...)
	model, err := ratematrix.NewNamed(modelName)
	if err != nil {
		return nil, err
	}
	dom, err := domain.NewDomain(modelName, model.Alphabet...)
	if err != nil {
		return nil, err
	}
	var gapModel *ratematrix.Model
	var gapDom *domain.Domain
	if cfg.gapPolicy == GapAsModel {
		gapModel, err = ratematrix.NewNamed("Gap")
		if err != nil {
			return nil, err
		}
		gapDom, err = domain.NewDomain("Gap", gapModel.Alphabet...)
		if err != nil {
			return nil, err
		}
	}

	n := alignment.Columns()
	internal := tree.Internal()
	perColumnLL := make([]float64, n)
	ancestors := make(map[string][]string, len(internal))
	var gapAncestors map[string][]string
	for _, nd := range internal {
		ancestors[nd.Name] = make([]string, n)
	}
	if cfg.gapPolicy == GapAsModel {
		gapAncestors = make(map[string][]string, len(internal))
		for _, nd := range internal {
			gapAncestors[nd.Name] = make([]string, n)
		}
	}
	var marginals [][]float64
	if cfg.mode == ModeMarginal {
		marginals = make([][]float64, n)
	}

	sem := make(chan struct{}, cfg.concurrency)
	var wg sync.WaitGroup
	errCh := make(chan error, n)

	for col := 0; col < n; col++ {
		if ctx.Err() != nil {
			return nil, bnerr.New(bnerr.Cancelled, op, "cancelled before column "+strconv.Itoa(col))
		}
		col := col
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			ll, err := reconstructColumn(tree, alignment, model, dom, gapModel, gapDom, cfg, col, ancestors, gapAncestors, marginals)
			if err != nil {
				errCh <- err
				return
			}
			perColumnLL[col] = ll
		}()
	}
	wg.Wait()
	close(errCh)
	for e := range errCh {
		if e != nil {
			return nil, e
		}
	}

	total := 0.0
	for _, ll := range perColumnLL {
		total += ll
	}
	telemetry.L().Info("substitution: reconstruction complete", zap.Int("columns", n), zap.Float64("total_log_likelihood", total))

	res := &Result{
		Ancestors:              ancestors,
		GapAncestors:           gapAncestors,
		PerColumnLogLikelihood: perColumnLL,
		TotalLogLikelihood:     total,
	}
	if cfg.mode == ModeMarginal {
		res.Marginals = marginals
		res.Ancestors = nil
	}
	return res, nil
}

func reconstructColumn(
	tree *PhyloTree, alignment *Alignment, model *ratematrix.Model, dom *domain.Domain,
	gapModel *ratematrix.Model, gapDom *domain.Domain, cfg config, col int,
	ancestors, gapAncestors map[string][]string, marginals [][]float64,
) (float64, error) {
	observed := alignment.Column(col)

	net, err := buildTreeNetwork(tree, model, dom)
	if err != nil {
		return 0, err
	}
	for _, leaf := range tree.Leaves() {
		sym := observed[leaf.Name]
		if sym == GapSymbol {
			continue // GapAsMissing and GapAsModel both leave the character leaf unobserved
		}
		if err := net.SetEvidence(leaf.Name, sym); err != nil {
			return 0, err
		}
	}
	if err := net.Compile(); err != nil {
		return 0, err
	}
	drv, err := inference.NewDriver(net)
	if err != nil {
		return 0, err
	}

	switch cfg.mode {
	case ModeJoint:
		names := make([]string, 0, len(tree.Internal()))
		for _, nd := range tree.Internal() {
			names = append(names, nd.Name)
		}
		assignment, logProb, err := drv.MPE(names...)
		if err != nil {
			return 0, err
		}
		for _, nd := range tree.Internal() {
			ancestors[nd.Name][col] = assignment[nd.Name]
		}
		if cfg.gapPolicy == GapAsModel {
			if err := reconstructGapColumn(tree, observed, gapModel, gapDom, col, gapAncestors); err != nil {
				return 0, err
			}
		}
		return logProb, nil
	case ModeMarginal:
		f, err := drv.Marginal(cfg.marginalNode)
		if err != nil {
			return 0, err
		}
		v, ok := net.Variable(cfg.marginalNode)
		if !ok {
			return 0, bnerr.New(bnerr.IncompleteNetwork, "substitution.reconstructColumn", "unknown marginal node "+cfg.marginalNode)
		}
		probs := make([]float64, v.Domain().Size())
		for i := range probs {
			val, err := v.Domain().Value(i)
			if err != nil {
				return 0, err
			}
			probs[i], err = f.Value([]string{val})
			if err != nil {
				return 0, err
			}
		}
		marginals[col] = probs
		ll, err := drv.LogLikelihood()
		if err != nil {
			return 0, err
		}
		return ll, nil
	default:
		return 0, bnerr.New(bnerr.InvalidModel, "substitution.reconstructColumn", "unknown mode")
	}
}

// reconstructGapColumn runs the parallel presence/absence indicator query
// for one column under GapAsModel, writing ancestor gap-state assignments
// into gapAncestors.
func reconstructGapColumn(tree *PhyloTree, observed map[string]string, gapModel *ratematrix.Model, gapDom *domain.Domain, col int, gapAncestors map[string][]string) error {
	net, err := buildTreeNetwork(tree, gapModel, gapDom)
	if err != nil {
		return err
	}
	for _, leaf := range tree.Leaves() {
		sym := "X"
		if observed[leaf.Name] == GapSymbol {
			sym = "-"
		}
		if err := net.SetEvidence(leaf.Name, sym); err != nil {
			return err
		}
	}
	if err := net.Compile(); err != nil {
		return err
	}
	drv, err := inference.NewDriver(net)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tree.Internal()))
	for _, nd := range tree.Internal() {
		names = append(names, nd.Name)
	}
	assignment, _, err := drv.MPE(names...)
	if err != nil {
		return err
	}
	for _, nd := range tree.Internal() {
		gapAncestors[nd.Name][col] = assignment[nd.Name]
	}
	return nil
}


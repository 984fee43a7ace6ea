package gibbs

// ConvergenceMode selects how EstimateMarginal decides a query's estimate
// has stabilised. spec.md §9 documents this as an open question rather than
// picking one authoritative criterion: the pack's overlapping approximate-
// inference implementations disagree, so both modes are exposed and the
// caller picks.
type ConvergenceMode int

const (
	// PerQueryCount stops after a fixed number of samples have been
	// collected for the queried variable(s), regardless of how the
	// estimate is moving — the simplest, most predictable budget.
	PerQueryCount ConvergenceMode = iota
	// PerNodeFactor stops once the queried variable's empirical marginal has
	// changed by less than a caller-supplied tolerance between two
	// successive checkpoints (or MaxSweeps is reached) — a stability
	// criterion rather than a fixed sample budget. The marginals of the
	// other sampled variables are not checked.
	PerNodeFactor
)

// ConvergenceConfig carries the parameters EstimateMarginal needs for
// either mode; which fields apply depends on Mode.
type ConvergenceConfig struct {
	Mode ConvergenceMode
	// SampleCount: required samples under PerQueryCount.
	SampleCount int
	// CheckpointSweeps: sweeps between stability checks under PerNodeFactor.
	CheckpointSweeps int
	// Tolerance: max per-value probability drift between checkpoints under
	// PerNodeFactor.
	Tolerance float64
	// MaxSweeps bounds total work under PerNodeFactor so a slowly-mixing
	// chain cannot run forever.
	MaxSweeps int
	BurnIn    int
}

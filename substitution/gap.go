package substitution

// GapPolicy selects how a leaf's gap symbol is handled during column
// network construction (spec.md §6's "gap handled as either a missing
// value or a separate Gap model per configuration").
type GapPolicy int

const (
	// GapAsMissing leaves a gapped leaf unobserved: its variable is summed
	// over the full character alphabet rather than fixed, carrying no
	// character-state information into the query.
	GapAsMissing GapPolicy = iota
	// GapAsModel additionally runs a parallel presence/absence indicator
	// network over the same tree topology, using the catalogue's "Gap"
	// model, evidencing each leaf's indicator to present/gap; its most
	// probable ancestor states are reported in Result.GapAncestors alongside
	// (not instead of) the character reconstruction, since presence/absence
	// carries no information about which character state an ancestor held.
	// The indicator query runs in ModeJoint only.
	GapAsModel
)

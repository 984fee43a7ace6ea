package builder

import "github.com/arborbayes/bnkit/bnerr"

// validateMin ensures got >= min, returning an IncompleteNetwork error
// tagged with op otherwise.
func validateMin(op string, got, min int) error {
	if got < min {
		return bnerr.New(bnerr.IncompleteNetwork, op, "parameter below minimum")
	}
	return nil
}

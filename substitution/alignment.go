package substitution

import (
	"fmt"

	"github.com/arborbayes/bnkit/bnerr"
)

// GapSymbol is the character that marks a missing/gapped observation in an
// alignment column.
const GapSymbol = "-"

// Alignment is a multiple sequence alignment: one fixed-length symbol slice
// per taxon name, all slices the same length (the number of columns).
type Alignment struct {
	seqs    map[string][]string
	columns int
}

// NewAlignment builds an Alignment from raw per-taxon symbol slices. All
// slices must share the same length.
func NewAlignment(seqs map[string][]string) (*Alignment, error) {
	const op = "substitution.NewAlignment"
	if len(seqs) == 0 {
		return nil, bnerr.New(bnerr.IncompleteNetwork, op, "alignment has no sequences")
	}
	n := -1
	for name, s := range seqs {
		if n == -1 {
			n = len(s)
		} else if len(s) != n {
			return nil, bnerr.New(bnerr.IncompleteNetwork, op, fmt.Sprintf("sequence %q has length %d, expected %d", name, len(s), n))
		}
	}
	cp := make(map[string][]string, len(seqs))
	for name, s := range seqs {
		cp[name] = append([]string(nil), s...)
	}
	return &Alignment{seqs: cp, columns: n}, nil
}

// Columns returns the number of alignment columns.
func (a *Alignment) Columns() int { return a.columns }

// Column returns the symbol for every taxon at column index i.
func (a *Alignment) Column(i int) map[string]string {
	out := make(map[string]string, len(a.seqs))
	for name, s := range a.seqs {
		out[name] = s[i]
	}
	return out
}

// Taxa returns the alignment's taxon names.
func (a *Alignment) Taxa() []string {
	out := make([]string, 0, len(a.seqs))
	for name := range a.seqs {
		out = append(out, name)
	}
	return out
}

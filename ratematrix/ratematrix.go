// Package ratematrix turns a time-reversible continuous-time Markov
// substitution model — a stationary frequency vector plus either a
// symmetric exchange matrix or a Q matrix — into time-parametrised
// transition-probability matrices via eigen-decomposition.
//
// Grounded on lvlath/matrix's Jacobi eigensolver (matrix.Eigen /
// matrix.EigenSym), which only accepts symmetric input: a reversible
// generator Q is symmetrized via the standard D^{1/2}·Q·D^{-1/2} similarity
// transform (D = diag(π)) before eigen-decomposition, and the resulting
// eigenvectors are un-scaled back by D^{-1/2}/D^{1/2} to recover Q's own
// (λ, V, V^-1) triple. This is the direct justification, per spec.md §9, for
// not hand-rolling a non-symmetric (QR-algorithm) eigensolver.
package ratematrix

import (
	"fmt"
	"math"
	"sync"

	"github.com/arborbayes/bnkit/bnerr"
	"github.com/arborbayes/bnkit/matrix"
)

// RowSumTolerance is the tolerance spec.md §4.3 names for probs(t) row sums.
const RowSumTolerance = 1e-6

// eigenTol/eigenMaxIter configure the Jacobi solver call.
const (
	eigenTol     = 1e-10
	eigenMaxIter = 5000
)

// Model is a cached, time-parametrised substitution model over a finite
// alphabet. Construct with New; query transition probabilities with Probs.
type Model struct {
	Alphabet []string
	Pi       []float64 // stationary frequencies, length n
	q        *matrix.Dense // normalised rate matrix (for reference/diagnostics)
	vq       *matrix.Dense // D^-1/2 * V  (Q's eigenvectors, columns)
	vqInv    *matrix.Dense // V^T * D^1/2 (Q's inverse eigenvectors)
	lambda   []float64     // Q's eigenvalues

	cache sync.Map // exact float64 t -> [][]float64
}

// Option configures New.
type Option func(*config)

type config struct {
	asQ bool // M is already Q, not an exchange matrix S
}

// AsRateMatrix tells New that m is already a generator Q rather than a
// symmetric exchange matrix S.
func AsRateMatrix() Option {
	return func(c *config) { c.asQ = true }
}

// New builds a Model from stationary frequencies pi (length n) and matrix m
// (n×n): by default m is treated as a symmetric exchange matrix S (Qij =
// Sij·πj for i≠j); pass AsRateMatrix() to treat m as Q directly.
func New(alphabet []string, pi []float64, m *matrix.Dense, opts ...Option) (*Model, error) {
	const op = "ratematrix.New"
	n := len(pi)
	if len(alphabet) != n {
		return nil, bnerr.New(bnerr.InvalidModel, op, "alphabet length must match pi length")
	}
	if m.Rows() != n || m.Cols() != n {
		return nil, bnerr.New(bnerr.InvalidModel, op, "matrix dimensions must match pi length")
	}
	for _, p := range pi {
		if p < 0 {
			return nil, bnerr.New(bnerr.InvalidModel, op, "stationary frequencies must be non-negative")
		}
	}
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	q, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, bnerr.Wrap(bnerr.InvalidModel, op, "allocate Q", err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			mij, err := m.At(i, j)
			if err != nil {
				return nil, bnerr.Wrap(bnerr.InvalidModel, op, "read M", err)
			}
			val := mij
			if !cfg.asQ {
				val = mij * pi[j]
			}
			if err := q.Set(i, j, val); err != nil {
				return nil, bnerr.Wrap(bnerr.InvalidModel, op, "write Q", err)
			}
		}
	}
	// 1. Make rows sum to zero.
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			v, _ := q.At(i, j)
			sum += v
		}
		if err := q.Set(i, i, -sum); err != nil {
			return nil, bnerr.Wrap(bnerr.InvalidModel, op, "set diagonal", err)
		}
	}
	// 2. Normalise to one expected substitution per unit time.
	rate := 0.0
	for i := 0; i < n; i++ {
		qii, _ := q.At(i, i)
		rate += -qii * pi[i]
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, bnerr.New(bnerr.InvalidModel, op, "degenerate rate matrix: non-positive expected substitution rate")
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, _ := q.At(i, j)
			if err := q.Set(i, j, v/rate); err != nil {
				return nil, bnerr.Wrap(bnerr.InvalidModel, op, "normalise Q", err)
			}
		}
	}

	model := &Model{Alphabet: append([]string(nil), alphabet...), Pi: append([]float64(nil), pi...), q: q}
	if err := model.decompose(); err != nil {
		return nil, err
	}
	return model, nil
}

// decompose computes and caches (λ, Vq, Vq^-1) via the symmetrized
// eigen-problem.
//
// The D^{1/2}·Q·D^{-1/2} similarity transform and its inverse are expressed
// as row/column scalings (matrix.ScaleRows/matrix.ScaleCols) composed with
// matrix.Transpose, rather than hand-rolled element loops: sqrtPi/invSqrtPi
// zero out the rows/columns of states with zero stationary probability,
// matching the original per-element guard exactly.
func (m *Model) decompose() error {
	const op = "ratematrix.decompose"
	n := len(m.Pi)
	sqrtPi := make([]float64, n)
	invSqrtPi := make([]float64, n)
	for i, p := range m.Pi {
		if p > 0 {
			sqrtPi[i] = math.Sqrt(p)
			invSqrtPi[i] = 1 / sqrtPi[i]
		}
	}

	b, err := matrix.ScaleRows(m.q, sqrtPi)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "scale rows of Q by sqrt(pi)", err)
	}
	b, err = matrix.ScaleCols(b, invSqrtPi)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "scale cols of Q by 1/sqrt(pi)", err)
	}
	// symmetrize away rounding noise: B should already be symmetric by the
	// detailed-balance property, but floating-point noise can leave
	// |B_ij - B_ji| nonzero above the solver's tolerance.
	b, err = matrix.Symmetrize(b)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "symmetrize B", err)
	}

	lambda, v, err := matrix.EigenSym(b, eigenTol, eigenMaxIter)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "degenerate rate matrix", err)
	}
	for _, l := range lambda {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return bnerr.New(bnerr.InvalidModel, op, "degenerate rate matrix: non-finite eigenvalue")
		}
	}

	// Vq = D^-1/2 * V : row i scaled by 1/sqrt(pi_i).
	vq, err := matrix.ScaleRows(v, invSqrtPi)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "scale rows of V by 1/sqrt(pi)", err)
	}
	// Vq^-1 = V^T * D^1/2 : column j of V^T (row j of V) scaled by sqrt(pi_j).
	vt, err := matrix.Transpose(v)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "transpose V", err)
	}
	vqInv, err := matrix.ScaleCols(vt, sqrtPi)
	if err != nil {
		return bnerr.Wrap(bnerr.InvalidModel, op, "scale cols of V^T by sqrt(pi)", err)
	}

	m.lambda = lambda
	m.vq = vq.(*matrix.Dense)
	m.vqInv = vqInv.(*matrix.Dense)
	return nil
}

// Probs returns P(t): Probs(t)[i][j] = P(state at time t = j | state at
// time 0 = i). Results are cached keyed by t; repeated queries at the same
// t are O(1) after the first (spec.md §4.3/§5: a sync.Map gives per-key
// concurrency rather than one coarse mutex, the same "don't serialize
// unrelated keys" idiom lvlath's core.Graph uses with split RWMutex fields).
func (m *Model) Probs(t float64) ([][]float64, error) {
	const op = "ratematrix.Probs"
	if t < 0 {
		return nil, bnerr.New(bnerr.InvalidModel, op, "branch length must be non-negative")
	}
	if cached, ok := m.cache.Load(t); ok {
		return cached.([][]float64), nil
	}
	n := len(m.Pi)
	p := make([][]float64, n)
	for i := range p {
		p[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				vik, _ := m.vq.At(i, k)
				vkjInv, _ := m.vqInv.At(k, j)
				sum += vik * math.Exp(t*m.lambda[k]) * vkjInv
			}
			p[i][j] = math.Abs(sum)
		}
	}
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			rowSum += p[i][j]
		}
		if math.Abs(rowSum-1) > RowSumTolerance && rowSum > 0 {
			for j := 0; j < n; j++ {
				p[i][j] /= rowSum
			}
		}
	}
	m.cache.Store(t, p)
	return p, nil
}

// IndexOf returns the alphabet position of symbol, or an error if absent.
func (m *Model) IndexOf(symbol string) (int, error) {
	for i, s := range m.Alphabet {
		if s == symbol {
			return i, nil
		}
	}
	return -1, bnerr.New(bnerr.InvalidDomain, "ratematrix.IndexOf", fmt.Sprintf("symbol %q not in alphabet", symbol))
}

// Package matrix_test contains unit tests for universal Matrix (linear algebra)operations.
package matrix_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/arborbayes/bnkit/matrix"
)

func TestNewDenseDefaultZero(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{
		{3, 3},
		{6, 6},
	} {
		name := fmt.Sprintf("%dx%d", tc.rows, tc.cols)
		t.Run(name, func(t *testing.T) {
			m := MustDense(t, tc.rows, tc.cols)
			// immediately after creation all elements should be 0
			var i, j int // loop iterators
			var v float64
			for i = 0; i < tc.rows; i++ {
				for j = 0; j < tc.cols; j++ {
					v = MustAt(t, m, i, j)
					if v != 0.0 {
						t.Fatalf("element [%d,%d] of a new Dense(%dx%d) must be 0", i, j, tc.rows, tc.cols)
					}
				}
			}
		})
	}
}

// TestHelpers_InterfaceHiding_Fallback ensures that using a non-nil wrapper
// (which hides the concrete type) forces the interface fallback path without panicking
// and produces the same results as with the bare Dense.
func TestHelpers_InterfaceHiding_Fallback(t *testing.T) {
	t.Parallel()

	const rows, cols = 3, 3
	var (
		i, j int
		v    float64
		err  error
	)

	base := MustDense(t, rows, cols)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			v = float64(i*cols + j + 1)
			MustSet(t, base, i, j, v)
		}
	}

	wrapped := hide{base}

	// Compare Add(base, base) vs Add(wrapped, base)
	sum1, err := matrix.Add(base, base)
	if err != nil {
		t.Fatalf("matrix.Add(base, base): %v", err)
	}
	sum2, err := matrix.Add(wrapped, base)
	if err != nil {
		t.Fatalf("matrix.Add(wrapped, base): %v", err)
	}

	var a, b float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			a = MustAt(t, sum1, i, j)
			b = MustAt(t, sum2, i, j)
			if a != b {
				t.Fatalf("mismatch at [%d,%d]", i, j)
			}
		}
	}
}

func TestHelperVisibility(t *testing.T) {
	// Check that the Random and Compare utilities are available and working
	const n = 3
	m := MustDense(t, n, n)

	// Random fills the matrix with pseudo-random numbers without panicking
	RandomFill(t, m, 12345)

	// Assemble "reference" identity matrix
	Iwant := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		row[i] = 1.0
		Iwant[i] = row
	}

	// First, fill m with one on the diagonal and zeros outside
	var i, j int // loop iterators
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			MustSet(t, m, i, j, 0)
		}
		MustSet(t, m, i, i, 1.0)
	}

	// Сompare should not panic and should check successfully
	CompareExact(t, Iwant, m)
}

// hide is declared once if not already in file:
// type hide struct{ matrix.Matrix }

// ---------- 2.1 Add ----------

func TestAdd_FastPath_6x6_Correctness(t *testing.T) {
	t.Parallel()

	const rows, cols = 6, 6
	var i, j int
	var err error

	A := MustDense(t, rows, cols)
	B := MustDense(t, rows, cols)

	// A[i,j] = i+j; B[i,j] = 10 - (i+j)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, A, i, j, float64(i+j))
			MustSet(t, B, i, j, float64(10-(i+j)))
		}
	}

	S, err := matrix.Add(A, B)
	if err != nil {
		t.Fatalf("matrix.Add: want err == nil, got: %v", err)
	}

	// Expect constant 10 everywhere
	var got float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			got = MustAt(t, S, i, j)
			if got != 10.0 {
				t.Fatalf("at [%d,%d]", i, j)
			}
		}
	}
}

func TestAdd_Fallback_4x5_Correctness(t *testing.T) {
	t.Parallel()

	const rows, cols = 4, 5
	var i, j int
	var err error

	Araw := MustDense(t, rows, cols)
	Braw := MustDense(t, rows, cols)
	A := hide{Araw} // force fallback
	B := hide{Braw} // force fallback

	// A[i,j] = 2*i + j; B[i,j] = i - 3*j
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, Araw, i, j, float64(2*i+j))
			MustSet(t, Braw, i, j, float64(i-3*j))
		}
	}

	S, err := matrix.Add(A, B)
	if err != nil {
		t.Fatalf("matrix.Add(A, B): want err == nil, got: %v", err)
	}

	// Check elementwise
	var got, av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			av, _ = Araw.At(i, j)
			bv, _ = Braw.At(i, j)
			got = MustAt(t, S, i, j)
			if got != av+bv {
				t.Fatalf("at [%d,%d]", i, j)
			}
		}
	}
}

func TestAdd_DimensionMismatch(t *testing.T) {
	t.Parallel()

	var err error
	A := MustDense(t, 3, 4)
	B := MustDense(t, 4, 3)
	_, err = matrix.Add(A, B)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestAdd_Succeeds(t *testing.T) {
	// Prepare two 2×3 matrices
	a := MustDense(t, 2, 3)
	b := MustDense(t, 2, 3)

	// Initialize a = [[1,2,3],[4,5,6]], b = [[6,5,4],[3,2,1]]
	var i, j int // loop iterators
	for i = 0; i < 2; i++ {
		for j = 0; j < 3; j++ {
			MustSet(t, a, i, j, float64(i*3+j+1))
			MustSet(t, b, i, j, float64(6-(i*3+j)))
		}
	}

	// Perform addition
	sum, err := matrix.Add(a, b)
	if err != nil {
		t.Fatalf("matrix.Add(a, b): want err == nil, got: %v", err)
	}

	// Expect sum = [[7,7,7],[7,7,7]]
	var v float64
	for i = 0; i < 2; i++ {
		for j = 0; j < 3; j++ {
			v = MustAt(t, sum, i, j)
			if v != 7.0 {
				t.Fatalf("want v == 7.0, got: %.6g", v)
			}
		}
	}
}

// ---------- 3.1 Transpose ----------

func TestTranspose_FastPath_Rectangular_Correctness(t *testing.T) {
	t.Parallel()

	const rows, cols = 4, 6
	var (
		i, j int
		err  error
		val  float64
	)

	m := MustDense(t, rows, cols)

	// Fill m[i,j] = 10*i + j  (unique, easy to check after transpose)
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, m, i, j, float64(10*i+j))
		}
	}

	mt, err := matrix.Transpose(m)
	if err != nil {
		t.Fatalf("matrix.Transpose(m): want err == nil, got: %v", err)
	}
	if mt.Rows() != cols {
		t.Fatalf("want mt.Rows == %d, got:%d", cols, mt.Rows())
	}
	if mt.Cols() != rows {
		t.Fatalf("want mt.Rows == %d, got:%d", rows, mt.Cols())
	}

	// Check mt[j,i] == m[i,j]
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			val = MustAt(t, mt, j, i)
			if val != float64(10*i+j) {
				t.Fatalf("mismatch at [%d,%d] ⇒ mt[%d,%d]", i, j, j, i)
			}
		}
	}
}

func TestTranspose_Fallback_Rectangular_Correctness(t *testing.T) {
	t.Parallel()

	const rows, cols = 5, 3
	var (
		i, j int
		err  error
		val  float64
	)

	base := MustDense(t, rows, cols)
	// Force interface fallback via wrapper
	m := hide{base}

	// Fill base[i,j] = i - 2*j
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, base, i, j, float64(i-2*j))
		}
	}

	mt, err := matrix.Transpose(m)
	if err != nil {
		t.Fatalf("matrix.Transpose(m): want err == nil, got: %v", err)
	}
	if mt.Rows() != cols {
		t.Fatalf("want mt.Rows == %d, got:%d", cols, mt.Rows())
	}
	if mt.Cols() != rows {
		t.Fatalf("want mt.Rows == %d, got:%d", rows, mt.Cols())
	}

	// Check mt[j,i] == base[i,j]
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			val = MustAt(t, mt, j, i)
			if val != float64(i-2*j) {
				t.Fatalf("want val == %.6g, got: %.6g", float64(i-2*j), val)
			}
		}
	}
}

func TestTranspose_Involution_NoMutation(t *testing.T) {
	t.Parallel()

	const n = 6
	var (
		i, j int
		err  error
		aij  float64
	)

	A := MustDense(t, n, n)
	// Fill A with a distinct pattern
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			MustSet(t, A, i, j, float64((i+1)*(j+2)))
		}
	}

	// Keep a copy to ensure A is not mutated by Transpose
	Acopy := A.Clone()

	At, err := matrix.Transpose(A)
	if err != nil {
		t.Fatalf("matrix.Transpose(A): want err == nil, got: %v", err)
	}
	Att, err := matrix.Transpose(At)
	if err != nil {
		t.Fatalf("matrix.Transpose(At): want err == nil, got: %v", err)
	}

	// Check Transpose(Transpose(A)) == A
	var got, want float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			got = MustAt(t, Att, i, j)
			want = MustAt(t, A, i, j)
			if got != want {
				t.Fatalf("at [%d,%d]", i, j)
			}
		}
	}

	// Ensure original A not mutated
	var v1, v2 float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v1 = MustAt(t, A, i, j)
			v2 = MustAt(t, Acopy, i, j)
			if v1 != v2 {
				t.Fatalf("want v1(%b) == v2(%b)", v1, v2)
			}
		}
	}

	// Extra: symmetric matrix should equal its transpose
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			aij = float64(i + j + 1) // symmetric by construction
			MustSet(t, A, i, j, aij)
			MustSet(t, A, j, i, aij)
		}
	}
	St, err := matrix.Transpose(A)
	if err != nil {
		t.Fatalf("matrix.Transpose(A): want err == nil, got: %v", err)
	}
	var s, st float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			s, _ = A.At(i, j)
			st, _ = St.At(i, j)
			if st != s {
				t.Fatalf("symmetric transpose must be identical")
			}
		}
	}
}

func TestTranspose(t *testing.T) {
	// 2×3 matrix
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	tm, _ := matrix.Transpose(m)
	// tm should be 3×2: [[1,4],[2,5],[3,6]]
	exp := [][]float64{{1, 4}, {2, 5}, {3, 6}}
	if tm.Rows() != 3 {
		t.Fatalf("want mt.Rows == %d, got:%d", 3, tm.Rows())
	}
	if tm.Cols() != 2 {
		t.Fatalf("want mt.Rows == %d, got:%d", 2, tm.Cols())
	}

	var i, j int // loop iterators
	var v float64
	for i = 0; i < tm.Rows(); i++ {
		for j = 0; j < tm.Cols(); j++ {
			v = MustAt(t, tm, i, j)
			if v != exp[i][j] {
				t.Fatalf("want v == %b, got: %.6g", exp[i][j], v)
			}
		}
	}
}

// ---------- 3.2 Scale ----------

func TestScale_FastPath_6x6_Correctness(t *testing.T) {
	t.Parallel()

	const n = 6
	const alpha = 3.5
	var (
		i, j int
		err  error
		got  float64
	)

	m := MustDense(t, n, n)
	// m[i,j] = i - j
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			MustSet(t, m, i, j, float64(i-j))
		}
	}

	sm, err := matrix.Scale(m, alpha)
	if err != nil {
		t.Fatalf("matrix.Scale(m, alpha): want err == nil, got: %v", err)
	}
	if sm.Rows() != n {
		t.Fatalf("want mt.Rows == %d, got:%d", n, sm.Rows())
	}
	if sm.Cols() != n {
		t.Fatalf("want mt.Rows == %d, got:%d", n, sm.Cols())
	}

	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			got = MustAt(t, sm, i, j)
			if got != alpha*float64(i-j) {
				t.Fatalf("at [%d,%d]", i, j)
			}
		}
	}
}

func TestScale_Fallback_5x3_Correctness(t *testing.T) {
	t.Parallel()

	const rows, cols = 5, 3
	const alpha = -2.0
	var (
		i, j int
		err  error
		got  float64
	)

	base := MustDense(t, rows, cols)
	m := hide{base} // force fallback

	// base[i,j] = 2*i + 3*j + 1
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, base, i, j, float64(2*i+3*j+1))
		}
	}

	sm, err := matrix.Scale(m, alpha)
	if err != nil {
		t.Fatalf("matrix.Scale(m, alpha): want err == nil, got: %v", err)
	}
	if sm.Rows() != rows {
		t.Fatalf("want mt.Rows == %d, got:%d", rows, sm.Rows())
	}
	if sm.Cols() != cols {
		t.Fatalf("want mt.Rows == %d, got:%d", cols, sm.Cols())
	}

	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			got = MustAt(t, sm, i, j)
			if got != alpha*float64(2*i+3*j+1) {
				t.Fatalf("wrong scaled value at [%d,%d]: got %.6g", i, j, got)
			}
		}
	}
}

func TestScale_Properties_Distributivity(t *testing.T) {
	t.Parallel()

	const n = 4
	const alpha = 1.75
	var (
		i, j int
		err  error
	)

	A := MustDense(t, n, n)
	B := MustDense(t, n, n)

	// A[i,j] = i+j; B[i,j] = i-2*j
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			MustSet(t, A, i, j, float64(i+j))
			MustSet(t, B, i, j, float64(i-2*j))
		}
	}

	S, err := matrix.Add(A, B)
	if err != nil {
		t.Fatalf("matrix.Add(A, B): want err == nil, got: %v", err)
	}

	left, err := matrix.Scale(S, alpha) // α(A+B)
	if err != nil {
		t.Fatalf("matrix.Scale(S, alpha): want err == nil, got: %v", err)
	}

	Ar, err := matrix.Scale(A, alpha) // αA
	if err != nil {
		t.Fatalf("matrix.Scale(A, alpha): want err == nil, got: %v", err)
	}
	Br, err := matrix.Scale(B, alpha) // αB
	if err != nil {
		t.Fatalf("matrix.Scale(B, alpha): want err == nil, got: %v", err)
	}
	right, err := matrix.Add(Ar, Br) // αA + αB
	if err != nil {
		t.Fatalf("matrix.Add(Ar, Br): want err == nil, got: %v", err)
	}

	// Compare left vs right
	var lv, rv float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			lv = MustAt(t, left, i, j)
			rv = MustAt(t, right, i, j)
			if lv != rv {
				t.Fatalf("distributivity failed at [%d,%d]: want lv(%b) == rv(%b)", i, j, lv, rv)
			}
		}
	}
}

func TestScale_Properties_Composition_And_SpecialAlphas(t *testing.T) {
	t.Parallel()

	const n = 5
	const alpha = -0.5
	const beta = 4.0
	var (
		i, j int
		err  error
	)

	M := MustDense(t, n, n)
	// M[i,j] = 3*i - j
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			MustSet(t, M, i, j, float64(3*i-j))
		}
	}

	// (αβ)*M
	left, err := matrix.Scale(M, alpha*beta)
	if err != nil {
		t.Fatalf("matrix.Scale(M, alpha*beta): want err == nil, got: %v", err)
	}

	// α*(β*M)
	bm, err := matrix.Scale(M, beta)
	if err != nil {
		t.Fatalf("matrix.Scale(M, beta): want err == nil, got: %v", err)
	}
	right, err := matrix.Scale(bm, alpha)
	if err != nil {
		t.Fatalf("matrix.Scale(bm, alpha): want err == nil, got: %v", err)
	}

	// Compare left vs right (associativity of scalar multiplication)
	var lv, rv float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			lv = MustAt(t, left, i, j)
			rv = MustAt(t, right, i, j)
			if lv != rv {
				t.Fatalf("composition failed at [%d,%d]: want lv(%b) == rv(%b)", i, j, lv, rv)
			}
		}
	}

	// α = 0 ⇒ zero matrix; α = -1 ⇒ negation; inputs not mutated.
	zero, err := matrix.Scale(M, 0.0)
	if err != nil {
		t.Fatalf("matrix.Scale(M, 0.0): want err == nil, got: %v", err)
	}
	neg, err := matrix.Scale(M, -1.0)
	if err != nil {
		t.Fatalf("matrix.Scale(M, -1.0): want err == nil, got: %v", err)
	}

	var m, z, ng float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			m, _ = M.At(i, j)
			z, _ = zero.At(i, j)
			ng, _ = neg.At(i, j)
			if z != 0.0 {
				t.Fatalf("zero scaling failed at [%d,%d]", i, j)
			}
			if ng != -m {
				t.Fatalf("inegation failed at [%d,%d]", i, j)
			}
		}
	}

	// Ensure original M unchanged
	var m1, m2 float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			m1, _ = M.At(i, j)
			m2, _ = M.At(i, j) // read again; we only checked immutability via distinct results above
			if m1 != m2 {
				t.Fatalf("want m1(%b) == m2(%b)", m1, m2)
			}
		}
	}
}

func TestScale_WithTranspose_Compatibility(t *testing.T) {
	t.Parallel()

	const rows, cols = 3, 5
	const alpha = 2.25
	var (
		i, j int
		err  error
	)

	M := MustDense(t, rows, cols)
	// M[i,j] = i + 10*j
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			MustSet(t, M, i, j, float64(i+10*j))
		}
	}

	alphaM, err := matrix.Scale(M, alpha)
	if err != nil {
		t.Fatalf("matrix.Scale(M, alpha): want err == nil, got: %v", err)
	}
	TalphaM, err := matrix.Transpose(alphaM)
	if err != nil {
		t.Fatalf("matrix.Transpose(alphaM): want err == nil, got: %v", err)
	}

	TM, err := matrix.Transpose(M)
	if err != nil {
		t.Fatalf("matrix.Transpose(M): want err == nil, got: %v", err)
	}
	alphaTM, err := matrix.Scale(TM, alpha)
	if err != nil {
		t.Fatalf("matrix.Scale(NM, alpha): want err == nil, got: %v", err)
	}

	// Expect Transpose(αM) == α Transpose(M)
	var v1, v2 float64
	for i = 0; i < TalphaM.Rows(); i++ {
		for j = 0; j < TalphaM.Cols(); j++ {
			v1 = MustAt(t, TalphaM, i, j)
			v2 = MustAt(t, alphaTM, i, j)
			if v1 != v2 {
				t.Fatalf("distributivity failed at [%d,%d]: want v1(%b) == v2(%b)", i, j, v1, v2)
			}
		}
	}
}

func TestScale(t *testing.T) {
	// 2×2 matrix
	m := NewFilledDense(t, 2, 2, []float64{1.5, -2.5, 3.0, 0.0})

	sm, _ := matrix.Scale(m, 2.0)
	// expected = [[3.0, -5.0],[6.0, 0.0]]
	expected := [][]float64{{3.0, -5.0}, {6.0, 0.0}}
	var i, j int // loop iterators
	var v float64
	for i = 0; i < sm.Rows(); i++ {
		for j = 0; j < sm.Cols(); j++ {
			v = MustAt(t, sm, i, j)
			if v != expected[i][j] {
				t.Fatalf("want v == %b, got: %.6g", expected[i][j], v)
			}
		}
	}
}

// ---------- 4. Eigen ----------

// TestEigen_Errors verifies error paths: non-square, non-symmetric, and forced non-convergence.
func TestEigen_Errors(t *testing.T) {
	t.Parallel()

	var err error
	// non-square → ErrDimensionMismatch
	ns := MustDense(t, 3, 4)
	_, _, err = matrix.Eigen(ns, 1e-10, 50)
	AssertErrorIs(t, err, matrix.ErrDimensionMismatch)

	// not symmetric within tol → ErrNotSymmetric
	asym := MustDense(t, 3, 3)
	MustSet(t, asym, 0, 1, 1)
	MustSet(t, asym, 1, 0, 2) // violates symmetry > tol
	_, _, err = matrix.Eigen(asym, 1e-12, 50)
	AssertErrorIs(t, err, matrix.ErrAsymmetry)

	// zero iterations with nonzero off-diagonals → ErrEigenFailed
	sym := MustDense(t, 3, 3)
	MustSet(t, sym, 0, 0, 2)
	MustSet(t, sym, 1, 1, 3)
	MustSet(t, sym, 2, 2, 4)
	MustSet(t, sym, 0, 1, 1)
	MustSet(t, sym, 1, 0, 1)
	_, _, err = matrix.Eigen(sym, 1e-12, 0)
	AssertErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

// TestEigen_Diagonal_NoRotation: diagonal matrices return exact diagonal as eigenvalues and Q=I.
func TestEigen_Diagonal_NoRotation(t *testing.T) {
	t.Parallel()

	const n = 4
	var (
		i, j int
		v    float64
		err  error
	)

	diagVals := []float64{1, -2, 5, 3}
	A := MustDense(t, n, n)
	for i = 0; i < n; i++ {
		MustSet(t, A, i, i, diagVals[i])
	}

	vals, Q, err := matrix.Eigen(A, 1e-12, 10)
	if err != nil {
		t.Fatalf("matrix.Eigen(A, 1e-12, 10): want err == nil, got: %v", err)
	}
	if len(vals) != n {
		t.Fatalf("want len(vals) == %d, got: %d", n, len(vals))
	}
	if Q.Rows() != n {
		t.Fatalf("want mt.Rows == %d, got:%d", n, Q.Rows())
	}
	if Q.Cols() != n {
		t.Fatalf("want mt.Rows == %d, got:%d", n, Q.Cols())
	}

	got := append([]float64(nil), vals...)
	want := append([]float64(nil), diagVals...)
	sort.Float64s(got)
	sort.Float64s(want)
	if !AlmostEqualSlice(got, want, 0.0) {
		t.Fatalf("igenvalues mismatch: want=%v got=%v", want, got)
	}

	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			v = MustAt(t, Q, i, j)
			if i == j {
				if v != 1.0 {
					t.Fatalf("Q[%d,%d]", i, j)
				}
			} else {
				if v != 0.0 {
					t.Fatalf("Q[%d,%d]", i, j)
				}
			}
		}
	}
}

// TestEigen_2x2_Analytic: [[2,1],[1,2]] has eigenvalues {1,3}; Q orthonormal; A*Q≈Q*D.
func TestEigen_2x2_Analytic(t *testing.T) {
	t.Parallel()

	var err error
	var got []float64

	A := NewFilledDense(t, 2, 2, []float64{2, 1, 1, 2})

	vals, Q, err := matrix.Eigen(A, 1e-12, 50)
	if err != nil {
		t.Fatalf("matrix.Eigen(A, 1e-12, 50): want err == nil, got: %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("want len(vals) == %d, got: %d", 2, len(vals))
	}

	got = append([]float64(nil), vals...)
	sort.Float64s(got)
	if !InDelta(t, got[0], 1.0, 1e-10) {
		t.Fatalf("want |%.6g-%.6g|<=%.1e", got[0], 1.0, 1e-10)
	}

	if !InDelta(t, got[1], 3.0, 1e-10) {
		t.Fatalf("want |%.6g-%.6g|<=%.1e", got[1], 3.0, 1e-10)
	}

	propOrthonormal(t, Q, 1e-10)
	propEigenEquation(t, A, Q, vals, 1e-10)
}

// TestEigen_BlockDiagonal_Degenerate: block diag([2], [[3,1],[1,3]]) ⇒ eigenvalues {2,2,4}.
func TestEigen_BlockDiagonal_Degenerate(t *testing.T) {
	t.Parallel()

	const n = 3
	var err error
	var got []float64

	A := NewFilledDense(t, n, n, []float64{2, 0, 0, 0, 3, 1, 0, 1, 3})

	//orig := matrix.CloneMatrix(A) // wrapper for A.Clone()
	orig := A.Clone()
	vals, Q, err := matrix.Eigen(A, 1e-12, 100)
	if err != nil {
		t.Fatalf("matrix.Eigen(A, 1e-12, 100): want err == nil, got: %v", err)
	}
	if len(vals) != n {
		t.Fatalf("want len(vals) == %d, got: %d", n, len(vals))
	}

	got = append([]float64(nil), vals...)
	sort.Float64s(got)
	if !InDelta(t, got[0], 2.0, 1e-10) {
		t.Fatalf("want |%.6g-%.6g|<=%.1e", got[0], 2.0, 1e-10)
	}
	if !InDelta(t, got[1], 2.0, 1e-10) {
		t.Fatalf("want |%.6g-%.6g|<=%.1e", got[1], 2.0, 1e-10)
	}
	if !InDelta(t, got[2], 4.0, 1e-10) {
		t.Fatalf("want |%.6g-%.6g|<=%.1e", got[2], 4.0, 1e-10)
	}

	propOrthonormal(t, Q, 1e-10)
	propReconstruction(t, orig, Q, vals, 1e-9)
}

// TestEigen_Reconstruction_SPD_6x6: SPD A = Symmetrize(M) + 2n·I, check QᵀQ≈I, A≈QDQᵀ and A*Q≈Q*D.
func TestEigen_Reconstruction_SPD_6x6(t *testing.T) {
	t.Parallel()

	const n = 6
	var err error

	M := MustDense(t, n, n)
	RandomFill(t, M, 42)

	// Symmetrize, then push onto the diagonal until strictly diagonally
	// dominant: Gershgorin then guarantees positive-definiteness without
	// needing a matrix-multiply kernel to form MᵗM.
	A, err := matrix.Symmetrize(M)
	if err != nil {
		t.Fatalf("matrix.Symmetrize(M): want err == nil, got: %v", err)
	}
	for i := 0; i < n; i++ {
		v, err := A.At(i, i)
		if err != nil {
			t.Fatalf("A.At(%d,%d): want err == nil, got: %v", i, i, err)
		}
		if err := A.Set(i, i, v+float64(n)*2); err != nil {
			t.Fatalf("A.Set(%d,%d): want err == nil, got: %v", i, i, err)
		}
	}

	orig := A.Clone()
	vals, Q, err := matrix.Eigen(A, 1e-9, 200)
	if err != nil {
		t.Fatalf("matrix.Eigen(A, 1e-9, 200): want err == nil, got: %v", err)
	}
	if len(vals) != n {
		t.Fatalf("want len(vals) == %d, got: %d", n, len(vals))
	}

	propOrthonormal(t, Q, 1e-8)
	propReconstruction(t, orig, Q, vals, 1e-6)
	propEigenEquation(t, orig, Q, vals, 1e-6)
}

// Package matrix provides dense linear-algebra primitives used by the
// inference engine: element-wise algebra (Add, Scale, row/column scaling),
// Transpose, Symmetrize, and symmetric eigen-decomposition (Jacobi
// rotations). It has no matrix multiplication, LU/QR, inverse or statistics
// helpers.
//
// Dense is the sole concrete implementation of the Matrix interface; all
// kernels accept the interface but fast-path on *Dense via type assertion.
package matrix

// SPDX-License-Identifier: MIT

package matrix

// Test-bridge for the private ewScaleRows/ewScaleCols micro-kernels: expose
// them to the external matrix_test package so ops_elementwise_test.go can
// white-box the fast path (*Dense) against the generic Matrix fallback
// without widening the production API.
//
// Grounded on lvlath matrix/export_privates_for_test.go's own bridge,
// trimmed to the two kernels ratematrix's symmetrization actually exercises.

// EwScaleCols_TestOnly forwards to ewScaleCols.
func EwScaleCols_TestOnly(X Matrix, scale []float64) (Matrix, error) {
	return ewScaleCols(X, scale)
}

// EwScaleRows_TestOnly forwards to ewScaleRows.
func EwScaleRows_TestOnly(X Matrix, scale []float64) (Matrix, error) {
	return ewScaleRows(X, scale)
}

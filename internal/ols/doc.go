// Package ols fits ordinary least squares models of the form
//
//	Y = X·B + 1·b₀
//
// where X holds one column per marker and Y one column per trait.
//
// Two solvers are provided:
//
//   - [NormalEquations]: Z = (XᵗX)⁻¹XᵗY using BLAS Gemm and LAPACK
//     getrf/getri for the inverse
//   - [QR]: a QR factorisation of the design matrix, which avoids squaring
//     the condition number
//
// Both return Z with the intercepts in row 0 and one row of slopes per
// marker. All linear algebra is delegated to gonum.
package ols

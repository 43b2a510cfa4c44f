package ols

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// NormalEquations solves Z = (XᵗX)⁻¹XᵗY.
type NormalEquations struct{}

func NewNormalEquations() *NormalEquations {
	return &NormalEquations{}
}

func (s *NormalEquations) Name() string { return "normal" }

func (s *NormalEquations) Solve(x, y mat.Matrix) (*mat.Dense, error) {
	_, p, t, err := checkDims(x, y)
	if err != nil {
		return nil, err
	}

	d := design(x).RawMatrix()
	yd := mat.DenseCopyOf(y).RawMatrix()

	// XᵗX
	xtx := mat.NewDense(p, p, nil)
	blas64.Gemm(blas.Trans, blas.NoTrans, 1, d, d, 0, xtx.RawMatrix())

	// (XᵗX)⁻¹
	if err := Invert(xtx.RawMatrix()); err != nil {
		return nil, err
	}

	// XᵗY
	xty := mat.NewDense(p, t, nil)
	blas64.Gemm(blas.Trans, blas.NoTrans, 1, d, yd, 0, xty.RawMatrix())

	z := mat.NewDense(p, t, nil)
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, xtx.RawMatrix(), xty.RawMatrix(), 0, z.RawMatrix())
	return z, nil
}

// Invert replaces the square matrix a with its inverse using an LU
// factorisation. a is left in an unspecified state on error.
func Invert(a blas64.General) error {
	if a.Rows != a.Cols {
		return ErrNotSquare
	}
	n := a.Rows
	if n == 0 {
		return nil
	}

	work := make([]float64, 4*n)
	iwork := make([]int, n)
	ipiv := make([]int, n)

	anorm := lapack64.Lange(lapack.MaxColumnSum, a, work)
	if ok := lapack64.Getrf(a, ipiv); !ok {
		return &LapackError{Routine: "getrf", Err: ErrSingular}
	}

	rcond := lapack64.Gecon(lapack.MaxColumnSum, a, anorm, work, iwork)
	if cond := 1 / rcond; rcond == 0 || cond > mat.ConditionTolerance {
		return &LapackError{Routine: "gecon", Cond: cond, Err: ErrSingular}
	}

	lapack64.Getri(a, ipiv, work, -1)
	lwork := int(work[0])
	if lwork < n {
		lwork = n
	}
	if lwork > len(work) {
		work = make([]float64, lwork)
	}
	if ok := lapack64.Getri(a, ipiv, work, lwork); !ok {
		return &LapackError{Routine: "getri", Err: ErrSingular}
	}
	return nil
}

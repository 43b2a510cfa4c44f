package ols

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// QR solves the least squares problem from a QR factorisation of the design
// matrix.
type QR struct{}

func NewQR() *QR {
	return &QR{}
}

func (s *QR) Name() string { return "qr" }

func (s *QR) Solve(x, y mat.Matrix) (*mat.Dense, error) {
	_, p, t, err := checkDims(x, y)
	if err != nil {
		return nil, err
	}

	var qr mat.QR
	qr.Factorize(design(x))

	z := mat.NewDense(p, t, nil)
	if err := qr.SolveTo(z, false, y); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, &LapackError{Routine: "trtrs", Cond: float64(cond), Err: ErrSingular}
		}
		return nil, err
	}
	return z, nil
}

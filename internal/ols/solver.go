package ols

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Solver estimates coefficients for x (n×m) against y (n×t). The returned
// matrix is (m+1)×t: row 0 holds intercepts, row j+1 the slopes of column j.
type Solver interface {
	Name() string
	Solve(x, y mat.Matrix) (*mat.Dense, error)
}

// Line is a fitted simple regression y = Slope·x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

func (l Line) Predict(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Stats summarises the residuals of a fitted line.
type Stats struct {
	N   int
	RSS float64
	R2  float64
}

// Fit regresses y on a single predictor x.
func Fit(x, y []float64, s Solver) (Line, error) {
	if len(x) != len(y) || len(x) == 0 {
		return Line{}, fmt.Errorf("%w: %d x values, %d y values", ErrDimensionMismatch, len(x), len(y))
	}
	n := len(x)
	z, err := s.Solve(mat.NewDense(n, 1, x), mat.NewDense(n, 1, y))
	if err != nil {
		return Line{}, err
	}
	return Line{Slope: z.At(1, 0), Intercept: z.At(0, 0)}, nil
}

// Lines splits the coefficients of a single-marker solve into one Line per
// trait column.
func Lines(z mat.Matrix) ([]Line, error) {
	r, c := z.Dims()
	if r != 2 {
		return nil, fmt.Errorf("%w: want 2 coefficient rows, got %d", ErrDimensionMismatch, r)
	}
	lines := make([]Line, c)
	for j := range lines {
		lines[j] = Line{Slope: z.At(1, j), Intercept: z.At(0, j)}
	}
	return lines, nil
}

// Evaluate computes the residual sum of squares and coefficient of
// determination of l over the observations. R2 is NaN when y is constant.
func Evaluate(x, y []float64, l Line) Stats {
	s := Stats{N: len(y)}
	if len(x) != len(y) || len(y) == 0 {
		s.RSS, s.R2 = math.NaN(), math.NaN()
		return s
	}
	mean := stat.Mean(y, nil)
	var tss float64
	for i := range y {
		r := y[i] - l.Predict(x[i])
		s.RSS += r * r
		d := y[i] - mean
		tss += d * d
	}
	if tss == 0 {
		s.R2 = math.NaN()
	} else {
		s.R2 = 1 - s.RSS/tss
	}
	return s
}

// design prepends a column of ones to x.
func design(x mat.Matrix) *mat.Dense {
	n, m := x.Dims()
	d := mat.NewDense(n, m+1, nil)
	for i := 0; i < n; i++ {
		d.Set(i, 0, 1)
		for j := 0; j < m; j++ {
			d.Set(i, j+1, x.At(i, j))
		}
	}
	return d
}

func checkDims(x, y mat.Matrix) (n, p, t int, err error) {
	n, m := x.Dims()
	ny, t := y.Dims()
	if n != ny || m == 0 || t == 0 {
		return 0, 0, 0, fmt.Errorf("%w: X is %dx%d, Y is %dx%d", ErrDimensionMismatch, n, m, ny, t)
	}
	p = m + 1
	if n < p {
		return 0, 0, 0, fmt.Errorf("%w: %d observations for %d coefficients", ErrUnderdetermined, n, p)
	}
	if err := checkVariation(x); err != nil {
		return 0, 0, 0, err
	}
	return n, p, t, nil
}

// checkVariation rejects predictor columns with a single value. Such a column
// is collinear with the intercept, and rounding would otherwise decide whether
// the factorisation notices.
func checkVariation(x mat.Matrix) error {
	_, m := x.Dims()
	for j := 0; j < m; j++ {
		col := mat.Col(nil, j, x)
		if lo := floats.Min(col); lo == floats.Max(col) {
			return fmt.Errorf("%w: column %d is constant (%g)", ErrSingular, j, lo)
		}
	}
	return nil
}

package ols_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/sems/internal/ols"
)

const tol = 1e-9

var _ = Describe("Solvers", func() {
	for _, solver := range []ols.Solver{ols.NewNormalEquations(), ols.NewQR()} {
		solver := solver

		Describe(solver.Name(), func() {
			It("recovers an exact line", func() {
				x := []float64{0, 1, 2, 3, 4}
				y := []float64{1, 3, 5, 7, 9}

				line, err := ols.Fit(x, y, solver)
				Expect(err).NotTo(HaveOccurred())
				Expect(line.Slope).To(BeNumerically("~", 2, tol))
				Expect(line.Intercept).To(BeNumerically("~", 1, tol))
			})

			It("agrees with the closed form simple regression", func() {
				x := []float64{0, 2, 1, 0, 1, 2, 2, 0}
				y := []float64{1.1, 2.9, 2.2, 0.8, 1.9, 3.2, 3.0, 1.0}

				alpha, beta := stat.LinearRegression(x, y, nil, false)
				line, err := ols.Fit(x, y, solver)
				Expect(err).NotTo(HaveOccurred())
				Expect(line.Slope).To(BeNumerically("~", beta, tol))
				Expect(line.Intercept).To(BeNumerically("~", alpha, tol))
			})

			It("fits every trait column in one solve", func() {
				x := mat.NewDense(6, 1, []float64{0, 1, 2, 0, 1, 2})
				y := mat.NewDense(6, 2, []float64{
					1, -2,
					3, -2.5,
					5, -3,
					1, -2,
					3, -2.5,
					5, -3,
				})

				z, err := solver.Solve(x, y)
				Expect(err).NotTo(HaveOccurred())

				lines, err := ols.Lines(z)
				Expect(err).NotTo(HaveOccurred())
				Expect(lines).To(HaveLen(2))
				Expect(lines[0].Slope).To(BeNumerically("~", 2, tol))
				Expect(lines[0].Intercept).To(BeNumerically("~", 1, tol))
				Expect(lines[1].Slope).To(BeNumerically("~", -0.5, tol))
				Expect(lines[1].Intercept).To(BeNumerically("~", -2, tol))
			})

			It("fits several markers jointly", func() {
				x := mat.NewDense(6, 2, []float64{
					0, 1,
					1, 0,
					2, 2,
					1, 1,
					0, 2,
					2, 0,
				})
				y := mat.NewDense(6, 1, nil)
				for i := 0; i < 6; i++ {
					y.Set(i, 0, 1+2*x.At(i, 0)-3*x.At(i, 1))
				}

				z, err := solver.Solve(x, y)
				Expect(err).NotTo(HaveOccurred())
				r, c := z.Dims()
				Expect(r).To(Equal(3))
				Expect(c).To(Equal(1))
				Expect(z.At(0, 0)).To(BeNumerically("~", 1, tol))
				Expect(z.At(1, 0)).To(BeNumerically("~", 2, tol))
				Expect(z.At(2, 0)).To(BeNumerically("~", -3, tol))
			})

			It("rejects a marker with no variation", func() {
				_, err := ols.Fit([]float64{0, 0, 0, 0}, []float64{1, 2, 3, 4}, solver)
				Expect(err).To(MatchError(ols.ErrSingular))
			})

			for _, c := range []float64{1, 0.4, 0.8, 2, 0.05, 7.3} {
				It(fmt.Sprintf("rejects a constant marker of %g", c), func() {
					for _, n := range []int{7, 10, 200, 1000} {
						x := make([]float64, n)
						y := make([]float64, n)
						for i := range x {
							x[i] = c
							y[i] = 1 + 0.1*float64(i%5)
						}
						_, err := ols.Fit(x, y, solver)
						Expect(err).To(MatchError(ols.ErrSingular), "n=%d", n)
					}
				})
			}

			It("rejects a constant column among several markers", func() {
				x := mat.NewDense(8, 2, nil)
				y := mat.NewDense(8, 1, nil)
				for i := 0; i < 8; i++ {
					x.Set(i, 0, float64(i%3))
					x.Set(i, 1, 0.8)
					y.Set(i, 0, float64(i))
				}
				_, err := solver.Solve(x, y)
				Expect(err).To(MatchError(ols.ErrSingular))
				Expect(err.Error()).To(ContainSubstring("column 1"))
			})

			It("rejects mismatched and underdetermined inputs", func() {
				_, err := ols.Fit([]float64{1, 2, 3}, []float64{1, 2}, solver)
				Expect(err).To(MatchError(ols.ErrDimensionMismatch))

				_, err = ols.Fit([]float64{1}, []float64{2}, solver)
				Expect(err).To(MatchError(ols.ErrUnderdetermined))

				_, err = solver.Solve(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), mat.NewDense(2, 1, []float64{1, 2}))
				Expect(err).To(MatchError(ols.ErrUnderdetermined))
			})
		})
	}

	It("reports a lapack error for collinear markers", func() {
		x := mat.NewDense(6, 2, []float64{
			0, 0,
			1, 2,
			2, 4,
			0, 0,
			1, 2,
			2, 4,
		})
		_, err := ols.NewNormalEquations().Solve(x, mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6}))
		Expect(err).To(MatchError(ols.ErrSingular))

		var lerr *ols.LapackError
		Expect(err).To(BeAssignableToTypeOf(lerr))
	})
})

var _ = Describe("Invert", func() {
	It("inverts a well conditioned matrix in place", func() {
		a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})
		Expect(ols.Invert(a.RawMatrix())).To(Succeed())

		want := mat.NewDense(2, 2, []float64{0.6, -0.7, -0.2, 0.4})
		Expect(mat.EqualApprox(a, want, tol)).To(BeTrue())
	})

	It("reports getrf for an exactly singular matrix", func() {
		a := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
		err := ols.Invert(a.RawMatrix())
		Expect(err).To(MatchError(ols.ErrSingular))
		Expect(err.Error()).To(ContainSubstring("getrf"))
	})

	It("rejects non-square input", func() {
		a := mat.NewDense(2, 3, nil)
		Expect(ols.Invert(a.RawMatrix())).To(MatchError(ols.ErrNotSquare))
	})

	It("accepts an empty matrix", func() {
		Expect(ols.Invert(blas64.General{})).To(Succeed())
	})
})

var _ = Describe("Evaluate", func() {
	It("reports a perfect fit", func() {
		x := []float64{0, 1, 2}
		y := []float64{1, 3, 5}
		s := ols.Evaluate(x, y, ols.Line{Slope: 2, Intercept: 1})
		Expect(s.N).To(Equal(3))
		Expect(s.RSS).To(BeNumerically("~", 0, tol))
		Expect(s.R2).To(BeNumerically("~", 1, tol))
	})

	It("returns NaN R2 for a constant trait", func() {
		s := ols.Evaluate([]float64{0, 1, 2}, []float64{4, 4, 4}, ols.Line{Intercept: 4})
		Expect(s.RSS).To(BeNumerically("~", 0, tol))
		Expect(math.IsNaN(s.R2)).To(BeTrue())
	})

	It("matches the residuals of a noisy fit", func() {
		x := []float64{0, 1, 2, 3}
		y := []float64{0, 2, 1, 3}
		line, err := ols.Fit(x, y, ols.NewNormalEquations())
		Expect(err).NotTo(HaveOccurred())

		s := ols.Evaluate(x, y, line)
		Expect(s.R2).To(BeNumerically("~", stat.RSquared(x, y, nil, line.Intercept, line.Slope), tol))
	})
})

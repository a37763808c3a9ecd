package belief

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a spline cannot be fitted, e.g. both
// knots sit at the same price.
var ErrDegenerateFit = errors.New("degenerate belief fit")

// spline is the cubic through (a0, p0) and (a1, p1) with zero slope at
// both ends, stored in powers of x-a0.
type spline struct {
	a0 float64
	c  [4]float64
}

func fitSpline(a0, a1 int, p0, p1 float64) (spline, error) {
	if a1 <= a0 {
		return spline{}, fmt.Errorf("%w: knots %d, %d", ErrDegenerateFit, a0, a1)
	}
	d := float64(a1 - a0)
	a := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		1, d, d * d, d * d * d,
		0, 1, 0, 0,
		0, 1, 2 * d, 3 * d * d,
	})
	b := mat.NewVecDense(4, []float64{p0, p1, 0, 0})

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return spline{}, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	return spline{a0: float64(a0), c: [4]float64{x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)}}, nil
}

// At evaluates the spline at x.
func (s spline) At(x int) float64 {
	t := float64(x) - s.a0
	return s.c[0] + t*(s.c[1]+t*(s.c[2]+t*s.c[3]))
}

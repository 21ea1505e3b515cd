package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrDegenerateWindow is returned when the window holds fewer than two
	// points or fewer than two distinct values (all zeros, a flat plateau).
	ErrDegenerateWindow = errors.New("fit window needs at least two distinct values")
	// ErrNotConverged is returned when the optimizer fails or ends on a
	// non-finite parameter pair.
	ErrNotConverged = errors.New("exponential fit did not converge")
)

// Fitter fits value(x) = exp(k*x + b) to observed points.
type Fitter interface {
	Fit(xs, ys []float64) (k, b float64, err error)
}

// ExponentialFitter minimizes the squared error of exp(k*x + b) against the
// observations with L-BFGS, seeded by a log-linear regression.
type ExponentialFitter struct {
	MaxIterations int // 0 means 200
}

// Fit returns the growth rate k and intercept b.
func (f ExponentialFitter) Fit(xs, ys []float64) (k, b float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("fit: %d x values for %d y values", len(xs), len(ys))
	}
	if len(ys) < 2 || distinctCount(ys) < 2 {
		return 0, 0, ErrDegenerateWindow
	}
	scale := floats.Max(ys)
	if scale <= 0 {
		return 0, 0, ErrDegenerateWindow
	}

	// Fitting y/scale is the same least-squares problem with the intercept
	// shifted by ln(scale), and keeps the gradient well conditioned.
	norm := make([]float64, len(ys))
	floats.ScaleTo(norm, 1/scale, ys)

	k0, b0 := seed(xs, norm)
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			var sse float64
			for i, x := range xs {
				r := math.Exp(p[0]*x+p[1]) - norm[i]
				sse += r * r
			}
			return sse
		},
		Grad: func(grad, p []float64) {
			grad[0], grad[1] = 0, 0
			for i, x := range xs {
				m := math.Exp(p[0]*x + p[1])
				r := m - norm[i]
				grad[0] += 2 * r * m * x
				grad[1] += 2 * r * m
			}
		},
	}

	iters := f.MaxIterations
	if iters <= 0 {
		iters = 200
	}
	result, err := optimize.Minimize(problem, []float64{k0, b0}, &optimize.Settings{MajorIterations: iters}, &optimize.LBFGS{})
	if err != nil && (result == nil || !finite(result.X...) || math.IsNaN(result.F)) {
		return 0, 0, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}
	if result == nil {
		return 0, 0, ErrNotConverged
	}

	k = result.X[0]
	b = result.X[1] + math.Log(scale)
	if !finite(k, b) {
		return 0, 0, ErrNotConverged
	}
	return k, b, nil
}

// seed regresses ln(y) on x over the positive points.
func seed(xs, ys []float64) (k, b float64) {
	var px, py []float64
	for i, y := range ys {
		if y > 0 {
			px = append(px, xs[i])
			py = append(py, math.Log(y))
		}
	}
	if len(px) >= 2 && distinctCount(px) >= 2 {
		alpha, beta := stat.LinearRegression(px, py, nil, false)
		if finite(alpha, beta) {
			return beta, alpha
		}
	}
	return 0, math.Log(stat.Mean(ys, nil))
}

// Value evaluates the exponential model at x.
func Value(k, b, x float64) float64 {
	return math.Exp(k*x + b)
}

// Project evaluates the model at x = 0..n-1.
func Project(k, b float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Value(k, b, float64(i))
	}
	return out
}

// DoublingTime returns ln(2)/k. It is positive and finite only for k > 0;
// k == 0 gives +Inf and k < 0 a negative value.
func DoublingTime(k float64) float64 {
	return math.Ln2 / k
}

func distinctCount(vs []float64) int {
	seen := make(map[float64]struct{}, len(vs))
	for _, v := range vs {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package optim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// LossGradFunc evaluates the objective at a flat parameter vector and
// returns the scalar loss together with the flat gradient. The vector must
// not be retained by the callee.
type LossGradFunc func(x []float64) (loss float64, grad []float64)

// LBFGS adapts gonum's line-search L-BFGS to the closure interface the
// trainer hands over for phase two. The adapter owns nothing about
// iteration counts or convergence beyond the configured budget; gonum's
// optimizer decides how often the closure runs.
type LBFGS struct {
	// MaxIterations caps major iterations. Zero means no explicit cap
	// (gonum's own convergence criteria apply).
	MaxIterations int
	// GradientTolerance is the infinity-norm gradient threshold for
	// convergence. Zero keeps gonum's default.
	GradientTolerance float64
}

// Minimize runs L-BFGS from x0, invoking objective once per distinct
// parameter vector, and returns the best parameter vector found.
//
// gonum requests function value and gradient through separate calls; the
// adapter memoizes the last evaluation so each line-search point costs
// exactly one objective invocation. Line-search breakdowns near the noise
// floor terminate the phase normally rather than failing it.
func (l *LBFGS) Minimize(objective LossGradFunc, x0 []float64) ([]float64, error) {
	if len(x0) == 0 {
		return nil, fmt.Errorf("optim: LBFGS needs at least one parameter")
	}

	var (
		lastX    []float64
		lastLoss float64
		lastGrad []float64
	)
	eval := func(x []float64) {
		if lastX != nil && floats.Equal(lastX, x) {
			return
		}
		lastLoss, lastGrad = objective(x)
		lastX = append(lastX[:0], x...)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			eval(x)
			return lastLoss
		},
		Grad: func(dst, x []float64) {
			eval(x)
			copy(dst, lastGrad)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   l.MaxIterations,
		GradientThreshold: l.GradientTolerance,
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if err != nil {
		benign := errors.Is(err, optimize.ErrLinesearcherFailure) ||
			errors.Is(err, optimize.ErrNoProgress)
		if !benign || result == nil {
			return nil, fmt.Errorf("optim: L-BFGS minimization failed: %w", err)
		}
	}
	return result.X, nil
}

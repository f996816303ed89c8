// Package pinn implements the physics-informed solver core: input/output
// normalization, the RANS boundary-layer residual evaluator, loss assembly
// and the two-phase training orchestrator.
package pinn

import (
	"errors"
	"fmt"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/tensor"
)

// ErrNotFitted is returned when scaling is requested before the normalizer
// has been fitted by a training run.
var ErrNotFitted = errors.New("pinn: normalizer not fitted")

// Normalizer holds the affine rescaling fitted once per training run:
// min-max over the input columns, max-absolute-value over the output
// columns. After fitting it is immutable; both the trainer and the residual
// evaluator read it, nothing mutates it.
type Normalizer struct {
	xMin []float64
	xMax []float64
	yAbs []float64

	inFitted  bool
	outFitted bool
}

// FitInput computes the per-column min and max of x, stores them and
// returns (x-min)/(max-min). Must be called exactly once per training run,
// before any other scaling call. A column with max == min is a data-quality
// error, reported before any division happens.
func (n *Normalizer) FitInput(x tensor.Matrix) (tensor.Matrix, error) {
	if n.inFitted {
		return tensor.Matrix{}, errors.New("pinn: normalizer input already fitted")
	}
	min := tensor.MinCols(x)
	max := tensor.MaxCols(x)
	for j := range min {
		if max[j] == min[j] {
			return tensor.Matrix{}, fmt.Errorf("pinn: degenerate input range in column %d: min == max == %g", j, min[j])
		}
	}
	n.xMin, n.xMax = min, max
	n.inFitted = true
	return n.scaleInput(x), nil
}

// FitOutput computes the per-column max absolute value of y, stores it and
// returns y/maxAbs. A column that is identically zero is a data-quality
// error.
func (n *Normalizer) FitOutput(y tensor.Matrix) (tensor.Matrix, error) {
	if n.outFitted {
		return tensor.Matrix{}, errors.New("pinn: normalizer output already fitted")
	}
	abs := tensor.MaxAbsCols(y)
	for j, v := range abs {
		if v == 0 {
			return tensor.Matrix{}, fmt.Errorf("pinn: degenerate output magnitude in column %d: all zero", j)
		}
	}
	n.yAbs = abs
	n.outFitted = true
	return tensor.DivElem(y, tensor.New(1, len(abs), abs)), nil
}

// Fitted reports whether both input and output transforms are fitted.
func (n *Normalizer) Fitted() bool {
	return n.inFitted && n.outFitted
}

// ScaleInput maps physical inputs into [0,1] per column.
func (n *Normalizer) ScaleInput(x tensor.Matrix) (tensor.Matrix, error) {
	if !n.inFitted {
		return tensor.Matrix{}, ErrNotFitted
	}
	return n.scaleInput(x), nil
}

func (n *Normalizer) scaleInput(x tensor.Matrix) tensor.Matrix {
	min := tensor.New(1, len(n.xMin), n.xMin)
	span := tensor.Sub(tensor.New(1, len(n.xMax), n.xMax), min)
	return tensor.DivElem(tensor.Sub(x, min), span)
}

// UnscaleInput is the exact inverse of ScaleInput.
func (n *Normalizer) UnscaleInput(xs tensor.Matrix) (tensor.Matrix, error) {
	if !n.inFitted {
		return tensor.Matrix{}, ErrNotFitted
	}
	min := tensor.New(1, len(n.xMin), n.xMin)
	span := tensor.Sub(tensor.New(1, len(n.xMax), n.xMax), min)
	return tensor.Add(tensor.MulElem(xs, span), min), nil
}

// ScaleOutput maps physical outputs into normalized space.
func (n *Normalizer) ScaleOutput(y tensor.Matrix) (tensor.Matrix, error) {
	if !n.outFitted {
		return tensor.Matrix{}, ErrNotFitted
	}
	return tensor.DivElem(y, tensor.New(1, len(n.yAbs), n.yAbs)), nil
}

// UnscaleOutput is the exact inverse of the FitOutput transform.
func (n *Normalizer) UnscaleOutput(ys tensor.Matrix) (tensor.Matrix, error) {
	if !n.outFitted {
		return tensor.Matrix{}, ErrNotFitted
	}
	return tensor.MulElem(ys, tensor.New(1, len(n.yAbs), n.yAbs)), nil
}

// Graph-space forms of the same transforms, used inside the residual
// evaluator so scaling stays differentiable. The stored constants enter the
// graph as constant leaves.

func (n *Normalizer) scaleInputNode(x *autodiff.Variable) *autodiff.Variable {
	min := autodiff.Constant(tensor.New(1, len(n.xMin), n.xMin))
	max := autodiff.Constant(tensor.New(1, len(n.xMax), n.xMax))
	return autodiff.Div(autodiff.Sub(x, min), autodiff.Sub(max, min))
}

func (n *Normalizer) unscaleOutputNode(ys *autodiff.Variable) *autodiff.Variable {
	abs := autodiff.Constant(tensor.New(1, len(n.yAbs), n.yAbs))
	return autodiff.Mul(ys, abs)
}

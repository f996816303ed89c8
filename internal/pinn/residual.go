package pinn

import (
	"fmt"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/nn"
	"github.com/blayer-ml/blayer/internal/tensor"
)

// DefaultNu is the kinematic viscosity of the reference boundary-layer case.
const DefaultNu = 1.0 / 450.0

// ResidualEvaluator assembles the steady incompressible RANS
// boundary-layer residuals for a candidate approximator:
//
//	f1 = U·U_x + V·U_y − ν(U_xx + U_yy) + uv_y   (x-momentum)
//	f2 = U·V_x + V·V_y − ν(V_xx + V_yy) + uv_x   (y-momentum)
//	f3 = U_x + V_y                               (continuity)
//
// Derivatives are taken with respect to the physical coordinates via the
// retained autodiff graph, so the resulting residuals remain differentiable
// with respect to the model parameters.
type ResidualEvaluator struct {
	model nn.Module
	norm  *Normalizer
	nu    float64
}

// NewResidualEvaluator creates an evaluator over model and a normalizer.
// nu is used as given, including zero (which switches the viscous terms
// off); callers wanting the reference viscosity pass DefaultNu.
func NewResidualEvaluator(model nn.Module, norm *Normalizer, nu float64) *ResidualEvaluator {
	return &ResidualEvaluator{model: model, norm: norm, nu: nu}
}

// Residuals evaluates the three residuals at the given collocation points
// and returns them as an n×3 graph node, one row per point.
//
// The points arrive in the model's normalized input space. They are mapped
// back to physical coordinates, the physical x and y become the
// differentiation leaves, and the stack is re-scaled for the model call:
// this unscale/rescale round trip reproduces the fitted normalization
// exactly and must not be fused away, since the trained solution depends on
// its floating-point rounding.
func (e *ResidualEvaluator) Residuals(cp tensor.Matrix) (*autodiff.Variable, error) {
	if !e.norm.Fitted() {
		return nil, ErrNotFitted
	}
	rows, cols := cp.Dims()
	if cols != 2 {
		return nil, fmt.Errorf("pinn: collocation points must have 2 columns, got %d", cols)
	}
	if rows == 0 {
		return nil, fmt.Errorf("pinn: empty collocation batch")
	}

	phys, err := e.norm.UnscaleInput(cp)
	if err != nil {
		return nil, err
	}

	// Physical coordinates become differentiation leaves (the watch points).
	x := autodiff.New(tensor.Col(phys, 0))
	y := autodiff.New(tensor.Col(phys, 1))

	X := autodiff.HStack(x, y)
	Xs := e.norm.scaleInputNode(X)
	pred := e.model.Forward(Xs)
	pred = e.norm.unscaleOutputNode(pred)

	U := autodiff.Col(pred, 0)
	V := autodiff.Col(pred, 1)
	uv := autodiff.Col(pred, 2)

	wrt := []*autodiff.Variable{x, y}
	gU := autodiff.Grad(U, wrt)
	gV := autodiff.Grad(V, wrt)
	gUV := autodiff.Grad(uv, wrt)
	Ux, Uy := gU[0], gU[1]
	Vx, Vy := gV[0], gV[1]
	uvx, uvy := gUV[0], gUV[1]

	Uxx := autodiff.Grad(Ux, []*autodiff.Variable{x})[0]
	Uyy := autodiff.Grad(Uy, []*autodiff.Variable{y})[0]
	Vxx := autodiff.Grad(Vx, []*autodiff.Variable{x})[0]
	Vyy := autodiff.Grad(Vy, []*autodiff.Variable{y})[0]

	f1 := autodiff.Add(
		autodiff.Sub(
			autodiff.Add(autodiff.Mul(U, Ux), autodiff.Mul(V, Uy)),
			autodiff.Scale(autodiff.Add(Uxx, Uyy), e.nu),
		),
		uvy,
	)
	f2 := autodiff.Add(
		autodiff.Sub(
			autodiff.Add(autodiff.Mul(U, Vx), autodiff.Mul(V, Vy)),
			autodiff.Scale(autodiff.Add(Vxx, Vyy), e.nu),
		),
		uvx,
	)
	f3 := autodiff.Add(Ux, Vy)

	return autodiff.HStack(f1, f2, f3), nil
}

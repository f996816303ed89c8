package nn

import (
	"github.com/blayer-ml/blayer/internal/autodiff"
)

// Tanh is the hyperbolic tangent activation module.
//
// The solver's approximator uses tanh throughout: the PDE residual takes
// second derivatives through the network, so the activation must be smooth
// (a piecewise-linear unit would have zero second derivative almost
// everywhere and kill the viscous terms).
type Tanh struct{}

// NewTanh creates a Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh elementwise.
func (t *Tanh) Forward(input *autodiff.Variable) *autodiff.Variable {
	return autodiff.Tanh(input)
}

// Parameters returns no parameters; activations are stateless.
func (t *Tanh) Parameters() []*Parameter {
	return nil
}

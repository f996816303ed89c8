// Package nn provides the neural network building blocks used as the
// solver's function approximator: the Module interface, trainable
// Parameters, fully connected layers, activations and a Sequential
// container. Modules operate on autodiff graph nodes, so every forward pass
// is differentiable with respect to both its input and its parameters.
package nn

import (
	"github.com/blayer-ml/blayer/internal/autodiff"
)

// Module is the base interface for all network components.
//
// Modules compose into architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(2, 20, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear(20, 3, rng),
//	)
type Module interface {
	// Forward computes the module output for a [batch, features] input node.
	Forward(input *autodiff.Variable) *autodiff.Variable

	// Parameters returns all trainable parameters of this module, in a
	// stable order. Modules without parameters return an empty slice.
	Parameters() []*Parameter
}

package nn

import (
	"github.com/blayer-ml/blayer/internal/autodiff"
)

// Parameter is a trainable tensor: a differentiable leaf in the autodiff
// graph whose value the optimizers mutate in place between forward passes.
type Parameter struct {
	name string
	node *autodiff.Variable
}

// NewParameter wraps an initialized leaf node as a named parameter.
func NewParameter(name string, node *autodiff.Variable) *Parameter {
	return &Parameter{name: name, node: node}
}

// Name returns the parameter name (e.g. "linear0.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Node returns the graph leaf for use in forward passes and as a
// differentiation target.
func (p *Parameter) Node() *autodiff.Variable {
	return p.node
}

// Data returns the parameter's backing slice in row-major order. Optimizer
// updates write through it; the next forward pass sees the new values.
func (p *Parameter) Data() []float64 {
	return p.node.Value.Data()
}

// Dims returns the parameter's shape.
func (p *Parameter) Dims() (rows, cols int) {
	return p.node.Dims()
}

// Package autodiff implements reverse-mode automatic differentiation over
// dense float64 matrices.
//
// Every operation builds a node in a retained expression graph. The key
// property, which plain tape designs lack, is that each operation's backward
// pass is itself expressed through the same differentiable operations: the
// result of Grad is another graph node, so gradients can be differentiated
// again. This is what lets a PDE residual contain second derivatives of a
// network with respect to its inputs while the training loss is still
// differentiable with respect to the network parameters.
//
// Usage:
//
//	x := autodiff.New(tensor.New(1, 1, []float64{2}))
//	y := autodiff.Mul(x, x)                            // y = x²
//	dy := autodiff.Grad(y, []*autodiff.Variable{x})[0] // dy/dx = 2x
//	d2 := autodiff.Grad(dy, []*autodiff.Variable{x})[0]
package autodiff

import (
	"sync/atomic"

	"github.com/blayer-ml/blayer/internal/tensor"
)

// nextID orders graph nodes by creation. Inputs are always created before
// the nodes that consume them, so descending id is a valid reverse
// topological order.
var nextID uint64

// Variable is a node in the expression graph holding a matrix value.
//
// Leaves are created with New (differentiable) or Constant (gradient flow
// stops there); interior nodes are created by the package's operations.
type Variable struct {
	Value tensor.Matrix

	id    uint64
	op    operation
	needs bool // true when a differentiable leaf is reachable from this node
}

// operation is one recorded computation. backward returns one gradient per
// input, built from differentiable operations; entries may be nil when the
// corresponding input does not need a gradient.
type operation interface {
	inputs() []*Variable
	backward(g *Variable) []*Variable
}

// New creates a differentiable leaf.
func New(v tensor.Matrix) *Variable {
	return &Variable{Value: v, id: atomic.AddUint64(&nextID, 1), needs: true}
}

// Constant creates a leaf that gradients do not flow into.
func Constant(v tensor.Matrix) *Variable {
	return &Variable{Value: v, id: atomic.AddUint64(&nextID, 1)}
}

// fromOp creates an interior node.
func fromOp(v tensor.Matrix, op operation) *Variable {
	needs := false
	for _, in := range op.inputs() {
		if in.needs {
			needs = true
			break
		}
	}
	return &Variable{Value: v, id: atomic.AddUint64(&nextID, 1), op: op, needs: needs}
}

// Dims returns the shape of the node's value.
func (v *Variable) Dims() (rows, cols int) {
	return v.Value.Dims()
}

// Detach returns a differentiable leaf holding a copy of v's value,
// disconnected from v's graph. It is the watch point for differentiating a
// downstream expression with respect to an intermediate value.
func (v *Variable) Detach() *Variable {
	return New(v.Value.Copy())
}

// OnesLike returns a constant of ones with v's shape.
func OnesLike(v *Variable) *Variable {
	r, c := v.Dims()
	return Constant(tensor.Ones(r, c))
}

// ZerosLike returns a constant of zeros with v's shape.
func ZerosLike(v *Variable) *Variable {
	r, c := v.Dims()
	return Constant(tensor.Zeros(r, c))
}

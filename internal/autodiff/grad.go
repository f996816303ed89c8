package autodiff

import (
	"sort"

	"github.com/blayer-ml/blayer/internal/tensor"
)

// Grad differentiates y with respect to each node in wrt and returns the
// gradients in matching order.
//
// The seed gradient is a matrix of ones, so for a vector-valued y each
// returned gradient is the sum over y's entries of ∂y_i/∂w. When the
// computation is row-independent, as it is for a network evaluated pointwise
// over a batch, this equals the per-row derivative.
//
// The returned gradients are graph nodes built from differentiable
// operations: they can be passed to Grad again for higher-order derivatives,
// and an objective assembled from them still differentiates correctly with
// respect to any leaf (inputs and parameters alike). Nodes in wrt that y
// does not depend on receive zero gradients.
func Grad(y *Variable, wrt []*Variable) []*Variable {
	grads := make(map[*Variable]*Variable)
	grads[y] = OnesLike(y)

	for _, v := range reverseOrder(y) {
		g, ok := grads[v]
		if !ok || v.op == nil {
			continue
		}
		inputGrads := v.op.backward(g)
		for i, in := range v.op.inputs() {
			ig := inputGrads[i]
			if ig == nil || !in.needs {
				continue
			}
			if existing, ok := grads[in]; ok {
				grads[in] = Add(existing, ig)
			} else {
				grads[in] = ig
			}
		}
	}

	out := make([]*Variable, len(wrt))
	for i, w := range wrt {
		if g, ok := grads[w]; ok {
			out[i] = g
		} else {
			r, c := w.Dims()
			out[i] = Constant(tensor.Zeros(r, c))
		}
	}
	return out
}

// reverseOrder collects every node reachable from y and returns them in
// reverse topological order. Node ids increase with creation and inputs are
// created before their consumers, so descending id order is sufficient.
func reverseOrder(y *Variable) []*Variable {
	seen := make(map[*Variable]bool)
	var nodes []*Variable
	stack := []*Variable{y}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		nodes = append(nodes, v)
		if v.op != nil {
			stack = append(stack, v.op.inputs()...)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id > nodes[j].id })
	return nodes
}

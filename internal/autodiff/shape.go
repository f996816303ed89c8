package autodiff

import (
	"fmt"

	"github.com/blayer-ml/blayer/internal/tensor"
)

type colOp struct {
	a *Variable
	j int
}

func (op *colOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *colOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	_, c := op.a.Dims()
	return []*Variable{colPad(g, op.j, c)}
}

// Col extracts column j of a as an n×1 node.
func Col(a *Variable, j int) *Variable {
	return fromOp(tensor.Col(a.Value, j), &colOp{a: a, j: j})
}

type colPadOp struct {
	a    *Variable
	j    int
	cols int
}

func (op *colPadOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *colPadOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	return []*Variable{Col(g, op.j)}
}

// colPad scatters an n×1 node into column j of an n×cols zero matrix.
// Adjoint of Col; only the backward passes construct it.
func colPad(a *Variable, j, cols int) *Variable {
	return fromOp(tensor.ColPad(a.Value, j, cols), &colPadOp{a: a, j: j, cols: cols})
}

type hstackOp struct{ cols []*Variable }

func (op *hstackOp) inputs() []*Variable { return op.cols }

func (op *hstackOp) backward(g *Variable) []*Variable {
	out := make([]*Variable, len(op.cols))
	for i, in := range op.cols {
		if in.needs {
			out[i] = Col(g, i)
		}
	}
	return out
}

// HStack concatenates n×1 nodes into an n×k node, one input per column.
func HStack(cols ...*Variable) *Variable {
	if len(cols) == 0 {
		panic("autodiff: HStack of nothing")
	}
	vals := make([]tensor.Matrix, len(cols))
	for i, v := range cols {
		if _, c := v.Dims(); c != 1 {
			panic(fmt.Sprintf("autodiff: HStack wants n×1 columns, input %d has %d columns", i, c))
		}
		vals[i] = v.Value
	}
	return fromOp(tensor.HStack(vals...), &hstackOp{cols: cols})
}

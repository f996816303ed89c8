package autodiff

import (
	"github.com/blayer-ml/blayer/internal/tensor"
)

type sumRowsOp struct{ a *Variable }

func (op *sumRowsOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *sumRowsOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	r, c := op.a.Dims()
	return []*Variable{Tile(g, r, c)}
}

// SumRows sums a over its rows into a 1×c node.
func SumRows(a *Variable) *Variable {
	return fromOp(tensor.SumRows(a.Value), &sumRowsOp{a: a})
}

type sumAllOp struct{ a *Variable }

func (op *sumAllOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *sumAllOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	r, c := op.a.Dims()
	return []*Variable{Tile(g, r, c)}
}

// SumAll sums every element of a into a 1×1 node.
func SumAll(a *Variable) *Variable {
	return fromOp(tensor.SumAll(a.Value), &sumAllOp{a: a})
}

type tileOp struct {
	a          *Variable
	rows, cols int
}

func (op *tileOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *tileOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	return []*Variable{reduceTo(g, op.a)}
}

// Tile broadcasts a 1×c row or 1×1 scalar node to rows×cols.
func Tile(a *Variable, rows, cols int) *Variable {
	return fromOp(tensor.Tile(a.Value, rows, cols), &tileOp{a: a, rows: rows, cols: cols})
}

// Mean returns the mean of all elements of a as a 1×1 node.
func Mean(a *Variable) *Variable {
	r, c := a.Dims()
	return Scale(SumAll(a), 1/float64(r*c))
}

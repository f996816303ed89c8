package autodiff

import (
	"github.com/blayer-ml/blayer/internal/tensor"
)

// Elementwise binary operations. The second operand may broadcast when it is
// a 1×c row or a 1×1 scalar; the first operand always carries the full shape.
// Backward passes reduce the gradient back to the broadcast operand's shape
// with reduceTo, the adjoint of broadcasting.

// reduceTo sums g down to the shape of target. Identity when shapes already
// match; SumRows for a 1×c row target; SumAll for a 1×1 scalar target.
func reduceTo(g, target *Variable) *Variable {
	gr, gc := g.Dims()
	tr, tc := target.Dims()
	switch {
	case gr == tr && gc == tc:
		return g
	case tr == 1 && tc == gc:
		return SumRows(g)
	case tr == 1 && tc == 1:
		return SumAll(g)
	}
	panic("autodiff: gradient does not reduce to operand shape")
}

type addOp struct{ a, b *Variable }

func (op *addOp) inputs() []*Variable { return []*Variable{op.a, op.b} }

func (op *addOp) backward(g *Variable) []*Variable {
	var ga, gb *Variable
	if op.a.needs {
		ga = g
	}
	if op.b.needs {
		gb = reduceTo(g, op.b)
	}
	return []*Variable{ga, gb}
}

// Add returns a + b.
func Add(a, b *Variable) *Variable {
	return fromOp(tensor.Add(a.Value, b.Value), &addOp{a: a, b: b})
}

type subOp struct{ a, b *Variable }

func (op *subOp) inputs() []*Variable { return []*Variable{op.a, op.b} }

func (op *subOp) backward(g *Variable) []*Variable {
	var ga, gb *Variable
	if op.a.needs {
		ga = g
	}
	if op.b.needs {
		gb = Neg(reduceTo(g, op.b))
	}
	return []*Variable{ga, gb}
}

// Sub returns a - b.
func Sub(a, b *Variable) *Variable {
	return fromOp(tensor.Sub(a.Value, b.Value), &subOp{a: a, b: b})
}

type mulOp struct{ a, b *Variable }

func (op *mulOp) inputs() []*Variable { return []*Variable{op.a, op.b} }

func (op *mulOp) backward(g *Variable) []*Variable {
	var ga, gb *Variable
	if op.a.needs {
		ga = Mul(g, op.b)
	}
	if op.b.needs {
		gb = reduceTo(Mul(g, op.a), op.b)
	}
	return []*Variable{ga, gb}
}

// Mul returns the elementwise product a ⊙ b.
func Mul(a, b *Variable) *Variable {
	return fromOp(tensor.MulElem(a.Value, b.Value), &mulOp{a: a, b: b})
}

type divOp struct{ a, b *Variable }

func (op *divOp) inputs() []*Variable { return []*Variable{op.a, op.b} }

func (op *divOp) backward(g *Variable) []*Variable {
	var ga, gb *Variable
	if op.a.needs {
		ga = Div(g, op.b)
	}
	if op.b.needs {
		// d(a/b)/db = -a/b²
		gb = reduceTo(Neg(Div(Mul(g, op.a), Mul(op.b, op.b))), op.b)
	}
	return []*Variable{ga, gb}
}

// Div returns the elementwise quotient a ⊘ b.
func Div(a, b *Variable) *Variable {
	return fromOp(tensor.DivElem(a.Value, b.Value), &divOp{a: a, b: b})
}

type scaleOp struct {
	a *Variable
	c float64
}

func (op *scaleOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *scaleOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	return []*Variable{Scale(g, op.c)}
}

// Scale returns c * a for a plain float constant c.
func Scale(a *Variable, c float64) *Variable {
	return fromOp(tensor.Scale(c, a.Value), &scaleOp{a: a, c: c})
}

// Neg returns -a.
func Neg(a *Variable) *Variable {
	return Scale(a, -1)
}

// Square returns a ⊙ a.
func Square(a *Variable) *Variable {
	return Mul(a, a)
}

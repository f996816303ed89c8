package autodiff

import (
	"math"

	"github.com/blayer-ml/blayer/internal/tensor"
)

type matMulOp struct{ a, b *Variable }

func (op *matMulOp) inputs() []*Variable { return []*Variable{op.a, op.b} }

func (op *matMulOp) backward(g *Variable) []*Variable {
	var ga, gb *Variable
	if op.a.needs {
		ga = MatMul(g, Transpose(op.b))
	}
	if op.b.needs {
		gb = MatMul(Transpose(op.a), g)
	}
	return []*Variable{ga, gb}
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *Variable) *Variable {
	return fromOp(tensor.MatMul(a.Value, b.Value), &matMulOp{a: a, b: b})
}

type transposeOp struct{ a *Variable }

func (op *transposeOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *transposeOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	return []*Variable{Transpose(g)}
}

// Transpose returns aᵀ.
func Transpose(a *Variable) *Variable {
	return fromOp(tensor.Transpose(a.Value), &transposeOp{a: a})
}

// tanhOp keeps a reference to its own output so the backward pass
// g ⊙ (1 - y²) can reuse the forward value. Reusing y keeps the second
// derivative exact: differentiating the backward expression again walks
// through y back to the op's input.
type tanhOp struct {
	a   *Variable
	out *Variable
}

func (op *tanhOp) inputs() []*Variable { return []*Variable{op.a} }

func (op *tanhOp) backward(g *Variable) []*Variable {
	if !op.a.needs {
		return []*Variable{nil}
	}
	return []*Variable{Mul(g, Sub(OnesLike(op.out), Mul(op.out, op.out)))}
}

// Tanh returns the elementwise hyperbolic tangent of a.
func Tanh(a *Variable) *Variable {
	r, c := a.Dims()
	out := tensor.New(r, c, nil)
	src := a.Value.Data()
	dst := out.Data()
	for i, v := range src {
		dst[i] = math.Tanh(v)
	}
	op := &tanhOp{a: a}
	v := fromOp(out, op)
	op.out = v
	return v
}

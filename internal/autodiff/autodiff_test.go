package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/tensor"
)

func scalar(v float64) *autodiff.Variable {
	return autodiff.New(tensor.New(1, 1, []float64{v}))
}

func val(v *autodiff.Variable) float64 {
	return v.Value.At(0, 0)
}

func TestGrad_Square(t *testing.T) {
	x := scalar(2.0)
	y := autodiff.Mul(x, x)

	g := autodiff.Grad(y, []*autodiff.Variable{x})[0]
	assert.InDelta(t, 4.0, val(g), 1e-12, "d(x²)/dx at x=2")
}

func TestGrad_ProductRule(t *testing.T) {
	x := scalar(3.0)
	y := scalar(5.0)
	z := autodiff.Mul(x, y)

	g := autodiff.Grad(z, []*autodiff.Variable{x, y})
	assert.InDelta(t, 5.0, val(g[0]), 1e-12)
	assert.InDelta(t, 3.0, val(g[1]), 1e-12)
}

func TestGrad_SecondOrder(t *testing.T) {
	// y = x³, dy/dx = 3x², d²y/dx² = 6x
	x := scalar(2.0)
	y := autodiff.Mul(autodiff.Mul(x, x), x)

	dy := autodiff.Grad(y, []*autodiff.Variable{x})[0]
	assert.InDelta(t, 12.0, val(dy), 1e-12)

	d2y := autodiff.Grad(dy, []*autodiff.Variable{x})[0]
	assert.InDelta(t, 12.0, val(d2y), 1e-12)
}

func TestGrad_TanhSecondOrder(t *testing.T) {
	// y = tanh(x): y' = 1-tanh², y'' = -2 tanh (1-tanh²)
	x := scalar(0.7)
	y := autodiff.Tanh(x)

	th := val(y)
	dy := autodiff.Grad(y, []*autodiff.Variable{x})[0]
	assert.InDelta(t, 1-th*th, val(dy), 1e-12)

	d2y := autodiff.Grad(dy, []*autodiff.Variable{x})[0]
	assert.InDelta(t, -2*th*(1-th*th), val(d2y), 1e-12)
}

func TestGrad_UnconnectedIsZero(t *testing.T) {
	x := scalar(1.0)
	w := scalar(2.0)
	y := autodiff.Mul(x, x)

	g := autodiff.Grad(y, []*autodiff.Variable{w})[0]
	assert.Equal(t, 0.0, val(g))
}

func TestGrad_ConstantStopsFlow(t *testing.T) {
	x := autodiff.Constant(tensor.New(1, 1, []float64{2.0}))
	y := autodiff.Mul(x, x)

	g := autodiff.Grad(y, []*autodiff.Variable{x})[0]
	assert.Equal(t, 0.0, val(g), "constants receive no gradient")
}

func TestGrad_MatMul(t *testing.T) {
	// y = sum(A·B) with A 1x2, B 2x1: dy/dA = Bᵀ, dy/dB = Aᵀ
	a := autodiff.New(tensor.New(1, 2, []float64{1, 2}))
	b := autodiff.New(tensor.New(2, 1, []float64{3, 4}))
	y := autodiff.MatMul(a, b)

	g := autodiff.Grad(y, []*autodiff.Variable{a, b})
	assert.Equal(t, []float64{3, 4}, g[0].Value.Data())
	assert.Equal(t, []float64{1, 2}, g[1].Value.Data())
}

func TestGrad_BroadcastRow(t *testing.T) {
	// y = sum(x + b) with b a 1×2 row broadcast over 3 rows: dy/db = [3, 3]
	x := autodiff.New(tensor.Zeros(3, 2))
	b := autodiff.New(tensor.New(1, 2, []float64{1, 2}))
	y := autodiff.SumAll(autodiff.Add(x, b))

	g := autodiff.Grad(y, []*autodiff.Variable{b})[0]
	r, c := g.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 2, c)
	assert.Equal(t, []float64{3, 3}, g.Value.Data())
}

func TestGrad_ColAndHStack(t *testing.T) {
	// z = col0(x)·col1(x) summed; x has rows (a_i, b_i): dz/dx = (b_i, a_i)
	x := autodiff.New(tensor.New(2, 2, []float64{1, 2, 3, 4}))
	z := autodiff.SumAll(autodiff.Mul(autodiff.Col(x, 0), autodiff.Col(x, 1)))

	g := autodiff.Grad(z, []*autodiff.Variable{x})[0]
	assert.Equal(t, []float64{2, 1, 4, 3}, g.Value.Data())

	// HStack is the inverse wiring: stacking n×1 leaves and summing a column
	// routes the gradient only to that column's source.
	u := autodiff.New(tensor.New(2, 1, []float64{1, 2}))
	v := autodiff.New(tensor.New(2, 1, []float64{3, 4}))
	s := autodiff.SumAll(autodiff.Col(autodiff.HStack(u, v), 1))
	gs := autodiff.Grad(s, []*autodiff.Variable{u, v})
	assert.Equal(t, []float64{0, 0}, gs[0].Value.Data())
	assert.Equal(t, []float64{1, 1}, gs[1].Value.Data())
}

func TestGrad_Mean(t *testing.T) {
	x := autodiff.New(tensor.New(2, 2, []float64{1, 2, 3, 4}))
	m := autodiff.Mean(x)
	assert.InDelta(t, 2.5, val(m), 1e-12)

	g := autodiff.Grad(m, []*autodiff.Variable{x})[0]
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, g.Value.Data())
}

func TestGrad_AccumulatesSharedNodes(t *testing.T) {
	// z = x·y + x: dz/dx = y + 1
	x := scalar(2.0)
	y := scalar(3.0)
	z := autodiff.Add(autodiff.Mul(x, y), x)

	g := autodiff.Grad(z, []*autodiff.Variable{x})[0]
	assert.InDelta(t, 4.0, val(g), 1e-12)
}

func TestGrad_Div(t *testing.T) {
	a := scalar(6.0)
	b := scalar(3.0)
	q := autodiff.Div(a, b)

	g := autodiff.Grad(q, []*autodiff.Variable{a, b})
	assert.InDelta(t, 1.0/3.0, val(g[0]), 1e-12)
	assert.InDelta(t, -6.0/9.0, val(g[1]), 1e-12)
}

func TestDetach_StopsGradient(t *testing.T) {
	x := scalar(2.0)
	y := autodiff.Mul(x, x)
	d := y.Detach()
	z := autodiff.Mul(d, d)

	g := autodiff.Grad(z, []*autodiff.Variable{x})[0]
	assert.Equal(t, 0.0, val(g), "detached value cuts the graph")

	gd := autodiff.Grad(z, []*autodiff.Variable{d})[0]
	assert.InDelta(t, 8.0, val(gd), 1e-12)
}

package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/nn"
	"github.com/blayer-ml/blayer/internal/optim"
	"github.com/blayer-ml/blayer/internal/tensor"
)

func newParam(name string, data []float64) *nn.Parameter {
	return nn.NewParameter(name, autodiff.New(tensor.New(1, len(data), data)))
}

func TestAdam_SingleStep(t *testing.T) {
	param := newParam("x", []float64{2.0})
	optimizer := optim.NewAdam([]*nn.Parameter{param}, optim.AdamConfig{LR: 0.1})

	optimizer.Step(map[*nn.Parameter][]float64{param: {1.0}})

	// First step with bias correction:
	// m_hat = g, v_hat = g², update = lr * g / (|g| + eps) ≈ lr
	expected := 2.0 - 0.1*1.0/(math.Sqrt(1.0)+1e-8)
	assert.InDelta(t, expected, param.Data()[0], 1e-9)
}

func TestAdam_SkipsMissingGradients(t *testing.T) {
	p1 := newParam("a", []float64{1.0})
	p2 := newParam("b", []float64{1.0})
	optimizer := optim.NewAdam([]*nn.Parameter{p1, p2}, optim.AdamConfig{LR: 0.1})

	optimizer.Step(map[*nn.Parameter][]float64{p1: {1.0}})

	assert.NotEqual(t, 1.0, p1.Data()[0])
	assert.Equal(t, 1.0, p2.Data()[0], "parameter without gradient stays put")
}

func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	assert.Equal(t, 0.001, optimizer.GetLR())
}

func TestIndexMap_RoundTrip(t *testing.T) {
	params := []*nn.Parameter{
		newParam("w", []float64{1, 2, 3}),
		newParam("b", []float64{4, 5}),
	}
	im := optim.NewIndexMap(params)
	require.Equal(t, 5, im.Size())

	flat := im.Flatten(params)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, flat)

	im.Assign(params, []float64{10, 20, 30, 40, 50})
	assert.Equal(t, []float64{10, 20, 30}, params[0].Data())
	assert.Equal(t, []float64{40, 50}, params[1].Data())

	stitched := im.Stitch([][]float64{{1, 1, 1}, {2, 2}})
	assert.Equal(t, []float64{1, 1, 1, 2, 2}, stitched)
}

func TestIndexMap_LengthMismatchPanics(t *testing.T) {
	params := []*nn.Parameter{newParam("w", []float64{1, 2})}
	im := optim.NewIndexMap(params)
	assert.Panics(t, func() { im.Assign(params, []float64{1}) })
	assert.Panics(t, func() { im.Stitch([][]float64{{1}}) })
}

func TestLBFGS_Quadratic(t *testing.T) {
	// minimize (x-3)² + (y+1)²
	var calls int
	objective := func(x []float64) (float64, []float64) {
		calls++
		dx, dy := x[0]-3, x[1]+1
		return dx*dx + dy*dy, []float64{2 * dx, 2 * dy}
	}

	lbfgs := &optim.LBFGS{GradientTolerance: 1e-10}
	x, err := lbfgs.Minimize(objective, []float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, x[0], 1e-6)
	assert.InDelta(t, -1.0, x[1], 1e-6)
	assert.Greater(t, calls, 0)
}

func TestLBFGS_Rosenbrock(t *testing.T) {
	objective := func(x []float64) (float64, []float64) {
		a, b := x[0], x[1]
		f := (1-a)*(1-a) + 100*(b-a*a)*(b-a*a)
		g := []float64{
			-2*(1-a) - 400*a*(b-a*a),
			200 * (b - a*a),
		}
		return f, g
	}

	lbfgs := &optim.LBFGS{GradientTolerance: 1e-10}
	x, err := lbfgs.Minimize(objective, []float64{-1.2, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-4)
	assert.InDelta(t, 1.0, x[1], 1e-4)
}

func TestLBFGS_EmptyVector(t *testing.T) {
	lbfgs := &optim.LBFGS{}
	_, err := lbfgs.Minimize(func(x []float64) (float64, []float64) { return 0, nil }, nil)
	assert.Error(t, err)
}

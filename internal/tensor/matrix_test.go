package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blayer-ml/blayer/internal/tensor"
)

func TestFromRows(t *testing.T) {
	m, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))

	_, err = tensor.FromRows(nil)
	assert.Error(t, err)

	_, err = tensor.FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err, "ragged rows must be rejected")
}

func TestBroadcastOps(t *testing.T) {
	a := tensor.New(2, 2, []float64{1, 2, 3, 4})
	row := tensor.New(1, 2, []float64{10, 20})
	scalar := tensor.New(1, 1, []float64{2})

	assert.Equal(t, []float64{11, 22, 13, 24}, tensor.Add(a, row).Data())
	assert.Equal(t, []float64{-9, -18, -7, -16}, tensor.Sub(a, row).Data())
	assert.Equal(t, []float64{2, 4, 6, 8}, tensor.MulElem(a, scalar).Data())
	assert.Equal(t, []float64{0.1, 0.1, 0.3, 0.2}, tensor.DivElem(a, row).Data())

	assert.Panics(t, func() {
		tensor.Add(a, tensor.New(2, 1, []float64{1, 2}))
	}, "column vectors do not broadcast")
}

func TestMatMulTranspose(t *testing.T) {
	a := tensor.New(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := tensor.New(3, 2, []float64{7, 8, 9, 10, 11, 12})
	p := tensor.MatMul(a, b)
	assert.Equal(t, []float64{58, 64, 139, 154}, p.Data())

	at := tensor.Transpose(a)
	r, c := at.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2.0, at.At(1, 0))

	assert.Panics(t, func() { tensor.MatMul(a, a) })
}

func TestReductionsAndTile(t *testing.T) {
	a := tensor.New(2, 3, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []float64{5, 7, 9}, tensor.SumRows(a).Data())
	assert.Equal(t, []float64{21}, tensor.SumAll(a).Data())

	tiled := tensor.Tile(tensor.New(1, 3, []float64{1, 2, 3}), 2, 3)
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, tiled.Data())

	tiledScalar := tensor.Tile(tensor.New(1, 1, []float64{7}), 2, 2)
	assert.Equal(t, []float64{7, 7, 7, 7}, tiledScalar.Data())
}

func TestColOps(t *testing.T) {
	a := tensor.New(2, 3, []float64{1, 2, 3, 4, 5, 6})

	col := tensor.Col(a, 1)
	assert.Equal(t, []float64{2, 5}, col.Data())

	padded := tensor.ColPad(col, 2, 3)
	assert.Equal(t, []float64{0, 0, 2, 0, 0, 5}, padded.Data())

	stacked := tensor.HStack(tensor.Col(a, 0), tensor.Col(a, 2))
	assert.Equal(t, []float64{1, 3, 4, 6}, stacked.Data())
}

func TestColumnStats(t *testing.T) {
	a := tensor.New(3, 2, []float64{1, -5, 2, 3, -4, 0})
	assert.Equal(t, []float64{-4, -5}, tensor.MinCols(a))
	assert.Equal(t, []float64{2, 3}, tensor.MaxCols(a))
	assert.Equal(t, []float64{4, 5}, tensor.MaxAbsCols(a))
}

func TestDataAliasesMatrix(t *testing.T) {
	a := tensor.Zeros(2, 2)
	a.Data()[3] = 9
	assert.Equal(t, 9.0, a.At(1, 1), "Data must be a live view for in-place updates")
}

package dataset_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blayer-ml/blayer/internal/dataset"
)

func TestRead_Boundary(t *testing.T) {
	in := strings.NewReader(`# x, y, U, V, uv
0, 0, 0.1, -0.05, 0.02
1, 0, 0.2, 0.05, -0.02
`)
	rows, err := dataset.Read(in, dataset.BoundaryColumns)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []float64{1, 0, 0.2, 0.05, -0.02}, rows[1])
}

func TestRead_WidthMismatch(t *testing.T) {
	in := strings.NewReader("0, 0, 1\n")
	_, err := dataset.Read(in, dataset.CollocationColumns)
	assert.Error(t, err)
}

func TestRead_BadField(t *testing.T) {
	in := strings.NewReader("0, oops\n")
	_, err := dataset.Read(in, dataset.CollocationColumns)
	assert.Error(t, err)
}

func TestRead_Empty(t *testing.T) {
	_, err := dataset.Read(strings.NewReader("# only a comment\n"), 2)
	assert.Error(t, err)
}

func TestUniformGrid(t *testing.T) {
	points := dataset.UniformGrid(0, 1, 0, 2, 3, 3)
	require.Len(t, points, 9)
	assert.Equal(t, []float64{0, 0}, points[0])
	assert.Equal(t, []float64{0.5, 0}, points[1])
	assert.Equal(t, []float64{1, 2}, points[8])

	assert.Panics(t, func() { dataset.UniformGrid(0, 1, 0, 1, 1, 3) })
}

func TestCorners(t *testing.T) {
	rows := dataset.Corners(0, 1, 0, 1, [3]float64{0.1, 0.2, 0.3})
	require.Len(t, rows, 4)
	for _, row := range rows {
		require.Len(t, row, dataset.BoundaryColumns)
		assert.Equal(t, []float64{0.1, 0.2, 0.3}, row[2:])
	}
}

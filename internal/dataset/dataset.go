// Package dataset loads the solver's training data: boundary rows pairing
// coordinates with observed targets, and interior collocation points where
// the PDE residual is enforced. Files are plain CSV; '#' starts a comment
// line.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// BoundaryColumns is the boundary row width: x, y, U, V, uv.
const BoundaryColumns = 5

// CollocationColumns is the collocation row width: x, y.
const CollocationColumns = 2

// LoadBoundary reads boundary rows (5 columns) from a CSV file.
func LoadBoundary(path string) ([][]float64, error) {
	return loadFile(path, BoundaryColumns)
}

// LoadCollocation reads collocation rows (2 columns) from a CSV file.
func LoadCollocation(path string) ([][]float64, error) {
	return loadFile(path, CollocationColumns)
}

func loadFile(path string, cols int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := Read(f, cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read parses CSV rows of exactly cols float columns from r.
// Width mismatches and unparsable fields fail immediately with the
// offending record identified; there is no recovery path.
func Read(r io.Reader, cols int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = cols
	cr.TrimLeadingSpace = true

	var rows [][]float64
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]float64, cols)
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("record %d, field %d: %w", len(rows)+1, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return rows, nil
}

// UniformGrid generates an nx×ny regular grid of collocation points over
// [x0,x1]×[y0,y1], row-major in y then x.
func UniformGrid(x0, x1, y0, y1 float64, nx, ny int) [][]float64 {
	if nx < 2 || ny < 2 {
		panic(fmt.Sprintf("dataset: grid needs at least 2 points per axis, got %dx%d", nx, ny))
	}
	dx := (x1 - x0) / float64(nx-1)
	dy := (y1 - y0) / float64(ny-1)
	points := make([][]float64, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			points = append(points, []float64{x0 + float64(i)*dx, y0 + float64(j)*dy})
		}
	}
	return points
}

// Corners returns the four corner boundary rows of [x0,x1]×[y0,y1] with the
// given targets, a convenient synthetic case for smoke runs.
func Corners(x0, x1, y0, y1 float64, targets [3]float64) [][]float64 {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
	rows := make([][]float64, len(corners))
	for i, c := range corners {
		rows[i] = []float64{c[0], c[1], targets[0], targets[1], targets[2]}
	}
	return rows
}

package optim

import (
	"fmt"

	"github.com/blayer-ml/blayer/internal/nn"
)

// IndexMap records where each parameter's elements live inside a flat
// vector, so structured parameters and gradients can be flattened and
// reconstructed consistently during the quasi-Newton phase.
type IndexMap struct {
	offsets []int
	sizes   []int
	total   int
}

// NewIndexMap builds the index map for params in their given order.
func NewIndexMap(params []*nn.Parameter) *IndexMap {
	im := &IndexMap{
		offsets: make([]int, len(params)),
		sizes:   make([]int, len(params)),
	}
	for i, p := range params {
		im.offsets[i] = im.total
		im.sizes[i] = len(p.Data())
		im.total += im.sizes[i]
	}
	return im
}

// Size returns the flat vector length.
func (im *IndexMap) Size() int {
	return im.total
}

// Flatten copies the parameter values into a single flat vector.
func (im *IndexMap) Flatten(params []*nn.Parameter) []float64 {
	im.check(len(params))
	flat := make([]float64, im.total)
	for i, p := range params {
		copy(flat[im.offsets[i]:im.offsets[i]+im.sizes[i]], p.Data())
	}
	return flat
}

// Assign installs a flat vector back into the structured parameters.
func (im *IndexMap) Assign(params []*nn.Parameter, flat []float64) {
	im.check(len(params))
	if len(flat) != im.total {
		panic(fmt.Sprintf("optim: flat vector length %d, want %d", len(flat), im.total))
	}
	for i, p := range params {
		copy(p.Data(), flat[im.offsets[i]:im.offsets[i]+im.sizes[i]])
	}
}

// Stitch flattens per-parameter gradients into one vector using the same
// layout as Flatten.
func (im *IndexMap) Stitch(grads [][]float64) []float64 {
	im.check(len(grads))
	flat := make([]float64, im.total)
	for i, g := range grads {
		if len(g) != im.sizes[i] {
			panic(fmt.Sprintf("optim: gradient %d length %d, want %d", i, len(g), im.sizes[i]))
		}
		copy(flat[im.offsets[i]:im.offsets[i]+im.sizes[i]], g)
	}
	return flat
}

func (im *IndexMap) check(n int) {
	if n != len(im.offsets) {
		panic(fmt.Sprintf("optim: index map built for %d parameters, got %d", len(im.offsets), n))
	}
}

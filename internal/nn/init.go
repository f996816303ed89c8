package nn

import (
	"math"
	"math/rand"

	"github.com/blayer-ml/blayer/internal/tensor"
)

// Xavier returns a [fanOut, fanIn] weight matrix drawn from the Glorot
// uniform distribution U(-b, b) with b = sqrt(6/(fanIn+fanOut)), which keeps
// activation variance roughly constant across tanh layers.
func Xavier(fanIn, fanOut int, rng *rand.Rand) tensor.Matrix {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	w := tensor.New(fanOut, fanIn, nil)
	data := w.Data()
	for i := range data {
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return w
}

// MLP builds the solver's standard approximator: a tanh multilayer
// perceptron mapping inFeatures to outFeatures through hidden layers of
// uniform width.
func MLP(inFeatures, outFeatures, hiddenLayers, hiddenWidth int, rng *rand.Rand) *Sequential {
	var modules []Module
	width := inFeatures
	for i := 0; i < hiddenLayers; i++ {
		modules = append(modules, NewLinear(width, hiddenWidth, rng), NewTanh())
		width = hiddenWidth
	}
	modules = append(modules, NewLinear(width, outFeatures, rng))
	return NewSequential(modules...)
}

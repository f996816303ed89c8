package nn

import (
	"fmt"
	"math/rand"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/tensor"
)

// Linear is a fully connected layer computing y = x·Wᵀ + b
// for x of shape [batch, inFeatures], W of shape [outFeatures, inFeatures]
// and a [1, outFeatures] bias row broadcast over the batch.
//
// Weights use Xavier/Glorot uniform initialization, biases start at zero.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [outFeatures, inFeatures]
	bias        *Parameter // [1, outFeatures]
}

// NewLinear creates a Linear layer drawing initial weights from rng.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weight := NewParameter(
		fmt.Sprintf("linear%dx%d.weight", inFeatures, outFeatures),
		autodiff.New(Xavier(inFeatures, outFeatures, rng)),
	)
	bias := NewParameter(
		fmt.Sprintf("linear%dx%d.bias", inFeatures, outFeatures),
		autodiff.New(tensor.Zeros(1, outFeatures)),
	)
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x·Wᵀ + b.
func (l *Linear) Forward(input *autodiff.Variable) *autodiff.Variable {
	_, c := input.Dims()
	if c != l.inFeatures {
		panic(fmt.Sprintf("nn: Linear.Forward expected %d input features, got %d", l.inFeatures, c))
	}
	wT := autodiff.Transpose(l.weight.Node())
	out := autodiff.MatMul(input, wT)
	return autodiff.Add(out, l.bias.Node())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// InFeatures returns the layer's input width.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the layer's output width.
func (l *Linear) OutFeatures() int { return l.outFeatures }

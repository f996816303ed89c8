package nn

import (
	"github.com/blayer-ml/blayer/internal/autodiff"
)

// Sequential chains modules so each output feeds the next input.
type Sequential struct {
	modules []Module
}

// NewSequential creates a Sequential container over modules.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in order.
func (s *Sequential) Forward(input *autodiff.Variable) *autodiff.Variable {
	output := input
	for _, m := range s.modules {
		output = m.Forward(output)
	}
	return output
}

// Parameters collects parameters from all modules in sequence order.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

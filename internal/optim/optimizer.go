// Package optim implements the two optimization services the trainer drives:
// Adam for the first-order phase and an L-BFGS adapter (over gonum's
// optimize package) for the quasi-Newton refinement phase, plus the
// parameter flattening shared by the two.
//
// Example usage:
//
//	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 1e-3})
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loss := computeLoss(model, batch)
//	    grads := autodiff.Grad(loss, paramNodes)
//	    optimizer.Step(gradMap(params, grads))
//	}
package optim

import (
	"github.com/blayer-ml/blayer/internal/nn"
)

// Optimizer is the interface for first-order gradient optimizers.
//
// Step consumes a map from parameter to its gradient in row-major order and
// updates parameter values in place. Parameters missing from the map are
// skipped.
type Optimizer interface {
	Step(grads map[*nn.Parameter][]float64)

	// GetLR returns the current learning rate, for monitoring and schedules.
	GetLR() float64
}

package pinn

import (
	"github.com/blayer-ml/blayer/internal/autodiff"
)

// LossTerms is the decomposed training objective recorded per optimization
// step: Total = Boundary + PDE, unweighted.
type LossTerms struct {
	Total    float64
	Boundary float64
	PDE      float64
}

// assembleLoss combines the boundary mismatch and the PDE residuals into
// the scalar objective.
//
// The boundary loss is the mean squared difference between predictions and
// targets in normalized space; the PDE loss is the mean squared residual. A
// nil residuals node (empty collocation batch) contributes zero PDE loss.
// The returned node drives gradient computation; the terms are plain floats
// for history and logging.
func assembleLoss(pred, targets, residuals *autodiff.Variable) (*autodiff.Variable, LossTerms) {
	lossBC := autodiff.Mean(autodiff.Square(autodiff.Sub(targets, pred)))

	var total *autodiff.Variable
	var lossF float64
	if residuals != nil {
		lossPDE := autodiff.Mean(autodiff.Square(residuals))
		total = autodiff.Add(lossBC, lossPDE)
		lossF = lossPDE.Value.At(0, 0)
	} else {
		total = lossBC
	}

	terms := LossTerms{
		Total:    total.Value.At(0, 0),
		Boundary: lossBC.Value.At(0, 0),
		PDE:      lossF,
	}
	return total, terms
}

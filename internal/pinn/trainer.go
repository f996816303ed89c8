package pinn

import (
	"fmt"
	"log"
	"os"

	"github.com/blayer-ml/blayer/internal/autodiff"
	"github.com/blayer-ml/blayer/internal/nn"
	"github.com/blayer-ml/blayer/internal/optim"
	"github.com/blayer-ml/blayer/internal/tensor"
)

// Config holds the training schedule.
type Config struct {
	// Epochs is the fixed number of first-order (Adam) steps. No early
	// stopping; zero is allowed and skips straight to the quasi-Newton phase.
	Epochs int
	// LearningRate for Adam. Zero takes Adam's default.
	LearningRate float64
	// Nu is the kinematic viscosity. Zero takes DefaultNu.
	Nu float64
	// LBFGSIterations caps phase-two major iterations. Zero leaves the
	// budget to the optimizer's own convergence criteria.
	LBFGSIterations int
	// LBFGSTolerance is the phase-two gradient threshold. Zero keeps the
	// optimizer default.
	LBFGSTolerance float64
}

// HistoryEntry is one recorded optimization step.
type HistoryEntry struct {
	Total    float64
	Boundary float64
	PDE      float64
}

// Trainer owns the approximator, the normalizer, both optimizers and the
// training history, and runs the two-phase schedule.
//
// Phase one performs a fixed number of Adam steps; phase two hands a
// loss-and-gradient closure over the flattened parameters to L-BFGS, which
// drives all further evaluations itself. All phase-one history entries
// precede all phase-two entries. Everything runs on one goroutine; the
// parameter state is mutated in place by both phases, serialized by the
// call sequence.
type Trainer struct {
	model      nn.Module
	params     []*nn.Parameter
	paramNodes []*autodiff.Variable
	norm       *Normalizer
	adam       *optim.Adam
	residual   *ResidualEvaluator
	cfg        Config
	logger     *log.Logger

	epoch   int
	history []HistoryEntry

	// normalized training data, set once by Fit
	xb, yb tensor.Matrix
	cp     tensor.Matrix
	hasCP  bool
	fitted bool
}

// NewTrainer creates a trainer over model. The model must map 2 normalized
// coordinates to 3 normalized outputs.
func NewTrainer(model nn.Module, cfg Config) *Trainer {
	if cfg.Nu == 0 {
		cfg.Nu = DefaultNu
	}
	params := model.Parameters()
	nodes := make([]*autodiff.Variable, len(params))
	for i, p := range params {
		nodes[i] = p.Node()
	}
	norm := &Normalizer{}
	return &Trainer{
		model:      model,
		params:     params,
		paramNodes: nodes,
		norm:       norm,
		adam:       optim.NewAdam(params, optim.AdamConfig{LR: cfg.LearningRate}),
		residual:   NewResidualEvaluator(model, norm, cfg.Nu),
		cfg:        cfg,
		logger:     log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLogger replaces the per-epoch loss logger.
func (t *Trainer) SetLogger(l *log.Logger) {
	t.logger = l
}

// History returns a copy of the recorded loss triples, one per optimization
// step across both phases, in call order.
func (t *Trainer) History() []HistoryEntry {
	out := make([]HistoryEntry, len(t.history))
	copy(out, t.history)
	return out
}

// Epoch returns the number of optimization steps taken so far.
func (t *Trainer) Epoch() int {
	return t.epoch
}

// Fit trains the approximator against boundary rows (2 coordinates + 3
// targets each) and collocation rows (2 coordinates each). It fits the
// normalizer — the one time it is fitted — then runs phase one and phase
// two, and returns the full history. Fit is one-shot per Trainer.
func (t *Trainer) Fit(boundary, collocation [][]float64) ([]HistoryEntry, error) {
	if len(boundary) == 0 {
		return nil, fmt.Errorf("pinn: no boundary rows")
	}
	for i, row := range boundary {
		if len(row) != 5 {
			return nil, fmt.Errorf("pinn: boundary row %d has %d columns, want 5 (2 coordinates + 3 targets)", i, len(row))
		}
	}
	for i, row := range collocation {
		if len(row) != 2 {
			return nil, fmt.Errorf("pinn: collocation row %d has %d columns, want 2", i, len(row))
		}
	}

	bc, err := tensor.FromRows(boundary)
	if err != nil {
		return nil, err
	}
	xb := tensor.HStack(tensor.Col(bc, 0), tensor.Col(bc, 1))
	yb := tensor.HStack(tensor.Col(bc, 2), tensor.Col(bc, 3), tensor.Col(bc, 4))

	if t.xb, err = t.norm.FitInput(xb); err != nil {
		return nil, err
	}
	if t.yb, err = t.norm.FitOutput(yb); err != nil {
		return nil, err
	}
	if len(collocation) > 0 {
		cp, err := tensor.FromRows(collocation)
		if err != nil {
			return nil, err
		}
		if t.cp, err = t.norm.ScaleInput(cp); err != nil {
			return nil, err
		}
		t.hasCP = true
	}
	t.fitted = true

	// Phase one: fixed number of first-order steps.
	for i := 0; i < t.cfg.Epochs; i++ {
		total, terms := t.step()
		grads := autodiff.Grad(total, t.paramNodes)
		t.adam.Step(t.gradMap(grads))
		t.record(terms)
	}

	// Phase two: quasi-Newton refinement over the flattened parameters.
	// Entered unconditionally; the optimizer decides how many times the
	// closure runs.
	im := optim.NewIndexMap(t.params)
	objective := func(x []float64) (float64, []float64) {
		im.Assign(t.params, x)
		total, terms := t.step()
		grads := autodiff.Grad(total, t.paramNodes)
		flat := im.Stitch(t.gradSlices(grads))
		t.record(terms)
		return terms.Total, flat
	}
	lbfgs := &optim.LBFGS{
		MaxIterations:     t.cfg.LBFGSIterations,
		GradientTolerance: t.cfg.LBFGSTolerance,
	}
	xFinal, err := lbfgs.Minimize(objective, im.Flatten(t.params))
	if err != nil {
		return t.History(), err
	}
	im.Assign(t.params, xFinal)

	return t.History(), nil
}

// step runs one loss evaluation: boundary predictions, PDE residuals, loss
// assembly. Preconditions are validated by Fit, so failures here are
// programmer errors.
func (t *Trainer) step() (*autodiff.Variable, LossTerms) {
	pred := t.model.Forward(autodiff.Constant(t.xb))
	var residuals *autodiff.Variable
	if t.hasCP {
		var err error
		residuals, err = t.residual.Residuals(t.cp)
		if err != nil {
			panic(err)
		}
	}
	return assembleLoss(pred, autodiff.Constant(t.yb), residuals)
}

func (t *Trainer) gradMap(grads []*autodiff.Variable) map[*nn.Parameter][]float64 {
	m := make(map[*nn.Parameter][]float64, len(t.params))
	for i, p := range t.params {
		m[p] = grads[i].Value.Data()
	}
	return m
}

func (t *Trainer) gradSlices(grads []*autodiff.Variable) [][]float64 {
	out := make([][]float64, len(grads))
	for i, g := range grads {
		out[i] = g.Value.Data()
	}
	return out
}

func (t *Trainer) record(terms LossTerms) {
	t.history = append(t.history, HistoryEntry{
		Total:    terms.Total,
		Boundary: terms.Boundary,
		PDE:      terms.PDE,
	})
	t.logger.Printf("epoch: %d loss: %.6e loss_u: %.6e loss_f: %.6e",
		t.epoch, terms.Total, terms.Boundary, terms.PDE)
	t.epoch++
}

// Predict evaluates the trained approximator at physical-space coordinates
// (one row per point, 2 columns) and returns physical-space predictions
// (U, V, uv per row). Requires a prior successful Fit.
func (t *Trainer) Predict(points [][]float64) ([][]float64, error) {
	if !t.fitted {
		return nil, ErrNotFitted
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("pinn: no points to predict")
	}
	for i, row := range points {
		if len(row) != 2 {
			return nil, fmt.Errorf("pinn: point row %d has %d columns, want 2", i, len(row))
		}
	}
	x, err := tensor.FromRows(points)
	if err != nil {
		return nil, err
	}
	xs, err := t.norm.ScaleInput(x)
	if err != nil {
		return nil, err
	}
	pred := t.model.Forward(autodiff.Constant(xs))
	out, err := t.norm.UnscaleOutput(pred.Value)
	if err != nil {
		return nil, err
	}
	return out.Rows(), nil
}

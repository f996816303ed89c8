package main

import (
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"strconv"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/blayer-ml/blayer/internal/config"
	"github.com/blayer-ml/blayer/internal/dataset"
	"github.com/blayer-ml/blayer/internal/nn"
	"github.com/blayer-ml/blayer/internal/pinn"
)

type trainOptions struct {
	ConfigFile      string
	BoundaryFile    string
	CollocationFile string
	HistoryFile     string
	FieldFile       string
	GridNx, GridNy  int
	Profile         bool
}

var trainOpts trainOptions

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the solver against boundary data and collocation points",
	Long: `Train reads boundary rows (x, y, U, V, uv) from a CSV file and collocation
points either from a second CSV file or from a uniform grid spanning the
boundary data's bounding box. After the two-phase optimization it writes the
loss history and the predicted field at the collocation points.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrain(trainOpts)
	},
}

func init() {
	flags := trainCmd.Flags()
	flags.StringVarP(&trainOpts.ConfigFile, "config", "c", "", "YAML run parameters (defaults used when omitted)")
	flags.StringVarP(&trainOpts.BoundaryFile, "boundary", "b", "", "boundary data CSV (x,y,U,V,uv per row)")
	flags.StringVarP(&trainOpts.CollocationFile, "collocation", "p", "", "collocation points CSV (x,y per row)")
	flags.StringVar(&trainOpts.HistoryFile, "history", "history.csv", "output CSV for the loss history")
	flags.StringVar(&trainOpts.FieldFile, "field", "field.csv", "output CSV for the predicted field")
	flags.IntVar(&trainOpts.GridNx, "nx", 50, "grid columns when no collocation file is given")
	flags.IntVar(&trainOpts.GridNy, "ny", 50, "grid rows when no collocation file is given")
	flags.BoolVar(&trainOpts.Profile, "profile", false, "write a CPU profile for the run")
	_ = trainCmd.MarkFlagRequired("boundary")
}

func runTrain(opts trainOptions) error {
	if opts.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	params := config.Defaults()
	if opts.ConfigFile != "" {
		data, err := ioutil.ReadFile(opts.ConfigFile)
		if err != nil {
			return err
		}
		if err := params.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", opts.ConfigFile, err)
		}
	}
	params.Print()

	boundary, err := dataset.LoadBoundary(opts.BoundaryFile)
	if err != nil {
		return err
	}

	var collocation [][]float64
	if opts.CollocationFile != "" {
		collocation, err = dataset.LoadCollocation(opts.CollocationFile)
		if err != nil {
			return err
		}
	} else {
		x0, x1, y0, y1 := boundingBox(boundary)
		collocation = dataset.UniformGrid(x0, x1, y0, y1, opts.GridNx, opts.GridNy)
	}

	rng := rand.New(rand.NewSource(params.Seed))
	model := nn.MLP(2, 3, params.HiddenLayers, params.HiddenWidth, rng)
	trainer := pinn.NewTrainer(model, pinn.Config{
		Epochs:          params.Epochs,
		LearningRate:    params.LearningRate,
		Nu:              params.Nu,
		LBFGSIterations: params.LBFGSIterations,
		LBFGSTolerance:  params.LBFGSTolerance,
	})

	history, err := trainer.Fit(boundary, collocation)
	if err != nil {
		return err
	}
	if err := writeHistory(opts.HistoryFile, history); err != nil {
		return err
	}

	field, err := trainer.Predict(collocation)
	if err != nil {
		return err
	}
	return writeField(opts.FieldFile, collocation, field)
}

func boundingBox(rows [][]float64) (x0, x1, y0, y1 float64) {
	x0, x1 = rows[0][0], rows[0][0]
	y0, y1 = rows[0][1], rows[0][1]
	for _, row := range rows[1:] {
		if row[0] < x0 {
			x0 = row[0]
		}
		if row[0] > x1 {
			x1 = row[0]
		}
		if row[1] < y0 {
			y0 = row[1]
		}
		if row[1] > y1 {
			y1 = row[1]
		}
	}
	return
}

func writeHistory(path string, history []pinn.HistoryEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"epoch", "loss", "loss_u", "loss_f"}); err != nil {
		return err
	}
	for i, h := range history {
		record := []string{
			strconv.Itoa(i),
			formatFloat(h.Total),
			formatFloat(h.Boundary),
			formatFloat(h.PDE),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeField(path string, points, field [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "U", "V", "uv"}); err != nil {
		return err
	}
	for i, p := range points {
		record := []string{
			formatFloat(p[0]), formatFloat(p[1]),
			formatFloat(field[i][0]), formatFloat(field[i][1]), formatFloat(field[i][2]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

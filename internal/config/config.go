// Package config holds the YAML run parameters for the solver driver.
package config

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// RunParameters are the parameters obtained from the YAML input file.
type RunParameters struct {
	Title           string  `yaml:"Title"`
	Epochs          int     `yaml:"Epochs"`
	LearningRate    float64 `yaml:"LearningRate"`
	HiddenLayers    int     `yaml:"HiddenLayers"`
	HiddenWidth     int     `yaml:"HiddenWidth"`
	Nu              float64 `yaml:"Nu"`
	LBFGSIterations int     `yaml:"LBFGSIterations"`
	LBFGSTolerance  float64 `yaml:"LBFGSTolerance"`
	Seed            int64   `yaml:"Seed"`
}

// Defaults returns the reference boundary-layer training setup.
func Defaults() RunParameters {
	return RunParameters{
		Title:        "ZPG turbulent boundary layer",
		Epochs:       1000,
		LearningRate: 1e-3,
		HiddenLayers: 4,
		HiddenWidth:  20,
		Nu:           1.0 / 450.0,
		Seed:         1,
	}
}

// Parse overlays YAML data onto the receiver.
func (rp *RunParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

// Print writes the effective parameters to stdout.
func (rp *RunParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("%d\t\t\t= Epochs\n", rp.Epochs)
	fmt.Printf("%8.5f\t\t= LearningRate\n", rp.LearningRate)
	fmt.Printf("[%d x %d]\t\t= Hidden Layers x Width\n", rp.HiddenLayers, rp.HiddenWidth)
	fmt.Printf("%8.6f\t\t= Nu\n", rp.Nu)
	fmt.Printf("%d\t\t\t= LBFGS Iterations\n", rp.LBFGSIterations)
	fmt.Printf("%8.2e\t\t= LBFGS Tolerance\n", rp.LBFGSTolerance)
	fmt.Printf("%d\t\t\t= Seed\n", rp.Seed)
}

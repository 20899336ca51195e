// Package model loads the pretrained scoring network from a local JSON
// artifact and exposes it behind the narrow credit.Scorer contract. The
// artifact is read once at process start; the network is read-only after
// that and safe for concurrent scoring.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/creditmeter/fico-scoring/internal/credit"
	"github.com/creditmeter/fico-scoring/internal/errors"
)

// InputSpec names one of the model's input slots and its expected vector
// width.
type InputSpec struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

type layerSpec struct {
	Activation string      `json:"activation"`
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
}

type artifact struct {
	Name   string      `json:"name"`
	Inputs []InputSpec `json:"inputs"`
	Layers []layerSpec `json:"layers"`
}

// Network is a feed-forward scoring model: the five category vectors are
// concatenated in slot order and pushed through dense layers to a single
// scalar output.
type Network struct {
	name   string
	inputs []InputSpec
	layers []layerSpec
}

// Load reads and validates a model artifact. Any disagreement between
// the artifact and the credit schema is a startup configuration error,
// not something to discover one request at a time.
func Load(path string) (*Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewConfigurationError("failed to open model artifact", err)
	}
	defer file.Close()

	var art artifact
	if err := json.NewDecoder(file).Decode(&art); err != nil {
		return nil, errors.NewConfigurationError("failed to decode model artifact", err)
	}

	if err := validate(&art); err != nil {
		return nil, err
	}

	return &Network{name: art.Name, inputs: art.Inputs, layers: art.Layers}, nil
}

func validate(art *artifact) error {
	if len(art.Inputs) != len(credit.Categories) {
		return errors.NewConfigurationError(
			fmt.Sprintf("model artifact declares %d input slots, schema has %d",
				len(art.Inputs), len(credit.Categories)), nil)
	}
	width := 0
	for i, in := range art.Inputs {
		spec := credit.Categories[i]
		if in.Name != spec.Name {
			return errors.NewConfigurationError(
				fmt.Sprintf("model input slot %d is %q, schema expects %q", i, in.Name, spec.Name), nil)
		}
		if in.Width != spec.VectorLen() {
			return errors.NewConfigurationError(
				fmt.Sprintf("model input %q expects width %d, schema produces %d",
					in.Name, in.Width, spec.VectorLen()), nil)
		}
		width += in.Width
	}

	if len(art.Layers) == 0 {
		return errors.NewConfigurationError("model artifact has no layers", nil)
	}
	for i, l := range art.Layers {
		switch l.Activation {
		case "relu", "linear":
		default:
			return errors.NewConfigurationError(
				fmt.Sprintf("model layer %d has unknown activation %q", i, l.Activation), nil)
		}
		if len(l.Weights) == 0 || len(l.Weights) != len(l.Bias) {
			return errors.NewConfigurationError(
				fmt.Sprintf("model layer %d has %d weight rows but %d biases", i, len(l.Weights), len(l.Bias)), nil)
		}
		for _, row := range l.Weights {
			if len(row) != width {
				return errors.NewConfigurationError(
					fmt.Sprintf("model layer %d expects input width %d, got a row of width %d",
						i, width, len(row)), nil)
			}
		}
		width = len(l.Weights)
	}
	if width != 1 {
		return errors.NewConfigurationError(
			fmt.Sprintf("model output layer has %d units, want 1", width), nil)
	}
	return nil
}

// Name returns the artifact's declared model name.
func (n *Network) Name() string { return n.name }

// Score implements credit.Scorer. A vector of the wrong width here means
// the pipeline and the loaded model have drifted apart, which is an
// invariant violation rather than an input error.
func (n *Network) Score(in credit.Inputs) (float64, error) {
	vectors := [][]float64{
		in.PaymentHistory,
		in.AmountsOwed,
		in.HistoryLength,
		in.NewCredit,
		in.CreditMix,
	}

	x := make([]float64, 0, 128)
	for i, v := range vectors {
		if len(v) != n.inputs[i].Width {
			return 0, errors.NewInvariantError(
				fmt.Sprintf("input %q has width %d, model expects %d",
					n.inputs[i].Name, len(v), n.inputs[i].Width), nil)
		}
		x = append(x, v...)
	}

	for _, l := range n.layers {
		y := make([]float64, len(l.Weights))
		for i, row := range l.Weights {
			s := l.Bias[i]
			for j, w := range row {
				s += w * x[j]
			}
			if l.Activation == "relu" && s < 0 {
				s = 0
			}
			y[i] = s
		}
		x = y
	}
	return x[0], nil
}

package ml

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/rtmltoolkit/rtml/logging"
)

// A TemplateRecognizer memorizes (input, output) example pairs and answers a query with the
// output of the stored example whose input is nearest to it.
//
// Vectors of any length are accepted by default. Comparisons only use the prefix two vectors
// share, so frames of different lengths can be mixed while experimenting. WithStrictLengths
// turns this off.
//
// A TemplateRecognizer is not safe for concurrent use. A Train racing a Predict is undefined;
// callers that share one across goroutines must serialize access, e.g. with NewSynchronized.
type TemplateRecognizer struct {
	inputSize     int
	outputSize    int
	metric        Metric
	strictLengths bool
	logger        Logger

	templates []template
}

// template is one stored example. Both slices are owned by the recognizer.
type template struct {
	input  []float64
	output []float64
}

// Match describes the stored template chosen for a query.
type Match struct {
	// Index is the insertion position of the template in the last training batch.
	Index    int
	Distance float64
	Output   []float64
}

// Option configures a TemplateRecognizer.
type Option func(*TemplateRecognizer)

// WithMetric sets the distance metric. The default is Euclidean.
func WithMetric(metric Metric) Option {
	return func(tr *TemplateRecognizer) {
		tr.metric = metric
	}
}

// WithStrictLengths makes Train reject batches whose vectors differ from the declared sizes and
// Predict reject queries whose length differs from the input size.
func WithStrictLengths(strict bool) Option {
	return func(tr *TemplateRecognizer) {
		tr.strictLengths = strict
	}
}

// NewTemplateRecognizer returns an empty recognizer. inputSize and outputSize are clamped to be
// non-negative; outputSize is the length of the vector returned before any training. A nil
// logger discards all messages.
func NewTemplateRecognizer(inputSize, outputSize int, logger Logger, opts ...Option) *TemplateRecognizer {
	if logger == nil {
		logger = logging.NewBlankLogger("")
	}
	tr := &TemplateRecognizer{
		inputSize:  max(inputSize, 0),
		outputSize: max(outputSize, 0),
		metric:     Euclidean,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// InputSize returns the declared input size.
func (tr *TemplateRecognizer) InputSize() int {
	return tr.inputSize
}

// OutputSize returns the declared output size.
func (tr *TemplateRecognizer) OutputSize() int {
	return tr.outputSize
}

// Metric returns the distance metric in use.
func (tr *TemplateRecognizer) Metric() Metric {
	return tr.metric
}

// StrictLengths reports whether declared sizes are enforced.
func (tr *TemplateRecognizer) StrictLengths() bool {
	return tr.strictLengths
}

// Len returns the number of stored templates.
func (tr *TemplateRecognizer) Len() int {
	return len(tr.templates)
}

// Train replaces the stored templates with copies of the given pairs. A malformed batch is
// logged as a warning and ignored, leaving the previous templates in place.
func (tr *TemplateRecognizer) Train(inputs, outputs [][]float64) {
	if err := tr.TrainE(inputs, outputs); err != nil {
		tr.logger.Warn(err.Error())
		return
	}
	tr.logger.Info(fmt.Sprintf("stored %d templates", len(tr.templates)))
}

// TrainE is Train with the failure returned instead of logged. Nothing is logged and, on error,
// nothing is changed.
func (tr *TemplateRecognizer) TrainE(inputs, outputs [][]float64) error {
	if len(inputs) != len(outputs) {
		return errors.Wrapf(ErrTrainingSizeMismatch, "%d inputs, %d outputs", len(inputs), len(outputs))
	}
	if tr.strictLengths {
		for i := range inputs {
			if len(inputs[i]) != tr.inputSize {
				return errors.Wrapf(ErrVectorLength, "input %d has length %d, want %d", i, len(inputs[i]), tr.inputSize)
			}
			if len(outputs[i]) != tr.outputSize {
				return errors.Wrapf(ErrVectorLength, "output %d has length %d, want %d", i, len(outputs[i]), tr.outputSize)
			}
		}
	}

	templates := make([]template, 0, len(inputs))
	for i := range inputs {
		templates = append(templates, template{
			input:  cloneVector(inputs[i]),
			output: cloneVector(outputs[i]),
		})
	}
	tr.templates = templates
	return nil
}

// Predict returns a copy of the output of the nearest stored template. Before any successful
// training it logs a warning and returns a zero vector of OutputSize.
func (tr *TemplateRecognizer) Predict(input []float64) []float64 {
	output, err := tr.PredictE(input)
	if err != nil {
		tr.logger.Warn(err.Error())
	}
	return output
}

// PredictE is Predict with the failure returned instead of logged. The returned vector is the
// same one Predict would return, so it is usable even when err is non-nil.
func (tr *TemplateRecognizer) PredictE(input []float64) ([]float64, error) {
	if tr.strictLengths && len(tr.templates) > 0 && len(input) != tr.inputSize {
		return make([]float64, tr.outputSize),
			errors.Wrapf(ErrVectorLength, "query has length %d, want %d", len(input), tr.inputSize)
	}
	match, err := tr.Nearest(input)
	if err != nil {
		return make([]float64, tr.outputSize), err
	}
	return match.Output, nil
}

// Nearest scans every stored template and returns the one closest to input. The first template
// wins ties. An empty query has distance zero to everything, so it always selects template 0.
func (tr *TemplateRecognizer) Nearest(input []float64) (Match, error) {
	if len(tr.templates) == 0 {
		return Match{}, ErrEmptyStore
	}

	// Starting at index 0 means a scan where no distance is comparable (NaN) still answers with
	// the first template.
	bestIndex := 0
	bestDistance := math.Inf(1)
	for i, t := range tr.templates {
		distance := tr.metric.Distance(input, t.input)
		if distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}

	return Match{
		Index:    bestIndex,
		Distance: bestDistance,
		Output:   cloneVector(tr.templates[bestIndex].output),
	}, nil
}

// Distances returns the distance from input to every stored template, in insertion order.
func (tr *TemplateRecognizer) Distances(input []float64) []float64 {
	distances := make([]float64, 0, len(tr.templates))
	for _, t := range tr.templates {
		distances = append(distances, tr.metric.Distance(input, t.input))
	}
	return distances
}

// cloneVector copies v. The result is never nil.
func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

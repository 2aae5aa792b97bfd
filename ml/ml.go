// Package ml provides example driven recognizers: a model is trained with pairs of (input frame,
// desired output) and later maps new input frames to the output of the closest stored example.
package ml

// Model is a trainable mapping from input vectors to output vectors.
type Model interface {
	// Train replaces whatever the model has learned with the given input/output pairs.
	Train(inputs, outputs [][]float64)
	// Predict returns the output for the given input. It never returns nil.
	Predict(input []float64) []float64
}

// Logger is the logging capability a recognizer reports through. It never influences control
// flow. Any logging.Logger or zap.SugaredLogger satisfies it.
type Logger interface {
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
}

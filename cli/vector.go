package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// parseVector parses a comma separated list of numbers. An empty string is the empty vector.
func parseVector(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []float64{}, nil
	}
	fields := lo.Map(strings.Split(raw, ","), func(field string, _ int) string {
		return strings.TrimSpace(field)
	})
	vector := make([]float64, 0, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d of %q", i, raw)
		}
		vector = append(vector, v)
	}
	return vector, nil
}

// parseExample parses "INPUT=OUTPUT" where both sides are vectors.
func parseExample(raw string) (input, output []float64, err error) {
	rawInput, rawOutput, found := strings.Cut(raw, "=")
	if !found {
		return nil, nil, errors.Errorf("example %q must look like INPUT=OUTPUT", raw)
	}
	if input, err = parseVector(rawInput); err != nil {
		return nil, nil, errors.Wrap(err, "example input")
	}
	if output, err = parseVector(rawOutput); err != nil {
		return nil, nil, errors.Wrap(err, "example output")
	}
	return input, output, nil
}

// parseExamples parses every example into parallel input and output batches.
func parseExamples(raw []string) (inputs, outputs [][]float64, err error) {
	inputs = make([][]float64, 0, len(raw))
	outputs = make([][]float64, 0, len(raw))
	for _, example := range raw {
		input, output, err := parseExample(example)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, input)
		outputs = append(outputs, output)
	}
	return inputs, outputs, nil
}

func formatVector(vector []float64) string {
	return strings.Join(lo.Map(vector, func(v float64, _ int) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}), ",")
}

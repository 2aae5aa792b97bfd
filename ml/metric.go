package ml

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Metric names the distance used to compare a query with stored templates.
type Metric string

const (
	// Euclidean is the L2 distance. It is the default.
	Euclidean Metric = "euclidean"
	// Manhattan is the L1 distance.
	Manhattan Metric = "manhattan"
	// Chebyshev is the L-infinity distance.
	Chebyshev Metric = "chebyshev"
)

// ParseMetric converts a metric name to a Metric. The empty string means Euclidean.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return Euclidean, nil
	case Euclidean, Manhattan, Chebyshev:
		return m, nil
	default:
		return "", errors.Errorf("unknown distance metric %q", name)
	}
}

// Distance computes the distance between a and b over their overlapping prefix. Trailing
// elements of the longer vector are ignored rather than padded. Unknown metrics fall back to
// Euclidean.
func (m Metric) Distance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a, b = a[:n], b[:n]

	switch m {
	case Manhattan:
		return floats.Distance(a, b, 1)
	case Chebyshev:
		return floats.Distance(a, b, math.Inf(1))
	default:
		return euclidean(a, b)
	}
}

// euclidean is sqrt of the summed squared differences. a and b must have equal length.
func euclidean(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	// squared diff vector
	floats.Mul(diff, diff)
	return math.Sqrt(floats.Sum(diff))
}

package ml

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

// number interface for converting between numbers.
type number interface {
	constraints.Integer | constraints.Float
}

// convertNumberSlice converts any number slice into another number slice.
func convertNumberSlice[T1, T2 number](t1 []T1) []T2 {
	t2 := make([]T2, len(t1))
	for i := range t1 {
		t2[i] = T2(t1[i])
	}
	return t2
}

// ToFloat64Slice converts a numeric slice or scalar, e.g. a float32 frame from a sensor, into a
// new []float64 suitable for Train and Predict. A []float64 input is copied.
func ToFloat64Slice(slice interface{}) ([]float64, error) {
	switch v := slice.(type) {
	case []float64:
		return cloneVector(v), nil
	case float64:
		return []float64{v}, nil
	case []float32:
		return convertNumberSlice[float32, float64](v), nil
	case float32:
		return []float64{float64(v)}, nil
	case []int:
		return convertNumberSlice[int, float64](v), nil
	case int:
		return []float64{float64(v)}, nil
	case []int8:
		return convertNumberSlice[int8, float64](v), nil
	case []int16:
		return convertNumberSlice[int16, float64](v), nil
	case []int32:
		return convertNumberSlice[int32, float64](v), nil
	case []int64:
		return convertNumberSlice[int64, float64](v), nil
	case []uint:
		return convertNumberSlice[uint, float64](v), nil
	case []uint8:
		return convertNumberSlice[uint8, float64](v), nil
	case []uint16:
		return convertNumberSlice[uint16, float64](v), nil
	case []uint32:
		return convertNumberSlice[uint32, float64](v), nil
	case []uint64:
		return convertNumberSlice[uint64, float64](v), nil
	default:
		return nil, errors.Errorf("dont know how to convert %T into a []float64", slice)
	}
}

// ToFloat64Batch converts a batch of frames with ToFloat64Slice. The index of the first frame
// that cannot be converted is part of the error.
func ToFloat64Batch[T any](frames []T) ([][]float64, error) {
	batch := make([][]float64, 0, len(frames))
	for i, frame := range frames {
		converted, err := ToFloat64Slice(frame)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		batch = append(batch, converted)
	}
	return batch, nil
}

package indicator

import (
	"fmt"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// Score is a normalized risk score in [0,1]. External evaluations arrive in
// two encodings: a continuous raw score, and a discretized 0..3 storage value.
// Both are converted here; call sites never branch on the encoding.
type Score struct {
	value float64
}

// Storage buckets for the discretized encoding. Decoding picks a
// representative inside each bucket, so an encode/decode round trip stays
// within the source bucket. The mapping is lossy by construction.
const (
	bucketLowUpper    = 0.33
	bucketMediumUpper = 0.66

	repLow    = 0.165
	repMedium = 0.495
	repHigh   = 0.83
)

// ScoreFromCanonical adapts a continuous raw score in [0,1].
func ScoreFromCanonical(raw float64) (Score, error) {
	if raw < 0 || raw > 1 {
		return Score{}, errors.ValidationError(
			fmt.Sprintf("raw score %v outside [0,1]", raw),
			map[string]float64{"raw_score": raw})
	}
	return Score{value: raw}, nil
}

// ScoreFromStored adapts a discretized storage value in {0,1,2,3}.
func ScoreFromStored(value int) (Score, error) {
	switch value {
	case 0:
		return Score{value: 0}, nil
	case 1:
		return Score{value: repLow}, nil
	case 2:
		return Score{value: repMedium}, nil
	case 3:
		return Score{value: repHigh}, nil
	default:
		return Score{}, errors.ValidationError(
			fmt.Sprintf("stored score value %d outside {0,1,2,3}", value),
			map[string]int{"value": value})
	}
}

// Float returns the continuous score.
func (s Score) Float() float64 {
	return s.value
}

// StorageValue discretizes the score into the 0..3 storage encoding.
func (s Score) StorageValue() int {
	switch {
	case s.value == 0:
		return 0
	case s.value < bucketLowUpper:
		return 1
	case s.value < bucketMediumUpper:
		return 2
	default:
		return 3
	}
}

// NormalizeConfidence applies the default when a confidence is unset and
// rejects out-of-range values.
func NormalizeConfidence(confidence *float64) (float64, error) {
	if confidence == nil {
		return DefaultConfidence, nil
	}
	if *confidence < 0 || *confidence > 1 {
		return 0, errors.ValidationError(
			fmt.Sprintf("confidence %v outside [0,1]", *confidence),
			map[string]float64{"confidence": *confidence})
	}
	return *confidence, nil
}

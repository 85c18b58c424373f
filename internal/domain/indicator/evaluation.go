package indicator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// Evaluation is one externally-sourced evaluation record before
// normalization. Exactly one of RawScore (canonical shape, dotted id) or
// Value (persisted-storage shape, dashed id) must be set.
type Evaluation struct {
	RawScore   *float64        `json:"raw_score,omitempty"`
	Value      *int            `json:"value,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	Evidence   json.RawMessage `json:"evidence,omitempty"`
	Assessor   string          `json:"assessor,omitempty"`
	AssessedAt *time.Time      `json:"assessed_at,omitempty"`
}

// Normalize converts an external evaluation keyed by either identifier
// encoding into one canonical Assessment.
func Normalize(key string, ev Evaluation) (Assessment, error) {
	var (
		id  ID
		err error
	)
	if strings.Contains(key, "-") {
		id, err = ParseStorageKey(key)
	} else {
		id, err = ParseID(key)
	}
	if err != nil {
		return Assessment{}, err
	}

	var score Score
	switch {
	case ev.RawScore != nil:
		score, err = ScoreFromCanonical(*ev.RawScore)
	case ev.Value != nil:
		score, err = ScoreFromStored(*ev.Value)
	default:
		err = errors.ValidationError(
			fmt.Sprintf("evaluation for %q carries no score", key),
			map[string]string{"indicator_id": key})
	}
	if err != nil {
		return Assessment{}, err
	}

	confidence, err := NormalizeConfidence(ev.Confidence)
	if err != nil {
		return Assessment{}, err
	}

	assessedAt := time.Now().UTC()
	if ev.AssessedAt != nil {
		assessedAt = *ev.AssessedAt
	}

	return Assessment{
		IndicatorID: id,
		RawScore:    score.Float(),
		Confidence:  confidence,
		Evidence:    ev.Evidence,
		Assessor:    ev.Assessor,
		AssessedAt:  assessedAt,
	}, nil
}

// NormalizeAll normalizes a full evaluation map, rejecting the whole batch
// on the first malformed entry so no partial mutation can happen downstream.
func NormalizeAll(entries map[string]Evaluation) (map[ID]Assessment, error) {
	normalized := make(map[ID]Assessment, len(entries))
	for key, ev := range entries {
		a, err := Normalize(key, ev)
		if err != nil {
			return nil, err
		}
		normalized[a.IndicatorID] = a
	}
	return normalized, nil
}

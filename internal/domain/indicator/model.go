package indicator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

// The CPF taxonomy is a fixed 10x10 grid: 10 behavioral categories with
// 10 indicators each, addressed as "<category>.<index>".
const (
	CategoryCount         = 10
	IndicatorsPerCategory = 10
	TotalIndicators       = CategoryCount * IndicatorsPerCategory

	// DefaultConfidence is assumed when an evaluation carries no confidence
	DefaultConfidence = 0.85
)

// ID is a canonical indicator identifier in "category.index" form,
// with both parts in [1,10].
type ID string

// Category returns the category segment of the identifier.
func (id ID) Category() string {
	cat, _, _ := strings.Cut(string(id), ".")
	return cat
}

// StorageKey returns the dashed form used by the persisted-storage encoding.
func (id ID) StorageKey() string {
	return strings.Replace(string(id), ".", "-", 1)
}

// ParseID parses a canonical dotted identifier. Malformed identifiers are
// rejected, never clamped.
func ParseID(s string) (ID, error) {
	return parseID(s, ".")
}

// ParseStorageKey parses the dashed identifier used by the persisted-storage
// encoding and returns the canonical ID.
func ParseStorageKey(s string) (ID, error) {
	return parseID(s, "-")
}

func parseID(s, sep string) (ID, error) {
	catStr, idxStr, ok := strings.Cut(s, sep)
	if !ok {
		return "", errors.ValidationError(
			fmt.Sprintf("malformed indicator id %q", s),
			map[string]string{"indicator_id": s})
	}
	cat, ok := parseGridIndex(catStr)
	if !ok || cat < 1 || cat > CategoryCount {
		return "", errors.ValidationError(
			fmt.Sprintf("indicator category out of range in %q", s),
			map[string]string{"indicator_id": s})
	}
	idx, ok := parseGridIndex(idxStr)
	if !ok || idx < 1 || idx > IndicatorsPerCategory {
		return "", errors.ValidationError(
			fmt.Sprintf("indicator index out of range in %q", s),
			map[string]string{"indicator_id": s})
	}
	return ID(fmt.Sprintf("%d.%d", cat, idx)), nil
}

// parseGridIndex accepts only the canonical decimal form of a grid index.
// Signs and leading zeros ("+1", "01") are not identifiers, so they fail
// rather than being normalized.
func parseGridIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

// All returns the 100 canonical indicator identifiers in taxonomy order.
func All() []ID {
	ids := make([]ID, 0, TotalIndicators)
	for cat := 1; cat <= CategoryCount; cat++ {
		for idx := 1; idx <= IndicatorsPerCategory; idx++ {
			ids = append(ids, ID(fmt.Sprintf("%d.%d", cat, idx)))
		}
	}
	return ids
}

// Assessment is one scored evaluation of one indicator for one organization.
// Evidence is carried through untouched.
type Assessment struct {
	IndicatorID ID              `json:"indicator_id"`
	RawScore    float64         `json:"raw_score"`
	Confidence  float64         `json:"confidence"`
	Evidence    json.RawMessage `json:"evidence,omitempty"`
	Assessor    string          `json:"assessor,omitempty"`
	AssessedAt  time.Time       `json:"assessed_at,omitempty"`
}

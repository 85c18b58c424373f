package indicator

import (
	"testing"
	"time"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "first indicator", input: "1.1", want: "1.1"},
		{name: "last indicator", input: "10.10", want: "10.10"},
		{name: "mid grid", input: "7.3", want: "7.3"},
		{name: "category zero", input: "0.5", wantErr: true},
		{name: "category eleven", input: "11.1", wantErr: true},
		{name: "index zero", input: "3.0", wantErr: true},
		{name: "index eleven", input: "3.11", wantErr: true},
		{name: "no separator", input: "31", wantErr: true},
		{name: "leading zero category", input: "01.1", wantErr: true},
		{name: "leading zero index", input: "1.01", wantErr: true},
		{name: "signed category", input: "+1.1", wantErr: true},
		{name: "signed index", input: "1.+1", wantErr: true},
		{name: "dashed form rejected", input: "3-1", wantErr: true},
		{name: "non-numeric category", input: "a.1", wantErr: true},
		{name: "non-numeric index", input: "1.b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.IsCode(err, errors.ErrCodeValidation) {
					t.Errorf("ParseID(%q) error code = %v, want validation", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStorageKey(t *testing.T) {
	got, err := ParseStorageKey("2-7")
	if err != nil {
		t.Fatalf("ParseStorageKey() error = %v", err)
	}
	if got != "2.7" {
		t.Errorf("ParseStorageKey() = %v, want 2.7", got)
	}

	if _, err := ParseStorageKey("2.7"); err == nil {
		t.Error("ParseStorageKey() accepted a dotted identifier")
	}
	if _, err := ParseStorageKey("11-1"); err == nil {
		t.Error("ParseStorageKey() accepted an out-of-range category")
	}
}

func TestStorageKeyRoundTrip(t *testing.T) {
	for _, id := range All() {
		back, err := ParseStorageKey(id.StorageKey())
		if err != nil {
			t.Fatalf("ParseStorageKey(%q) error = %v", id.StorageKey(), err)
		}
		if back != id {
			t.Errorf("round trip of %v through storage key = %v", id, back)
		}
	}
}

func TestAll(t *testing.T) {
	ids := All()
	if len(ids) != TotalIndicators {
		t.Fatalf("All() returned %d ids, want %d", len(ids), TotalIndicators)
	}
	seen := make(map[ID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Errorf("All() returned duplicate id %v", id)
		}
		seen[id] = true
	}
	if ids[0] != "1.1" || ids[len(ids)-1] != "10.10" {
		t.Errorf("All() order wrong: first %v, last %v", ids[0], ids[len(ids)-1])
	}
}

func TestScoreFromCanonical(t *testing.T) {
	tests := []struct {
		name    string
		raw     float64
		wantErr bool
	}{
		{name: "zero", raw: 0},
		{name: "one", raw: 1},
		{name: "mid", raw: 0.42},
		{name: "negative", raw: -0.01, wantErr: true},
		{name: "above one", raw: 1.01, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ScoreFromCanonical(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ScoreFromCanonical(%v) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
				return
			}
			if !tt.wantErr && s.Float() != tt.raw {
				t.Errorf("ScoreFromCanonical(%v).Float() = %v", tt.raw, s.Float())
			}
		})
	}
}

func TestScoreBucketRoundTrip(t *testing.T) {
	// Decoding a stored bucket must land inside that bucket, so encode
	// after decode returns the original value.
	for value := 0; value <= 3; value++ {
		s, err := ScoreFromStored(value)
		if err != nil {
			t.Fatalf("ScoreFromStored(%d) error = %v", value, err)
		}
		if got := s.StorageValue(); got != value {
			t.Errorf("bucket round trip of %d = %d (decoded %v)", value, got, s.Float())
		}
	}

	if _, err := ScoreFromStored(4); err == nil {
		t.Error("ScoreFromStored(4) accepted an out-of-range value")
	}
	if _, err := ScoreFromStored(-1); err == nil {
		t.Error("ScoreFromStored(-1) accepted a negative value")
	}
}

func TestStorageValueBoundaries(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{raw: 0, want: 0},
		{raw: 0.01, want: 1},
		{raw: 0.32, want: 1},
		{raw: 0.33, want: 2},
		{raw: 0.65, want: 2},
		{raw: 0.66, want: 3},
		{raw: 1, want: 3},
	}
	for _, tt := range tests {
		s, err := ScoreFromCanonical(tt.raw)
		if err != nil {
			t.Fatalf("ScoreFromCanonical(%v) error = %v", tt.raw, err)
		}
		if got := s.StorageValue(); got != tt.want {
			t.Errorf("StorageValue(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	assessed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		key            string
		ev             Evaluation
		wantID         ID
		wantScore      float64
		wantConfidence float64
		wantErr        bool
	}{
		{
			name:           "canonical shape",
			key:            "1.1",
			ev:             Evaluation{RawScore: floatPtr(0.9), Confidence: floatPtr(0.9), AssessedAt: &assessed},
			wantID:         "1.1",
			wantScore:      0.9,
			wantConfidence: 0.9,
		},
		{
			name:           "storage shape",
			key:            "2-7",
			ev:             Evaluation{Value: intPtr(3)},
			wantID:         "2.7",
			wantScore:      0.83,
			wantConfidence: DefaultConfidence,
		},
		{
			name:           "default confidence",
			key:            "5.5",
			ev:             Evaluation{RawScore: floatPtr(0.5)},
			wantID:         "5.5",
			wantScore:      0.5,
			wantConfidence: DefaultConfidence,
		},
		{
			name:    "no score at all",
			key:     "1.1",
			ev:      Evaluation{Confidence: floatPtr(0.9)},
			wantErr: true,
		},
		{
			name:    "raw score out of range",
			key:     "1.1",
			ev:      Evaluation{RawScore: floatPtr(1.5)},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			key:     "1.1",
			ev:      Evaluation{RawScore: floatPtr(0.5), Confidence: floatPtr(1.5)},
			wantErr: true,
		},
		{
			name:    "malformed key",
			key:     "banana",
			ev:      Evaluation{RawScore: floatPtr(0.5)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.key, tt.ev)
			if (err != nil) != tt.wantErr {
				t.Errorf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.IndicatorID != tt.wantID {
				t.Errorf("Normalize() id = %v, want %v", got.IndicatorID, tt.wantID)
			}
			if got.RawScore != tt.wantScore {
				t.Errorf("Normalize() score = %v, want %v", got.RawScore, tt.wantScore)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Normalize() confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.AssessedAt.IsZero() {
				t.Error("Normalize() left AssessedAt unset")
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	entries := map[string]Evaluation{
		"1.1": {RawScore: floatPtr(0.2)},
		"1-2": {Value: intPtr(2)},
	}
	normalized, err := NormalizeAll(entries)
	if err != nil {
		t.Fatalf("NormalizeAll() error = %v", err)
	}
	if len(normalized) != 2 {
		t.Fatalf("NormalizeAll() returned %d assessments, want 2", len(normalized))
	}
	if _, ok := normalized["1.2"]; !ok {
		t.Error("NormalizeAll() did not canonicalize the dashed key")
	}

	entries["99.1"] = Evaluation{RawScore: floatPtr(0.1)}
	if _, err := NormalizeAll(entries); err == nil {
		t.Error("NormalizeAll() accepted a batch with a malformed key")
	}
}

package scoring

import (
	"fmt"
	"testing"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
)

func assessments(scores map[indicator.ID]float64) map[indicator.ID]indicator.Assessment {
	out := make(map[indicator.ID]indicator.Assessment, len(scores))
	for id, score := range scores {
		out[id] = indicator.Assessment{
			IndicatorID: id,
			RawScore:    score,
			Confidence:  indicator.DefaultConfidence,
		}
	}
	return out
}

func TestAggregate_Empty(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Aggregate(nil, "Technology")

	if result.MaturityModel.CPFScore != 100 {
		t.Errorf("empty input CPF score = %d, want 100", result.MaturityModel.CPFScore)
	}
	if result.OverallRisk != 0 {
		t.Errorf("empty input overall risk = %v, want 0", result.OverallRisk)
	}
	if result.Completion.Percentage != 0 || result.Completion.AssessedIndicators != 0 {
		t.Errorf("empty input completion = %+v, want zero", result.Completion)
	}
	if len(result.ByCategory) != 0 {
		t.Errorf("empty input produced %d categories", len(result.ByCategory))
	}
	if result.MaturityModel.ConvergenceIndex != 0 {
		t.Errorf("empty input convergence = %v, want 0", result.MaturityModel.ConvergenceIndex)
	}
	if result.MaturityModel.LevelName != "Optimizing" {
		t.Errorf("empty input level = %q, want Optimizing", result.MaturityModel.LevelName)
	}
}

func TestAggregate_SingleHighRisk(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 0.9}), "Technology")

	if result.OverallRisk != 0.9 {
		t.Errorf("overall risk = %v, want 0.9", result.OverallRisk)
	}
	if result.MaturityModel.CPFScore != 10 {
		t.Errorf("CPF score = %d, want 10", result.MaturityModel.CPFScore)
	}
	if result.MaturityModel.MaturityLevel != 0 || result.MaturityModel.LevelName != "Unaware" {
		t.Errorf("maturity = %d %q, want 0 Unaware",
			result.MaturityModel.MaturityLevel, result.MaturityModel.LevelName)
	}
	if result.MaturityModel.RedDomainsCount != 1 {
		t.Errorf("red domains = %d, want 1", result.MaturityModel.RedDomainsCount)
	}
	if result.MaturityModel.ConvergenceIndex != 2 {
		t.Errorf("convergence = %v, want 2", result.MaturityModel.ConvergenceIndex)
	}

	cat, ok := result.ByCategory["1"]
	if !ok {
		t.Fatal("category 1 missing from ByCategory")
	}
	if cat.Risk != 0.9 || cat.Assessed != 1 || cat.Total != 10 || cat.Completion != 10 {
		t.Errorf("category stats = %+v", cat)
	}
	if result.Completion.Percentage != 1 {
		t.Errorf("global completion = %v, want 1", result.Completion.Percentage)
	}
}

func TestAggregate_CompletionFormula(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// 25 indicators across categories 1 and 2, plus 5 in category 3.
	scores := make(map[indicator.ID]float64)
	for cat := 1; cat <= 2; cat++ {
		for idx := 1; idx <= 10; idx++ {
			scores[indicator.ID(fmt.Sprintf("%d.%d", cat, idx))] = 0.1
		}
	}
	for idx := 1; idx <= 5; idx++ {
		scores[indicator.ID(fmt.Sprintf("3.%d", idx))] = 0.1
	}

	result := engine.Aggregate(assessments(scores), "Finance")
	if result.Completion.AssessedIndicators != 25 {
		t.Errorf("assessed = %d, want 25", result.Completion.AssessedIndicators)
	}
	if result.Completion.Percentage != 25 {
		t.Errorf("completion = %v, want 25", result.Completion.Percentage)
	}
	if got := result.ByCategory["3"].Completion; got != 50 {
		t.Errorf("category 3 completion = %v, want 50", got)
	}
}

func TestAggregate_DomainColors(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	scores := map[indicator.ID]float64{
		"1.1": 0.1, // green
		"2.1": 0.5, // yellow
		"3.1": 0.9, // red
		"4.1": 0.3, // boundary: not green
		"5.1": 0.7, // boundary: not yellow
	}
	result := engine.Aggregate(assessments(scores), "General")

	mm := result.MaturityModel
	if mm.GreenDomainsCount != 1 {
		t.Errorf("green domains = %d, want 1", mm.GreenDomainsCount)
	}
	if mm.YellowDomainsCount != 2 {
		t.Errorf("yellow domains = %d, want 2", mm.YellowDomainsCount)
	}
	if mm.RedDomainsCount != 2 {
		t.Errorf("red domains = %d, want 2", mm.RedDomainsCount)
	}
	if want := float64(2)*2 + float64(2)*0.5; mm.ConvergenceIndex != want {
		t.Errorf("convergence = %v, want %v", mm.ConvergenceIndex, want)
	}
}

func TestAggregate_AllGreenConvergenceZero(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	scores := make(map[indicator.ID]float64)
	for _, id := range indicator.All() {
		scores[id] = 0.1
	}
	result := engine.Aggregate(assessments(scores), "Technology")

	if result.MaturityModel.ConvergenceIndex != 0 {
		t.Errorf("all-green convergence = %v, want 0", result.MaturityModel.ConvergenceIndex)
	}
	if result.MaturityModel.GreenDomainsCount != 10 {
		t.Errorf("green domains = %d, want 10", result.MaturityModel.GreenDomainsCount)
	}
	if result.Completion.Percentage != 100 {
		t.Errorf("completion = %v, want 100", result.Completion.Percentage)
	}
	if result.MaturityModel.CPFScore != 90 {
		t.Errorf("CPF score = %d, want 90", result.MaturityModel.CPFScore)
	}
}

func TestAggregate_MaturityTiers(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		risk      float64
		wantScore int
		wantLevel int
		wantName  string
	}{
		{risk: 0.05, wantScore: 95, wantLevel: 5, wantName: "Optimizing"},
		{risk: 0.10, wantScore: 90, wantLevel: 5, wantName: "Optimizing"},
		{risk: 0.20, wantScore: 80, wantLevel: 4, wantName: "Managed"},
		{risk: 0.25, wantScore: 75, wantLevel: 4, wantName: "Managed"},
		{risk: 0.35, wantScore: 65, wantLevel: 3, wantName: "Defined"},
		{risk: 0.50, wantScore: 50, wantLevel: 2, wantName: "Developing"},
		{risk: 0.75, wantScore: 25, wantLevel: 1, wantName: "Initial"},
		{risk: 0.90, wantScore: 10, wantLevel: 0, wantName: "Unaware"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			result := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": tt.risk}), "General")
			mm := result.MaturityModel
			if mm.CPFScore != tt.wantScore {
				t.Errorf("CPF score = %d, want %d", mm.CPFScore, tt.wantScore)
			}
			if mm.MaturityLevel != tt.wantLevel || mm.LevelName != tt.wantName {
				t.Errorf("maturity = %d %q, want %d %q",
					mm.MaturityLevel, mm.LevelName, tt.wantLevel, tt.wantName)
			}
		})
	}
}

func TestAggregate_Compliance(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name         string
		risk         float64
		wantStandard string
		wantDORA     string
	}{
		{name: "all compliant", risk: 0.2, wantStandard: StatusCompliant, wantDORA: StatusCompliant},
		{name: "dora compliant only", risk: 0.28, wantStandard: StatusAtRisk, wantDORA: StatusCompliant},
		{name: "both at risk", risk: 0.38, wantStandard: StatusAtRisk, wantDORA: StatusAtRisk},
		{name: "non compliant", risk: 0.5, wantStandard: StatusNonCompliant, wantDORA: StatusNonCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": tt.risk}), "General")
			c := result.MaturityModel.Compliance

			for name, fs := range map[string]FrameworkStatus{
				"gdpr": c.GDPR, "nis2": c.NIS2, "iso27001": c.ISO27001,
			} {
				if fs.Status != tt.wantStandard {
					t.Errorf("%s status = %q, want %q", name, fs.Status, tt.wantStandard)
				}
				if tt.wantStandard == StatusCompliant && len(fs.Gaps) != 0 {
					t.Errorf("%s compliant but has gaps %v", name, fs.Gaps)
				}
				if tt.wantStandard != StatusCompliant && len(fs.Gaps) == 0 {
					t.Errorf("%s not compliant but has no gaps", name)
				}
			}
			if c.DORA.Status != tt.wantDORA {
				t.Errorf("dora status = %q, want %q", c.DORA.Status, tt.wantDORA)
			}
		})
	}
}

func TestAggregate_SectorBenchmark(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	result := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 0.2}), "Finance")
	sb := result.MaturityModel.SectorBenchmark
	if sb.SectorAverage != 72 {
		t.Errorf("Finance sector average = %v, want 72", sb.SectorAverage)
	}
	if sb.Gap != 8 {
		t.Errorf("gap = %v, want 8", sb.Gap)
	}
	if sb.Percentile != 80 {
		t.Errorf("percentile = %d, want 80", sb.Percentile)
	}

	// Unknown sector falls back to the default table entry.
	result = engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 0.2}), "Interplanetary Shipping")
	if got := result.MaturityModel.SectorBenchmark.SectorAverage; got != 65 {
		t.Errorf("unknown sector average = %v, want 65", got)
	}

	// Percentile clamps to [1,99].
	result = engine.Aggregate(nil, "General")
	if got := result.MaturityModel.SectorBenchmark.Percentile; got != 99 {
		t.Errorf("percentile for score 100 = %d, want 99", got)
	}
	result = engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 1}), "General")
	if got := result.MaturityModel.SectorBenchmark.Percentile; got != 1 {
		t.Errorf("percentile for score 0 = %d, want 1", got)
	}
}

func TestAggregate_CertificationPathAndROI(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	ready := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 0.2}), "General")
	cp := ready.MaturityModel.CertificationPath
	if cp.EstimatedMonths != 6 || len(cp.RecommendedCertifications) != 2 {
		t.Errorf("ready path = %+v", cp)
	}
	roi := ready.MaturityModel.ROIAnalysis
	if roi.RiskReduction != 64 || roi.CostSavingsAnnual != 80000 || roi.ComplianceValue != "High" {
		t.Errorf("ready ROI = %+v", roi)
	}

	notReady := engine.Aggregate(assessments(map[indicator.ID]float64{"1.1": 0.5}), "General")
	cp = notReady.MaturityModel.CertificationPath
	if cp.EstimatedMonths != 12 || len(cp.RecommendedCertifications) != 1 {
		t.Errorf("not-ready path = %+v", cp)
	}
	if notReady.MaturityModel.ROIAnalysis.ComplianceValue != "Medium" {
		t.Errorf("not-ready ROI value = %q, want Medium",
			notReady.MaturityModel.ROIAnalysis.ComplianceValue)
	}
}

func TestAggregate_OverallRiskIsIndicatorMean(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	// Two categories with very different indicator counts. The overall
	// risk weights each indicator equally, not each category.
	scores := map[indicator.ID]float64{"2.1": 1}
	for idx := 1; idx <= 9; idx++ {
		scores[indicator.ID(fmt.Sprintf("1.%d", idx))] = 0
	}
	result := engine.Aggregate(assessments(scores), "General")

	if result.OverallRisk != 0.1 {
		t.Errorf("overall risk = %v, want 0.1", result.OverallRisk)
	}
	if result.MaturityModel.CPFScore != 90 {
		t.Errorf("CPF score = %d, want 90", result.MaturityModel.CPFScore)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	scores := map[indicator.ID]float64{"1.1": 0.1, "1.2": 0.2, "1.3": 0.3}
	result := engine.Aggregate(assessments(scores), "General")

	if got := result.ByCategory["1"].Risk; got != 0.2 {
		t.Errorf("category risk = %v, want 0.2", got)
	}
	if got := result.Completion.Percentage; got != 3 {
		t.Errorf("completion = %v, want 3", got)
	}
	// 7 indicators of 1/3 each: mean must round to 4 decimals.
	scores = make(map[indicator.ID]float64)
	for idx := 1; idx <= 7; idx++ {
		scores[indicator.ID(fmt.Sprintf("2.%d", idx))] = 1.0 / 3.0
	}
	result = engine.Aggregate(assessments(scores), "General")
	if got := result.OverallRisk; got != 0.3333 {
		t.Errorf("overall risk = %v, want 0.3333", got)
	}
}

// Package scoring turns a sparse set of indicator assessments into the
// normalized risk, maturity and compliance metrics that gate certification
// decisions. Aggregation is a pure function: no I/O, no side effects.
package scoring

import (
	"math"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
)

// CategoryStats summarizes the assessed indicators of one category.
// Total is always the fixed category size of 10.
type CategoryStats struct {
	Risk       float64 `json:"risk"`
	Confidence float64 `json:"confidence"`
	Completion float64 `json:"completion"`
	Assessed   int     `json:"assessed"`
	Total      int     `json:"total"`
}

// Completion reports assessment coverage over the full 100-indicator taxonomy.
type Completion struct {
	Percentage         float64 `json:"percentage"`
	AssessedIndicators int     `json:"assessed_indicators"`
}

// SectorBenchmark compares the CPF score against a fixed per-sector average.
// Percentile is the clamped score, not a statistical percentile.
type SectorBenchmark struct {
	Percentile    int     `json:"percentile"`
	SectorAverage float64 `json:"sector_average"`
	Gap           float64 `json:"gap"`
}

// FrameworkStatus is the per-framework compliance readout.
type FrameworkStatus struct {
	Status string   `json:"status"`
	Score  int      `json:"score"`
	Gaps   []string `json:"gaps"`
}

// ComplianceBlock maps the CPF score onto the four regulatory frameworks.
type ComplianceBlock struct {
	GDPR     FrameworkStatus `json:"gdpr"`
	NIS2     FrameworkStatus `json:"nis2"`
	DORA     FrameworkStatus `json:"dora"`
	ISO27001 FrameworkStatus `json:"iso27001"`
}

// CertificationPath recommends certifications by current readiness.
type CertificationPath struct {
	CurrentReadiness          int      `json:"current_readiness"`
	RecommendedCertifications []string `json:"recommended_certifications"`
	EstimatedMonths           int      `json:"estimated_months"`
}

// ROIAnalysis estimates the value of closing the measured gaps.
type ROIAnalysis struct {
	RiskReduction     int    `json:"risk_reduction"`
	CostSavingsAnnual int    `json:"cost_savings_annual"`
	ComplianceValue   string `json:"compliance_value"`
}

// MaturityModel is the full maturity readout derived from the CPF score.
type MaturityModel struct {
	MaturityLevel      int               `json:"maturity_level"`
	LevelName          string            `json:"level_name"`
	CPFScore           int               `json:"cpf_score"`
	ConvergenceIndex   float64           `json:"convergence_index"`
	GreenDomainsCount  int               `json:"green_domains_count"`
	YellowDomainsCount int               `json:"yellow_domains_count"`
	RedDomainsCount    int               `json:"red_domains_count"`
	SectorBenchmark    SectorBenchmark   `json:"sector_benchmark"`
	Compliance         ComplianceBlock   `json:"compliance"`
	CertificationPath  CertificationPath `json:"certification_path"`
	ROIAnalysis        ROIAnalysis       `json:"roi_analysis"`
}

// Result is the derived aggregate of a compliance profile. It is always a
// pure function of the indicator map and is never mutated independently.
type Result struct {
	ByCategory        map[string]CategoryStats `json:"by_category"`
	Completion        Completion               `json:"completion"`
	OverallRisk       float64                  `json:"overall_risk"`
	OverallConfidence float64                  `json:"overall_confidence"`
	MaturityModel     MaturityModel            `json:"maturity_model"`
}

// Compliance status values
const (
	StatusCompliant    = "compliant"
	StatusAtRisk       = "at_risk"
	StatusNonCompliant = "non_compliant"
)

// Fixed gap lists, looked up by threshold bucket rather than computed.
var (
	gdprGaps     = []string{"Security awareness training", "Incident response procedures"}
	nis2Gaps     = []string{"Risk management", "Supply chain security"}
	doraGaps     = []string{"ICT risk management", "Digital resilience testing"}
	iso27001Gaps = []string{"Information security controls", "Risk assessment"}
)

// Maturity tiers, highest matching tier wins.
var maturityTiers = []struct {
	MinScore int
	Level    int
	Name     string
}{
	{90, 5, "Optimizing"},
	{75, 4, "Managed"},
	{60, 3, "Defined"},
	{40, 2, "Developing"},
	{20, 1, "Initial"},
	{0, 0, "Unaware"},
}

// Engine computes aggregates under an immutable configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates an aggregation engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Aggregate computes the full aggregate for an indicator map and sector key.
// Categories with no assessed indicators are omitted from ByCategory.
func (e *Engine) Aggregate(indicators map[indicator.ID]indicator.Assessment, sector string) *Result {
	type categoryAccum struct {
		assessed        int
		totalRisk       float64
		totalConfidence float64
	}
	accum := make(map[string]*categoryAccum)

	totalAssessed := 0
	totalRisk := 0.0
	totalConfidence := 0.0

	for id, a := range indicators {
		cat := id.Category()
		ca := accum[cat]
		if ca == nil {
			ca = &categoryAccum{}
			accum[cat] = ca
		}
		ca.assessed++
		ca.totalRisk += a.RawScore
		ca.totalConfidence += a.Confidence

		totalAssessed++
		totalRisk += a.RawScore
		totalConfidence += a.Confidence
	}

	byCategory := make(map[string]CategoryStats, len(accum))
	greenDomains, yellowDomains, redDomains := 0, 0, 0

	for cat, ca := range accum {
		avgRisk := ca.totalRisk / float64(ca.assessed)
		byCategory[cat] = CategoryStats{
			Risk:       round4(avgRisk),
			Confidence: round4(ca.totalConfidence / float64(ca.assessed)),
			Completion: round4(float64(ca.assessed) / indicator.IndicatorsPerCategory * 100),
			Assessed:   ca.assessed,
			Total:      indicator.IndicatorsPerCategory,
		}

		switch {
		case avgRisk < e.cfg.DomainGreenMax:
			greenDomains++
		case avgRisk < e.cfg.DomainYellowMax:
			yellowDomains++
		default:
			redDomains++
		}
	}

	// Overall risk is an unweighted mean across all assessed indicators,
	// not a mean of category means.
	overallRisk := 0.0
	overallConfidence := 0.0
	if totalAssessed > 0 {
		overallRisk = totalRisk / float64(totalAssessed)
		overallConfidence = totalConfidence / float64(totalAssessed)
	}

	// CPF score is the inverse of overall risk on a 0-100 scale
	cpfScore := int(math.Round((1 - overallRisk) * 100))

	level, levelName := maturityFor(cpfScore)
	convergence := round4(float64(redDomains)*2 + float64(yellowDomains)*0.5)

	sectorAverage, ok := e.cfg.SectorAverages[sector]
	if !ok {
		sectorAverage = e.cfg.SectorAverages[e.cfg.DefaultSector]
	}
	percentile := cpfScore
	if percentile < 1 {
		percentile = 1
	}
	if percentile > 99 {
		percentile = 99
	}

	return &Result{
		ByCategory: byCategory,
		Completion: Completion{
			Percentage:         round4(float64(totalAssessed) / indicator.TotalIndicators * 100),
			AssessedIndicators: totalAssessed,
		},
		OverallRisk:       round4(overallRisk),
		OverallConfidence: round4(overallConfidence),
		MaturityModel: MaturityModel{
			MaturityLevel:      level,
			LevelName:          levelName,
			CPFScore:           cpfScore,
			ConvergenceIndex:   convergence,
			GreenDomainsCount:  greenDomains,
			YellowDomainsCount: yellowDomains,
			RedDomainsCount:    redDomains,
			SectorBenchmark: SectorBenchmark{
				Percentile:    percentile,
				SectorAverage: sectorAverage,
				Gap:           round4(float64(cpfScore) - sectorAverage),
			},
			Compliance:        e.compliance(cpfScore),
			CertificationPath: e.certificationPath(cpfScore),
			ROIAnalysis:       roiAnalysis(cpfScore, e.cfg.StandardCompliant),
		},
	}
}

func (e *Engine) compliance(cpfScore int) ComplianceBlock {
	standard := frameworkStatus(cpfScore, e.cfg.StandardCompliant, e.cfg.StandardAtRisk)
	dora := frameworkStatus(cpfScore, e.cfg.DORACompliant, e.cfg.DORAAtRisk)

	return ComplianceBlock{
		GDPR:     FrameworkStatus{Status: standard, Score: cpfScore, Gaps: gapsFor(standard, gdprGaps)},
		NIS2:     FrameworkStatus{Status: standard, Score: cpfScore, Gaps: gapsFor(standard, nis2Gaps)},
		DORA:     FrameworkStatus{Status: dora, Score: cpfScore, Gaps: gapsFor(dora, doraGaps)},
		ISO27001: FrameworkStatus{Status: standard, Score: cpfScore, Gaps: gapsFor(standard, iso27001Gaps)},
	}
}

func (e *Engine) certificationPath(cpfScore int) CertificationPath {
	if cpfScore >= e.cfg.CertificationReady {
		return CertificationPath{
			CurrentReadiness:          cpfScore,
			RecommendedCertifications: []string{"ISO 27001", "SOC 2"},
			EstimatedMonths:           6,
		}
	}
	return CertificationPath{
		CurrentReadiness:          cpfScore,
		RecommendedCertifications: []string{"ISO 27001 Gap Analysis"},
		EstimatedMonths:           12,
	}
}

func roiAnalysis(cpfScore, compliantThreshold int) ROIAnalysis {
	value := "Medium"
	if cpfScore >= compliantThreshold {
		value = "High"
	}
	return ROIAnalysis{
		RiskReduction:     int(math.Round(float64(cpfScore) * 0.8)),
		CostSavingsAnnual: int(math.Round(float64(cpfScore) * 1000)),
		ComplianceValue:   value,
	}
}

func frameworkStatus(cpfScore, compliant, atRisk int) string {
	switch {
	case cpfScore >= compliant:
		return StatusCompliant
	case cpfScore >= atRisk:
		return StatusAtRisk
	default:
		return StatusNonCompliant
	}
}

func gapsFor(status string, gaps []string) []string {
	if status == StatusCompliant {
		return []string{}
	}
	return gaps
}

func maturityFor(cpfScore int) (int, string) {
	for _, tier := range maturityTiers {
		if cpfScore >= tier.MinScore {
			return tier.Level, tier.Name
		}
	}
	return 0, "Unaware"
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

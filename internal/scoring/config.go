package scoring

// Config carries every tunable the engine consumes: domain color
// breakpoints, framework thresholds and the sector benchmark table. It is
// passed to the engine constructor and never read from ambient state.
type Config struct {
	// Domain color breakpoints over mean category risk
	DomainGreenMax  float64 // risk < DomainGreenMax   -> green
	DomainYellowMax float64 // risk < DomainYellowMax  -> yellow, else red

	// Framework score thresholds (0-100 CPF scale)
	StandardCompliant int // gdpr, nis2, iso27001
	StandardAtRisk    int
	DORACompliant     int
	DORAAtRisk        int

	// Certification path readiness breakpoint
	CertificationReady int

	// Sector benchmark table; DefaultSector is used for unknown sectors
	SectorAverages map[string]float64
	DefaultSector  string
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		DomainGreenMax:  0.3,
		DomainYellowMax: 0.7,

		StandardCompliant: 75,
		StandardAtRisk:    60,
		DORACompliant:     70,
		DORAAtRisk:        55,

		CertificationReady: 70,

		SectorAverages: map[string]float64{
			"Technology":    68,
			"Finance":       72,
			"Healthcare":    70,
			"Retail":        62,
			"Education":     65,
			"Manufacturing": 63,
			"Government":    67,
			"Energy":        66,
			"General":       65,
		},
		DefaultSector: "General",
	}
}

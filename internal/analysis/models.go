package analysis

// FieldStats holds the spread of one tabulated field over the whole
// (density, temperature) grid.
type FieldStats struct {
	Key  string // PROPACEOS field key, e.g. "zbar"
	Name string // human-readable label for reports
	Min  float64
	Max  float64
	Mean float64
}

// GroupStats summarizes the multigroup opacities within one photon energy
// group across all grid points.
type GroupStats struct {
	Group          int     // group index, 0-based
	ELo, EHi       float64 // group boundary energies, eV
	RosselandMin   float64
	RosselandMax   float64
	PlanckAbsMean  float64
	PlanckEmisMean float64
}

// Summary is the report-facing digest of an assembled table.
type Summary struct {
	NumIons int
	NTemp   int
	NNion   int
	NGroups int

	TempMin, TempMax float64 // eV
	NionMin, NionMax float64 // cm^-3
	RhoMin, RhoMax   float64 // g/cm^3
	Abar             float64

	Fields []FieldStats
	Groups []GroupStats

	// EpsOutliers counts (point, group) entries whose emission/absorption
	// Planck ratio is non-finite or farther from unity than EpsTol: in LTE
	// the two opacities should agree.
	EpsTol      float64
	EpsOutliers int
}

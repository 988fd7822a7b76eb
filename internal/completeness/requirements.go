// Package completeness implements the data-completeness assessor, the gap
// analyzer, and the recommendation engine, per spec.md 4.2.
package completeness

// SystemRequirement names which biomarkers of a health system are
// clinically required ("critical") versus merely useful ("optional") for
// a confident assessment of that system.
//
// original_source's completeness validator module was not present in the
// retrieved source pack; this table is derived from the scoring engine's
// min_biomarkers_required and per-biomarker clinical weight ordering
// (internal/scoring.DefaultHealthSystemRules) — the highest-weighted
// biomarkers, up to the minimum required count, are critical.
type SystemRequirement struct {
	CriticalBiomarkers []string
	OptionalBiomarkers []string
	SystemWeight       float64
}

func DefaultRequirements() map[string]SystemRequirement {
	return map[string]SystemRequirement{
		"metabolic": {
			CriticalBiomarkers: []string{"glucose", "hba1c"},
			OptionalBiomarkers: []string{"insulin"},
			SystemWeight:       0.25,
		},
		"cardiovascular": {
			CriticalBiomarkers: []string{"total_cholesterol", "ldl_cholesterol", "hdl_cholesterol"},
			OptionalBiomarkers: []string{"triglycerides"},
			SystemWeight:       0.25,
		},
		"inflammatory": {
			CriticalBiomarkers: []string{"crp"},
			OptionalBiomarkers: nil,
			SystemWeight:       0.15,
		},
		"hormonal": {
			CriticalBiomarkers: nil,
			OptionalBiomarkers: nil,
			SystemWeight:       0,
		},
		"nutritional": {
			CriticalBiomarkers: nil,
			OptionalBiomarkers: nil,
			SystemWeight:       0,
		},
		"kidney": {
			CriticalBiomarkers: []string{"creatinine"},
			OptionalBiomarkers: []string{"bun"},
			SystemWeight:       0.15,
		},
		"liver": {
			CriticalBiomarkers: []string{"alt"},
			OptionalBiomarkers: []string{"ast"},
			SystemWeight:       0.1,
		},
		"cbc": {
			CriticalBiomarkers: []string{"hemoglobin", "hematocrit"},
			OptionalBiomarkers: []string{"white_blood_cells", "platelets"},
			SystemWeight:       0.1,
		},
	}
}

// Package scoring implements per-biomarker scoring, per-system aggregation,
// overall aggregation, and the lifestyle overlay, per spec.md 4.3.
package scoring

import "github.com/biomarker-analysis-core/internal/domain"

func band(b domain.ScoreBand, min, max float64) domain.ScoreRangeBand {
	return domain.ScoreRangeBand{Band: b, Min: min, Max: max}
}

// standardBands builds the six declared bands in ascending-value order for
// a conventional "higher is worse" biomarker.
func standardBands(optimal, normal, borderline, high, veryHigh, critical [2]float64) []domain.ScoreRangeBand {
	return []domain.ScoreRangeBand{
		band(domain.ScoreBandOptimal, optimal[0], optimal[1]),
		band(domain.ScoreBandNormal, normal[0], normal[1]),
		band(domain.ScoreBandBorderline, borderline[0], borderline[1]),
		band(domain.ScoreBandHigh, high[0], high[1]),
		band(domain.ScoreBandVeryHigh, veryHigh[0], veryHigh[1]),
		band(domain.ScoreBandCritical, critical[0], critical[1]),
	}
}

// DefaultHealthSystemRules returns the built-in health-system rule set,
// grounded on original_source/core/scoring/rules.py's ScoringRules. Callers
// needing a different clinical rule set build their own
// map[string]domain.HealthSystemRules of the same shape.
func DefaultHealthSystemRules() map[string]domain.HealthSystemRules {
	return map[string]domain.HealthSystemRules{
		"metabolic": {
			System:                "metabolic",
			MinBiomarkersRequired: 2,
			SystemWeight:          0.25,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "glucose", Unit: "mg/dL", Weight: 0.4, AgeAdjustment: true,
					Bands: standardBands([2]float64{70, 100}, [2]float64{70, 100}, [2]float64{100, 125}, [2]float64{125, 200}, [2]float64{200, 300}, [2]float64{300, 1000}),
				},
				{
					CanonicalName: "hba1c", Unit: "%", Weight: 0.4, AgeAdjustment: true,
					Bands: standardBands([2]float64{4.0, 5.6}, [2]float64{4.0, 5.6}, [2]float64{5.7, 6.4}, [2]float64{6.5, 8.0}, [2]float64{8.0, 10.0}, [2]float64{10.0, 15.0}),
				},
				{
					CanonicalName: "insulin", Unit: "μU/mL", Weight: 0.2,
					Bands: standardBands([2]float64{2, 10}, [2]float64{2, 25}, [2]float64{25, 35}, [2]float64{35, 50}, [2]float64{50, 100}, [2]float64{100, 500}),
				},
			},
		},
		"cardiovascular": {
			System:                "cardiovascular",
			MinBiomarkersRequired: 3,
			SystemWeight:          0.25,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "total_cholesterol", Unit: "mg/dL", Weight: 0.2,
					Bands: standardBands([2]float64{0, 200}, [2]float64{0, 200}, [2]float64{200, 239}, [2]float64{240, 300}, [2]float64{300, 400}, [2]float64{400, 1000}),
				},
				{
					CanonicalName: "ldl_cholesterol", Unit: "mg/dL", Weight: 0.3,
					Bands: standardBands([2]float64{0, 100}, [2]float64{0, 100}, [2]float64{100, 129}, [2]float64{130, 159}, [2]float64{160, 189}, [2]float64{190, 500}),
				},
				{
					// Inverted: higher HDL is better, bands are declared in
					// descending-value order and matched that way.
					CanonicalName: "hdl_cholesterol", Unit: "mg/dL", Weight: 0.3, SexAdjustment: true, Inverted: true,
					Bands: standardBands([2]float64{60, 200}, [2]float64{40, 200}, [2]float64{35, 40}, [2]float64{20, 35}, [2]float64{10, 20}, [2]float64{0, 10}),
				},
				{
					CanonicalName: "triglycerides", Unit: "mg/dL", Weight: 0.2,
					Bands: standardBands([2]float64{0, 150}, [2]float64{0, 150}, [2]float64{150, 199}, [2]float64{200, 499}, [2]float64{500, 1000}, [2]float64{1000, 5000}),
				},
			},
		},
		"inflammatory": {
			System:                "inflammatory",
			MinBiomarkersRequired: 1,
			SystemWeight:          0.15,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "crp", Unit: "mg/L", Weight: 1.0,
					Bands: standardBands([2]float64{0, 1.0}, [2]float64{0, 3.0}, [2]float64{3.0, 10.0}, [2]float64{10.0, 50.0}, [2]float64{50.0, 100.0}, [2]float64{100.0, 500.0}),
				},
			},
		},
		"hormonal": {
			System:                "hormonal",
			MinBiomarkersRequired: 0,
			SystemWeight:          0,
			Rules:                 nil,
		},
		"nutritional": {
			System:                "nutritional",
			MinBiomarkersRequired: 0,
			SystemWeight:          0,
			Rules:                 nil,
		},
		"kidney": {
			System:                "kidney",
			MinBiomarkersRequired: 1,
			SystemWeight:          0.15,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "creatinine", Unit: "mg/dL", Weight: 0.6, AgeAdjustment: true, SexAdjustment: true,
					Bands: standardBands([2]float64{0.6, 1.2}, [2]float64{0.6, 1.2}, [2]float64{1.2, 1.5}, [2]float64{1.5, 2.0}, [2]float64{2.0, 3.0}, [2]float64{3.0, 10.0}),
				},
				{
					CanonicalName: "bun", Unit: "mg/dL", Weight: 0.4,
					Bands: standardBands([2]float64{7, 20}, [2]float64{7, 20}, [2]float64{20, 25}, [2]float64{25, 50}, [2]float64{50, 100}, [2]float64{100, 200}),
				},
			},
		},
		"liver": {
			System:                "liver",
			MinBiomarkersRequired: 1,
			SystemWeight:          0.1,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "alt", Unit: "U/L", Weight: 0.5, SexAdjustment: true,
					Bands: standardBands([2]float64{7, 56}, [2]float64{7, 56}, [2]float64{56, 100}, [2]float64{100, 200}, [2]float64{200, 500}, [2]float64{500, 2000}),
				},
				{
					CanonicalName: "ast", Unit: "U/L", Weight: 0.5,
					Bands: standardBands([2]float64{10, 40}, [2]float64{10, 40}, [2]float64{40, 80}, [2]float64{80, 200}, [2]float64{200, 500}, [2]float64{500, 2000}),
				},
			},
		},
		"cbc": {
			System:                "cbc",
			MinBiomarkersRequired: 2,
			SystemWeight:          0.1,
			Rules: []domain.BiomarkerRule{
				{
					CanonicalName: "hemoglobin", Unit: "g/dL", Weight: 0.4, SexAdjustment: true,
					Bands: standardBands([2]float64{12, 16}, [2]float64{12, 16}, [2]float64{10, 12}, [2]float64{16, 18}, [2]float64{18, 20}, [2]float64{20, 25}),
				},
				{
					CanonicalName: "hematocrit", Unit: "%", Weight: 0.3, SexAdjustment: true,
					Bands: standardBands([2]float64{36, 46}, [2]float64{36, 46}, [2]float64{30, 36}, [2]float64{46, 52}, [2]float64{52, 60}, [2]float64{60, 70}),
				},
				{
					CanonicalName: "white_blood_cells", Unit: "K/μL", Weight: 0.2,
					Bands: standardBands([2]float64{4.5, 11.0}, [2]float64{4.5, 11.0}, [2]float64{3.5, 4.5}, [2]float64{11.0, 15.0}, [2]float64{15.0, 25.0}, [2]float64{25.0, 50.0}),
				},
				{
					CanonicalName: "platelets", Unit: "K/μL", Weight: 0.1,
					Bands: standardBands([2]float64{150, 450}, [2]float64{150, 450}, [2]float64{100, 150}, [2]float64{450, 600}, [2]float64{600, 1000}, [2]float64{1000, 2000}),
				},
			},
		},
	}
}

// ruleIndex flattens the per-system rule sets into a lookup by canonical
// biomarker name plus the owning system, since a rule can only belong to
// one system in the default table.
func ruleIndex(systems map[string]domain.HealthSystemRules) map[string]struct {
	System string
	Rule   domain.BiomarkerRule
} {
	out := make(map[string]struct {
		System string
		Rule   domain.BiomarkerRule
	})
	for sysName, sys := range systems {
		for _, r := range sys.Rules {
			out[r.CanonicalName] = struct {
				System string
				Rule   domain.BiomarkerRule
			}{System: sysName, Rule: r}
		}
	}
	return out
}

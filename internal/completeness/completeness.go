package completeness

import "github.com/biomarker-analysis-core/internal/domain"

// SystemCompleteness is the per-health-system coverage outcome.
type SystemCompleteness struct {
	System              string
	CoveragePercentage  float64 // [0,1]
	MissingCritical     []string
	MissingOptional     []string
	Assessed            bool // false when coverage == 0 ("not assessed")
}

// Result is the overall CompletenessResult described in spec.md 4.2.
type Result struct {
	OverallScore      float64 // [0,1]
	Systems           map[string]SystemCompleteness
	MissingCritical   []string
	MissingOptional   []string
	ConfidenceLevel   domain.ConfidenceLevel
	AnalysisReady     bool
}

// Assessor computes completeness against a fixed requirements table.
type Assessor struct {
	requirements map[string]SystemRequirement
}

func NewAssessor(requirements map[string]SystemRequirement) *Assessor {
	return &Assessor{requirements: requirements}
}

func NewDefaultAssessor() *Assessor {
	return NewAssessor(DefaultRequirements())
}

// Assess computes per-system and overall completeness for panel, per
// spec.md 4.2's weighted definitions.
func (a *Assessor) Assess(panel domain.BiomarkerPanel) Result {
	systems := make(map[string]SystemCompleteness, len(a.requirements))
	var weightedSum, weightTotal float64
	var missingCritical, missingOptional []string
	anyWeightedCriticalMissing := false

	for sysName, req := range a.requirements {
		sc := assessSystem(sysName, req, panel)
		systems[sysName] = sc

		if req.SystemWeight > 0 {
			weightedSum += sc.CoveragePercentage * req.SystemWeight
			weightTotal += req.SystemWeight
			if sc.Assessed && len(sc.MissingCritical) > 0 {
				anyWeightedCriticalMissing = true
			}
		}
		missingCritical = append(missingCritical, sc.MissingCritical...)
		missingOptional = append(missingOptional, sc.MissingOptional...)
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = weightedSum / weightTotal
	}

	analysisReady := !anyWeightedCriticalMissing && overall >= 0.5

	confidence := domain.ConfidenceLow
	switch {
	case !anyWeightedCriticalMissing && overall >= 0.8:
		confidence = domain.ConfidenceHigh
	case overall >= 0.5:
		confidence = domain.ConfidenceMedium
	}

	return Result{
		OverallScore:    overall,
		Systems:         systems,
		MissingCritical: missingCritical,
		MissingOptional: missingOptional,
		ConfidenceLevel: confidence,
		AnalysisReady:   analysisReady,
	}
}

func assessSystem(sysName string, req SystemRequirement, panel domain.BiomarkerPanel) SystemCompleteness {
	var presentCritical, presentOptional []string
	var missingCritical, missingOptional []string

	for _, b := range req.CriticalBiomarkers {
		if panel.Has(b) {
			presentCritical = append(presentCritical, b)
		} else {
			missingCritical = append(missingCritical, b)
		}
	}
	for _, b := range req.OptionalBiomarkers {
		if panel.Has(b) {
			presentOptional = append(presentOptional, b)
		} else {
			missingOptional = append(missingOptional, b)
		}
	}

	totalCritical := float64(len(req.CriticalBiomarkers))
	totalOptional := float64(len(req.OptionalBiomarkers))
	denominator := totalCritical + 0.5*totalOptional

	coverage := 0.0
	if denominator > 0 {
		coverage = (float64(len(presentCritical)) + 0.5*float64(len(presentOptional))) / denominator
	}
	if coverage < 0 {
		coverage = 0
	}
	if coverage > 1 {
		coverage = 1
	}

	return SystemCompleteness{
		System:             sysName,
		CoveragePercentage: coverage,
		MissingCritical:    missingCritical,
		MissingOptional:    missingOptional,
		Assessed:           coverage > 0,
	}
}

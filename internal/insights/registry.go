package insights

import "github.com/biomarker-analysis-core/internal/domain"

// Module is the signature every insight module satisfies: total,
// deterministic, panel+profile in, InsightResult out.
type Module func(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult

// DefaultModules lists every registered insight module.
func DefaultModules() []Module {
	return []Module{
		MetabolicAge,
		HeartResilience,
		Inflammation,
		FatigueRootCause,
		DetoxFiltration,
	}
}

// RunAll executes every module against panel and profile, returning every
// result including degraded (MISSING_BIOMARKERS/CALCULATION_FAILED) ones so
// the orchestrator can report them.
func RunAll(modules []Module, panel domain.BiomarkerPanel, profile domain.UserProfile) []domain.InsightResult {
	results := make([]domain.InsightResult, 0, len(modules))
	for _, m := range modules {
		results = append(results, runSafely(m, panel, profile))
	}
	return results
}

// runSafely recovers from a panicking module so one broken insight never
// takes down the analysis run, converting the panic into a
// CALCULATION_FAILED result.
func runSafely(m Module, panel domain.BiomarkerPanel, profile domain.UserProfile) (result domain.InsightResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.InsightResult{
				ErrorCode: domain.InsightErrorCalculationFailed,
				Detail:    "insight module panicked during calculation",
			}
		}
	}()
	return m(panel, profile)
}

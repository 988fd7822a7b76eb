// Package insights implements the deterministic, total biomarker insight
// modules described in spec.md 4.5: each module reads the raw biomarker
// panel and demographic profile and always returns a domain.InsightResult,
// never an error.
package insights

import (
	"math"

	"github.com/biomarker-analysis-core/internal/domain"
)

func floatVal(panel domain.BiomarkerPanel, name string) (float64, bool) {
	v, ok := panel.Get(name)
	if !ok {
		return 0, false
	}
	return v.Value, true
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sexOrDefault(profile domain.UserProfile, fallback string) string {
	if profile.Sex == "" {
		return fallback
	}
	return profile.Sex
}

func missingResult(insightID, version string, missing []string) domain.InsightResult {
	detail := "missing required biomarkers: "
	for i, m := range missing {
		if i > 0 {
			detail += ", "
		}
		detail += m
	}
	return domain.InsightResult{
		InsightID: insightID,
		Version:   version,
		ErrorCode: domain.InsightErrorMissingBiomarkers,
		Detail:    detail,
	}
}

package insights

import "github.com/biomarker-analysis-core/internal/domain"

const (
	InflammationInsightID = "inflammation"
	InflammationVersion   = "v1.0.0"
)

// Inflammation assesses silent inflammatory burden from hs-CRP, the
// neutrophil/lymphocyte ratio, ferritin, and white blood cell count,
// grounded on original_source's InflammationInsight.
func Inflammation(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult {
	crp, hasCRP := floatVal(panel, "crp")
	if !hasCRP {
		return missingResult(InflammationInsightID, InflammationVersion, []string{"crp"})
	}

	wbc, hasWBC := floatVal(panel, "white_blood_cells")
	neutrophils, hasNeutrophils := floatVal(panel, "neutrophils")
	lymphocytes, hasLymphocytes := floatVal(panel, "lymphocytes")
	ferritin, hasFerritin := floatVal(panel, "ferritin")
	sex := sexOrDefault(profile, "male")

	var nlr float64
	hasNLR := false
	if hasNeutrophils && hasLymphocytes && lymphocytes > 0 {
		nlr = neutrophils / lymphocytes
		hasNLR = true
	}

	score := 0.0
	switch {
	case crp > 10.0:
		score += 40
	case crp > 3.0:
		score += 30
	case crp > 1.0:
		score += 20
	case crp > 0.3:
		score += 10
	}
	if hasNLR {
		switch {
		case nlr > 5.0:
			score += 25
		case nlr > 3.0:
			score += 20
		case nlr > 2.0:
			score += 10
		case nlr > 1.5:
			score += 5
		}
	}
	ferritinThreshold := 300.0
	if sex == "female" {
		ferritinThreshold = 200.0
	}
	if hasFerritin {
		switch {
		case ferritin > ferritinThreshold*2:
			score += 20
		case ferritin > ferritinThreshold:
			score += 15
		case ferritin > ferritinThreshold*0.7:
			score += 5
		}
	}
	if hasWBC {
		switch {
		case wbc > 12.0:
			score += 15
		case wbc > 10.0:
			score += 10
		case wbc > 8.0:
			score += 5
		}
	}
	burdenScore := clampScore(score)

	var riskFactors []string
	drivers := map[string]float64{}
	if crp > 1.0 {
		riskFactors = append(riskFactors, "elevated_crp")
		drivers["crp"] = round(crp, 2)
	}
	if hasNLR && nlr > 2.0 {
		riskFactors = append(riskFactors, "elevated_nlr")
		drivers["nlr"] = round(nlr, 2)
	}
	if hasFerritin && ferritin > ferritinThreshold {
		riskFactors = append(riskFactors, "elevated_ferritin")
		drivers["ferritin"] = round(ferritin, 1)
	}
	if hasWBC && wbc > 10.0 {
		riskFactors = append(riskFactors, "elevated_wbc")
		drivers["wbc"] = round(wbc, 1)
	}

	evidence := map[string]interface{}{
		"inflammation_burden_score": round(burdenScore, 1),
		"crp":                       round(crp, 2),
		"risk_factors":              riskFactors,
	}
	if hasNLR {
		evidence["nlr"] = round(nlr, 2)
	}
	if hasFerritin {
		evidence["ferritin"] = round(ferritin, 1)
	}
	if hasWBC {
		evidence["wbc"] = round(wbc, 1)
	}

	involved := []string{"crp"}
	for name, ok := range map[string]bool{
		"white_blood_cells": hasWBC, "neutrophils": hasNeutrophils,
		"lymphocytes": hasLymphocytes, "ferritin": hasFerritin,
	} {
		if ok {
			involved = append(involved, name)
		}
	}

	var nlrPtr *float64
	if hasNLR {
		nlrPtr = &nlr
	}

	return domain.InsightResult{
		InsightID:       InflammationInsightID,
		Version:         InflammationVersion,
		Biomarkers:      involved,
		Drivers:         drivers,
		Evidence:        evidence,
		Severity:        inflammationSeverity(burdenScore, crp, nlrPtr),
		Confidence:      inflammationConfidence(hasWBC, hasNeutrophils, hasLymphocytes, hasFerritin),
		Recommendations: inflammationRecommendations(riskFactors, crp),
	}
}

func inflammationSeverity(score, crp float64, nlr *float64) domain.Severity {
	highNLR := nlr != nil && *nlr > 5.0
	modNLR := nlr != nil && *nlr > 3.0
	lowNLR := nlr != nil && *nlr > 2.0
	switch {
	case score > 70 || crp > 10.0 || highNLR:
		return domain.SeverityCritical
	case score > 50 || crp > 3.0 || modNLR:
		return domain.SeverityHigh
	case score > 30 || crp > 1.0 || lowNLR:
		return domain.SeverityModerate
	case score > 10:
		return domain.SeverityMild
	default:
		return domain.SeverityNormal
	}
}

func inflammationConfidence(hasWBC, hasNeutrophils, hasLymphocytes, hasFerritin bool) float64 {
	optionalCount := 0
	for _, ok := range []bool{hasWBC, hasNeutrophils, hasLymphocytes, hasFerritin} {
		if ok {
			optionalCount++
		}
	}
	base := 0.8 + 0.1 // crp is always present here
	bonus := minFloat(float64(optionalCount)*0.05, 0.15)
	return minFloat(base+bonus, 0.95)
}

func inflammationRecommendations(riskFactors []string, crp float64) []string {
	has := make(map[string]bool, len(riskFactors))
	for _, r := range riskFactors {
		has[r] = true
	}
	var recs []string
	if has["elevated_crp"] {
		if crp > 3.0 {
			recs = append(recs, "Address high inflammation through anti-inflammatory diet and stress management")
		} else {
			recs = append(recs, "Focus on reducing mild inflammation through omega-3 supplementation and exercise")
		}
	}
	if has["elevated_nlr"] {
		recs = append(recs, "Support immune system through adequate sleep, stress reduction, and immune-supporting nutrients")
	}
	if has["elevated_ferritin"] {
		recs = append(recs, "Investigate ferritin elevation, which may indicate inflammation or iron overload")
	}
	if has["elevated_wbc"] {
		recs = append(recs, "Monitor for signs of infection or chronic inflammatory conditions")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current anti-inflammatory lifestyle to preserve low inflammation status")
	}
	return recs
}

package insights

import (
	"math"

	"github.com/biomarker-analysis-core/internal/domain"
)

const (
	DetoxFiltrationInsightID = "detox_filtration"
	DetoxFiltrationVersion   = "v1.0.0"
)

// DetoxFiltration scores liver and kidney filtration capacity from
// transaminases, bile markers, and renal function markers, grounded on
// original_source's DetoxFiltrationInsight.
func DetoxFiltration(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult {
	creatinine, hasCreatinine := floatVal(panel, "creatinine")
	if !hasCreatinine {
		return missingResult(DetoxFiltrationInsightID, DetoxFiltrationVersion, []string{"creatinine"})
	}

	alt, hasALT := floatVal(panel, "alt")
	ast, hasAST := floatVal(panel, "ast")
	ggt, hasGGT := floatVal(panel, "ggt")
	alp, hasALP := floatVal(panel, "alp")
	bilirubin, hasBilirubin := floatVal(panel, "bilirubin")
	egfr, hasEGFR := floatVal(panel, "egfr")
	bun, hasBUN := floatVal(panel, "bun")
	albumin, hasAlbumin := floatVal(panel, "albumin")

	age := 50.0
	if profile.Age != nil {
		age = float64(*profile.Age)
	}
	sex := sexOrDefault(profile, "male")

	liverScore := liverFunctionScore(alt, hasALT, ast, hasAST, ggt, hasGGT, alp, hasALP, bilirubin, hasBilirubin, albumin, hasAlbumin)
	kidneyScore := kidneyFunctionScore(creatinine, egfr, hasEGFR, bun, hasBUN, age, sex)
	overallScore := (liverScore + kidneyScore) / 2

	var riskFactors []string
	drivers := map[string]float64{}
	if hasALT && alt > 40 {
		riskFactors = append(riskFactors, "elevated_alt")
		drivers["alt"] = round(alt, 1)
	}
	if hasAST && ast > 40 {
		riskFactors = append(riskFactors, "elevated_ast")
		drivers["ast"] = round(ast, 1)
	}
	if hasGGT && ggt > 60 {
		riskFactors = append(riskFactors, "elevated_ggt")
		drivers["ggt"] = round(ggt, 1)
	}
	if hasALP && alp > 120 {
		riskFactors = append(riskFactors, "elevated_alp")
		drivers["alp"] = round(alp, 1)
	}
	if hasBilirubin && bilirubin > 1.2 {
		riskFactors = append(riskFactors, "elevated_bilirubin")
		drivers["bilirubin"] = round(bilirubin, 2)
	}
	if hasAlbumin && albumin < 3.5 {
		riskFactors = append(riskFactors, "low_albumin")
		drivers["albumin"] = round(albumin, 1)
	}
	if hasEGFR && egfr < 60 {
		riskFactors = append(riskFactors, "reduced_egfr")
		drivers["egfr"] = round(egfr, 1)
	}
	if creatinine > 1.2 {
		riskFactors = append(riskFactors, "elevated_creatinine")
		drivers["creatinine"] = round(creatinine, 2)
	}
	var bunCreatinineRatio float64
	hasRatio := false
	if hasBUN && creatinine > 0 {
		bunCreatinineRatio = bun / creatinine
		hasRatio = true
		if bunCreatinineRatio > 20 {
			riskFactors = append(riskFactors, "elevated_bun_creatinine_ratio")
			drivers["bun_creatinine_ratio"] = round(bunCreatinineRatio, 1)
		}
	}

	evidence := map[string]interface{}{
		"detox_filtration_score": round(overallScore, 1),
		"liver_score":            round(liverScore, 1),
		"kidney_score":           round(kidneyScore, 1),
		"creatinine":             round(creatinine, 2),
		"risk_factors":           riskFactors,
	}
	if hasALT {
		evidence["alt"] = round(alt, 1)
	}
	if hasAST {
		evidence["ast"] = round(ast, 1)
	}
	if hasGGT {
		evidence["ggt"] = round(ggt, 1)
	}
	if hasALP {
		evidence["alp"] = round(alp, 1)
	}
	if hasBilirubin {
		evidence["bilirubin"] = round(bilirubin, 2)
	}
	if hasEGFR {
		evidence["egfr"] = round(egfr, 1)
	}
	if hasBUN {
		evidence["bun"] = round(bun, 1)
	}
	if hasAlbumin {
		evidence["albumin"] = round(albumin, 1)
	}
	if hasRatio {
		evidence["bun_creatinine_ratio"] = round(bunCreatinineRatio, 1)
	}

	involved := []string{"creatinine"}
	for name, ok := range map[string]bool{
		"alt": hasALT, "ast": hasAST, "ggt": hasGGT, "alp": hasALP,
		"bilirubin": hasBilirubin, "egfr": hasEGFR, "bun": hasBUN, "albumin": hasAlbumin,
	} {
		if ok {
			involved = append(involved, name)
		}
	}

	return domain.InsightResult{
		InsightID:       DetoxFiltrationInsightID,
		Version:         DetoxFiltrationVersion,
		Biomarkers:      involved,
		Drivers:         drivers,
		Evidence:        evidence,
		Severity:        detoxSeverity(liverScore, kidneyScore, overallScore),
		Confidence:      detoxConfidence(hasALT, hasAST, hasGGT, hasALP, hasBilirubin, hasEGFR, hasBUN, hasAlbumin),
		Recommendations: detoxRecommendations(riskFactors),
	}
}

func liverFunctionScore(alt float64, hasALT bool, ast float64, hasAST bool, ggt float64, hasGGT bool, alp float64, hasALP bool, bilirubin float64, hasBilirubin bool, albumin float64, hasAlbumin bool) float64 {
	score := 100.0
	if hasALT {
		switch {
		case alt > 100:
			score -= 30
		case alt > 60:
			score -= 20
		case alt > 40:
			score -= 10
		}
	}
	if hasAST {
		switch {
		case ast > 100:
			score -= 30
		case ast > 60:
			score -= 20
		case ast > 40:
			score -= 10
		}
	}
	if hasGGT {
		switch {
		case ggt > 120:
			score -= 25
		case ggt > 80:
			score -= 15
		case ggt > 60:
			score -= 8
		}
	}
	if hasALP {
		switch {
		case alp > 200:
			score -= 20
		case alp > 150:
			score -= 12
		case alp > 120:
			score -= 6
		}
	}
	if hasBilirubin {
		switch {
		case bilirubin > 3.0:
			score -= 25
		case bilirubin > 2.0:
			score -= 15
		case bilirubin > 1.2:
			score -= 8
		}
	}
	if hasAlbumin {
		switch {
		case albumin < 2.5:
			score -= 20
		case albumin < 3.0:
			score -= 12
		case albumin < 3.5:
			score -= 6
		}
	}
	return clampScore(score)
}

func kidneyFunctionScore(creatinine float64, egfr float64, hasEGFR bool, bun float64, hasBUN bool, age float64, sex string) float64 {
	score := 100.0
	switch {
	case creatinine > 2.0:
		score -= 40
	case creatinine > 1.5:
		score -= 25
	case creatinine > 1.2:
		score -= 12
	}

	effectiveEGFR := egfr
	if !hasEGFR {
		effectiveEGFR = estimateEGFR(creatinine, age, sex)
	}
	switch {
	case effectiveEGFR < 30:
		score -= 40
	case effectiveEGFR < 45:
		score -= 25
	case effectiveEGFR < 60:
		score -= 12
	}

	if hasBUN && creatinine > 0 {
		ratio := bun / creatinine
		switch {
		case ratio > 30:
			score -= 15
		case ratio > 20:
			score -= 8
		}
	}
	return clampScore(score)
}

// estimateEGFR uses the simplified MDRD formula when eGFR wasn't measured.
func estimateEGFR(creatinine, age float64, sex string) float64 {
	genderFactor := 1.0
	if sex == "female" {
		genderFactor = 0.742
	}
	egfr := 175 * math.Pow(creatinine, -1.154) * math.Pow(age, -0.203) * genderFactor
	if egfr < 0 {
		return 0
	}
	if egfr > 200 {
		return 200
	}
	return egfr
}

func detoxSeverity(liverScore, kidneyScore, overallScore float64) domain.Severity {
	switch {
	case overallScore < 30 || liverScore < 30 || kidneyScore < 30:
		return domain.SeverityCritical
	case overallScore < 50 || liverScore < 50 || kidneyScore < 50:
		return domain.SeverityHigh
	case overallScore < 70 || liverScore < 70 || kidneyScore < 70:
		return domain.SeverityModerate
	case overallScore < 85:
		return domain.SeverityMild
	default:
		return domain.SeverityNormal
	}
}

func detoxConfidence(hasALT, hasAST, hasGGT, hasALP, hasBilirubin, hasEGFR, hasBUN, hasAlbumin bool) float64 {
	optionalCount := 0
	for _, ok := range []bool{hasALT, hasAST, hasGGT, hasALP, hasBilirubin, hasEGFR, hasBUN, hasAlbumin} {
		if ok {
			optionalCount++
		}
	}
	base := 0.7 + 0.2 // creatinine is always present here
	bonus := minFloat(float64(optionalCount)*0.05, 0.2)
	return minFloat(base+bonus, 0.95)
}

func detoxRecommendations(riskFactors []string) []string {
	has := make(map[string]bool, len(riskFactors))
	for _, r := range riskFactors {
		has[r] = true
	}
	var recs []string
	if has["elevated_alt"] || has["elevated_ast"] {
		recs = append(recs, "Support liver function through milk thistle, NAC, and reduced alcohol consumption")
	}
	if has["elevated_ggt"] || has["elevated_alp"] {
		recs = append(recs, "Address bile duct function through choleretic herbs and digestive support")
	}
	if has["elevated_bilirubin"] {
		recs = append(recs, "Support liver conjugation and bile excretion through targeted liver support")
	}
	if has["low_albumin"] {
		recs = append(recs, "Improve protein synthesis through adequate protein intake and liver support")
	}
	if has["reduced_egfr"] || has["elevated_creatinine"] {
		recs = append(recs, "Support kidney function through adequate hydration and kidney-supporting nutrients")
	}
	if has["elevated_bun_creatinine_ratio"] {
		recs = append(recs, "Address dehydration and kidney function through proper hydration")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current healthy lifestyle to preserve detox and filtration function")
	}
	return recs
}

package insights

import (
	"fmt"

	"github.com/biomarker-analysis-core/internal/domain"
)

const (
	HeartInsightID      = "heart_insight"
	HeartInsightVersion = "v1.0.0"
)

// HeartResilience scores cardiovascular risk from lipid ratios, ApoB,
// hs-CRP, and blood pressure, grounded on original_source's HeartInsight.
func HeartResilience(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult {
	totalChol, hasTotalChol := floatVal(panel, "total_cholesterol")
	hdlChol, hasHDL := floatVal(panel, "hdl_cholesterol")
	ldlChol, hasLDL := floatVal(panel, "ldl_cholesterol")

	var missing []string
	if !hasTotalChol {
		missing = append(missing, "total_cholesterol")
	}
	if !hasHDL {
		missing = append(missing, "hdl_cholesterol")
	}
	if !hasLDL {
		missing = append(missing, "ldl_cholesterol")
	}
	if len(missing) > 0 {
		return missingResult(HeartInsightID, HeartInsightVersion, missing)
	}

	triglycerides, hasTG := floatVal(panel, "triglycerides")
	crp, hasCRP := floatVal(panel, "crp")
	apob, hasApoB := floatVal(panel, "apob")
	systolic, hasSystolic := floatVal(panel, "systolic_bp")
	diastolic, hasDiastolic := floatVal(panel, "diastolic_bp")
	hasBP := hasSystolic && hasDiastolic

	ldlHDLRatio, tcHDLRatio := 0.0, 0.0
	if hdlChol > 0 {
		ldlHDLRatio = ldlChol / hdlChol
		tcHDLRatio = totalChol / hdlChol
	}
	var tgHDLRatio float64
	hasTGHDL := false
	if hasTG && hdlChol > 0 {
		tgHDLRatio = triglycerides / hdlChol
		hasTGHDL = true
	}

	score := 100.0
	switch {
	case ldlHDLRatio > 4.0:
		score -= 30
	case ldlHDLRatio > 3.5:
		score -= 20
	case ldlHDLRatio > 2.5:
		score -= 10
	case ldlHDLRatio > 2.0:
		score -= 5
	}
	switch {
	case tcHDLRatio > 5.0:
		score -= 25
	case tcHDLRatio > 4.0:
		score -= 15
	case tcHDLRatio > 3.5:
		score -= 8
	case tcHDLRatio > 3.0:
		score -= 3
	}
	if hasTGHDL {
		switch {
		case tgHDLRatio > 3.0:
			score -= 20
		case tgHDLRatio > 2.0:
			score -= 10
		case tgHDLRatio > 1.5:
			score -= 5
		}
	}
	if hasApoB {
		switch {
		case apob > 120:
			score -= 15
		case apob > 100:
			score -= 8
		case apob > 80:
			score -= 3
		}
	}
	if hasCRP {
		switch {
		case crp > 3.0:
			score -= 20
		case crp > 1.0:
			score -= 10
		case crp > 0.3:
			score -= 3
		}
	}
	if hasBP {
		switch {
		case systolic > 140 || diastolic > 90:
			score -= 15
		case systolic > 130 || diastolic > 85:
			score -= 8
		case systolic > 120 || diastolic > 80:
			score -= 3
		}
	}
	resilienceScore := clampScore(score)

	var riskFactors []string
	drivers := map[string]float64{}
	if ldlHDLRatio > 3.5 {
		riskFactors = append(riskFactors, "elevated_ldl_hdl_ratio")
		drivers["ldl_hdl_ratio"] = round(ldlHDLRatio, 2)
	}
	if tcHDLRatio > 4.0 {
		riskFactors = append(riskFactors, "elevated_tc_hdl_ratio")
		drivers["tc_hdl_ratio"] = round(tcHDLRatio, 2)
	}
	if hasTGHDL && tgHDLRatio > 2.0 {
		riskFactors = append(riskFactors, "elevated_tg_hdl_ratio")
		drivers["tg_hdl_ratio"] = round(tgHDLRatio, 2)
	}
	if hasApoB && apob > 100 {
		riskFactors = append(riskFactors, "elevated_apob")
		drivers["apob"] = round(apob, 1)
	}
	if hasCRP && crp > 1.0 {
		riskFactors = append(riskFactors, "elevated_crp")
		drivers["crp"] = round(crp, 2)
	}
	if hasBP && (systolic > 130 || diastolic > 85) {
		riskFactors = append(riskFactors, "elevated_bp")
	}

	evidence := map[string]interface{}{
		"heart_resilience_score": round(resilienceScore, 1),
		"ldl_hdl_ratio":          round(ldlHDLRatio, 2),
		"tc_hdl_ratio":           round(tcHDLRatio, 2),
		"risk_factors":           riskFactors,
	}
	if hasTGHDL {
		evidence["tg_hdl_ratio"] = round(tgHDLRatio, 2)
	}
	if hasApoB {
		evidence["apob"] = round(apob, 1)
	}
	if hasCRP {
		evidence["crp"] = round(crp, 2)
	}
	if hasBP {
		evidence["blood_pressure"] = fmt.Sprintf("%.0f/%.0f", systolic, diastolic)
	}

	involved := []string{"total_cholesterol", "hdl_cholesterol", "ldl_cholesterol"}
	for name, ok := range map[string]bool{
		"triglycerides": hasTG, "crp": hasCRP, "apob": hasApoB,
		"systolic_bp": hasSystolic, "diastolic_bp": hasDiastolic,
	} {
		if ok {
			involved = append(involved, name)
		}
	}

	return domain.InsightResult{
		InsightID:       HeartInsightID,
		Version:         HeartInsightVersion,
		Biomarkers:      involved,
		Drivers:         drivers,
		Evidence:        evidence,
		Severity:        heartSeverity(riskFactors),
		Confidence:      heartConfidence(hasTG, hasCRP, hasApoB, hasSystolic, hasDiastolic),
		Recommendations: heartRecommendations(riskFactors),
	}
}

func heartSeverity(riskFactors []string) domain.Severity {
	switch {
	case len(riskFactors) >= 4:
		return domain.SeverityCritical
	case len(riskFactors) >= 3:
		return domain.SeverityHigh
	case len(riskFactors) >= 2:
		return domain.SeverityModerate
	case len(riskFactors) >= 1:
		return domain.SeverityMild
	default:
		return domain.SeverityNormal
	}
}

func heartConfidence(hasTG, hasCRP, hasApoB, hasSystolic, hasDiastolic bool) float64 {
	optionalCount := 0
	for _, ok := range []bool{hasTG, hasCRP, hasApoB, hasSystolic, hasDiastolic} {
		if ok {
			optionalCount++
		}
	}
	base := 0.7 + 3*0.1 // three required biomarkers are always present here
	bonus := minFloat(float64(optionalCount)*0.05, 0.2)
	return minFloat(base+bonus, 0.95)
}

func heartRecommendations(riskFactors []string) []string {
	has := make(map[string]bool, len(riskFactors))
	for _, r := range riskFactors {
		has[r] = true
	}
	var recs []string
	if has["elevated_ldl_hdl_ratio"] {
		recs = append(recs, "Focus on reducing LDL cholesterol through statin therapy or dietary modifications")
	}
	if has["elevated_tc_hdl_ratio"] {
		recs = append(recs, "Improve lipid profile through Mediterranean diet and regular exercise")
	}
	if has["elevated_tg_hdl_ratio"] {
		recs = append(recs, "Address metabolic dysfunction through low-carb diet and weight management")
	}
	if has["elevated_apob"] {
		recs = append(recs, "Consider advanced lipid testing and particle therapy if available")
	}
	if has["elevated_crp"] {
		recs = append(recs, "Address systemic inflammation through anti-inflammatory diet and stress management")
	}
	if has["elevated_bp"] {
		recs = append(recs, "Implement lifestyle modifications for blood pressure control")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current cardiovascular health through regular exercise and heart-healthy diet")
	}
	return recs
}

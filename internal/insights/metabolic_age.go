package insights

import (
	"github.com/biomarker-analysis-core/internal/domain"
)

const (
	MetabolicAgeInsightID = "metabolic_age"
	MetabolicAgeVersion   = "v1.0.0"
)

// MetabolicAge estimates biological age from insulin resistance (HOMA-IR),
// HbA1c, and lipid ratios, grounded on original_source's MetabolicAgeInsight.
func MetabolicAge(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult {
	glucose, okGlucose := floatVal(panel, "glucose")
	hba1c, okHba1c := floatVal(panel, "hba1c")
	insulin, okInsulin := floatVal(panel, "insulin")

	var missing []string
	if !okGlucose {
		missing = append(missing, "glucose")
	}
	if !okHba1c {
		missing = append(missing, "hba1c")
	}
	if !okInsulin {
		missing = append(missing, "insulin")
	}
	if profile.Age == nil {
		missing = append(missing, "age")
	}
	if len(missing) > 0 {
		return missingResult(MetabolicAgeInsightID, MetabolicAgeVersion, missing)
	}
	age := float64(*profile.Age)

	homaIR := 0.0
	if glucose > 0 && insulin > 0 {
		homaIR = (glucose * insulin) / 405.0
	}

	totalChol, hasTotalChol := floatVal(panel, "total_cholesterol")
	hdlChol, hasHDL := floatVal(panel, "hdl_cholesterol")
	triglycerides, hasTG := floatVal(panel, "triglycerides")
	bmi, hasBMI := floatVal(panel, "bmi")
	waist, hasWaist := floatVal(panel, "waist_circumference")
	height, hasHeight := floatVal(panel, "height")

	var tcHDLRatio, tgHDLRatio, waistHeightRatio float64
	hasTCHDL, hasTGHDL, hasWHR := false, false, false
	if hasTotalChol && hasHDL && hdlChol > 0 {
		tcHDLRatio = totalChol / hdlChol
		hasTCHDL = true
	}
	if hasTG && hasHDL && hdlChol > 0 {
		tgHDLRatio = triglycerides / hdlChol
		hasTGHDL = true
	}
	if hasWaist && hasHeight && height > 0 {
		waistHeightRatio = waist / height
		hasWHR = true
	}

	ageAdjustment := 0.0
	switch {
	case homaIR > 4.0:
		ageAdjustment += 8
	case homaIR > 2.5:
		ageAdjustment += 4
	case homaIR > 1.5:
		ageAdjustment += 1
	}
	switch {
	case hba1c > 6.5:
		ageAdjustment += 6
	case hba1c > 5.7:
		ageAdjustment += 3
	case hba1c > 5.4:
		ageAdjustment += 1
	}
	if hasTCHDL && tcHDLRatio > 4.0 {
		ageAdjustment += 3
	} else if hasTCHDL && tcHDLRatio > 3.5 {
		ageAdjustment += 1
	}
	if hasTGHDL && tgHDLRatio > 2.0 {
		ageAdjustment += 2
	}
	if hasBMI && bmi > 30 {
		ageAdjustment += 3
	} else if hasBMI && bmi > 25 {
		ageAdjustment += 1
	}
	if hasWHR && waistHeightRatio > 0.5 {
		ageAdjustment += 2
	}

	metabolicAge := age + ageAdjustment // never below chronological age
	delta := metabolicAge - age

	severity := metabolicAgeSeverity(delta, homaIR, hba1c)
	confidence := metabolicAgeConfidence(okGlucose, okHba1c, okInsulin, profile.Age != nil,
		hasTotalChol, hasHDL, hasTG, hasBMI, hasWaist)

	drivers := map[string]float64{}
	if homaIR > 2.5 {
		drivers["homa_ir"] = round(homaIR, 2)
	}
	if hba1c > 5.7 {
		drivers["hba1c"] = round(hba1c, 1)
	}
	if hasTCHDL && tcHDLRatio > 3.5 {
		drivers["tc_hdl_ratio"] = round(tcHDLRatio, 2)
	}
	if hasTGHDL && tgHDLRatio > 2.0 {
		drivers["tg_hdl_ratio"] = round(tgHDLRatio, 2)
	}
	if hasBMI && bmi > 25 {
		drivers["bmi"] = round(bmi, 1)
	}
	if hasWHR && waistHeightRatio > 0.5 {
		drivers["waist_height_ratio"] = round(waistHeightRatio, 2)
	}

	evidence := map[string]interface{}{
		"metabolic_age":      round(metabolicAge, 1),
		"chronological_age":  age,
		"age_delta":          round(delta, 1),
		"homa_ir":            round(homaIR, 2),
		"hba1c":              round(hba1c, 1),
	}
	if hasTCHDL {
		evidence["tc_hdl_ratio"] = round(tcHDLRatio, 2)
	}
	if hasTGHDL {
		evidence["tg_hdl_ratio"] = round(tgHDLRatio, 2)
	}
	if hasBMI {
		evidence["bmi"] = round(bmi, 1)
	}
	if hasWHR {
		evidence["waist_height_ratio"] = round(waistHeightRatio, 2)
	}

	involved := []string{"glucose", "hba1c", "insulin", "age"}
	for name, ok := range map[string]bool{
		"total_cholesterol": hasTotalChol, "hdl_cholesterol": hasHDL,
		"triglycerides": hasTG, "bmi": hasBMI, "waist_circumference": hasWaist,
	} {
		if ok {
			involved = append(involved, name)
		}
	}

	return domain.InsightResult{
		InsightID:       MetabolicAgeInsightID,
		Version:         MetabolicAgeVersion,
		Biomarkers:      involved,
		Drivers:         drivers,
		Evidence:        evidence,
		Severity:        severity,
		Confidence:      confidence,
		Recommendations: metabolicAgeRecommendations(homaIR, hba1c, hasTCHDL, tcHDLRatio, hasTGHDL, tgHDLRatio, hasBMI, bmi, hasWHR, waistHeightRatio),
	}
}

func metabolicAgeSeverity(delta, homaIR, hba1c float64) domain.Severity {
	switch {
	case delta > 10 || homaIR > 4.0 || hba1c > 6.5:
		return domain.SeverityCritical
	case delta > 5 || homaIR > 2.5 || hba1c > 5.7:
		return domain.SeverityHigh
	case delta > 2 || homaIR > 1.5 || hba1c > 5.4:
		return domain.SeverityModerate
	case delta > 0:
		return domain.SeverityMild
	default:
		return domain.SeverityNormal
	}
}

func metabolicAgeConfidence(hasGlucose, hasHba1c, hasInsulin, hasAge, hasTotalChol, hasHDL, hasTG, hasBMI, hasWaist bool) float64 {
	requiredCount := 0
	for _, ok := range []bool{hasGlucose, hasHba1c, hasInsulin, hasAge} {
		if ok {
			requiredCount++
		}
	}
	optionalCount := 0
	for _, ok := range []bool{hasTotalChol, hasHDL, hasTG, hasBMI, hasWaist} {
		if ok {
			optionalCount++
		}
	}
	base := 0.6 + float64(requiredCount)*0.1
	bonus := minFloat(float64(optionalCount)*0.05, 0.2)
	return minFloat(base+bonus, 0.95)
}

func metabolicAgeRecommendations(homaIR, hba1c float64, hasTCHDL bool, tcHDLRatio float64, hasTGHDL bool, tgHDLRatio float64, hasBMI bool, bmi float64, hasWHR bool, whr float64) []string {
	var recs []string
	if homaIR > 2.5 {
		recs = append(recs, "Focus on insulin sensitivity through low-carb diet and regular exercise")
	}
	if hba1c > 5.7 {
		recs = append(recs, "Consider glucose monitoring and dietary modifications to improve HbA1c")
	}
	if hasTCHDL && tcHDLRatio > 4.0 {
		recs = append(recs, "Address lipid profile through dietary changes and cardiovascular exercise")
	}
	if hasTGHDL && tgHDLRatio > 2.0 {
		recs = append(recs, "Reduce refined carbohydrates and increase omega-3 fatty acids")
	}
	if hasBMI && bmi > 25 {
		recs = append(recs, "Implement sustainable weight management through caloric deficit and strength training")
	}
	if hasWHR && whr > 0.5 {
		recs = append(recs, "Focus on reducing visceral fat through targeted exercise and diet")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current healthy lifestyle to preserve metabolic health")
	}
	return recs
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

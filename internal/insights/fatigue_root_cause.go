package insights

import "github.com/biomarker-analysis-core/internal/domain"

const (
	FatigueRootCauseInsightID = "fatigue_root_cause"
	FatigueRootCauseVersion   = "v1.0.0"
)

// FatigueRootCause screens for the most common drivers of fatigue: iron
// deficiency, thyroid dysfunction, B12/folate deficiency, inflammatory
// fatigue, and cortisol dysregulation, grounded on original_source's
// FatigueRootCauseInsight.
func FatigueRootCause(panel domain.BiomarkerPanel, profile domain.UserProfile) domain.InsightResult {
	ferritin, hasFerritin := floatVal(panel, "ferritin")
	if !hasFerritin {
		return missingResult(FatigueRootCauseInsightID, FatigueRootCauseVersion, []string{"ferritin"})
	}

	transferrinSat, hasTransferrinSat := floatVal(panel, "transferrin_saturation")
	b12, hasB12 := floatVal(panel, "b12")
	folate, hasFolate := floatVal(panel, "folate")
	tsh, hasTSH := floatVal(panel, "tsh")
	ft4, hasFT4 := floatVal(panel, "ft4")
	ft3, hasFT3 := floatVal(panel, "ft3")
	cortisol, hasCortisol := floatVal(panel, "cortisol")
	crp, hasCRP := floatVal(panel, "crp")
	sex := sexOrDefault(profile, "female")

	var rootCauses []string
	drivers := map[string]float64{}
	evidence := map[string]interface{}{}

	ironDeficient, ironStatus := assessIronDeficiency(ferritin, transferrinSat, hasTransferrinSat, sex, drivers, evidence)
	if ironDeficient {
		rootCauses = append(rootCauses, "iron_deficiency")
	}

	thyroidType, thyroidStatus := assessThyroidFunction(tsh, hasTSH, ft4, hasFT4, ft3, hasFT3, drivers, evidence)
	if thyroidType != "" {
		rootCauses = append(rootCauses, thyroidType)
	}

	vitaminDeficient, vitaminStatus := assessVitaminDeficiencies(b12, hasB12, folate, hasFolate, drivers, evidence)
	if vitaminDeficient {
		rootCauses = append(rootCauses, "vitamin_deficiency")
	}

	inflammatoryPresent, inflammationStatus := assessInflammatoryFatigue(crp, hasCRP, drivers, evidence)
	if inflammatoryPresent {
		rootCauses = append(rootCauses, "inflammatory_fatigue")
	}

	cortisolType, cortisolStatus := assessCortisolDysregulation(cortisol, hasCortisol, drivers, evidence)
	if cortisolType != "" {
		rootCauses = append(rootCauses, cortisolType)
	}

	evidence["root_causes"] = rootCauses
	evidence["iron_status"] = ironStatus
	evidence["thyroid_status"] = thyroidStatus
	evidence["vitamin_status"] = vitaminStatus
	evidence["inflammation_status"] = inflammationStatus
	evidence["cortisol_status"] = cortisolStatus

	involved := []string{"ferritin"}
	for name, ok := range map[string]bool{
		"transferrin_saturation": hasTransferrinSat, "b12": hasB12, "folate": hasFolate,
		"tsh": hasTSH, "ft4": hasFT4, "ft3": hasFT3, "cortisol": hasCortisol, "crp": hasCRP,
	} {
		if ok {
			involved = append(involved, name)
		}
	}

	return domain.InsightResult{
		InsightID:       FatigueRootCauseInsightID,
		Version:         FatigueRootCauseVersion,
		Biomarkers:      involved,
		Drivers:         drivers,
		Evidence:        evidence,
		Severity:        fatigueSeverity(len(rootCauses)),
		Confidence:      fatigueConfidence(hasTransferrinSat, hasB12, hasFolate, hasTSH, hasFT4, hasFT3, hasCortisol, hasCRP),
		Recommendations: fatigueRecommendations(rootCauses),
	}
}

func assessIronDeficiency(ferritin, transferrinSat float64, hasTransferrinSat bool, sex string, drivers map[string]float64, evidence map[string]interface{}) (bool, string) {
	threshold := 12.0
	if sex == "male" {
		threshold = 15.0
	}
	deficient := false
	status := "normal"
	if ferritin < threshold {
		deficient = true
		status = "deficient"
		drivers["ferritin"] = round(ferritin, 1)
		evidence["ferritin"] = round(ferritin, 1)
		evidence["ferritin_threshold"] = threshold
	} else if ferritin < threshold*2 {
		status = "low_normal"
		drivers["ferritin"] = round(ferritin, 1)
		evidence["ferritin"] = round(ferritin, 1)
	}
	if hasTransferrinSat && transferrinSat < 20 {
		deficient = true
		status = "deficient"
		drivers["transferrin_saturation"] = round(transferrinSat, 1)
		evidence["transferrin_saturation"] = round(transferrinSat, 1)
	}
	return deficient, status
}

func assessThyroidFunction(tsh float64, hasTSH bool, ft4 float64, hasFT4 bool, ft3 float64, hasFT3 bool, drivers map[string]float64, evidence map[string]interface{}) (string, string) {
	dysfunctionType := ""
	status := "normal"

	if hasTSH {
		switch {
		case tsh > 4.5:
			dysfunctionType, status = "hypothyroidism", "hypothyroid"
			drivers["tsh"] = round(tsh, 2)
		case tsh < 0.4:
			dysfunctionType, status = "hyperthyroidism", "hyperthyroid"
			drivers["tsh"] = round(tsh, 2)
		}
		evidence["tsh"] = round(tsh, 2)
	}
	if hasFT4 {
		switch {
		case ft4 < 0.8:
			dysfunctionType, status = "hypothyroidism", "hypothyroid"
			drivers["ft4"] = round(ft4, 2)
		case ft4 > 1.8:
			dysfunctionType, status = "hyperthyroidism", "hyperthyroid"
			drivers["ft4"] = round(ft4, 2)
		}
		evidence["ft4"] = round(ft4, 2)
	}
	if hasFT3 {
		switch {
		case ft3 < 2.3:
			dysfunctionType, status = "hypothyroidism", "hypothyroid"
			drivers["ft3"] = round(ft3, 2)
		case ft3 > 4.2:
			dysfunctionType, status = "hyperthyroidism", "hyperthyroid"
			drivers["ft3"] = round(ft3, 2)
		}
		evidence["ft3"] = round(ft3, 2)
	}
	return dysfunctionType, status
}

func assessVitaminDeficiencies(b12 float64, hasB12 bool, folate float64, hasFolate bool, drivers map[string]float64, evidence map[string]interface{}) (bool, string) {
	deficient := false
	status := "normal"
	if hasB12 {
		switch {
		case b12 < 200:
			deficient, status = true, "deficient"
			drivers["b12"] = round(b12, 1)
		case b12 < 300:
			status = "low_normal"
			drivers["b12"] = round(b12, 1)
		}
		evidence["b12"] = round(b12, 1)
	}
	if hasFolate {
		switch {
		case folate < 4:
			deficient, status = true, "deficient"
			drivers["folate"] = round(folate, 1)
		case folate < 7:
			status = "low_normal"
			drivers["folate"] = round(folate, 1)
		}
		evidence["folate"] = round(folate, 1)
	}
	return deficient, status
}

func assessInflammatoryFatigue(crp float64, hasCRP bool, drivers map[string]float64, evidence map[string]interface{}) (bool, string) {
	if !hasCRP {
		return false, "normal"
	}
	present := false
	status := "normal"
	switch {
	case crp > 3.0:
		present, status = true, "high_inflammation"
		drivers["crp"] = round(crp, 2)
	case crp > 1.0:
		present, status = true, "moderate_inflammation"
		drivers["crp"] = round(crp, 2)
	}
	evidence["crp"] = round(crp, 2)
	return present, status
}

func assessCortisolDysregulation(cortisol float64, hasCortisol bool, drivers map[string]float64, evidence map[string]interface{}) (string, string) {
	if !hasCortisol {
		return "", "normal"
	}
	dysregulationType := ""
	status := "normal"
	switch {
	case cortisol < 5:
		dysregulationType, status = "adrenal_insufficiency", "low_cortisol"
		drivers["cortisol"] = round(cortisol, 1)
	case cortisol > 25:
		dysregulationType, status = "hypercortisolism", "high_cortisol"
		drivers["cortisol"] = round(cortisol, 1)
	}
	evidence["cortisol"] = round(cortisol, 1)
	return dysregulationType, status
}

func fatigueSeverity(count int) domain.Severity {
	switch {
	case count >= 3:
		return domain.SeverityCritical
	case count >= 2:
		return domain.SeverityHigh
	case count >= 1:
		return domain.SeverityModerate
	default:
		return domain.SeverityNormal
	}
}

func fatigueConfidence(hasTransferrinSat, hasB12, hasFolate, hasTSH, hasFT4, hasFT3, hasCortisol, hasCRP bool) float64 {
	optionalCount := 0
	for _, ok := range []bool{hasTransferrinSat, hasB12, hasFolate, hasTSH, hasFT4, hasFT3, hasCortisol, hasCRP} {
		if ok {
			optionalCount++
		}
	}
	base := 0.6 + 0.2 // ferritin is always present here
	bonus := minFloat(float64(optionalCount)*0.05, 0.3)
	return minFloat(base+bonus, 0.95)
}

func fatigueRecommendations(rootCauses []string) []string {
	has := make(map[string]bool, len(rootCauses))
	for _, c := range rootCauses {
		has[c] = true
	}
	var recs []string
	if has["iron_deficiency"] {
		recs = append(recs, "Address iron deficiency through iron supplementation and dietary modifications")
	}
	if has["hypothyroidism"] || has["hyperthyroidism"] {
		recs = append(recs, "Consult with a healthcare provider for thyroid function evaluation and potential treatment")
	}
	if has["vitamin_deficiency"] {
		recs = append(recs, "Address vitamin deficiencies through targeted supplementation")
	}
	if has["inflammatory_fatigue"] {
		recs = append(recs, "Address underlying inflammation through anti-inflammatory diet and lifestyle modifications")
	}
	if has["adrenal_insufficiency"] {
		recs = append(recs, "Support adrenal function through stress management and adaptogenic herbs")
	}
	if has["hypercortisolism"] {
		recs = append(recs, "Address cortisol dysregulation through stress management and lifestyle modifications")
	}
	if len(recs) == 0 {
		recs = append(recs, "Maintain current healthy lifestyle to prevent fatigue development")
	}
	return recs
}

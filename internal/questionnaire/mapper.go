// Package questionnaire maps raw questionnaire responses into the
// LifestyleProfile and MedicalHistory inputs the scoring and insight
// engines consume, per spec.md 4.6 step 3 and SPEC_FULL.md section C.
package questionnaire

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Responses is a raw questionnaire submission keyed by question id. Values
// are whatever the intake layer decoded from JSON: strings, numbers,
// []interface{} for checkbox questions, or map[string]interface{} for
// composite questions (height, weight).
type Responses map[string]interface{}

// ExtendedLifestyle carries every lifestyle factor the questionnaire
// captures. Scoring only consumes the embedded LifestyleProfile; the three
// extra fields exist for recommendation and LLM-synthesis consumption.
type ExtendedLifestyle struct {
	domain.LifestyleProfile
	SedentaryHoursPerDay float64
	CaffeineDrinksPerDay int
	FluidIntakeLiters    float64
}

// MedicalProfile is the full medical history the questionnaire recovers,
// including the QRISK®3 cardiovascular risk flags used by recommendation
// and LLM synthesis. ToDomain narrows it to the four flags of
// domain.MedicalHistory.
type MedicalProfile struct {
	Conditions     []string
	Medications    []string
	FamilyHistory  []string
	Supplements    []string
	SleepDisorders []string
	Allergies      []string

	AtrialFibrillation     bool
	RheumatoidArthritis    bool
	SystemicLupus          bool
	Corticosteroids        bool
	AtypicalAntipsychotics bool
	HIVTreatments          bool
	Migraines              bool
}

// ToDomain derives the narrow domain.MedicalHistory from the richer
// questionnaire-mapped profile.
func (m MedicalProfile) ToDomain() domain.MedicalHistory {
	return domain.MedicalHistory{
		Diabetes:              containsFold(m.Conditions, "diabetes"),
		Hypertension:          containsFold(m.Conditions, "hypertension") || containsFold(m.Conditions, "high blood pressure"),
		CardiovascularDisease: m.AtrialFibrillation || containsFold(m.Conditions, "cardiovascular") || containsFold(m.Conditions, "heart disease"),
		FamilyHistory:         len(m.FamilyHistory) > 0,
	}
}

// Demographics holds the overrides a questionnaire submission contributes
// to a UserProfile: age derived from date of birth, sex, height, weight,
// and ethnicity.
type Demographics struct {
	Age       *int
	Sex       string
	HeightCM  *float64
	WeightKG  *float64
	Ethnicity string
}

// Mapper converts questionnaire responses into lifestyle, medical history,
// and demographic data, logging non-fatal warnings when a response value
// doesn't match the known schema rather than failing the analysis.
type Mapper struct {
	log *logrus.Logger
}

// NewMapper builds a Mapper. A nil logger falls back to logrus.StandardLogger.
func NewMapper(log *logrus.Logger) *Mapper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Mapper{log: log}
}

// MapLifestyle maps the lifestyle-related questions into an ExtendedLifestyle.
func (m *Mapper) MapLifestyle(r Responses) ExtendedLifestyle {
	return ExtendedLifestyle{
		LifestyleProfile: domain.LifestyleProfile{
			DietLevel:              m.mapDietLevel(r),
			SleepHours:             m.mapSleepHours(r),
			ExerciseMinutesPerWeek: float64(m.mapExerciseMinutes(r)),
			AlcoholUnitsPerWeek:    float64(m.mapAlcoholConsumption(r)),
			SmokingStatus:          m.mapSmokingStatus(r),
			StressLevel:            m.mapStressLevel(r),
		},
		SedentaryHoursPerDay: m.mapSedentaryHours(r),
		CaffeineDrinksPerDay: m.mapCaffeineConsumption(r),
		FluidIntakeLiters:    m.mapFluidIntake(r),
	}
}

// MapMedicalHistory maps the medical-history and QRISK®3 questions into a
// MedicalProfile.
func (m *Mapper) MapMedicalHistory(r Responses) MedicalProfile {
	profile := MedicalProfile{
		Conditions:     m.parseCheckbox(r["chronic_conditions"]),
		Medications:    m.parseCheckbox(r["current_medications"]),
		Supplements:    m.parseCheckbox(r["supplements"]),
		SleepDisorders: m.parseCheckbox(r["sleep_disorders"]),
		Allergies:      m.parseCheckbox(r["food_sensitivities"]),
	}

	for _, key := range []string{"family_cardiovascular_disease", "family_diabetes_metabolic", "family_cancer_history", "family_lifespan"} {
		profile.FamilyHistory = append(profile.FamilyHistory, m.parseCheckbox(r[key])...)
	}

	profile.AtrialFibrillation = checkQRISKCondition(r, "medical_conditions", "Atrial fibrillation")
	profile.RheumatoidArthritis = checkQRISKCondition(r, "medical_conditions", "Rheumatoid arthritis")
	profile.SystemicLupus = checkQRISKCondition(r, "medical_conditions", "Systemic lupus erythematosus (SLE)")
	profile.Corticosteroids = checkQRISKCondition(r, "long_term_medications", "Corticosteroids")
	profile.AtypicalAntipsychotics = checkQRISKCondition(r, "long_term_medications", "Atypical antipsychotics")
	profile.HIVTreatments = checkQRISKCondition(r, "long_term_medications", "HIV/AIDS treatments")
	profile.Migraines = checkQRISKCondition(r, "regular_migraines", "Yes")

	return profile
}

// MapDemographics extracts the demographic overrides a submission
// contributes, computing age from date of birth as of asOf.
func (m *Mapper) MapDemographics(r Responses, asOf time.Time) Demographics {
	var d Demographics

	if raw, ok := r["date_of_birth"]; ok {
		if dob, ok := parseDate(raw); ok {
			age := ageAt(dob, asOf)
			d.Age = &age
		} else {
			m.log.WithField("value", raw).Warn("questionnaire: unparseable date_of_birth, age left unset")
		}
	}

	if raw, ok := r["biological_sex"].(string); ok {
		d.Sex = strings.ToLower(raw)
	}

	if height, ok := r["height"].(map[string]interface{}); ok {
		if cm, ok := heightToCM(height); ok {
			d.HeightCM = &cm
		} else {
			m.log.WithField("value", height).Warn("questionnaire: unrecognized height response shape")
		}
	}

	if weight, ok := r["weight"].(map[string]interface{}); ok {
		if kg, ok := weightToKG(weight); ok {
			d.WeightKG = &kg
		} else {
			m.log.WithField("value", weight).Warn("questionnaire: unrecognized weight response shape")
		}
	}

	if raw, ok := r["ethnicity"].(string); ok {
		d.Ethnicity = raw
	}

	return d
}

func (m *Mapper) mapDietLevel(r Responses) domain.LifestyleLevel {
	score := 0

	if pattern, ok := r["dietary_pattern"].(string); ok {
		switch pattern {
		case "Mediterranean", "Plant-based":
			score += 2
		case "Low-carb/Keto", "Intermittent fasting":
			score += 1
		case "None":
		default:
			m.log.WithField("dietary_pattern", pattern).Warn("questionnaire: unrecognized dietary_pattern response")
		}
	}

	if servings, ok := r["fruit_vegetable_servings"].(string); ok {
		switch servings {
		case "6+ servings":
			score += 2
		case "4-5 servings":
			score += 1
		case "2-3 servings":
		case "0-1 servings":
			score -= 1
		default:
			m.log.WithField("fruit_vegetable_servings", servings).Warn("questionnaire: unrecognized fruit_vegetable_servings response")
		}
	}

	if beverages, ok := r["sugar_beverages_weekly"].(string); ok {
		switch beverages {
		case "None":
			score += 1
		case "1-3 drinks":
		case "4-7 drinks":
			score -= 1
		case "8-14 drinks", "15+ drinks":
			score -= 2
		default:
			m.log.WithField("sugar_beverages_weekly", beverages).Warn("questionnaire: unrecognized sugar_beverages_weekly response")
		}
	}

	return lifestyleLevelFromScore(score, 4, 2, 0, -2)
}

func (m *Mapper) mapSleepHours(r Responses) float64 {
	if v, ok := r["sleep_hours_nightly"].(string); ok {
		switch v {
		case "Less than 5 hours":
			return 4.5
		case "5-6 hours":
			return 5.5
		case "7-8 hours":
			return 7.5
		case "9+ hours":
			return 9.0
		default:
			m.log.WithField("sleep_hours_nightly", v).Warn("questionnaire: unrecognized sleep_hours_nightly response")
		}
	}
	return 7.0
}

func (m *Mapper) mapExerciseMinutes(r Responses) int {
	total := 0

	if v, ok := r["vigorous_exercise_days"].(string); ok {
		switch v {
		case "4+ days":
			total += 120
		case "3 days":
			total += 90
		case "2 days":
			total += 60
		case "1 day":
			total += 30
		case "0 days", "None":
		default:
			m.log.WithField("vigorous_exercise_days", v).Warn("questionnaire: unrecognized vigorous_exercise_days response")
		}
	}

	if v, ok := r["resistance_training_days"].(string); ok {
		switch v {
		case "3+ days":
			total += 90
		case "2 days":
			total += 60
		case "1 day":
			total += 30
		case "0 days", "None":
		default:
			m.log.WithField("resistance_training_days", v).Warn("questionnaire: unrecognized resistance_training_days response")
		}
	}

	return total
}

func (m *Mapper) mapAlcoholConsumption(r Responses) int {
	consumption, ok := r["alcohol_drinks_weekly"].(string)
	if !ok {
		consumption, ok = r["alcohol_consumption"].(string)
	}
	if !ok || consumption == "" {
		return 5
	}

	switch consumption {
	case "None":
		return 0
	case "1-3 drinks":
		return 2
	case "4-7 drinks":
		return 5
	case "8-14 drinks":
		return 11
	case "15+ drinks":
		return 20
	default:
		m.log.WithField("alcohol_consumption", consumption).Warn("questionnaire: unrecognized alcohol consumption response")
		return 5
	}
}

func (m *Mapper) mapSmokingStatus(r Responses) domain.SmokingStatus {
	status, ok := r["tobacco_use"].(string)
	if !ok {
		status, ok = r["smoking_status"].(string)
	}
	if !ok || status == "" {
		return domain.SmokingNever
	}

	switch strings.ToLower(status) {
	case "never used", "never":
		return domain.SmokingNever
	case "former user quit >1 year", "former user quit <1 year", "former":
		return domain.SmokingFormer
	case "occasional use", "daily use", "current":
		return domain.SmokingCurrent
	default:
		m.log.WithField("smoking_status", status).Warn("questionnaire: unrecognized smoking status response")
		return domain.SmokingNever
	}
}

func (m *Mapper) mapStressLevel(r Responses) domain.LifestyleLevel {
	score := 0

	if rating, ok := numericValue(r["stress_level_rating"]); ok {
		switch {
		case rating <= 3:
			score += 2
		case rating <= 5:
			score += 1
		case rating <= 7:
		case rating <= 9:
			score -= 1
		default:
			score -= 2
		}
	}

	if control, ok := r["stress_control_frequency"].(string); ok {
		switch control {
		case "Never":
			score += 1
		case "Almost never":
		case "Sometimes":
			score -= 1
		case "Fairly often", "Very often":
			score -= 2
		default:
			m.log.WithField("stress_control_frequency", control).Warn("questionnaire: unrecognized stress_control_frequency response")
		}
	}

	if stressors, ok := r["major_life_stressors"].(string); ok {
		switch stressors {
		case "No major stressors":
			score += 1
		case "1 major stressor":
		case "2-3 major stressors":
			score -= 1
		case "4+ major stressors":
			score -= 2
		default:
			m.log.WithField("major_life_stressors", stressors).Warn("questionnaire: unrecognized major_life_stressors response")
		}
	}

	return lifestyleLevelFromScore(score, 3, 1, -1, -3)
}

func (m *Mapper) mapSedentaryHours(r Responses) float64 {
	if v, ok := r["sitting_hours_daily"].(string); ok {
		switch v {
		case "Less than 4 hours":
			return 3.0
		case "4-6 hours":
			return 5.0
		case "7-9 hours":
			return 8.0
		case "10-12 hours":
			return 11.0
		case "13+ hours":
			return 14.0
		default:
			m.log.WithField("sitting_hours_daily", v).Warn("questionnaire: unrecognized sitting_hours_daily response")
		}
	}
	return 8.0
}

func (m *Mapper) mapCaffeineConsumption(r Responses) int {
	if v, ok := r["caffeine_beverages_daily"].(string); ok {
		switch v {
		case "None":
			return 0
		case "1-2":
			return 1
		case "3-4":
			return 3
		case "5-6":
			return 5
		case "7+":
			return 8
		default:
			m.log.WithField("caffeine_beverages_daily", v).Warn("questionnaire: unrecognized caffeine_beverages_daily response")
		}
	}
	return 2
}

func (m *Mapper) mapFluidIntake(r Responses) float64 {
	if v, ok := r["daily_fluid_intake"].(string); ok {
		switch v {
		case "Less than 1 litre":
			return 0.5
		case "1-2 litres":
			return 1.5
		case "2-3 litres":
			return 2.5
		case "More than 3 litres":
			return 3.5
		default:
			m.log.WithField("daily_fluid_intake", v).Warn("questionnaire: unrecognized daily_fluid_intake response")
		}
	}
	return 2.0
}

func (m *Mapper) parseCheckbox(v interface{}) []string {
	switch value := v.(type) {
	case []string:
		return value
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if value == "" {
			return nil
		}
		return []string{value}
	default:
		return nil
	}
}

// lifestyleLevelFromScore bands a raw score against four descending
// thresholds into a LifestyleLevel, mirroring the diet and stress mappers'
// shared excellent/good/average/poor/very_poor ladder.
func lifestyleLevelFromScore(score int, excellent, good, average, poor int) domain.LifestyleLevel {
	switch {
	case score >= excellent:
		return domain.LifestyleExcellent
	case score >= good:
		return domain.LifestyleGood
	case score >= average:
		return domain.LifestyleAverage
	case score >= poor:
		return domain.LifestylePoor
	default:
		return domain.LifestyleVeryPoor
	}
}

func checkQRISKCondition(r Responses, questionID, condition string) bool {
	v, ok := r[questionID]
	if !ok {
		return false
	}
	switch value := v.(type) {
	case []interface{}:
		for _, item := range value {
			if s, ok := item.(string); ok && s == condition {
				return true
			}
		}
	case []string:
		for _, s := range value {
			if s == condition {
				return true
			}
		}
	case string:
		return value == condition
	}
	return false
}

func containsFold(items []string, needle string) bool {
	for _, item := range items {
		if strings.Contains(strings.ToLower(item), needle) {
			return true
		}
	}
	return false
}

func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func heightToCM(height map[string]interface{}) (float64, bool) {
	if cm, ok := numericValue(height["Height (cm)"]); ok {
		return cm, true
	}
	feet, feetOK := numericValue(height["Feet"])
	inches, inchesOK := numericValue(height["Inches"])
	if feetOK || inchesOK {
		return (feet*12 + inches) * 2.54, true
	}
	return 0, false
}

func weightToKG(weight map[string]interface{}) (float64, bool) {
	if kg, ok := numericValue(weight["Weight (kg)"]); ok {
		return kg, true
	}
	if lbs, ok := numericValue(weight["Weight (lbs)"]); ok {
		return lbs * 0.453592, true
	}
	return 0, false
}

var dobLayouts = []string{"2006-01-02", time.RFC3339, "01/02/2006"}

func parseDate(raw interface{}) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ageAt(dob, asOf time.Time) int {
	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

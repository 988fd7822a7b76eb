package questionnaire

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func testMapper() *Mapper {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return NewMapper(log)
}

func TestMapLifestyle(t *testing.T) {
	m := testMapper()

	t.Run("excellent diet and stress score from favorable responses", func(t *testing.T) {
		r := Responses{
			"dietary_pattern":           "Mediterranean",
			"fruit_vegetable_servings":  "6+ servings",
			"sugar_beverages_weekly":    "None",
			"stress_level_rating":       float64(2),
			"stress_control_frequency":  "Never",
			"major_life_stressors":      "No major stressors",
			"sleep_hours_nightly":       "7-8 hours",
			"vigorous_exercise_days":    "4+ days",
			"resistance_training_days": "3+ days",
			"alcohol_drinks_weekly":     "None",
			"tobacco_use":               "Never used",
		}

		lifestyle := m.MapLifestyle(r)

		assert.Equal(t, domain.LifestyleExcellent, lifestyle.DietLevel)
		assert.Equal(t, domain.LifestyleExcellent, lifestyle.StressLevel)
		assert.Equal(t, 7.5, lifestyle.SleepHours)
		assert.Equal(t, float64(210), lifestyle.ExerciseMinutesPerWeek)
		assert.Equal(t, float64(0), lifestyle.AlcoholUnitsPerWeek)
		assert.Equal(t, domain.SmokingNever, lifestyle.SmokingStatus)
	})

	t.Run("very poor diet and stress from unfavorable responses", func(t *testing.T) {
		r := Responses{
			"dietary_pattern":          "None",
			"fruit_vegetable_servings": "0-1 servings",
			"sugar_beverages_weekly":   "15+ drinks",
			"stress_level_rating":      float64(10),
			"stress_control_frequency": "Very often",
			"major_life_stressors":     "4+ major stressors",
		}

		lifestyle := m.MapLifestyle(r)

		assert.Equal(t, domain.LifestyleVeryPoor, lifestyle.DietLevel)
		assert.Equal(t, domain.LifestyleVeryPoor, lifestyle.StressLevel)
	})

	t.Run("missing responses fall back to documented defaults", func(t *testing.T) {
		lifestyle := m.MapLifestyle(Responses{})

		assert.Equal(t, domain.LifestyleAverage, lifestyle.DietLevel)
		assert.Equal(t, 7.0, lifestyle.SleepHours)
		assert.Equal(t, float64(0), lifestyle.ExerciseMinutesPerWeek)
		assert.Equal(t, float64(5), lifestyle.AlcoholUnitsPerWeek)
		assert.Equal(t, domain.SmokingNever, lifestyle.SmokingStatus)
		assert.Equal(t, 8.0, lifestyle.SedentaryHoursPerDay)
		assert.Equal(t, 2, lifestyle.CaffeineDrinksPerDay)
		assert.Equal(t, 2.0, lifestyle.FluidIntakeLiters)
	})

	t.Run("legacy smoking_status field name is honored", func(t *testing.T) {
		lifestyle := m.MapLifestyle(Responses{"smoking_status": "Current"})
		assert.Equal(t, domain.SmokingCurrent, lifestyle.SmokingStatus)
	})
}

func TestMapMedicalHistory(t *testing.T) {
	m := testMapper()

	t.Run("collects checkbox conditions and QRISK flags", func(t *testing.T) {
		r := Responses{
			"chronic_conditions":              []interface{}{"Diabetes", "Hypertension"},
			"family_cardiovascular_disease":    []interface{}{"Father - heart attack"},
			"medical_conditions":               []interface{}{"Atrial fibrillation", "Rheumatoid arthritis"},
			"long_term_medications":            "Corticosteroids",
			"regular_migraines":                "Yes",
		}

		profile := m.MapMedicalHistory(r)

		assert.ElementsMatch(t, []string{"Diabetes", "Hypertension"}, profile.Conditions)
		assert.ElementsMatch(t, []string{"Father - heart attack"}, profile.FamilyHistory)
		assert.True(t, profile.AtrialFibrillation)
		assert.True(t, profile.RheumatoidArthritis)
		assert.True(t, profile.Corticosteroids)
		assert.True(t, profile.Migraines)
		assert.False(t, profile.HIVTreatments)
	})

	t.Run("ToDomain narrows to the scoring-relevant fields", func(t *testing.T) {
		profile := MedicalProfile{
			Conditions:         []string{"Type 2 Diabetes"},
			FamilyHistory:      []string{"Mother - breast cancer"},
			AtrialFibrillation: true,
		}

		history := profile.ToDomain()

		assert.True(t, history.Diabetes)
		assert.True(t, history.CardiovascularDisease)
		assert.True(t, history.FamilyHistory)
		assert.False(t, history.Hypertension)
	})

	t.Run("absent responses yield an empty profile", func(t *testing.T) {
		profile := m.MapMedicalHistory(Responses{})
		assert.Empty(t, profile.Conditions)
		assert.False(t, profile.AtrialFibrillation)
	})
}

func TestMapDemographics(t *testing.T) {
	m := testMapper()
	asOf := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("computes age from date of birth", func(t *testing.T) {
		d := m.MapDemographics(Responses{"date_of_birth": "1990-08-02"}, asOf)
		require.NotNil(t, d.Age)
		assert.Equal(t, 35, *d.Age)
	})

	t.Run("birthday already passed this year counts the completed year", func(t *testing.T) {
		d := m.MapDemographics(Responses{"date_of_birth": "1990-01-15"}, asOf)
		require.NotNil(t, d.Age)
		assert.Equal(t, 36, *d.Age)
	})

	t.Run("converts feet and inches to centimeters", func(t *testing.T) {
		d := m.MapDemographics(Responses{
			"height": map[string]interface{}{"Feet": float64(5), "Inches": float64(10)},
		}, asOf)
		require.NotNil(t, d.HeightCM)
		assert.InDelta(t, 177.8, *d.HeightCM, 0.01)
	})

	t.Run("converts pounds to kilograms", func(t *testing.T) {
		d := m.MapDemographics(Responses{
			"weight": map[string]interface{}{"Weight (lbs)": float64(154)},
		}, asOf)
		require.NotNil(t, d.WeightKG)
		assert.InDelta(t, 69.85, *d.WeightKG, 0.01)
	})

	t.Run("unparseable date of birth leaves age unset", func(t *testing.T) {
		d := m.MapDemographics(Responses{"date_of_birth": "not a date"}, asOf)
		assert.Nil(t, d.Age)
	})
}

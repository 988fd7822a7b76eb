package scoring

import (
	"fmt"

	"github.com/biomarker-analysis-core/internal/domain"
)

// lifestyleFactor captures one factor's per-level multiplier and the
// human-readable description surfaced in ScoringResult.LifestyleAdjustments,
// grounded on original_source/core/scoring/overlays.py's LifestyleOverlays.
type lifestyleFactor struct {
	label       string
	multipliers map[domain.LifestyleLevel]float64
	descriptions map[domain.LifestyleLevel]string
}

var dietFactor = lifestyleFactor{
	label: "Diet",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.1, domain.LifestyleGood: 1.05, domain.LifestyleAverage: 1.0,
		domain.LifestylePoor: 0.9, domain.LifestyleVeryPoor: 0.8,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "Excellent diet (Mediterranean, whole foods, minimal processed)",
		domain.LifestyleGood:      "Good diet (mostly whole foods, limited processed)",
		domain.LifestyleAverage:   "Average diet (mixed whole and processed foods)",
		domain.LifestylePoor:      "Poor diet (mostly processed foods, high sugar/fat)",
		domain.LifestyleVeryPoor:  "Very poor diet (fast food, high sugar, minimal nutrients)",
	},
}

var sleepFactor = lifestyleFactor{
	label: "Sleep",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.1, domain.LifestyleGood: 1.05, domain.LifestyleAverage: 1.0,
		domain.LifestylePoor: 0.9, domain.LifestyleVeryPoor: 0.8,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "7-9 hours quality sleep consistently",
		domain.LifestyleGood:      "6-8 hours sleep, mostly consistent",
		domain.LifestyleAverage:   "5-7 hours sleep, somewhat inconsistent",
		domain.LifestylePoor:      "4-6 hours sleep, often inconsistent",
		domain.LifestyleVeryPoor:  "<4 hours sleep, very inconsistent",
	},
}

var exerciseFactor = lifestyleFactor{
	label: "Exercise",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.1, domain.LifestyleGood: 1.05, domain.LifestyleAverage: 1.0,
		domain.LifestylePoor: 0.9, domain.LifestyleVeryPoor: 0.8,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "300+ minutes moderate exercise per week",
		domain.LifestyleGood:      "150-300 minutes moderate exercise per week",
		domain.LifestyleAverage:   "75-150 minutes moderate exercise per week",
		domain.LifestylePoor:      "<75 minutes moderate exercise per week",
		domain.LifestyleVeryPoor:  "Minimal to no exercise",
	},
}

var alcoholFactor = lifestyleFactor{
	label: "Alcohol",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.05, domain.LifestyleGood: 1.0, domain.LifestyleAverage: 0.95,
		domain.LifestylePoor: 0.9, domain.LifestyleVeryPoor: 0.8,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "No alcohol consumption",
		domain.LifestyleGood:      "1-7 units per week (moderate)",
		domain.LifestyleAverage:   "8-14 units per week",
		domain.LifestylePoor:      "15-21 units per week (heavy)",
		domain.LifestyleVeryPoor:  "22+ units per week (excessive)",
	},
}

var smokingFactor = lifestyleFactor{
	label: "Smoking",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.0, domain.LifestyleGood: 0.95, domain.LifestyleVeryPoor: 0.7,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "Never smoked",
		domain.LifestyleGood:      "Former smoker",
		domain.LifestyleVeryPoor:  "Current smoker",
	},
}

var stressFactor = lifestyleFactor{
	label: "Stress",
	multipliers: map[domain.LifestyleLevel]float64{
		domain.LifestyleExcellent: 1.05, domain.LifestyleGood: 1.0, domain.LifestyleAverage: 0.95,
		domain.LifestylePoor: 0.9, domain.LifestyleVeryPoor: 0.8,
	},
	descriptions: map[domain.LifestyleLevel]string{
		domain.LifestyleExcellent: "Low stress, good coping mechanisms",
		domain.LifestyleGood:      "Moderate stress, adequate coping",
		domain.LifestyleAverage:   "Moderate-high stress, some coping",
		domain.LifestylePoor:      "High stress, poor coping",
		domain.LifestyleVeryPoor:  "Very high stress, minimal coping",
	},
}

func sleepLevel(hours float64) domain.LifestyleLevel {
	switch {
	case hours >= 7.0:
		return domain.LifestyleExcellent
	case hours >= 6.0:
		return domain.LifestyleGood
	case hours >= 5.0:
		return domain.LifestyleAverage
	case hours >= 4.0:
		return domain.LifestylePoor
	default:
		return domain.LifestyleVeryPoor
	}
}

func exerciseLevel(minutes float64) domain.LifestyleLevel {
	switch {
	case minutes >= 300:
		return domain.LifestyleExcellent
	case minutes >= 150:
		return domain.LifestyleGood
	case minutes >= 75:
		return domain.LifestyleAverage
	case minutes > 0:
		return domain.LifestylePoor
	default:
		return domain.LifestyleVeryPoor
	}
}

func alcoholLevel(units float64) domain.LifestyleLevel {
	switch {
	case units == 0:
		return domain.LifestyleExcellent
	case units <= 7:
		return domain.LifestyleGood
	case units <= 14:
		return domain.LifestyleAverage
	case units <= 21:
		return domain.LifestylePoor
	default:
		return domain.LifestyleVeryPoor
	}
}

func smokingLevel(status domain.SmokingStatus) domain.LifestyleLevel {
	switch status {
	case domain.SmokingNever:
		return domain.LifestyleExcellent
	case domain.SmokingFormer:
		return domain.LifestyleGood
	default:
		return domain.LifestyleVeryPoor
	}
}

// ApplyLifestyleOverlay multiplies base by all six lifestyle adjustment
// factors in sequence, clamping the final result to [0, 100], per spec.md
// 4.3.
func ApplyLifestyleOverlay(base float64, profile domain.LifestyleProfile) (float64, []string) {
	adjusted := base
	var descriptions []string

	apply := func(f lifestyleFactor, level domain.LifestyleLevel) {
		mult, ok := f.multipliers[level]
		if !ok {
			mult = 1.0
		}
		adjusted *= mult
		descriptions = append(descriptions, fmt.Sprintf("%s: %s", f.label, f.descriptions[level]))
	}

	apply(dietFactor, profile.DietLevel)
	apply(sleepFactor, sleepLevel(profile.SleepHours))
	apply(exerciseFactor, exerciseLevel(profile.ExerciseMinutesPerWeek))
	apply(alcoholFactor, alcoholLevel(profile.AlcoholUnitsPerWeek))
	apply(smokingFactor, smokingLevel(profile.SmokingStatus))
	apply(stressFactor, profile.StressLevel)

	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 100 {
		adjusted = 100
	}
	return adjusted, descriptions
}

// LifestyleRecommendations mirrors
// original_source's get_lifestyle_recommendations.
func LifestyleRecommendations(profile domain.LifestyleProfile) []string {
	var recs []string
	if profile.DietLevel == domain.LifestylePoor || profile.DietLevel == domain.LifestyleVeryPoor {
		recs = append(recs, "Improve diet quality by reducing processed foods and increasing whole foods")
	}
	if profile.SleepHours < 6.0 {
		recs = append(recs, "Aim for 7-9 hours of quality sleep per night")
	}
	if profile.ExerciseMinutesPerWeek < 150 {
		recs = append(recs, "Increase physical activity to at least 150 minutes of moderate exercise per week")
	}
	if profile.AlcoholUnitsPerWeek > 14 {
		recs = append(recs, "Reduce alcohol consumption to moderate levels (1-7 units per week)")
	}
	if profile.SmokingStatus == domain.SmokingCurrent {
		recs = append(recs, "Consider smoking cessation programs for significant health benefits")
	}
	if profile.StressLevel == domain.LifestylePoor || profile.StressLevel == domain.LifestyleVeryPoor {
		recs = append(recs, "Develop stress management techniques like meditation, yoga, or counseling")
	}
	return recs
}

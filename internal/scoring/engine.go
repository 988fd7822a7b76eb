package scoring

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/domain"
)

// ageAdjustedBiomarkers and sexAdjustedBiomarkers enumerate which
// biomarkers the simplified adjustment multipliers apply to, per spec.md
// 4.3 and original_source's ScoringRules._apply_adjustments.
var ageAdjustedBiomarkers = map[string]bool{"glucose": true, "creatinine": true}

const (
	femaleLowerFactor = 0.9 // hemoglobin, hematocrit
	femaleHigherFactor = 1.1 // hdl_cholesterol
)

var femaleLowerBiomarkers = map[string]bool{"hemoglobin": true, "hematocrit": true}
var femaleHigherBiomarkers = map[string]bool{"hdl_cholesterol": true}

// Engine computes per-biomarker scores, per-system aggregates, overall
// scores, and applies the lifestyle overlay.
type Engine struct {
	systems map[string]domain.HealthSystemRules
	index   map[string]struct {
		System string
		Rule   domain.BiomarkerRule
	}
	log *logrus.Logger
}

func NewEngine(systems map[string]domain.HealthSystemRules, log *logrus.Logger) *Engine {
	return &Engine{systems: systems, index: ruleIndex(systems), log: log}
}

func NewDefaultEngine(log *logrus.Logger) *Engine {
	return NewEngine(DefaultHealthSystemRules(), log)
}

// adjustValue applies spec.md 4.3's age/sex multipliers ahead of band
// matching.
func adjustValue(value float64, rule domain.BiomarkerRule, age *int, sex string) float64 {
	adjusted := value
	if rule.AgeAdjustment && age != nil && *age > 65 && ageAdjustedBiomarkers[rule.CanonicalName] {
		adjusted *= 1.1
	}
	if rule.SexAdjustment && strings.EqualFold(sex, "female") {
		switch {
		case femaleLowerBiomarkers[rule.CanonicalName]:
			adjusted *= femaleLowerFactor
		case femaleHigherBiomarkers[rule.CanonicalName]:
			adjusted *= femaleHigherFactor
		}
	}
	return adjusted
}

// matchBand walks a rule's declared bands in order and returns the first
// whose closed interval contains value; biomarker value exactly on a
// boundary shared by two declared bands resolves to whichever is declared
// first (spec.md 8's half-closed-interval boundary rule), falling back to
// critical when nothing matches.
func matchBand(value float64, rule domain.BiomarkerRule) domain.ScoreBand {
	for _, b := range rule.Bands {
		if value >= b.Min && value <= b.Max {
			return b.Band
		}
	}
	return domain.ScoreBandCritical
}

// CalculateBiomarkerScore scores one biomarker value against its rule,
// returning the discrete score and resolved band. A biomarker with no
// registered rule scores 0/critical, matching original_source's fallback.
func (e *Engine) CalculateBiomarkerScore(name string, value float64, age *int, sex string) (float64, domain.ScoreBand, bool) {
	entry, ok := e.index[name]
	if !ok {
		return 0, domain.ScoreBandCritical, false
	}
	adjusted := adjustValue(value, entry.Rule, age, sex)
	bandName := matchBand(adjusted, entry.Rule)
	return bandName.Score(), bandName, true
}

// ScoreAll scores every biomarker present in panel that has a registered
// rule, aggregates per health system, computes the overall score, and — if
// lifestyle is non-nil — applies the lifestyle overlay to the overall
// score (spec.md 4.6 step 4).
func (e *Engine) ScoreAll(panel domain.BiomarkerPanel, age *int, sex string, lifestyle *domain.LifestyleProfile) domain.ScoringResult {
	systemScores := make(map[string]domain.HealthSystemScore, len(e.systems))

	for sysName, sysRules := range e.systems {
		systemScores[sysName] = e.scoreSystem(sysName, sysRules, panel, age, sex)
	}

	overallScore, overallConfidence := e.aggregateOverall(systemScores)

	var overallMissing []string
	seenMissing := make(map[string]struct{})
	for _, sys := range systemScores {
		for _, m := range sys.MissingBiomarkers {
			if _, ok := seenMissing[m]; !ok {
				seenMissing[m] = struct{}{}
				overallMissing = append(overallMissing, m)
			}
		}
	}

	var recommendations []string
	for sysName, sys := range systemScores {
		if sys.Confidence == domain.ConfidenceLow && len(sys.MissingBiomarkers) > 0 {
			recommendations = append(recommendations, "Consider testing "+strings.Join(sys.MissingBiomarkers, ", ")+" to improve "+sysName+" assessment")
		}
	}

	var overlayDescriptions []string
	if lifestyle != nil {
		overallScore, overlayDescriptions = ApplyLifestyleOverlay(overallScore, *lifestyle)
		overallScore = round1(overallScore)
		recommendations = append(recommendations, LifestyleRecommendations(*lifestyle)...)
	}

	return domain.ScoringResult{
		OverallScore:         overallScore,
		OverallConfidence:    overallConfidence,
		Systems:              systemScores,
		MissingBiomarkers:    overallMissing,
		Recommendations:      recommendations,
		LifestyleAdjustments: overlayDescriptions,
	}
}

func (e *Engine) scoreSystem(sysName string, sysRules domain.HealthSystemRules, panel domain.BiomarkerPanel, age *int, sex string) domain.HealthSystemScore {
	var scores []domain.BiomarkerScore
	var missing []string
	var weightedSum, weightTotal float64
	optimalOrNormal, critical := 0, 0

	for _, rule := range sysRules.Rules {
		val, ok := panel.Get(rule.CanonicalName)
		if !ok {
			missing = append(missing, rule.CanonicalName)
			continue
		}
		scoreVal, bandName, _ := e.CalculateBiomarkerScore(rule.CanonicalName, val.Value, age, sex)
		confidence := domain.ConfidenceHigh
		scores = append(scores, domain.BiomarkerScore{
			Name:       rule.CanonicalName,
			RawValue:   val.Value,
			Score:      scoreVal,
			Band:       bandName,
			Confidence: confidence,
		})
		weightedSum += scoreVal * rule.Weight
		weightTotal += rule.Weight
		if bandName == domain.ScoreBandOptimal || bandName == domain.ScoreBandNormal {
			optimalOrNormal++
		}
		if bandName == domain.ScoreBandCritical {
			critical++
		}
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = weightedSum / weightTotal
	}

	confidence := systemConfidence(len(scores), sysRules.MinBiomarkersRequired, optimalOrNormal, critical)

	return domain.HealthSystemScore{
		System:            sysName,
		OverallScore:      round1(overall),
		Confidence:        confidence,
		BiomarkerScores:   scores,
		MissingBiomarkers: missing,
	}
}

// systemConfidence implements spec.md 4.3's per-system confidence rule:
// high if >=80% optimal/normal with <20% critical, medium if mixed, low
// otherwise or below the minimum required count.
func systemConfidence(scored, minRequired, optimalOrNormal, critical int) domain.ConfidenceLevel {
	if scored == 0 || scored < minRequired {
		return domain.ConfidenceLow
	}
	optimalRatio := float64(optimalOrNormal) / float64(scored)
	criticalRatio := float64(critical) / float64(scored)
	if optimalRatio >= 0.8 && criticalRatio < 0.2 {
		return domain.ConfidenceHigh
	}
	if criticalRatio >= 0.5 {
		return domain.ConfidenceLow
	}
	return domain.ConfidenceMedium
}

// aggregateOverall computes the system_weight-weighted average across
// systems that have data, excluding zero-score (no-data) systems from both
// numerator and denominator (spec.md 4.3).
func (e *Engine) aggregateOverall(systems map[string]domain.HealthSystemScore) (float64, domain.ConfidenceLevel) {
	var weightedSum, weightTotal float64
	highConfidenceCount, consideredCount := 0, 0

	for sysName, sys := range systems {
		rules, ok := e.systems[sysName]
		if !ok || rules.SystemWeight <= 0 {
			continue
		}
		if sys.OverallScore == 0 && len(sys.BiomarkerScores) == 0 {
			continue
		}
		weightedSum += sys.OverallScore * rules.SystemWeight
		weightTotal += rules.SystemWeight
		consideredCount++
		if sys.Confidence == domain.ConfidenceHigh {
			highConfidenceCount++
		}
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = weightedSum / weightTotal
	}

	confidence := domain.ConfidenceLow
	if consideredCount > 0 {
		highRatio := float64(highConfidenceCount) / float64(consideredCount)
		switch {
		case highRatio >= 0.6:
			confidence = domain.ConfidenceHigh
		case highRatio >= 0.3:
			confidence = domain.ConfidenceMedium
		}
	}

	return round1(overall), confidence
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

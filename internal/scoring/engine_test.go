package scoring

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func testScoringLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func panelWith(t *testing.T, values map[string]float64, canonicalSet map[string]struct{}) domain.BiomarkerPanel {
	t.Helper()
	bv := make(map[string]domain.BiomarkerValue, len(values))
	for name, v := range values {
		bv[name] = domain.BiomarkerValue{Name: name, Value: v}
	}
	panel, err := domain.NewBiomarkerPanel(bv, canonicalSet)
	require.NoError(t, err)
	return panel
}

func metabolicCanonicalSet() map[string]struct{} {
	return map[string]struct{}{"glucose": {}, "hba1c": {}, "insulin": {}}
}

func TestEngine_CalculateBiomarkerScore_MatchesDeclaredBand(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())

	score, band, ok := engine.CalculateBiomarkerScore("glucose", 90, nil, "")
	require.True(t, ok)
	assert.Equal(t, domain.ScoreBandOptimal, band)
	assert.Equal(t, 100.0, score)

	score, band, ok = engine.CalculateBiomarkerScore("glucose", 150, nil, "")
	require.True(t, ok)
	assert.Equal(t, domain.ScoreBandHigh, band)
	assert.Equal(t, 50.0, score)
}

func TestEngine_CalculateBiomarkerScore_UnknownBiomarkerScoresCritical(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())

	score, band, ok := engine.CalculateBiomarkerScore("unobtainium", 1, nil, "")
	assert.False(t, ok)
	assert.Equal(t, domain.ScoreBandCritical, band)
	assert.Equal(t, 0.0, score)
}

func TestEngine_CalculateBiomarkerScore_AgeAdjustmentShiftsBand(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())
	age := 70

	_, unadjustedBand, _ := engine.CalculateBiomarkerScore("glucose", 114, nil, "")
	_, adjustedBand, _ := engine.CalculateBiomarkerScore("glucose", 114, &age, "")

	assert.Equal(t, domain.ScoreBandBorderline, unadjustedBand)
	assert.Equal(t, domain.ScoreBandHigh, adjustedBand)
}

func TestEngine_CalculateBiomarkerScore_SexAdjustmentLowersFemaleHemoglobin(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())

	_, maleBand, _ := engine.CalculateBiomarkerScore("hemoglobin", 13.0, nil, "male")
	_, femaleBand, _ := engine.CalculateBiomarkerScore("hemoglobin", 13.0, nil, "female")

	assert.NotEqual(t, maleBand, femaleBand)
}

func TestEngine_ScoreAll_AggregatesSystemAndOverallScores(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())
	panel := panelWith(t, map[string]float64{"glucose": 90, "hba1c": 5.2, "insulin": 8}, metabolicCanonicalSet())

	result := engine.ScoreAll(panel, nil, "", nil)

	metabolic, ok := result.Systems["metabolic"]
	require.True(t, ok)
	assert.Equal(t, 100.0, metabolic.OverallScore)
	assert.Equal(t, domain.ConfidenceHigh, metabolic.Confidence)
	assert.Len(t, metabolic.BiomarkerScores, 3)
}

func TestEngine_ScoreAll_ReportsMissingBiomarkersAndLowConfidence(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())
	panel := panelWith(t, map[string]float64{"glucose": 90}, metabolicCanonicalSet())

	result := engine.ScoreAll(panel, nil, "", nil)

	metabolic := result.Systems["metabolic"]
	assert.Equal(t, domain.ConfidenceLow, metabolic.Confidence)
	assert.ElementsMatch(t, []string{"hba1c", "insulin"}, metabolic.MissingBiomarkers)
}

func TestEngine_ScoreAll_AppliesLifestyleOverlay(t *testing.T) {
	engine := NewDefaultEngine(testScoringLogger())
	panel := panelWith(t, map[string]float64{"glucose": 90, "hba1c": 5.2, "insulin": 8}, metabolicCanonicalSet())

	poorLifestyle := domain.LifestyleProfile{
		DietLevel:     domain.LifestylePoor,
		SleepHours:    4,
		SmokingStatus: domain.SmokingCurrent,
		StressLevel:   domain.LifestylePoor,
	}

	withoutLifestyle := engine.ScoreAll(panel, nil, "", nil)
	withLifestyle := engine.ScoreAll(panel, nil, "", &poorLifestyle)

	assert.Less(t, withLifestyle.OverallScore, withoutLifestyle.OverallScore)
	assert.NotEmpty(t, withLifestyle.LifestyleAdjustments)
	assert.NotEmpty(t, withLifestyle.Recommendations)
}

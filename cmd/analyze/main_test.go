package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestBuildRequest_AppliesFlagOverrides(t *testing.T) {
	input := analysisInput{
		AnalysisID: "a1",
		Biomarkers: map[string]rawBiomarkerEntry{
			"glucose": {Value: 100, Unit: "mg/dL"},
		},
		ClusteringAlgorithm:   "rule_based",
		ClinicalWeightProfile: "comprehensive_health",
	}

	req := buildRequest(input, "weighted_correlation", "metabolic_focus")

	assert.Equal(t, domain.ClusteringAlgorithm("weighted_correlation"), req.ClusteringAlgorithm)
	assert.Equal(t, "metabolic_focus", req.ClinicalWeightProfile)
	assert.Equal(t, 100.0, req.Biomarkers["glucose"].Value)
}

func TestBuildRequest_FallsBackToInputWhenNoOverride(t *testing.T) {
	input := analysisInput{
		AnalysisID:            "a2",
		ClusteringAlgorithm:   "health_system_grouping",
		ClinicalWeightProfile: "organ_function_focus",
	}

	req := buildRequest(input, "", "")

	assert.Equal(t, domain.ClusteringAlgorithm("health_system_grouping"), req.ClusteringAlgorithm)
	assert.Equal(t, "organ_function_focus", req.ClinicalWeightProfile)
}

func TestIsInputError_ClassifiesInputCodes(t *testing.T) {
	var target *domain.AnalysisError

	inputErr := domain.NewAnalysisError(domain.ErrNonCanonicalInput, "bad key", nil)
	assert.True(t, isInputError(inputErr, &target))

	internalErr := domain.NewAnalysisError(domain.ErrSSOTLoad, "boom", nil)
	assert.False(t, isInputError(internalErr, &target))
}

func TestRawBiomarkerEntry_UnmarshalsBareNumberAndObject(t *testing.T) {
	var bare rawBiomarkerEntry
	assert.NoError(t, bare.UnmarshalJSON([]byte("120.5")))
	assert.Equal(t, 120.5, bare.Value)

	var obj rawBiomarkerEntry
	assert.NoError(t, obj.UnmarshalJSON([]byte(`{"value": 90, "unit": "mg/dL"}`)))
	assert.Equal(t, 90.0, obj.Value)
	assert.Equal(t, "mg/dL", obj.Unit)
}

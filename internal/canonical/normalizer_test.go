package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
	"github.com/biomarker-analysis-core/internal/ssot"
)

func testResolver(t *testing.T) domain.ResolverHandle {
	t.Helper()
	resolver, err := ssot.Build(ssot.Tables{
		Definitions: []domain.BiomarkerDefinition{
			{CanonicalName: "glucose", Aliases: []string{"blood_glucose", "fasting_glucose"}, Unit: "mg/dL", Category: domain.CategoryMetabolic, DataType: domain.DataTypeNumeric},
			{CanonicalName: "hba1c", Unit: "%", Category: domain.CategoryMetabolic, DataType: domain.DataTypeNumeric},
		},
	}, "v1")
	require.NoError(t, err)
	return resolver
}

func TestNormalizer_Normalize_ResolvesAliasesAndCanonicalKeys(t *testing.T) {
	n := New(testResolver(t))

	panel, unmapped := n.Normalize(map[string]RawEntry{
		"blood_glucose": {Value: 100, Unit: "mg/dL"},
		"hba1c":         {Value: 5.4, Unit: "%"},
	})

	assert.Empty(t, unmapped)
	assert.True(t, panel.Has("glucose"))
	assert.True(t, panel.Has("hba1c"))
	v, _ := panel.Get("glucose")
	assert.Equal(t, 100.0, v.Value)
}

func TestNormalizer_Normalize_CollectsUnmappedKeys(t *testing.T) {
	n := New(testResolver(t))

	panel, unmapped := n.Normalize(map[string]RawEntry{
		"glucose":      {Value: 100},
		"mystery_test": {Value: 5},
	})

	assert.True(t, panel.Has("glucose"))
	assert.Equal(t, []string{"mystery_test"}, unmapped)
}

func TestNormalizer_ValidateStrict_PassesWhenAllKeysAlreadyCanonical(t *testing.T) {
	n := New(testResolver(t))

	err := n.ValidateStrict(map[string]RawEntry{
		"glucose": {Value: 100},
		"hba1c":   {Value: 5.4},
	})

	assert.NoError(t, err)
}

func TestNormalizer_ValidateStrict_FailsOnAliasOrUnknownKey(t *testing.T) {
	n := New(testResolver(t))

	err := n.ValidateStrict(map[string]RawEntry{
		"blood_glucose": {Value: 100},
		"unknown_field": {Value: 1},
	})

	require.Error(t, err)
	var analysisErr *domain.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, domain.ErrNonCanonicalInput, analysisErr.Code)
	offenders, ok := analysisErr.Details["offenders"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"blood_glucose", "unknown_field"}, offenders)
}

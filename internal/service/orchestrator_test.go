package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/canonical"
	"github.com/biomarker-analysis-core/internal/domain"
	"github.com/biomarker-analysis-core/internal/ssot"
)

func testOrchestratorLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func testResolver(t *testing.T) domain.ResolverHandle {
	t.Helper()
	tables := ssot.Tables{
		Definitions: []domain.BiomarkerDefinition{
			{CanonicalName: "glucose", Aliases: []string{"blood_glucose"}, Unit: "mg/dL", Category: domain.CategoryMetabolic, DataType: domain.DataTypeNumeric},
			{CanonicalName: "hba1c", Unit: "%", Category: domain.CategoryMetabolic, DataType: domain.DataTypeNumeric},
			{CanonicalName: "insulin", Unit: "μU/mL", Category: domain.CategoryMetabolic, DataType: domain.DataTypeNumeric},
		},
	}
	resolver, err := ssot.Build(tables, "test-v1")
	require.NoError(t, err)
	return resolver
}

func TestOrchestrator_Analyze_ProducesImmutableResult(t *testing.T) {
	resolver := testResolver(t)
	orch := NewOrchestrator(resolver, testOrchestratorLogger())

	age := 45
	req := Request{
		AnalysisID: "analysis-1",
		Biomarkers: map[string]canonical.RawEntry{
			"glucose": {Value: 140, Unit: "mg/dL"},
			"hba1c":   {Value: 6.2, Unit: "%"},
			"insulin": {Value: 20, Unit: "μU/mL"},
		},
		User:                User{UserID: "user-1", Age: &age, Sex: "male"},
		ClusteringAlgorithm: domain.ClusteringRuleBased,
	}

	result, err := orch.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "analysis-1", result.AnalysisID)
	assert.Equal(t, "1.0.0", result.ResultVersion)
	assert.NotEmpty(t, result.Biomarkers)
	assert.NotEmpty(t, result.Insights)
	assert.NotEmpty(t, result.CreatedAt)
}

func TestOrchestrator_Analyze_RejectsNonCanonicalUnderStrictMode(t *testing.T) {
	resolver := testResolver(t)
	orch := NewOrchestrator(resolver, testOrchestratorLogger())

	req := Request{
		AnalysisID: "analysis-2",
		Biomarkers: map[string]canonical.RawEntry{
			"blood_glucose": {Value: 100, Unit: "mg/dL"},
		},
	}

	_, err := orch.Analyze(context.Background(), req)
	require.Error(t, err)

	var analysisErr *domain.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, domain.ErrNonCanonicalInput, analysisErr.Code)
}

func TestOrchestrator_Analyze_AssumeCanonicalSkipsStrictCheck(t *testing.T) {
	resolver := testResolver(t)
	orch := NewOrchestrator(resolver, testOrchestratorLogger())

	req := Request{
		AnalysisID: "analysis-3",
		Biomarkers: map[string]canonical.RawEntry{
			"blood_glucose": {Value: 100, Unit: "mg/dL"},
		},
		AssumeCanonical: true,
	}

	_, err := orch.Analyze(context.Background(), req)
	require.NoError(t, err)
}

func TestOrchestrator_Analyze_UsesCachedResultWhenPresent(t *testing.T) {
	resolver := testResolver(t)
	cached := domain.AnalysisResult{AnalysisID: "analysis-4", OverallScore: 99}
	orch := NewOrchestrator(resolver, testOrchestratorLogger(), WithCache(&stubCache{result: cached, found: true}))

	result, err := orch.Analyze(context.Background(), Request{AnalysisID: "analysis-4"})
	require.NoError(t, err)
	assert.Equal(t, 99.0, result.OverallScore)
}

type stubCache struct {
	result domain.AnalysisResult
	found  bool
}

func (s *stubCache) Get(_ context.Context, _ string) (domain.AnalysisResult, bool, error) {
	return s.result, s.found, nil
}

func (s *stubCache) Set(_ context.Context, _ domain.AnalysisResult) error {
	return nil
}

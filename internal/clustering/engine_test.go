package clustering

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func bScore(name string, score float64) domain.BiomarkerScore {
	band := domain.ScoreBandCritical
	switch {
	case score >= 100:
		band = domain.ScoreBandOptimal
	case score >= 90:
		band = domain.ScoreBandNormal
	case score >= 70:
		band = domain.ScoreBandBorderline
	case score >= 50:
		band = domain.ScoreBandHigh
	case score >= 30:
		band = domain.ScoreBandVeryHigh
	}
	return domain.BiomarkerScore{Name: name, Score: score, Band: band, RawValue: score}
}

func metabolicDysfunctionScoring() domain.ScoringResult {
	return domain.ScoringResult{
		Systems: map[string]domain.HealthSystemScore{
			"metabolic": {
				System: "metabolic",
				BiomarkerScores: []domain.BiomarkerScore{
					bScore("glucose", 50),
					bScore("hba1c", 50),
					bScore("insulin", 50),
				},
			},
		},
	}
}

func TestEngine_ClusterByRules(t *testing.T) {
	t.Run("matches required and optional biomarkers below threshold", func(t *testing.T) {
		engine := NewDefaultEngine(testLogger())
		result := engine.Cluster(metabolicDysfunctionScoring(), domain.ClusteringRuleBased)

		require.Len(t, result.Clusters, 1)
		cluster := result.Clusters[0]
		assert.Equal(t, "Metabolic Dysfunction", cluster.Name)
		assert.ElementsMatch(t, []string{"glucose", "hba1c", "insulin"}, cluster.Biomarkers)
	})

	t.Run("does not fire when required biomarkers score above threshold", func(t *testing.T) {
		scoring := domain.ScoringResult{
			Systems: map[string]domain.HealthSystemScore{
				"metabolic": {
					System: "metabolic",
					BiomarkerScores: []domain.BiomarkerScore{
						bScore("glucose", 95),
						bScore("hba1c", 90),
					},
				},
			},
		}
		engine := NewDefaultEngine(testLogger())
		result := engine.Cluster(scoring, domain.ClusteringRuleBased)
		assert.Empty(t, result.Clusters)
	})

	t.Run("a biomarker is never claimed by two clusters", func(t *testing.T) {
		scoring := domain.ScoringResult{
			Systems: map[string]domain.HealthSystemScore{
				"metabolic": {
					System: "metabolic",
					BiomarkerScores: []domain.BiomarkerScore{
						bScore("glucose", 40), bScore("hba1c", 40), bScore("insulin", 40),
					},
				},
				"cardiovascular": {
					System: "cardiovascular",
					BiomarkerScores: []domain.BiomarkerScore{
						bScore("total_cholesterol", 40), bScore("ldl_cholesterol", 40),
					},
				},
			},
		}
		engine := NewDefaultEngine(testLogger())
		result := engine.Cluster(scoring, domain.ClusteringRuleBased)

		seen := make(map[string]bool)
		for _, c := range result.Clusters {
			for _, b := range c.Biomarkers {
				assert.False(t, seen[b], "biomarker %s claimed by more than one cluster", b)
				seen[b] = true
			}
		}
	})
}

func TestEngine_ClusterByHealthSystem(t *testing.T) {
	engine := NewDefaultEngine(testLogger())
	result := engine.Cluster(metabolicDysfunctionScoring(), domain.ClusteringHealthSystemGroup)

	require.Len(t, result.Clusters, 1)
	assert.ElementsMatch(t, []string{"glucose", "hba1c", "insulin"}, result.Clusters[0].Biomarkers)
}

func TestEngine_ClusterByWeightedCorrelation(t *testing.T) {
	scoring := domain.ScoringResult{
		Systems: map[string]domain.HealthSystemScore{
			"metabolic": {
				System: "metabolic",
				BiomarkerScores: []domain.BiomarkerScore{
					bScore("glucose", 60), bScore("hba1c", 60),
				},
			},
		},
	}
	engine := NewDefaultEngine(testLogger())
	result := engine.Cluster(scoring, domain.ClusteringWeightedCorrelation)

	require.Len(t, result.Clusters, 1)
	assert.InDelta(t, 0.0, result.Clusters[0].Confidence-clamp01(result.Clusters[0].Confidence), 0, "confidence stays within [0,1]")
	assert.GreaterOrEqual(t, result.Clusters[0].Confidence, 0.0)
	assert.LessOrEqual(t, result.Clusters[0].Confidence, 1.0)
}

func TestMergeOverlapping(t *testing.T) {
	t.Run("merges clusters sharing more than half of the smaller cluster", func(t *testing.T) {
		a := domain.BiomarkerCluster{ClusterID: "a", Name: "A", Biomarkers: []string{"glucose", "hba1c"}, Severity: domain.SeverityHigh, Confidence: 0.7, AvgScore: 40}
		b := domain.BiomarkerCluster{ClusterID: "b", Name: "B", Biomarkers: []string{"glucose", "hba1c", "insulin"}, Severity: domain.SeverityModerate, Confidence: 0.5, AvgScore: 50}

		merged := mergeOverlapping([]domain.BiomarkerCluster{a, b})

		require.Len(t, merged, 1)
		assert.Equal(t, "Merged Health Pattern", merged[0].Name)
		assert.ElementsMatch(t, []string{"glucose", "hba1c", "insulin"}, merged[0].Biomarkers)
		assert.Equal(t, domain.SeverityHigh, merged[0].Severity)
		assert.Equal(t, 0.5, merged[0].Confidence)
	})

	t.Run("leaves disjoint clusters untouched", func(t *testing.T) {
		a := domain.BiomarkerCluster{ClusterID: "a", Biomarkers: []string{"glucose", "hba1c"}}
		b := domain.BiomarkerCluster{ClusterID: "b", Biomarkers: []string{"crp"}}

		merged := mergeOverlapping([]domain.BiomarkerCluster{a, b})
		assert.Len(t, merged, 2)
	})
}

func TestEngineWeightingSystem(t *testing.T) {
	t.Run("normalizes to sum 1", func(t *testing.T) {
		s := NewEngineWeightingSystem(map[EngineType]float64{EngineMetabolic: 2, EngineCardiovascular: 2})
		sum := 0.0
		for _, w := range s.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 0.0001)
	})

	t.Run("ApplyClinicalPriority preserves sum-to-1 after boosting", func(t *testing.T) {
		base := ClinicalWeightProfiles()["comprehensive_health"]
		boosted := base.ApplyClinicalPriority([]EngineType{EngineMetabolic}, 2.0)

		sum := 0.0
		for _, w := range boosted.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 0.0001)
		assert.Greater(t, boosted.Weight(EngineMetabolic), base.Weight(EngineMetabolic))
	})
}

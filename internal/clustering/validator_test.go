package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestValidate(t *testing.T) {
	t.Run("flags undersized clusters as critical", func(t *testing.T) {
		clusters := []domain.BiomarkerCluster{
			{ClusterID: "a", Name: "Lone", Biomarkers: []string{"glucose"}, Confidence: 0.9},
		}
		summary := Validate(clusters, 5)

		found := false
		for _, i := range summary.Issues {
			if i.Level == domain.ValidationCritical {
				found = true
			}
		}
		assert.True(t, found)
		assert.Equal(t, domain.QualityInvalid, summary.Quality)
	})

	t.Run("flags duplicate biomarker membership as critical", func(t *testing.T) {
		clusters := []domain.BiomarkerCluster{
			{ClusterID: "a", Name: "A", Biomarkers: []string{"glucose", "hba1c"}, Confidence: 0.9},
			{ClusterID: "b", Name: "B", Biomarkers: []string{"glucose", "insulin"}, Confidence: 0.9},
		}
		summary := Validate(clusters, 5)

		hasDuplicateIssue := false
		for _, i := range summary.Issues {
			if i.Level == domain.ValidationCritical {
				hasDuplicateIssue = true
			}
		}
		assert.True(t, hasDuplicateIssue)
		assert.Equal(t, domain.QualityInvalid, summary.Quality)
	})

	t.Run("clean well-formed clusters resolve to a non-invalid quality", func(t *testing.T) {
		clusters := []domain.BiomarkerCluster{
			{ClusterID: "a", Name: "Metabolic", Biomarkers: []string{"glucose", "hba1c"}, Confidence: 0.95},
		}
		summary := Validate(clusters, 4)
		assert.NotEqual(t, domain.QualityInvalid, summary.Quality)
	})
}

func TestOptimalClusterCount(t *testing.T) {
	assert.Equal(t, 2, optimalClusterCount(1))
	assert.Equal(t, 4, optimalClusterCount(16))
	assert.Equal(t, 8, optimalClusterCount(1000))
}

package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestInflammation(t *testing.T) {
	t.Run("missing crp returns MISSING_BIOMARKERS", func(t *testing.T) {
		result := Inflammation(panelWith(nil), domain.UserProfile{})
		assert.Equal(t, domain.InsightErrorMissingBiomarkers, result.ErrorCode)
	})

	t.Run("very high crp alone is critical", func(t *testing.T) {
		result := Inflammation(panelWith(map[string]float64{"crp": 12.0}), domain.UserProfile{})
		require.True(t, result.Succeeded())
		assert.Equal(t, domain.SeverityCritical, result.Severity)
	})

	t.Run("uses female ferritin threshold when sex is female", func(t *testing.T) {
		panel := panelWith(map[string]float64{"crp": 0.5, "ferritin": 250})
		result := Inflammation(panel, domain.UserProfile{Sex: "female"})

		require.True(t, result.Succeeded())
		assert.Contains(t, result.Drivers, "ferritin")
	})

	t.Run("low markers resolve to normal with fallback recommendation", func(t *testing.T) {
		result := Inflammation(panelWith(map[string]float64{"crp": 0.1}), domain.UserProfile{})
		require.True(t, result.Succeeded())
		assert.Equal(t, domain.SeverityNormal, result.Severity)
		assert.Equal(t, []string{"Maintain current anti-inflammatory lifestyle to preserve low inflammation status"}, result.Recommendations)
	})
}

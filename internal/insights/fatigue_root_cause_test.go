package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestFatigueRootCause(t *testing.T) {
	t.Run("missing ferritin returns MISSING_BIOMARKERS", func(t *testing.T) {
		result := FatigueRootCause(panelWith(nil), domain.UserProfile{})
		assert.Equal(t, domain.InsightErrorMissingBiomarkers, result.ErrorCode)
	})

	t.Run("combined iron deficiency and hypothyroidism reach high severity", func(t *testing.T) {
		panel := panelWith(map[string]float64{"ferritin": 8, "tsh": 6.0})
		result := FatigueRootCause(panel, domain.UserProfile{Sex: "female"})

		require.True(t, result.Succeeded())
		assert.Equal(t, domain.SeverityHigh, result.Severity)
		assert.Contains(t, result.Evidence["root_causes"], "iron_deficiency")
		assert.Contains(t, result.Evidence["root_causes"], "hypothyroidism")
	})

	t.Run("normal ferritin alone yields normal severity", func(t *testing.T) {
		result := FatigueRootCause(panelWith(map[string]float64{"ferritin": 80}), domain.UserProfile{Sex: "female"})
		require.True(t, result.Succeeded())
		assert.Equal(t, domain.SeverityNormal, result.Severity)
	})
}

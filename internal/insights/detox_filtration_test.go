package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestDetoxFiltration(t *testing.T) {
	t.Run("missing creatinine returns MISSING_BIOMARKERS", func(t *testing.T) {
		result := DetoxFiltration(panelWith(nil), domain.UserProfile{})
		assert.Equal(t, domain.InsightErrorMissingBiomarkers, result.ErrorCode)
	})

	t.Run("severe kidney and liver dysfunction reaches critical", func(t *testing.T) {
		panel := panelWith(map[string]float64{"creatinine": 2.5, "alt": 120, "ast": 110})
		result := DetoxFiltration(panel, domain.UserProfile{Age: intPtr(55), Sex: "male"})

		require.True(t, result.Succeeded())
		assert.Equal(t, domain.SeverityCritical, result.Severity)
		assert.Contains(t, result.Drivers, "creatinine")
		assert.Contains(t, result.Drivers, "alt")
	})

	t.Run("estimates eGFR via MDRD when not measured", func(t *testing.T) {
		panel := panelWith(map[string]float64{"creatinine": 1.0})
		result := DetoxFiltration(panel, domain.UserProfile{Age: intPtr(40), Sex: "female"})

		require.True(t, result.Succeeded())
		assert.NotContains(t, result.Biomarkers, "egfr")
	})
}

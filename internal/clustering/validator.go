package clustering

import (
	"fmt"
	"math"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Validate checks a clustering run's output for structural and coherence
// problems, per spec.md 4.4. Coherence is read off each cluster's already
// computed Confidence (itself 1 - variance/2500 plus a size boost), since
// the validator only sees the assembled clusters, not the underlying
// per-biomarker scores.
func Validate(clusters []domain.BiomarkerCluster, totalBiomarkers int) domain.ValidationSummary {
	var issues []domain.ValidationIssue

	seen := make(map[string]string) // biomarker -> first cluster id that claimed it
	for _, c := range clusters {
		if len(c.Biomarkers) < 2 {
			issues = append(issues, domain.ValidationIssue{
				Level: domain.ValidationCritical, ClusterID: c.ClusterID,
				Message: fmt.Sprintf("cluster %q has fewer than 2 biomarkers", c.Name),
			})
		}
		if len(c.Biomarkers) > 10 {
			issues = append(issues, domain.ValidationIssue{
				Level: domain.ValidationWarning, ClusterID: c.ClusterID,
				Message: fmt.Sprintf("cluster %q has more than 10 biomarkers", c.Name),
			})
		}
		if c.Confidence < 0.6 {
			issues = append(issues, domain.ValidationIssue{
				Level: domain.ValidationWarning, ClusterID: c.ClusterID,
				Message: fmt.Sprintf("cluster %q has low internal coherence (%.2f)", c.Name, c.Confidence),
			})
		}

		for _, b := range c.Biomarkers {
			if prior, ok := seen[b]; ok && prior != c.ClusterID {
				issues = append(issues, domain.ValidationIssue{
					Level: domain.ValidationCritical, ClusterID: c.ClusterID,
					Message: fmt.Sprintf("biomarker %q appears in both cluster %q and an earlier cluster", b, c.Name),
				})
			} else {
				seen[b] = c.ClusterID
			}
		}
	}

	if totalBiomarkers > 0 {
		optimal := optimalClusterCount(totalBiomarkers)
		if len(clusters) < optimal-1 || len(clusters) > optimal+1 {
			issues = append(issues, domain.ValidationIssue{
				Level:   domain.ValidationWarning,
				Message: fmt.Sprintf("cluster count %d is outside the expected range around %d for %d biomarkers", len(clusters), optimal, totalBiomarkers),
			})
		}
	}

	distinctTypes := make(map[string]bool)
	for _, c := range clusters {
		distinctTypes[c.Name] = true
	}
	if len(distinctTypes) >= 2 {
		issues = append(issues, domain.ValidationIssue{
			Level:   domain.ValidationInfo,
			Message: fmt.Sprintf("clustering spans %d distinct clinical categories", len(distinctTypes)),
		})
	}

	return domain.ValidationSummary{Issues: issues, Quality: resolveQuality(issues, clusters)}
}

// optimalClusterCount is clamp(round(sqrt(n)), 2, 8), per spec.md 4.4.
func optimalClusterCount(totalBiomarkers int) int {
	v := int(math.Round(math.Sqrt(float64(totalBiomarkers))))
	if v < 2 {
		return 2
	}
	if v > 8 {
		return 8
	}
	return v
}

func resolveQuality(issues []domain.ValidationIssue, clusters []domain.BiomarkerCluster) domain.ClusterQuality {
	criticalCount, warningCount := 0, 0
	for _, i := range issues {
		switch i.Level {
		case domain.ValidationCritical:
			criticalCount++
		case domain.ValidationWarning:
			warningCount++
		}
	}
	if criticalCount > 0 {
		return domain.QualityInvalid
	}

	avgConfidence := averageConfidence(clusters)
	switch {
	case avgConfidence >= 0.8 && warningCount == 0:
		return domain.QualityExcellent
	case avgConfidence >= 0.6 && warningCount <= 2:
		return domain.QualityGood
	case avgConfidence >= 0.4:
		return domain.QualityFair
	default:
		return domain.QualityPoor
	}
}

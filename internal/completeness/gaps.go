package completeness

import (
	"fmt"
	"sort"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Gap is one missing biomarker, classified by severity.
type Gap struct {
	BiomarkerName string
	System        string
	Severity      domain.GapSeverity
	Description   string
	Impact        string
}

// GapAnalysis is the sorted gap report plus the readiness blockers, per
// spec.md 4.2. The final "analysis ready" decision here is the conjunction
// of "no blockers" and the completeness predicate, unifying the two
// sources of truth spec.md's Open Questions flags as historically
// disagreeing.
type GapAnalysis struct {
	Gaps              []Gap
	CriticalGaps      []Gap
	HighGaps          []Gap
	MediumGaps        []Gap
	LowGaps           []Gap
	AnalysisBlockers  []string
	AnalysisReady     bool
}

// Analyzer produces a GapAnalysis from a completeness Result.
type Analyzer struct {
	requirements map[string]SystemRequirement
}

func NewAnalyzer(requirements map[string]SystemRequirement) *Analyzer {
	return &Analyzer{requirements: requirements}
}

func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultRequirements())
}

// Analyze builds the gap report for panel given the already-computed
// completeness result.
func (a *Analyzer) Analyze(panel domain.BiomarkerPanel, completenessResult Result) GapAnalysis {
	var gaps []Gap

	for sysName, req := range a.requirements {
		weighted := req.SystemWeight > 0
		for _, b := range req.CriticalBiomarkers {
			if panel.Has(b) {
				continue
			}
			severity := domain.GapMedium
			if weighted {
				severity = domain.GapCritical
			} else {
				severity = domain.GapHigh
			}
			gaps = append(gaps, Gap{
				BiomarkerName: b, System: sysName, Severity: severity,
				Description: fmt.Sprintf("%s is a required biomarker for %s assessment", b, sysName),
				Impact:      fmt.Sprintf("%s health system score cannot be confidently computed without %s", sysName, b),
			})
		}
		for _, b := range req.OptionalBiomarkers {
			if panel.Has(b) {
				continue
			}
			severity := domain.GapLow
			if weighted {
				severity = domain.GapMedium
			}
			gaps = append(gaps, Gap{
				BiomarkerName: b, System: sysName, Severity: severity,
				Description: fmt.Sprintf("%s provides additional confidence for %s assessment", b, sysName),
				Impact:      fmt.Sprintf("%s assessment confidence is reduced without %s", sysName, b),
			})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].System != gaps[j].System {
			return gaps[i].System < gaps[j].System
		}
		return gaps[i].BiomarkerName < gaps[j].BiomarkerName
	})

	analysis := GapAnalysis{Gaps: gaps}
	for _, g := range gaps {
		switch g.Severity {
		case domain.GapCritical:
			analysis.CriticalGaps = append(analysis.CriticalGaps, g)
		case domain.GapHigh:
			analysis.HighGaps = append(analysis.HighGaps, g)
		case domain.GapMedium:
			analysis.MediumGaps = append(analysis.MediumGaps, g)
		case domain.GapLow:
			analysis.LowGaps = append(analysis.LowGaps, g)
		}
	}

	var blockers []string
	for _, g := range analysis.CriticalGaps {
		blockers = append(blockers, fmt.Sprintf("missing critical biomarker %s for %s", g.BiomarkerName, g.System))
	}

	analysis.AnalysisBlockers = blockers
	analysis.AnalysisReady = len(blockers) == 0 && completenessResult.AnalysisReady

	return analysis
}

// Package service wires the canonicalization, completeness, scoring,
// clustering, insight, and LLM-synthesis stages into the single analysis
// entry point, per spec.md 4.6.
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/canonical"
	"github.com/biomarker-analysis-core/internal/clustering"
	"github.com/biomarker-analysis-core/internal/completeness"
	"github.com/biomarker-analysis-core/internal/domain"
	"github.com/biomarker-analysis-core/internal/insights"
	"github.com/biomarker-analysis-core/internal/llm"
	"github.com/biomarker-analysis-core/internal/questionnaire"
	"github.com/biomarker-analysis-core/internal/scoring"
)

const resultVersion = "1.0.0"

// User is the orchestrator's demographic input, matching spec.md 6's
// `user` request field before questionnaire-derived overrides merge in.
type User struct {
	UserID    string
	Age       *int
	Sex       string
	HeightCM  *float64
	WeightKG  *float64
	Ethnicity string
}

// Request is the single entry point's input, per spec.md 6.
type Request struct {
	AnalysisID             string
	Biomarkers             map[string]canonical.RawEntry
	User                   User
	Questionnaire          questionnaire.Responses
	AssumeCanonical        bool
	ClusteringAlgorithm    domain.ClusteringAlgorithm
	ClinicalWeightProfile  string
}

// Orchestrator is the single analysis entry point described in spec.md
// 4.6, composing every pipeline stage around one immutable SSOT snapshot.
type Orchestrator struct {
	resolver     domain.ResolverHandle
	normalizer   *canonical.Normalizer
	completeness *completeness.Assessor
	scoring      *scoring.Engine
	clustering   map[string]*clustering.Engine
	modules      []insights.Module
	mapper       *questionnaire.Mapper
	collaborator domain.Collaborator
	repo         domain.AnalysisRepository
	cache        domain.ResultCache
	log          *logrus.Logger
}

// Option configures optional Orchestrator collaborators.
type Option func(*Orchestrator)

// WithRepository attaches a persistence collaborator; analyses are saved
// after assembly when set.
func WithRepository(repo domain.AnalysisRepository) Option {
	return func(o *Orchestrator) { o.repo = repo }
}

// WithCache attaches a result cache consulted before running a fresh
// analysis and populated afterward.
func WithCache(cache domain.ResultCache) Option {
	return func(o *Orchestrator) { o.cache = cache }
}

// WithCollaborator overrides the default deterministic fallback
// collaborator, typically with a resilient LLM-backed one.
func WithCollaborator(c domain.Collaborator) Option {
	return func(o *Orchestrator) { o.collaborator = c }
}

// NewOrchestrator builds an Orchestrator bound to one immutable SSOT
// snapshot, per spec.md 5's no-global-resolver design.
func NewOrchestrator(resolver domain.ResolverHandle, log *logrus.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}

	weightProfiles := clustering.ClinicalWeightProfiles()
	engines := make(map[string]*clustering.Engine, len(weightProfiles))
	for name, weights := range weightProfiles {
		engines[name] = clustering.NewEngine(clustering.DefaultRules(), weights, log)
	}

	o := &Orchestrator{
		resolver:     resolver,
		normalizer:   canonical.New(resolver),
		completeness: completeness.NewDefaultAssessor(),
		scoring:      scoring.NewDefaultEngine(log),
		clustering:   engines,
		modules:      insights.DefaultModules(),
		mapper:       questionnaire.NewMapper(log),
		collaborator: llm.NewFallbackCollaborator(),
		log:          log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Analyze runs the full pipeline described in spec.md 4.6 and returns the
// assembled, immutable AnalysisResult.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (domain.AnalysisResult, error) {
	if o.cache != nil {
		if cached, found, err := o.cache.Get(ctx, req.AnalysisID); err == nil && found {
			return cached, nil
		}
	}

	if !req.AssumeCanonical {
		if err := o.normalizer.ValidateStrict(req.Biomarkers); err != nil {
			return domain.AnalysisResult{}, err
		}
	}

	panel, unmapped := o.normalizer.Normalize(req.Biomarkers)
	if len(unmapped) > 0 {
		o.log.WithField("unmapped", unmapped).Warn("orchestrator: input biomarkers could not be resolved to canonical names")
	}

	gaps := o.completeness.Assess(panel)
	if !gaps.AnalysisReady {
		o.log.WithFields(logrus.Fields{
			"missing_critical": gaps.MissingCritical,
			"overall_score":    gaps.OverallScore,
		}).Warn("orchestrator: panel completeness below the analysis-ready threshold, proceeding with a partial result")
	}

	user := req.User
	var lifestyle *domain.LifestyleProfile
	if req.Questionnaire != nil {
		extended := o.mapper.MapLifestyle(req.Questionnaire)
		lifestyle = &extended.LifestyleProfile

		demographics := o.mapper.MapDemographics(req.Questionnaire, time.Now().UTC())
		if demographics.Age != nil {
			user.Age = demographics.Age
		}
		if demographics.Sex != "" {
			user.Sex = demographics.Sex
		}
		if demographics.HeightCM != nil {
			user.HeightCM = demographics.HeightCM
		}
		if demographics.WeightKG != nil {
			user.WeightKG = demographics.WeightKG
		}
		if demographics.Ethnicity != "" {
			user.Ethnicity = demographics.Ethnicity
		}
	}

	scoringResult := o.scoring.ScoreAll(panel, user.Age, user.Sex, lifestyle)

	algorithm := req.ClusteringAlgorithm
	if !algorithm.IsValid() {
		algorithm = domain.ClusteringRuleBased
	}
	profile := req.ClinicalWeightProfile
	engine, ok := o.clustering[profile]
	if !ok {
		engine = o.clustering["comprehensive_health"]
	}
	clusteringResult := engine.Cluster(scoringResult, algorithm)

	profileUser := domain.UserProfile{
		UserID:    user.UserID,
		Age:       user.Age,
		Sex:       user.Sex,
		HeightCM:  user.HeightCM,
		WeightKG:  user.WeightKG,
		Ethnicity: user.Ethnicity,
	}
	insightResults := insights.RunAll(o.modules, panel, profileUser)

	if o.collaborator != nil && len(clusteringResult.Clusters) > 0 {
		llmResp, err := o.collaborator.Synthesize(ctx, domain.LLMRequest{
			Category:     "overall",
			SystemPrompt: "You are a clinical biomarker analysis assistant synthesizing cluster findings into structured insights.",
			UserPrompt:   "Summarize the clinical significance of the detected biomarker clusters.",
			Clusters:     clusteringResult.Clusters,
		})
		if err != nil {
			o.log.WithError(err).Warn("orchestrator: llm synthesis failed, proceeding with deterministic insights only")
		} else {
			for _, li := range llmResp.Insights {
				insightResults = append(insightResults, domain.InsightResult{
					InsightID:       "llm_" + li.Category,
					Version:         resultVersion,
					Severity:        domain.NormalizeSeverity(li.Severity),
					Confidence:      li.Confidence,
					Evidence:        map[string]interface{}{"description": li.Description, "evidence": li.Evidence},
					Recommendations: li.Recommendations,
				})
			}
		}
	}

	result := domain.AnalysisResult{
		AnalysisID:    analysisID(req.AnalysisID),
		Biomarkers:    flattenBiomarkerScores(scoringResult),
		Clusters:      clusteringResult.Clusters,
		Insights:      insightResults,
		OverallScore:  round1(scoringResult.OverallScore),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		ResultVersion: resultVersion,
	}

	if o.repo != nil {
		if err := o.repo.Save(ctx, result); err != nil {
			o.log.WithError(err).Warn("orchestrator: failed to persist analysis result")
		}
	}
	if o.cache != nil {
		if err := o.cache.Set(ctx, result); err != nil {
			o.log.WithError(err).Warn("orchestrator: failed to cache analysis result")
		}
	}

	return result, nil
}

func analysisID(requested string) string {
	if requested != "" {
		return requested
	}
	return uuid.NewString()
}

func flattenBiomarkerScores(result domain.ScoringResult) []domain.BiomarkerScore {
	systemNames := make([]string, 0, len(result.Systems))
	for name := range result.Systems {
		systemNames = append(systemNames, name)
	}
	sort.Strings(systemNames)

	var scores []domain.BiomarkerScore
	for _, name := range systemNames {
		scores = append(scores, result.Systems[name].BiomarkerScores...)
	}
	return scores
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

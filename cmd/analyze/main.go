// Command analyze is the CLI entry point described in spec.md 6: it reads
// a biomarker JSON document, runs one analysis, and writes the resulting
// AnalysisResult JSON document.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/canonical"
	"github.com/biomarker-analysis-core/internal/config"
	"github.com/biomarker-analysis-core/internal/domain"
	"github.com/biomarker-analysis-core/internal/questionnaire"
	"github.com/biomarker-analysis-core/internal/service"
	"github.com/biomarker-analysis-core/internal/ssot"
)

const (
	exitOK              = 0
	exitInputValidation = 2
	exitSSOTLoadFailure = 3
	exitInternalError   = 4
)

// rawBiomarkerEntry accepts either a bare number or an {value, unit}
// object for a biomarker field, per spec.md 6's orchestrator input shape.
type rawBiomarkerEntry struct {
	Value float64
	Unit  string
}

func (e *rawBiomarkerEntry) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		e.Value = num
		return nil
	}
	var obj struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("biomarker entry must be a number or {value, unit}: %w", err)
	}
	e.Value = obj.Value
	e.Unit = obj.Unit
	return nil
}

type inputUser struct {
	UserID    string   `json:"user_id"`
	Age       *int     `json:"age"`
	Gender    string   `json:"gender"`
	HeightCM  *float64 `json:"height_cm"`
	WeightKG  *float64 `json:"weight_kg"`
	Ethnicity string   `json:"ethnicity"`
}

type analysisInput struct {
	AnalysisID             string                        `json:"analysis_id"`
	Biomarkers             map[string]rawBiomarkerEntry  `json:"biomarkers"`
	User                   inputUser                     `json:"user"`
	Questionnaire          questionnaire.Responses       `json:"questionnaire"`
	ClusteringAlgorithm    string                        `json:"clustering_algorithm"`
	ClinicalWeightProfile  string                        `json:"clinical_weight_profile"`
	AssumeCanonical        bool                           `json:"assume_canonical"`
}

type analysisOutput struct {
	AnalysisID    string                    `json:"analysis_id"`
	Biomarkers    []domain.BiomarkerScore   `json:"biomarkers"`
	Clusters      []domain.BiomarkerCluster `json:"clusters"`
	Insights      []domain.InsightResult    `json:"insights"`
	OverallScore  float64                   `json:"overall_score"`
	CreatedAt     string                    `json:"created_at"`
	ResultVersion string                    `json:"result_version"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	algorithm := fs.String("algorithm", "", "clustering algorithm override (rule_based|health_system_grouping|weighted_correlation)")
	profile := fs.String("profile", "", "clinical weight profile override")
	if err := fs.Parse(args); err != nil {
		return exitInputValidation
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze [--algorithm NAME] [--profile NAME] <input.json> <output.json>")
		return exitInputValidation
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfgManager, err := config.NewManager()
	if err != nil {
		log.WithError(err).Error("analyze: failed to load configuration")
		return exitInternalError
	}
	cfg := cfgManager.GetConfig()
	if lvl, lvlErr := logrus.ParseLevel(cfg.Logging.Level); lvlErr == nil {
		log.SetLevel(lvl)
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		log.WithError(err).Error("analyze: failed to read input file")
		return exitInputValidation
	}

	var input analysisInput
	if err := json.Unmarshal(raw, &input); err != nil {
		log.WithError(err).Error("analyze: malformed input JSON")
		return exitInputValidation
	}

	resolver, err := loadResolver(cfg.Analysis.ResultVersion, log)
	if err != nil {
		log.WithError(err).Error("analyze: failed to load SSOT snapshot")
		return exitSSOTLoadFailure
	}

	orchestrator := service.NewOrchestrator(resolver, log)

	req := buildRequest(input, *algorithm, *profile)

	result, err := orchestrator.Analyze(context.Background(), req)
	if err != nil {
		var analysisErr *domain.AnalysisError
		if isInputError(err, &analysisErr) {
			log.WithError(err).Error("analyze: input validation failed")
			return exitInputValidation
		}
		log.WithError(err).Error("analyze: analysis failed")
		return exitInternalError
	}

	output := analysisOutput{
		AnalysisID:    result.AnalysisID,
		Biomarkers:    result.Biomarkers,
		Clusters:      result.Clusters,
		Insights:      result.Insights,
		OverallScore:  result.OverallScore,
		CreatedAt:     result.CreatedAt,
		ResultVersion: result.ResultVersion,
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.WithError(err).Error("analyze: failed to encode result")
		return exitInternalError
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		log.WithError(err).Error("analyze: failed to write output file")
		return exitInternalError
	}

	return exitOK
}

func isInputError(err error, target **domain.AnalysisError) bool {
	ae, ok := err.(*domain.AnalysisError)
	if !ok {
		return false
	}
	*target = ae
	switch ae.Code {
	case domain.ErrNonCanonicalInput, domain.ErrMalformedValue, domain.ErrQuestionnaire:
		return true
	default:
		return false
	}
}

func buildRequest(input analysisInput, algorithmOverride, profileOverride string) service.Request {
	biomarkers := make(map[string]canonical.RawEntry, len(input.Biomarkers))
	for key, entry := range input.Biomarkers {
		biomarkers[key] = canonical.RawEntry{Value: entry.Value, Unit: entry.Unit}
	}

	algorithm := domain.ClusteringAlgorithm(input.ClusteringAlgorithm)
	if algorithmOverride != "" {
		algorithm = domain.ClusteringAlgorithm(algorithmOverride)
	}
	profile := input.ClinicalWeightProfile
	if profileOverride != "" {
		profile = profileOverride
	}

	return service.Request{
		AnalysisID: input.AnalysisID,
		Biomarkers: biomarkers,
		User: service.User{
			UserID:    input.User.UserID,
			Age:       input.User.Age,
			Sex:       input.User.Gender,
			HeightCM:  input.User.HeightCM,
			WeightKG:  input.User.WeightKG,
			Ethnicity: input.User.Ethnicity,
		},
		Questionnaire:         input.Questionnaire,
		AssumeCanonical:       input.AssumeCanonical,
		ClusteringAlgorithm:   algorithm,
		ClinicalWeightProfile: profile,
	}
}

// loadResolver builds the SSOT snapshot from the bundled default tables.
// A deployment with richer reference data supplies its own Tables through
// the same ssot.Build path; the CLI's built-in set covers the biomarkers
// internal/scoring's default rules reference.
func loadResolver(version string, log *logrus.Logger) (domain.ResolverHandle, error) {
	registry, err := ssot.NewRegistry(log, 4)
	if err != nil {
		return nil, err
	}
	return registry.Load(defaultTables(), version)
}

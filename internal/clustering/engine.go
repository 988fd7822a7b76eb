package clustering

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Engine dispatches one of the three clustering algorithms over a scoring
// result and validates the output, grounded on original_source's
// ClusteringEngine.
type Engine struct {
	rules    []Rule
	weights  EngineWeightingSystem
	log      *logrus.Logger
}

func NewEngine(rules []Rule, weights EngineWeightingSystem, log *logrus.Logger) *Engine {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &Engine{rules: sorted, weights: weights, log: log}
}

func NewDefaultEngine(log *logrus.Logger) *Engine {
	profile := ClinicalWeightProfiles()["comprehensive_health"]
	return NewEngine(DefaultRules(), profile, log)
}

// Cluster runs algorithm over scoring and returns the validated result.
func (e *Engine) Cluster(scoring domain.ScoringResult, algorithm domain.ClusteringAlgorithm) domain.ClusteringResult {
	start := time.Now()

	var clusters []domain.BiomarkerCluster
	switch algorithm {
	case domain.ClusteringHealthSystemGroup:
		clusters = e.clusterByHealthSystem(scoring)
	case domain.ClusteringWeightedCorrelation:
		clusters = e.clusterByWeightedCorrelation(scoring)
	default:
		algorithm = domain.ClusteringRuleBased
		clusters = e.clusterByRules(scoring)
	}

	clusters = mergeOverlapping(clusters)

	overallConfidence := averageConfidence(clusters)
	validation := Validate(clusters, len(allScores(scoring)))

	return domain.ClusteringResult{
		Clusters:          clusters,
		Algorithm:         algorithm,
		OverallConfidence: overallConfidence,
		Validation:        validation,
		ProcessingTimeMS:  float64(time.Since(start).Microseconds()) / 1000.0,
	}
}

func allScores(scoring domain.ScoringResult) map[string]domain.BiomarkerScore {
	out := make(map[string]domain.BiomarkerScore)
	for _, sys := range scoring.Systems {
		for _, bs := range sys.BiomarkerScores {
			out[bs.Name] = bs
		}
	}
	return out
}

// clusterByRules applies the priority-ordered rule table, enforcing that a
// biomarker already consumed by a higher-priority cluster cannot join a
// later one, per spec.md 4.4 step 1.
func (e *Engine) clusterByRules(scoring domain.ScoringResult) []domain.BiomarkerCluster {
	scores := allScores(scoring)
	used := make(map[string]bool)
	var clusters []domain.BiomarkerCluster

	for _, rule := range e.rules {
		matched := matchRule(rule, scores, used)
		if len(matched) < rule.MinClusterSize {
			continue
		}
		for _, b := range matched {
			used[b] = true
		}
		clusters = append(clusters, buildCluster(rule.ClusterType, clusterDisplayNames[rule.ClusterType], matched, scores))
	}

	return clusters
}

func matchRule(rule Rule, scores map[string]domain.BiomarkerScore, used map[string]bool) []string {
	var matched []string
	for _, name := range rule.RequiredBiomarkers {
		bs, ok := scores[name]
		if !ok || used[name] || !rule.meetsThreshold(name, bs.Score) {
			return nil
		}
		matched = append(matched, name)
	}
	for _, name := range rule.OptionalBiomarkers {
		bs, ok := scores[name]
		if !ok || used[name] || !rule.meetsThreshold(name, bs.Score) {
			continue
		}
		matched = append(matched, name)
	}
	return matched
}

// clusterByHealthSystem emits one cluster per scored health system that has
// at least two biomarker scores, per spec.md 4.4 step 2.
func (e *Engine) clusterByHealthSystem(scoring domain.ScoringResult) []domain.BiomarkerCluster {
	scores := allScores(scoring)
	var clusters []domain.BiomarkerCluster

	sysNames := make([]string, 0, len(scoring.Systems))
	for name := range scoring.Systems {
		sysNames = append(sysNames, name)
	}
	sort.Strings(sysNames)

	for _, sysName := range sysNames {
		sys := scoring.Systems[sysName]
		if len(sys.BiomarkerScores) < 2 {
			continue
		}
		names := make([]string, 0, len(sys.BiomarkerScores))
		for _, bs := range sys.BiomarkerScores {
			names = append(names, bs.Name)
		}
		clusters = append(clusters, buildCluster(sysName+"_system", sysName+" System", names, scores))
	}

	return clusters
}

// clusterByWeightedCorrelation groups biomarkers by the hardcoded
// health-system map, requiring at least two present biomarkers per group,
// then scales each cluster's confidence by the active engine weight, per
// spec.md 4.4 step 3.
func (e *Engine) clusterByWeightedCorrelation(scoring domain.ScoringResult) []domain.BiomarkerCluster {
	scores := allScores(scoring)
	var clusters []domain.BiomarkerCluster

	systemKeys := make([]string, 0, len(healthSystemBiomarkerMap))
	for k := range healthSystemBiomarkerMap {
		systemKeys = append(systemKeys, k)
	}
	sort.Strings(systemKeys)

	for _, sysName := range systemKeys {
		var present []string
		for _, b := range healthSystemBiomarkerMap[sysName] {
			if _, ok := scores[b]; ok {
				present = append(present, b)
			}
		}
		if len(present) < 2 {
			continue
		}
		cluster := buildCluster(sysName+"_correlation", sysName+" Correlation", present, scores)
		if engine, ok := engineForSystem[sysName]; ok {
			cluster.Confidence = clamp01(cluster.Confidence * (0.5 + e.weights.Weight(engine)*2))
		}
		clusters = append(clusters, cluster)
	}

	return clusters
}

func buildCluster(clusterType, name string, biomarkers []string, scores map[string]domain.BiomarkerScore) domain.BiomarkerCluster {
	sort.Strings(biomarkers)

	var sum, sumSq float64
	severity := domain.SeverityNormal
	n := float64(len(biomarkers))

	for _, b := range biomarkers {
		score := scores[b].Score
		sum += score
		sumSq += score * score
		severity = domain.MaxSeverity(severity, severityFromScore(score))
	}

	avg := 0.0
	variance := 0.0
	if n > 0 {
		avg = sum / n
		mean := avg
		variance = sumSq/n - mean*mean
	}

	confidence := clamp01(1 - variance/2500)
	confidence = clamp01(confidence + minFloat(0.2, n*0.05))

	return domain.BiomarkerCluster{
		ClusterID:   uuid.NewString(),
		Name:        name,
		Biomarkers:  biomarkers,
		Description: "Biomarkers clustered under " + name,
		Severity:    severity,
		Confidence:  confidence,
		AvgScore:    round1(avg),
	}
}

// severityFromScore bands a single biomarker's discrete score into a
// cluster-contributing Severity, per spec.md 4.4's severity bands.
func severityFromScore(score float64) domain.Severity {
	switch {
	case score < 30:
		return domain.SeverityCritical
	case score < 50:
		return domain.SeverityHigh
	case score < 70:
		return domain.SeverityModerate
	case score < 85:
		return domain.SeverityMild
	default:
		return domain.SeverityNormal
	}
}

// mergeOverlapping folds clusters sharing more than half of the smaller
// cluster's biomarkers into one, unioning membership, taking the lower
// confidence and the higher severity, per spec.md 4.4 step 4.
func mergeOverlapping(clusters []domain.BiomarkerCluster) []domain.BiomarkerCluster {
	merged := append([]domain.BiomarkerCluster(nil), clusters...)

	for {
		i, j, ok := findOverlap(merged)
		if !ok {
			break
		}
		combined := mergeTwo(merged[i], merged[j])
		next := make([]domain.BiomarkerCluster, 0, len(merged)-1)
		for k, c := range merged {
			if k == i || k == j {
				continue
			}
			next = append(next, c)
		}
		next = append(next, combined)
		merged = next
	}

	return merged
}

func findOverlap(clusters []domain.BiomarkerCluster) (int, int, bool) {
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			if overlapsStrictly(clusters[i].Biomarkers, clusters[j].Biomarkers) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func overlapsStrictly(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	shared := 0
	for _, v := range b {
		if set[v] {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	if smaller == 0 {
		return false
	}
	return float64(shared)/float64(smaller) > 0.5
}

func mergeTwo(a, b domain.BiomarkerCluster) domain.BiomarkerCluster {
	set := make(map[string]bool, len(a.Biomarkers)+len(b.Biomarkers))
	var union []string
	for _, v := range append(append([]string(nil), a.Biomarkers...), b.Biomarkers...) {
		if !set[v] {
			set[v] = true
			union = append(union, v)
		}
	}
	sort.Strings(union)

	confidence := a.Confidence
	if b.Confidence < confidence {
		confidence = b.Confidence
	}

	avg := (a.AvgScore + b.AvgScore) / 2

	return domain.BiomarkerCluster{
		ClusterID:   uuid.NewString(),
		Name:        "Merged Health Pattern",
		Biomarkers:  union,
		Description: "Combines " + a.Name + " and " + b.Name,
		Severity:    domain.MaxSeverity(a.Severity, b.Severity),
		Confidence:  confidence,
		AvgScore:    round1(avg),
	}
}

func averageConfidence(clusters []domain.BiomarkerCluster) float64 {
	if len(clusters) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range clusters {
		sum += c.Confidence
	}
	return round1(sum / float64(len(clusters)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

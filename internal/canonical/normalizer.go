// Package canonical resolves arbitrary input biomarker keys to the SSOT
// canonical names, per spec.md 4.1.
package canonical

import (
	"fmt"
	"sort"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Normalizer resolves raw biomarker keys against a ResolverHandle's alias
// index. It holds no mutable state of its own; the index lookup is O(1).
type Normalizer struct {
	resolver domain.ResolverHandle
}

func New(resolver domain.ResolverHandle) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// RawEntry is one input biomarker measurement before normalization.
type RawEntry struct {
	Value float64
	Unit  string
}

// Normalize resolves every key of raw against the alias index and returns
// a BiomarkerPanel of canonical-keyed values plus the list of keys that
// could not be resolved. It never coerces values; type validation is the
// caller's job upstream of this step.
func (n *Normalizer) Normalize(raw map[string]RawEntry) (domain.BiomarkerPanel, []string) {
	alias := n.resolver.AliasIndex()
	canonicalSet := make(map[string]struct{}, len(n.resolver.Definitions()))
	for name := range n.resolver.Definitions() {
		canonicalSet[name] = struct{}{}
	}

	values := make(map[string]domain.BiomarkerValue, len(raw))
	var unmapped []string

	for key, entry := range raw {
		canonicalName, ok := alias[key]
		if !ok {
			unmapped = append(unmapped, key)
			continue
		}
		if _, isCanonical := canonicalSet[canonicalName]; !isCanonical {
			unmapped = append(unmapped, key)
			continue
		}
		values[canonicalName] = domain.BiomarkerValue{
			Name:  canonicalName,
			Value: entry.Value,
			Unit:  entry.Unit,
		}
	}

	sort.Strings(unmapped)

	panel, err := domain.NewBiomarkerPanel(values, canonicalSet)
	if err != nil {
		// Every value above was built from a canonicalName already present
		// in canonicalSet, so construction cannot fail; this branch exists
		// only to satisfy the constructor's contract.
		return domain.BiomarkerPanel{}, append(unmapped, err.Error())
	}

	return panel, unmapped
}

// ValidateStrict enforces spec.md 4.1's strict mode: every input key must
// already equal its resolved canonical name, or the whole call fails with
// the list of offenders.
func (n *Normalizer) ValidateStrict(raw map[string]RawEntry) error {
	alias := n.resolver.AliasIndex()
	var offenders []string
	for key := range raw {
		canonicalName, ok := alias[key]
		if !ok || canonicalName != key {
			offenders = append(offenders, key)
		}
	}
	if len(offenders) == 0 {
		return nil
	}
	sort.Strings(offenders)
	return domain.NewAnalysisError(domain.ErrNonCanonicalInput,
		fmt.Sprintf("non-canonical biomarker keys under strict mode: %v", offenders),
		map[string]interface{}{"offenders": offenders})
}

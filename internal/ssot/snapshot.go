// Package ssot builds and caches the read-only snapshot of biomarker
// definitions, reference ranges, and units that the rest of the analysis
// core treats as a ResolverHandle. Loading and schema-validating the
// underlying YAML tables is an external collaborator's job (spec.md 1, 6);
// this package only assembles and indexes whatever the loader returns.
package ssot

import (
	"fmt"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Tables is the validated input the external SSOT loader hands to the
// core: three structured tables, per spec.md 6.
type Tables struct {
	Definitions     []domain.BiomarkerDefinition
	ReferenceRanges []domain.ReferenceRange
	Units           []domain.UnitDefinition
}

// snapshot is the concrete, immutable ResolverHandle implementation.
type snapshot struct {
	definitions map[string]domain.BiomarkerDefinition
	aliasIndex  map[string]string
	ranges      map[string][]domain.ReferenceRange
	units       map[string]domain.UnitDefinition
	version     string
}

func (s *snapshot) Definitions() map[string]domain.BiomarkerDefinition { return s.definitions }
func (s *snapshot) AliasIndex() map[string]string                      { return s.aliasIndex }
func (s *snapshot) ReferenceRanges() map[string][]domain.ReferenceRange { return s.ranges }
func (s *snapshot) Units() map[string]domain.UnitDefinition            { return s.units }
func (s *snapshot) Version() string                                    { return s.version }

// Build assembles a ResolverHandle from validated tables, building the
// alias→canonical index once so normalization is O(1) per lookup
// (spec.md 4.1). Duplicate aliases across biomarkers are a hard load
// failure, per spec.md 6.
func Build(tables Tables, version string) (domain.ResolverHandle, error) {
	defs := make(map[string]domain.BiomarkerDefinition, len(tables.Definitions))
	aliasIndex := make(map[string]string)

	for _, d := range tables.Definitions {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("ssot: %w", err)
		}
		if _, exists := defs[d.CanonicalName]; exists {
			return nil, fmt.Errorf("ssot: duplicate canonical name %q", d.CanonicalName)
		}
		defs[d.CanonicalName] = d

		// The canonical name always resolves to itself.
		if existing, ok := aliasIndex[d.CanonicalName]; ok && existing != d.CanonicalName {
			return nil, fmt.Errorf("ssot: canonical name %q collides with alias of %q", d.CanonicalName, existing)
		}
		aliasIndex[d.CanonicalName] = d.CanonicalName

		for _, alias := range d.Aliases {
			if existing, ok := aliasIndex[alias]; ok && existing != d.CanonicalName {
				return nil, fmt.Errorf("ssot: duplicate alias %q maps to both %q and %q", alias, existing, d.CanonicalName)
			}
			aliasIndex[alias] = d.CanonicalName
		}
	}

	ranges := make(map[string][]domain.ReferenceRange)
	for _, r := range tables.ReferenceRanges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("ssot: %w", err)
		}
		ranges[r.Biomarker] = append(ranges[r.Biomarker], r)
	}

	units := make(map[string]domain.UnitDefinition, len(tables.Units))
	for _, u := range tables.Units {
		units[u.Name] = u
	}

	return &snapshot{
		definitions: defs,
		aliasIndex:  aliasIndex,
		ranges:      ranges,
		units:       units,
		version:     version,
	}, nil
}

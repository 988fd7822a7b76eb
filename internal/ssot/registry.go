package ssot

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/biomarker-analysis-core/internal/domain"
)

// Registry caches built ResolverHandle snapshots by version so a
// long-running host (CLI invoked repeatedly, or an embedding server) does
// not re-parse and re-index the same SSOT tables on every analysis.
// Reloading builds a new snapshot; in-flight analyses keep the handle they
// already hold, since a snapshot is immutable (spec.md 5).
type Registry struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, domain.ResolverHandle]
	log    *logrus.Logger
	active string
}

func NewRegistry(log *logrus.Logger, size int) (*Registry, error) {
	if size <= 0 {
		size = 4
	}
	c, err := lru.New[string, domain.ResolverHandle](size)
	if err != nil {
		return nil, fmt.Errorf("ssot registry: %w", err)
	}
	return &Registry{cache: c, log: log}, nil
}

// Load builds (or returns the cached) snapshot for the given version and
// marks it the current active version.
func (r *Registry) Load(tables Tables, version string) (domain.ResolverHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handle, ok := r.cache.Get(version); ok {
		r.active = version
		return handle, nil
	}

	handle, err := Build(tables, version)
	if err != nil {
		r.log.WithFields(logrus.Fields{"version": version, "error": err}).Error("ssot snapshot build failed")
		return nil, err
	}
	r.cache.Add(version, handle)
	r.active = version
	r.log.WithFields(logrus.Fields{"version": version, "biomarkers": len(handle.Definitions())}).Info("ssot snapshot loaded")
	return handle, nil
}

// Active returns the most recently loaded snapshot, if any.
func (r *Registry) Active() (domain.ResolverHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == "" {
		return nil, false
	}
	handle, ok := r.cache.Get(r.active)
	return handle, ok
}

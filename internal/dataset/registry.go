package dataset

import (
	"sort"
	"sync"

	apperrors "fauxlizer/internal/errors"
	"fauxlizer/pkg/contracts/domain"
)

// Registry caches the most recent validation outcome per path. Paths are
// keyed exactly as given; outcomes are never refreshed automatically.
type Registry struct {
	mu       sync.RWMutex
	outcomes map[string]domain.ValidationOutcome
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{outcomes: make(map[string]domain.ValidationOutcome)}
}

// Store records outcome under outcome.Path, replacing any earlier verdict.
func (r *Registry) Store(outcome domain.ValidationOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome.Path] = outcome
}

// Lookup returns the cached outcome for path.
func (r *Registry) Lookup(path string) (domain.ValidationOutcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.outcomes[path]
	return o, ok
}

// Require returns ErrNotValidated unless the latest outcome for path is valid.
func (r *Registry) Require(path string) error {
	if o, ok := r.Lookup(path); ok && o.Valid {
		return nil
	}
	return apperrors.NewNotValidatedError(path)
}

// Snapshot returns all cached outcomes ordered by path.
func (r *Registry) Snapshot() []domain.ValidationOutcome {
	r.mu.RLock()
	out := make([]domain.ValidationOutcome, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

package registry

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Stats are cumulative counters. They are never decremented.
type Stats struct {
	TotalCreations int `json:"total_creations"`
	CacheHits      int `json:"cache_hits"`
	Configurations int `json:"configurations"`
	Resets         int `json:"resets"`
}

// CreationStats is a snapshot of the registry state.
type CreationStats struct {
	Stats         Stats          `json:"stats"`
	CacheHitRate  float64        `json:"cache_hit_rate"`
	Configuration map[string]any `json:"configuration"`
	CachedClients []string       `json:"cached_clients"`
}

// HitRate returns CacheHits/TotalCreations, or 0 when nothing was created.
func (s Stats) HitRate() float64 {
	if s.TotalCreations == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.TotalCreations)
}

// CreationStats returns counters, hit rate, options and cached kinds.
func (r *Registry) CreationStats() CreationStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := r.createdKindsLocked()
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.String()
	}
	return CreationStats{
		Stats:         r.stats,
		CacheHitRate:  r.stats.HitRate(),
		Configuration: r.opts.Map(),
		CachedClients: labels,
	}
}

// BatchResult is the outcome for one label of [Registry.BatchCreate]:
// either a handle or an error descriptor.
type BatchResult struct {
	Handle  clients.Handle
	Message string // error text, empty on success
	Err     error  // the failure itself
}

// Failed reports whether the label could not be created.
func (b BatchResult) Failed() bool { return b.Err != nil }

// MarshalJSON renders {"kind": ...} on success and {"error": ..., "code": ...} on failure.
func (b BatchResult) MarshalJSON() ([]byte, error) {
	if b.Failed() {
		return json.Marshal(struct {
			Error string      `json:"error"`
			Code  errors.Code `json:"code,omitempty"`
		}{b.Message, errors.GetCode(b.Err)})
	}
	return json.Marshal(struct {
		Kind string `json:"kind"`
	}{b.Handle.Kind().String()})
}

// BatchCreate creates every label in order and reports each outcome by label.
// Duplicate labels share one entry. Unknown labels, construction failures and
// constructor panics become error descriptors; the batch itself never fails.
func (r *Registry) BatchCreate(labels ...string) map[string]BatchResult {
	out := make(map[string]BatchResult, len(labels))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, label := range labels {
		kind, err := clients.ParseKind(label)
		var h clients.Handle
		if err == nil {
			h, err = r.batchCreateLocked(kind)
		}
		if err != nil {
			r.logger.Warn("batch create failed", "kind", label, "err", err)
			out[label] = BatchResult{Message: err.Error(), Err: err}
			continue
		}
		out[label] = BatchResult{Handle: h}
	}
	return out
}

// batchCreateLocked is createLocked with a constructor panic reported as a
// CLIENT_CONSTRUCTION error. Nothing is counted or cached for that kind.
func (r *Registry) batchCreateLocked(kind clients.Kind) (h clients.Handle, err error) {
	defer func() {
		if p := recover(); p != nil {
			h = nil
			err = clients.ConstructionError(kind, fmt.Errorf("constructor panicked: %v", p))
			r.hooks.OnConstructionError(kind.String(), err)
		}
	}()
	return r.createLocked(kind)
}

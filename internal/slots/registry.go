package slots

import (
	"sort"
	"sync"
)

// Registry holds slot entries in registration order.
//
// It is safe for concurrent use. Every mutation bumps Version so that
// derived results (see CachedDispatcher) can tell a stale snapshot apart.
// The zero value is an empty registry ready for use.
type Registry struct {
	mu      sync.RWMutex
	slots   map[string][]Entry
	version uint64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: map[string][]Entry{}}
}

// Register appends entries to slot, after any already registered there.
func (r *Registry) Register(slot string, entries ...Entry) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots == nil {
		r.slots = map[string][]Entry{}
	}
	current := r.slots[slot]
	next := make([]Entry, 0, len(current)+len(entries))
	next = append(next, current...)
	next = append(next, entries...)
	r.slots[slot] = next
	r.version++
}

// Replace swaps the whole registry for slots in one step.
func (r *Registry) Replace(slots map[string][]Entry) {
	next := make(map[string][]Entry, len(slots))
	for name, entries := range slots {
		if len(entries) == 0 {
			continue
		}
		next[name] = append([]Entry(nil), entries...)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots = next
	r.version++
}

// Reset removes every registered entry.
func (r *Registry) Reset() {
	r.Replace(nil)
}

// Entries returns a copy of the entries registered for slot.
func (r *Registry) Entries(slot string) []Entry {
	entries, _ := r.Lookup(slot)
	return entries
}

// Lookup returns a copy of the entries for slot together with the registry
// version they were read at.
func (r *Registry) Lookup(slot string) ([]Entry, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.slots[slot]
	if len(entries) == 0 {
		return nil, r.version
	}
	return append([]Entry(nil), entries...), r.version
}

// Slots returns the names of slots with at least one entry, sorted.
func (r *Registry) Slots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version returns the mutation counter.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// MergeEntries concatenates slot maps. For each slot, entries from earlier
// sets come first.
func MergeEntries(sets ...map[string][]Entry) map[string][]Entry {
	merged := map[string][]Entry{}
	for _, set := range sets {
		for name, entries := range set {
			merged[name] = append(merged[name], entries...)
		}
	}
	return merged
}

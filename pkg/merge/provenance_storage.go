package merge

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// ProvenanceEntry records one document setting a value at a path.
type ProvenanceEntry struct {
	Document string      `yaml:"document" json:"document"`
	Tier     schema.Tier `yaml:"tier" json:"tier"`
	Origin   string      `yaml:"origin,omitempty" json:"origin,omitempty"`
	Value    value.Value `yaml:"value" json:"value"`
}

// ProvenanceStorage maps dotted content paths to the chain of documents that set them.
// Each chain is ordered base → override; the last entry holds the effective value.
type ProvenanceStorage struct {
	entries map[string][]ProvenanceEntry
	mutex   sync.RWMutex
}

// NewProvenanceStorage creates a new provenance storage.
func NewProvenanceStorage() *ProvenanceStorage {
	return &ProvenanceStorage{
		entries: make(map[string][]ProvenanceEntry),
	}
}

// Record appends an entry to the chain of path.
func (ps *ProvenanceStorage) Record(path string, entry ProvenanceEntry) {
	if ps == nil {
		return
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	ps.entries[path] = append(ps.entries[path], entry)
}

// Get returns a copy of the chain for path, or nil.
func (ps *ProvenanceStorage) Get(path string) []ProvenanceEntry {
	if ps == nil {
		return nil
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	entries, exists := ps.entries[path]
	if !exists {
		return nil
	}

	result := make([]ProvenanceEntry, len(entries))
	copy(result, entries)
	return result
}

func (ps *ProvenanceStorage) Has(path string) bool {
	if ps == nil {
		return false
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	_, exists := ps.entries[path]
	return exists
}

// GetPaths returns every recorded path, sorted.
func (ps *ProvenanceStorage) GetPaths() []string {
	if ps == nil {
		return nil
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	paths := make([]string, 0, len(ps.entries))
	for path := range ps.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// GetLatest returns the entry holding the effective value at path.
func (ps *ProvenanceStorage) GetLatest(path string) (ProvenanceEntry, bool) {
	if ps == nil {
		return ProvenanceEntry{}, false
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	entries := ps.entries[path]
	if len(entries) == 0 {
		return ProvenanceEntry{}, false
	}
	return entries[len(entries)-1], true
}

// RemoveTree deletes path and everything below it.
func (ps *ProvenanceStorage) RemoveTree(path string) {
	ps.remove(path, true)
}

// RemoveChildren deletes everything below path and keeps path itself.
func (ps *ProvenanceStorage) RemoveChildren(path string) {
	ps.remove(path, false)
}

func (ps *ProvenanceStorage) remove(path string, self bool) {
	if ps == nil {
		return
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	prefix := path + "."
	for p := range ps.entries {
		if (self && p == path) || strings.HasPrefix(p, prefix) {
			delete(ps.entries, p)
		}
	}
}

func (ps *ProvenanceStorage) Size() int {
	if ps == nil {
		return 0
	}

	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	return len(ps.entries)
}

func (ps *ProvenanceStorage) Clear() {
	if ps == nil {
		return
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	ps.entries = make(map[string][]ProvenanceEntry)
}

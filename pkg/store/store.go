package store

import (
	"fmt"
	"sort"
	"sync"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/schema"
)

// Reader is the read-only view of a set of documents that the engine's stages work against.
type Reader interface {
	// Get returns the document with the given name.
	Get(name string) (schema.Document, bool)
	// Names returns all document names, sorted.
	Names() []string
}

// DocumentStore holds all loaded configuration documents by name.
type DocumentStore struct {
	docs map[string]schema.Document
	mu   sync.RWMutex
}

// Ensure DocumentStore implements the Reader interface.
var _ Reader = (*DocumentStore)(nil)

// New creates a store holding docs. Duplicate names are an error.
func New(docs ...schema.Document) (*DocumentStore, error) {
	s := &DocumentStore{docs: make(map[string]schema.Document, len(docs))}
	if err := s.Replace(docs); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the whole content of the store, as on a reload. On error the store is unchanged.
func (s *DocumentStore) Replace(docs []schema.Document) error {
	next := make(map[string]schema.Document, len(docs))
	for _, doc := range docs {
		if existing, ok := next[doc.Name]; ok {
			return fmt.Errorf("%w: %q defined in %s and %s",
				errUtils.ErrDuplicateDocument, doc.Name, existing.Origin, doc.Origin)
		}
		next[doc.Name] = doc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = next
	return nil
}

// Get retrieves a document by name.
func (s *DocumentStore) Get(name string) (schema.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	return doc, ok
}

// Lookup retrieves a document by name or returns ErrDocumentNotFound.
func (s *DocumentStore) Lookup(name string) (schema.Document, error) {
	doc, ok := s.Get(name)
	if !ok {
		return schema.Document{}, fmt.Errorf("%w: %s", errUtils.ErrDocumentNotFound, name)
	}
	return doc, nil
}

// Names returns the sorted document names.
func (s *DocumentStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Snapshot returns an immutable copy of the current contents, for one processing run.
func (s *DocumentStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make(Snapshot, len(s.docs))
	for name, doc := range s.docs {
		cp[name] = doc
	}
	return cp
}

// Snapshot is a plain map of documents implementing Reader.
type Snapshot map[string]schema.Document

var _ Reader = Snapshot(nil)

// Of builds a Snapshot from docs; later duplicates win.
func Of(docs ...schema.Document) Snapshot {
	s := make(Snapshot, len(docs))
	for _, doc := range docs {
		s[doc.Name] = doc
	}
	return s
}

func (s Snapshot) Get(name string) (schema.Document, bool) {
	doc, ok := s[name]
	return doc, ok
}

func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of s with doc added or replaced.
func (s Snapshot) With(doc schema.Document) Snapshot {
	cp := make(Snapshot, len(s)+1)
	for name, d := range s {
		cp[name] = d
	}
	cp[doc.Name] = doc
	return cp
}

package reference

import (
	"sort"

	"github.com/cockroachdb/errors"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/dependency"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/store"
	"github.com/cloudposse/tierconf/pkg/value"
)

type state int

const (
	unvisited state = iota
	inProgress
	done
)

// Issue is a placeholder that could not be substituted and was left in place.
type Issue struct {
	// Document owns the string holding the placeholder, at Path.
	Document  string
	Path      []string
	Reference Reference
	Err       error
}

// Resolver resolves the references of one batch. Create a new Resolver for every run.
type Resolver struct {
	config *schema.Configuration
	docs   store.Reader

	view   store.Snapshot
	states map[string]state
	cache  map[string]schema.Document
	issues []Issue
}

func NewResolver(config *schema.Configuration, docs store.Reader) *Resolver {
	return &Resolver{
		config: config,
		docs:   docs,
		states: map[string]state{},
		cache:  map[string]schema.Document{},
	}
}

// ResolveReferences returns copies of batch with every resolvable placeholder substituted.
// Referenced documents are looked up in batch first and then in the store. When a reference
// cycle is reachable from batch, the documents are returned unresolved with ErrReferenceCycleDetected.
func (r *Resolver) ResolveReferences(batch []schema.Document) ([]schema.Document, error) {
	defer perf.Track(r.config, "reference.Resolver.ResolveReferences")()

	r.view = store.Of()
	for _, name := range r.docs.Names() {
		doc, _ := r.docs.Get(name)
		r.view[name] = doc
	}
	for _, doc := range batch {
		r.view[doc.Name] = doc
	}

	if err := r.checkCycles(batch); err != nil {
		log.Error("Reference resolution skipped", "error", err)
		out := make([]schema.Document, len(batch))
		for i, doc := range batch {
			out[i] = doc.Clone()
		}
		return out, err
	}

	out := make([]schema.Document, len(batch))
	for i, doc := range batch {
		resolved, _ := r.resolve(doc.Name)
		out[i] = resolved
	}
	return out, nil
}

// Issues returns the placeholders left unresolved so far.
func (r *Resolver) Issues() []Issue {
	return append([]Issue(nil), r.issues...)
}

// IssuesFor returns the issues found in the strings of document name.
func (r *Resolver) IssuesFor(name string) []Issue {
	var out []Issue
	for _, issue := range r.issues {
		if issue.Document == name {
			out = append(out, issue)
		}
	}
	return out
}

// checkCycles builds the reference graph over everything reachable from batch.
func (r *Resolver) checkCycles(batch []schema.Document) error {
	builder := dependency.NewBuilder()
	seen := map[string]bool{}
	queue := make([]string, 0, len(batch))
	for _, doc := range batch {
		queue = append(queue, doc.Name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true

		doc, _ := r.view.Get(name)
		if err := builder.AddNode(&dependency.Node{ID: name}); err != nil {
			return err
		}
		for _, ref := range ReferencedDocuments(doc.Content) {
			if _, ok := r.view.Get(ref); !ok {
				continue
			}
			queue = append(queue, ref)
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	// Edges are added once every node exists so dependents are linked both ways.
	for _, name := range names {
		doc, _ := r.view.Get(name)
		for _, ref := range ReferencedDocuments(doc.Content) {
			if !seen[ref] {
				continue
			}
			if err := builder.AddDependency(name, ref); err != nil {
				return err
			}
		}
	}

	if _, err := builder.Build(); err != nil {
		var cycle []string
		var cycleErr *dependency.CycleError
		if errors.As(err, &cycleErr) {
			cycle = cycleErr.Path
		}
		return errUtils.Build(errUtils.ErrReferenceCycleDetected).
			WithHintf("Remove one of the `${config:...}` references in the cycle %v", cycle).
			WithContext("cycle", cycle).
			Err()
	}
	return nil
}

func (r *Resolver) resolve(name string) (schema.Document, bool) {
	switch r.states[name] {
	case done:
		return r.cache[name], true
	case inProgress:
		// Unreachable after checkCycles; keep the raw document rather than recursing forever.
		log.Warn("Reference cycle reached during resolution", "document", name)
		doc, ok := r.view.Get(name)
		return doc, ok
	}

	doc, ok := r.view.Get(name)
	if !ok {
		return schema.Document{}, false
	}

	r.states[name] = inProgress
	content := doc.Content.MapStrings(func(path []string, s string) value.Value {
		return value.String(r.substitute(name, path, s))
	})
	resolved := doc.WithContent(content)
	r.cache[name] = resolved
	r.states[name] = done
	log.Trace("Resolved references", "document", name)
	return resolved, true
}

func (r *Resolver) substitute(owner string, path []string, s string) string {
	return Pattern.ReplaceAllStringFunc(s, func(raw string) string {
		m := Pattern.FindStringSubmatch(raw)
		ref := Reference{Raw: raw, Document: m[1], Path: m[2]}

		target, ok := r.resolve(ref.Document)
		if !ok {
			r.addIssue(owner, path, ref, errUtils.ErrDocumentNotFound)
			return raw
		}

		v, ok := target.Content.Lookup(value.ParsePath(ref.Path))
		if !ok {
			r.addIssue(owner, path, ref, errUtils.ErrReferencePathNotFound)
			return raw
		}
		return v.Text()
	})
}

func (r *Resolver) addIssue(owner string, path []string, ref Reference, sentinel error) {
	err := errUtils.Build(sentinel).
		WithContext("document", owner).
		WithContext("path", value.FormatPath(path)).
		WithContext("reference", ref.Raw).
		Err()
	log.Warn("Unresolved reference", "document", owner, "path", value.FormatPath(path), "reference", ref.Raw)
	r.issues = append(r.issues, Issue{Document: owner, Path: path, Reference: ref, Err: err})
}

// Package engine runs the processing pipeline for configuration documents:
// merge, resolve references, resolve conflicts against unrelated documents, validate.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/conflict"
	"github.com/cloudposse/tierconf/pkg/inherit"
	"github.com/cloudposse/tierconf/pkg/loader"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/merge"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/reference"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/store"
	"github.com/cloudposse/tierconf/pkg/validate"
)

// Engine owns the Document Store and runs the pipeline. Runs are serialized.
type Engine struct {
	config    *schema.Configuration
	loader    loader.Loader
	store     *store.DocumentStore
	validator *validate.Validator
	resolver  *conflict.Resolver

	mu         sync.Mutex
	conflicts  *conflict.Set
	validation map[string]validate.Result
}

// Option customizes an Engine.
type Option func(*Engine)

// WithValidator replaces the validator built from the configuration.
func WithValidator(v *validate.Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithConflictResolver replaces the conflict resolver built from the configuration.
func WithConflictResolver(r *conflict.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// New creates an engine with an empty Document Store. Call Initialize to load documents.
func New(config *schema.Configuration, l loader.Loader, opts ...Option) (*Engine, error) {
	if config == nil {
		config = &schema.Configuration{}
	}
	e := &Engine{
		config:     config,
		loader:     l,
		conflicts:  conflict.NewSet(),
		validation: map[string]validate.Result{},
	}
	e.store, _ = store.New()

	for _, opt := range opts {
		opt(e)
	}
	if e.validator == nil {
		v, err := validate.NewValidator(config)
		if err != nil {
			return nil, err
		}
		e.validator = v
	}
	if e.resolver == nil {
		e.resolver = conflict.NewResolver(config)
	}
	return e, nil
}

// Store returns the engine's Document Store.
func (e *Engine) Store() *store.DocumentStore {
	return e.store
}

// Initialize loads every document and replaces the Document Store.
func (e *Engine) Initialize(ctx context.Context) error {
	defer perf.Track(e.config, "engine.Initialize")()

	if err := ctx.Err(); err != nil {
		return err
	}

	docs, err := e.loader.Load(ctx)
	if err != nil {
		return errUtils.Build(fmt.Errorf("%w: %w", errUtils.ErrLoadDocument, err)).
			WithHint("Check the files under the base path and the documents.included_paths setting").
			WithContext("base_path", e.config.BasePath).
			Err()
	}
	if err := e.store.Replace(docs); err != nil {
		return errUtils.Build(err).
			WithHint("Document names must be unique; set `name` explicitly in one of the files").
			Err()
	}

	e.mu.Lock()
	e.validation = map[string]validate.Result{}
	e.conflicts = conflict.NewSet()
	e.mu.Unlock()

	log.Info("Loaded documents", "count", len(docs))
	return nil
}

// Result is the outcome of processing one document.
type Result struct {
	Name     string
	Document *schema.Document
	Err      error
}

// ProcessConfiguration returns the effective form of name, or nil and the reason it failed.
func (e *Engine) ProcessConfiguration(name string) (*schema.Document, error) {
	defer perf.Track(e.config, "engine.ProcessConfiguration")()

	e.mu.Lock()
	defer e.mu.Unlock()

	set := conflict.NewSet()
	doc, err := e.process(name, e.store.Snapshot(), set)
	e.conflicts = set
	return doc, err
}

// ProcessAll processes every document in precedence order. A failure never stops the others.
// The conflicts of all runs are kept together.
func (e *Engine) ProcessAll() []Result {
	defer perf.Track(e.config, "engine.ProcessAll")()

	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.store.Snapshot()
	all := conflict.NewSet()
	var results []Result
	for _, name := range inherit.PrecedenceOrder(snapshot) {
		set := conflict.NewSet()
		doc, err := e.process(name, snapshot, set)
		all.Merge(set)
		results = append(results, Result{Name: name, Document: doc, Err: err})
	}
	e.conflicts = all
	return results
}

func (e *Engine) process(name string, snapshot store.Snapshot, set *conflict.Set) (*schema.Document, error) {
	logger := log.Default().With("run", uuid.NewString(), "document", name)
	logger.Debug("Processing configuration")

	merged, err := merge.NewMerger(e.config, snapshot).MergeConfiguration(name)
	if err != nil {
		return nil, err
	}

	if e.config.Processing.ResolveReferences {
		merged = e.resolveReferences(logger, merged, snapshot, set)
	}

	if e.config.Processing.AutoResolveConflicts {
		merged = e.resolveConflicts(logger, merged, snapshot, set)
	}

	if e.config.Processing.ValidateAfterMerge {
		result := e.validator.Validate(merged)
		e.validation[name] = result
		if e.config.Processing.LogValidationErrors {
			for _, f := range result.Errors {
				logger.Error("Validation error", "path", f.Path, "message", f.Message)
			}
			for _, f := range result.Warnings {
				logger.Warn("Validation warning", "path", f.Path, "message", f.Message)
			}
		}
		if !result.IsValid {
			return nil, errUtils.Build(errUtils.ErrValidationFailed).
				WithHintf("Run `tierconf validate %s` to list the findings", name).
				WithContext("document", name).
				WithContext("errors", len(result.Errors)).
				Err()
		}
	}

	logger.Debug("Processed configuration")
	return &merged, nil
}

// resolveReferences substitutes placeholders. Unresolved placeholders become
// ReferenceResolutionError conflicts whose two sides both hold the placeholder text.
func (e *Engine) resolveReferences(logger *log.Logger, doc schema.Document, snapshot store.Snapshot, set *conflict.Set) schema.Document {
	resolver := reference.NewResolver(e.config, snapshot)
	out, err := resolver.ResolveReferences([]schema.Document{doc})
	if err != nil {
		logger.Warn("References left unresolved", "error", err)
	}

	resolved := out[0]
	for _, issue := range resolver.IssuesFor(doc.Name) {
		current, _ := resolved.Content.Lookup(issue.Path)
		side := conflict.Side{Document: doc.Name, Tier: doc.Tier, Value: current}
		set.Add(conflict.Conflict{
			Kind: conflict.KindReferenceResolutionError,
			Path: issue.Path,
			A:    side,
			B:    side,
		})
	}
	return resolved
}

// resolveConflicts compares doc with every document it is not related to by extends.
func (e *Engine) resolveConflicts(logger *log.Logger, doc schema.Document, snapshot store.Snapshot, set *conflict.Set) schema.Document {
	for _, other := range inherit.PrecedenceOrder(snapshot) {
		if other == doc.Name || inherit.Related(doc.Name, other, snapshot) {
			continue
		}
		otherDoc, _ := snapshot.Get(other)
		found := conflict.Detect(doc, otherDoc)
		if len(found) > 0 {
			logger.Debug("Conflicts detected", "with", other, "count", len(found))
		}
		set.Add(found...)
	}

	set.ResolveAll(e.resolver)
	return conflict.ApplyResolutions(doc, set)
}

// Conflicts returns the conflicts of the last run.
func (e *Engine) Conflicts() []conflict.Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conflicts.All()
}

// UnresolvedConflicts returns the conflicts of the last run that were not resolved.
func (e *Engine) UnresolvedConflicts() []conflict.Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conflicts.Unresolved()
}

// Validation returns the last validation result for name.
func (e *Engine) Validation(name string) (validate.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.validation[name]
	return r, ok
}

// Merged returns name merged with its ancestors and nothing else.
func (e *Engine) Merged(name string) (schema.Document, error) {
	defer perf.Track(e.config, "engine.Merged")()

	return merge.NewMerger(e.config, e.store.Snapshot()).MergeConfiguration(name)
}

// Provenance merges name and returns, per content path, the documents that set it.
func (e *Engine) Provenance(name string) (*merge.ProvenanceStorage, error) {
	defer perf.Track(e.config, "engine.Provenance")()

	ctx := merge.NewMergeContext()
	if _, err := merge.NewMerger(e.config, e.store.Snapshot()).MergeConfigurationWithContext(ctx, name); err != nil {
		return nil, fmt.Errorf("provenance of %s: %w", name, err)
	}
	return ctx.Provenance, nil
}

package loader

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// DefaultIncludedPaths are used when documents.included_paths is empty.
var DefaultIncludedPaths = []string{"**/*.yaml", "**/*.yml", "**/*.json"}

const (
	nameKey    = "name"
	tierKey    = "tier"
	extendsKey = "extends"
)

// DirectoryLoader loads every file under BasePath matching an include glob and no exclude glob.
// Globs are relative to BasePath and use doublestar syntax.
type DirectoryLoader struct {
	config   *schema.Configuration
	BasePath string
	Included []string
	Excluded []string
}

var _ Loader = (*DirectoryLoader)(nil)

func NewDirectoryLoader(config *schema.Configuration) *DirectoryLoader {
	included := config.Documents.IncludedPaths
	if len(included) == 0 {
		included = DefaultIncludedPaths
	}
	basePath := config.BasePath
	if basePath == "" {
		basePath = "."
	}
	return &DirectoryLoader{
		config:   config,
		BasePath: basePath,
		Included: included,
		Excluded: config.Documents.ExcludedPaths,
	}
}

// Load reads the matching files in lexical order.
func (l *DirectoryLoader) Load(ctx context.Context) ([]schema.Document, error) {
	defer perf.Track(l.config, "loader.DirectoryLoader.Load")()

	files, err := l.Files()
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(l.BasePath, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrLoadDocument, rel, err)
		}
		doc, ok, err := ParseDocument(rel, data)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("Skipping empty document", "file", rel)
			continue
		}
		doc.Origin = filepath.Join(l.BasePath, filepath.FromSlash(rel))
		log.Trace("Loaded document", "document", doc.Name, "tier", doc.Tier, "file", rel)
		docs = append(docs, doc)
	}

	log.Debug("Loaded documents", "count", len(docs), "base_path", l.BasePath)
	return docs, nil
}

// Files returns the slash-separated paths, relative to BasePath, that Load reads.
func (l *DirectoryLoader) Files() ([]string, error) {
	fsys := os.DirFS(l.BasePath)

	var files []string
	for _, pattern := range l.Included {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: include pattern %q: %w", errUtils.ErrLoadDocument, pattern, err)
		}
		for _, match := range matches {
			if l.excluded(match) {
				continue
			}
			files = append(files, match)
		}
	}

	files = lo.Uniq(files)
	sort.Strings(files)
	return files, nil
}

func (l *DirectoryLoader) excluded(rel string) bool {
	for _, pattern := range l.Excluded {
		match, err := doublestar.Match(pattern, rel)
		if err != nil {
			log.Warn("Invalid exclude pattern", "pattern", pattern, "error", err)
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// ParseDocument decodes a YAML or JSON document. The top-level keys name, tier and extends are
// document fields and everything else is content. The name defaults to rel without its extension.
// An empty file yields ok == false.
func ParseDocument(rel string, data []byte) (doc schema.Document, ok bool, err error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return schema.Document{}, false, fmt.Errorf("%w: %s: %w", errUtils.ErrLoadDocument, rel, err)
	}
	if raw == nil {
		return schema.Document{}, false, nil
	}

	tree, err := value.FromTree(raw)
	if err != nil {
		return schema.Document{}, false, fmt.Errorf("%w: %s: %w", errUtils.ErrLoadDocument, rel, err)
	}
	if !tree.IsMap() {
		return schema.Document{}, false, fmt.Errorf("%w: %s: top level must be a map, got %s",
			errUtils.ErrInvalidDocument, rel, tree.Kind())
	}

	fields := tree.Fields()
	doc.Name = strings.TrimSuffix(rel, path.Ext(rel))
	if name, found := fields[nameKey]; found {
		s, isString := name.AsString()
		if !isString || s == "" {
			return schema.Document{}, false, fmt.Errorf("%w: %s: '%s' must be a non-empty string", errUtils.ErrInvalidDocument, rel, nameKey)
		}
		doc.Name = s
	}
	if strings.ContainsAny(doc.Name, ".}") {
		log.Warn("Document name contains '.' or '}' and cannot be referenced", "document", doc.Name, "file", rel)
	}

	if tier, found := fields[tierKey]; found {
		s, isString := tier.AsString()
		if !isString {
			return schema.Document{}, false, fmt.Errorf("%w: %s: '%s' must be a string", errUtils.ErrInvalidDocument, rel, tierKey)
		}
		parsed, perr := schema.ParseTier(s)
		if perr != nil {
			// Kept as written so validation reports it against the document.
			log.Warn("Unknown tier", "document", doc.Name, "tier", s)
			parsed = schema.Tier(strings.ToLower(strings.TrimSpace(s)))
		}
		doc.Tier = parsed
	}

	if extends, found := fields[extendsKey]; found {
		doc.Extends, err = parseExtends(extends)
		if err != nil {
			return schema.Document{}, false, fmt.Errorf("%w: %s: %w", errUtils.ErrInvalidDocument, rel, err)
		}
	}

	delete(fields, nameKey)
	delete(fields, tierKey)
	delete(fields, extendsKey)
	doc.Content = value.Map(fields)
	return doc, true, nil
}

func parseExtends(v value.Value) ([]string, error) {
	if s, ok := v.AsString(); ok {
		return []string{s}, nil
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsSequence() {
		return nil, fmt.Errorf("'%s' must be a string or a list of strings", extendsKey)
	}

	parents := make([]string, 0, v.Len())
	for i, item := range v.Items() {
		s, ok := item.AsString()
		if !ok {
			return nil, fmt.Errorf("'%s[%d]' must be a string", extendsKey, i)
		}
		parents = append(parents, s)
	}
	return parents, nil
}

// Package validate checks an effective document: required fields, custom validators,
// inline __type annotations, JSON Schemas and expression rules.
package validate

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
	"github.com/cloudposse/tierconf/pkg/perf"
	"github.com/cloudposse/tierconf/pkg/schema"
	"github.com/cloudposse/tierconf/pkg/value"
)

// Severity of a finding. Only errors make a document invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity returns SeverityWarning for "warning"/"warn" and SeverityError otherwise.
func ParseSeverity(s string) Severity {
	if strings.EqualFold(s, "warning") || strings.EqualFold(s, "warn") {
		return SeverityWarning
	}
	return SeverityError
}

// ValidationError is one finding about a document.
type ValidationError struct {
	Path     string      `yaml:"path" json:"path"`
	Message  string      `yaml:"message" json:"message"`
	Severity Severity    `yaml:"severity" json:"severity"`
	Document string      `yaml:"document" json:"document"`
	Tier     schema.Tier `yaml:"tier" json:"tier"`

	// Err classifies the finding with a sentinel, when there is one.
	Err error `yaml:"-" json:"-"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Document, e.Path, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of validating one document.
type Result struct {
	IsValid  bool              `yaml:"is_valid" json:"is_valid"`
	Errors   []ValidationError `yaml:"errors" json:"errors"`
	Warnings []ValidationError `yaml:"warnings" json:"warnings"`
}

func (r *Result) add(f ValidationError) {
	if f.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, f)
		return
	}
	f.Severity = SeverityError
	r.Errors = append(r.Errors, f)
}

// DocumentValidatorFunc inspects a whole document. Returned findings default to error severity;
// a returned error becomes one error finding.
type DocumentValidatorFunc func(doc schema.Document) ([]ValidationError, error)

// FieldValidatorFunc inspects the value at a registered path. Findings without a path get that path.
type FieldValidatorFunc func(v value.Value, doc schema.Document) ([]ValidationError, error)

type namedValidator struct {
	name string
	fn   DocumentValidatorFunc
}

type fieldValidator struct {
	path []string
	fn   FieldValidatorFunc
}

// Validator validates documents. Register validators before calling Validate.
type Validator struct {
	config    *schema.Configuration
	required  map[schema.Tier][]string
	documents []namedValidator
	fields    []fieldValidator
	types     map[string]TypePredicate
}

// defaultRequired applies to every tier.
var defaultRequired = []string{"name", "tier"}

// NewValidator returns a validator with the built-in rules plus the JSON Schemas and
// expression rules configured in config.Validation.
func NewValidator(config *schema.Configuration) (*Validator, error) {
	defer perf.Track(config, "validate.NewValidator")()

	v := &Validator{
		config:   config,
		required: map[schema.Tier][]string{},
		types:    builtinTypes(),
	}
	for _, tier := range schema.Precedence {
		v.required[tier] = append([]string(nil), defaultRequired...)
	}
	if config == nil {
		return v, nil
	}

	for tier, fields := range config.Validation.RequiredFields {
		v.AddRequiredFields(tier, fields...)
	}

	for _, tier := range schema.Precedence {
		path, ok := config.Validation.Schemas[tier]
		if !ok || path == "" {
			continue
		}
		fn, err := JSONSchemaValidator(resolveSchemaPath(config.BasePath, path), tier)
		if err != nil {
			return nil, err
		}
		v.RegisterDocumentValidator("schema:"+string(tier), fn)
	}

	for _, rule := range config.Validation.Rules {
		fn, err := RuleValidator(rule)
		if err != nil {
			return nil, err
		}
		v.RegisterDocumentValidator("rule:"+rule.Name, fn)
	}

	return v, nil
}

// AddRequiredFields requires more fields for documents of tier. "name", "tier" and "extends" are
// document fields; anything else is a top-level content key.
func (v *Validator) AddRequiredFields(tier schema.Tier, fields ...string) {
	for _, f := range fields {
		if !lo.Contains(v.required[tier], f) {
			v.required[tier] = append(v.required[tier], f)
		}
	}
}

func (v *Validator) RegisterDocumentValidator(name string, fn DocumentValidatorFunc) {
	v.documents = append(v.documents, namedValidator{name: name, fn: fn})
}

// RegisterFieldValidator runs fn on the value at the dotted path when it exists.
func (v *Validator) RegisterFieldValidator(path string, fn FieldValidatorFunc) {
	v.fields = append(v.fields, fieldValidator{path: value.ParsePath(path), fn: fn})
}

// Validate runs every check against doc.
func (v *Validator) Validate(doc schema.Document) Result {
	defer perf.Track(v.config, "validate.Validator.Validate")()

	result := Result{}
	add := func(f ValidationError) {
		f.Document = doc.Name
		f.Tier = doc.Tier
		result.add(f)
	}

	v.checkRequired(doc, add)
	v.runDocumentValidators(doc, add)
	v.runFieldValidators(doc, add)
	v.checkTypes(doc, add)

	result.IsValid = len(result.Errors) == 0
	log.Trace("Validated document", "document", doc.Name, "errors", len(result.Errors), "warnings", len(result.Warnings))
	return result
}

func (v *Validator) checkRequired(doc schema.Document, add func(ValidationError)) {
	required := defaultRequired
	if fields, ok := v.required[doc.Tier]; ok {
		required = fields
	}

	for _, field := range required {
		present := false
		switch field {
		case "name":
			present = doc.Name != ""
		case "tier":
			present = doc.Tier != ""
		case "extends":
			present = len(doc.Extends) > 0
		default:
			present = doc.Content.Has(field)
		}
		if !present {
			add(ValidationError{
				Path:    field,
				Message: fmt.Sprintf("required property '%s' is missing", field),
				Err:     errUtils.ErrMissingRequiredProperty,
			})
		}
	}

	if doc.Tier != "" && !doc.Tier.Valid() {
		add(ValidationError{
			Path:    "tier",
			Message: fmt.Sprintf("unknown tier '%s'", doc.Tier),
			Err:     errUtils.ErrInvalidTier,
		})
	}
}

func (v *Validator) runDocumentValidators(doc schema.Document, add func(ValidationError)) {
	for _, nv := range v.documents {
		findings, err := nv.fn(doc)
		if err != nil {
			add(ValidationError{
				Path:    "$",
				Message: fmt.Sprintf("validator '%s' failed: %v", nv.name, err),
				Err:     errUtils.ErrCustomValidatorFailure,
			})
		}
		for _, f := range findings {
			if f.Path == "" {
				f.Path = "$"
			}
			add(f)
		}
	}
}

func (v *Validator) runFieldValidators(doc schema.Document, add func(ValidationError)) {
	for _, fv := range v.fields {
		field, ok := doc.Content.Lookup(fv.path)
		if !ok {
			continue
		}
		path := value.FormatPath(fv.path)
		findings, err := fv.fn(field, doc)
		if err != nil {
			add(ValidationError{
				Path:    path,
				Message: fmt.Sprintf("field validator failed: %v", err),
				Err:     errUtils.ErrCustomValidatorFailure,
			})
		}
		for _, f := range findings {
			if f.Path == "" {
				f.Path = path
			}
			add(f)
		}
	}
}

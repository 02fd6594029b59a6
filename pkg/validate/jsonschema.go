package validate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"

	errUtils "github.com/cloudposse/tierconf/errors"
	"github.com/cloudposse/tierconf/pkg/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func resolveSchemaPath(basePath, path string) string {
	if basePath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// CompileSchema compiles the JSON Schema file at path as Draft 2020-12.
func CompileSchema(path string) (*jsonschema.Schema, error) {
	reader, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSchemaCompile, path, err)
	}
	defer reader.Close()

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(path, reader); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSchemaCompile, path, err)
	}

	compiled, err := compiler.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errUtils.ErrSchemaCompile, path, err)
	}
	return compiled, nil
}

// JSONSchemaValidator validates the content of documents of tier against the schema at path.
// Documents of other tiers are not checked.
func JSONSchemaValidator(path string, tier schema.Tier) (DocumentValidatorFunc, error) {
	compiled, err := CompileSchema(path)
	if err != nil {
		return nil, err
	}
	return SchemaValidator(compiled, tier), nil
}

// SchemaValidator is JSONSchemaValidator for an already compiled schema.
func SchemaValidator(compiled *jsonschema.Schema, tier schema.Tier) DocumentValidatorFunc {
	return func(doc schema.Document) ([]ValidationError, error) {
		if doc.Tier != tier {
			return nil, nil
		}

		// The validator only understands JSON-decoded data, so round-trip the content.
		data, err := json.Marshal(doc.Content)
		if err != nil {
			return nil, err
		}
		var instance any
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()
		if err := decoder.Decode(&instance); err != nil {
			return nil, err
		}

		err = compiled.Validate(instance)
		if err == nil {
			return nil, nil
		}
		var validationErr *jsonschema.ValidationError
		if !errors.As(err, &validationErr) {
			return nil, err
		}

		var findings []ValidationError
		for _, leaf := range leafCauses(validationErr) {
			findings = append(findings, ValidationError{
				Path:    pointerToPath(leaf.InstanceLocation),
				Message: leaf.Message,
				Err:     errUtils.ErrSchemaValidation,
			})
		}
		return findings, nil
	}
}

func leafCauses(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range e.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

// pointerToPath turns a JSON pointer such as /server/port into server.port.
func pointerToPath(pointer string) string {
	trimmed := strings.TrimPrefix(pointer, "/")
	if trimmed == "" {
		return "$"
	}
	return strings.ReplaceAll(trimmed, "/", ".")
}

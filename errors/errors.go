package errors

import (
	"github.com/cockroachdb/errors"
)

// Document store and inheritance.
var (
	ErrDocumentNotFound     = errors.New("configuration document not found")
	ErrDuplicateDocument    = errors.New("duplicate configuration document name")
	ErrExtendsCycleDetected = errors.New("circular 'extends' inheritance detected")
	ErrInvalidTier          = errors.New("invalid tier")
	ErrLoadDocument         = errors.New("failed to load configuration document")
	ErrInvalidDocument      = errors.New("invalid configuration document")
)

// Merge and value paths.
var (
	ErrUnknownMergeStrategy = errors.New("unknown merge strategy")
	ErrEmptyPath            = errors.New("path cannot be empty")
	ErrCannotNavigatePath   = errors.New("cannot navigate path: intermediate value is not a map")
	ErrUnsupportedValueType = errors.New("unsupported value type")
)

// References.
var (
	ErrReferenceCycleDetected = errors.New("circular configuration reference detected")
	ErrReferencePathNotFound  = errors.New("referenced path not found")
)

// Conflicts.
var (
	ErrUnknownResolutionStrategy = errors.New("unknown conflict resolution strategy")
)

// Validation.
var (
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrCustomValidatorFailure  = errors.New("custom validator failed")
	ErrTypeCheckFailed         = errors.New("value does not match declared type")
	ErrUnknownTypeTag          = errors.New("unknown type tag")
	ErrValidationFailed        = errors.New("configuration validation failed")
	ErrInvalidExpression       = errors.New("invalid validation rule expression")
	ErrSchemaCompile           = errors.New("failed to compile JSON schema")
	ErrSchemaValidation        = errors.New("JSON schema validation failed")
)

// Configuration and CLI.
var (
	ErrReadConfig      = errors.New("failed to read tierconf configuration")
	ErrUnmarshalConfig = errors.New("failed to unmarshal tierconf configuration")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrProcessFailed   = errors.New("one or more documents failed to process")
	ErrWatcherStart    = errors.New("failed to start file watcher")
)

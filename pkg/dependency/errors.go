package dependency

import "github.com/cockroachdb/errors"

var (
	ErrCircularDependency  = errors.New("circular dependency detected")
	ErrGraphAlreadyBuilt   = errors.New("graph has already been built")
	ErrNoRootNodes         = errors.New("graph has no root nodes")
	ErrAddNodeFailed       = errors.New("failed to add node")
	ErrAddDependencyFailed = errors.New("failed to add dependency")
	ErrNilNode             = errors.New("node cannot be nil")
	ErrDuplicateNode       = errors.New("node already exists")
	ErrNodeNotFound        = errors.New("node not found")
)

package dependency

import "fmt"

// GraphBuilder constructs a graph and validates it once.
type GraphBuilder struct {
	graph *Graph
	// Track if build has been called to prevent modifications after build.
	built bool
}

// NewBuilder creates a new graph builder.
func NewBuilder() *GraphBuilder {
	return &GraphBuilder{
		graph: NewGraph(),
		built: false,
	}
}

// AddNode adds a node to the graph being built.
func (b *GraphBuilder) AddNode(node *Node) error {
	if b.built {
		return ErrGraphAlreadyBuilt
	}

	if err := b.graph.AddNode(node); err != nil {
		id := ""
		if node != nil {
			id = node.ID
		}
		return fmt.Errorf("%w: id=%s: %w", ErrAddNodeFailed, id, err)
	}
	return nil
}

// AddDependency creates a dependency relationship between two nodes.
// The fromID depends on toID (fromID -> toID).
func (b *GraphBuilder) AddDependency(fromID, toID string) error {
	if b.built {
		return ErrGraphAlreadyBuilt
	}

	if err := b.graph.AddDependency(fromID, toID); err != nil {
		return fmt.Errorf("%w: from=%s to=%s: %w", ErrAddDependencyFailed, fromID, toID, err)
	}
	return nil
}

// Build finalizes the graph construction and returns the built graph.
// The returned error wraps ErrCircularDependency and names the cycle when there is one.
func (b *GraphBuilder) Build() (*Graph, error) {
	if b.built {
		return nil, ErrGraphAlreadyBuilt
	}

	if hasCycle, cyclePath := b.graph.HasCycles(); hasCycle {
		return nil, &CycleError{Path: cyclePath}
	}

	b.graph.IdentifyRoots()

	if len(b.graph.Nodes) > 0 && len(b.graph.Roots) == 0 {
		return nil, ErrNoRootNodes
	}

	b.built = true
	return b.graph, nil
}

// Reset resets the builder to start building a new graph.
func (b *GraphBuilder) Reset() {
	b.graph = NewGraph()
	b.built = false
}

// CycleError reports a dependency cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCircularDependency, e.Path)
}

func (e *CycleError) Unwrap() error {
	return ErrCircularDependency
}

package dependency

import (
	"fmt"
	"sort"
)

// Node is a vertex of a dependency graph.
type Node struct {
	ID           string
	Dependencies []string
	Dependents   []string
	Metadata     map[string]any
}

// Graph is a directed graph where an edge from A to B means A depends on B.
// Edges may point at IDs that are not nodes of the graph; those are treated as leaves.
type Graph struct {
	Nodes map[string]*Node
	Roots []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddNode adds node to the graph.
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, node.ID)
	}
	g.Nodes[node.ID] = node
	return nil
}

// AddDependency records that fromID depends on toID. fromID must be a node; toID need not be.
func (g *Graph) AddDependency(fromID, toID string) error {
	from, ok := g.Nodes[fromID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, fromID)
	}
	for _, dep := range from.Dependencies {
		if dep == toID {
			return nil
		}
	}
	from.Dependencies = append(from.Dependencies, toID)
	if to, ok := g.Nodes[toID]; ok {
		to.Dependents = append(to.Dependents, fromID)
	}
	return nil
}

// Edges returns the graph's adjacency as an EdgeFunc.
func (g *Graph) Edges() EdgeFunc {
	return func(id string) []string {
		if n, ok := g.Nodes[id]; ok {
			return n.Dependencies
		}
		return nil
	}
}

// IDs returns the sorted node IDs.
func (g *Graph) IDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasCycles reports whether any node participates in a cycle and returns the first cycle found.
func (g *Graph) HasCycles() (bool, []string) {
	edges := g.Edges()
	for _, id := range g.IDs() {
		if DetectCycle(id, edges, map[string]bool{}) {
			return true, FindCycle(id, edges)
		}
	}
	return false, nil
}

// IdentifyRoots records the nodes nothing depends on.
func (g *Graph) IdentifyRoots() {
	g.Roots = g.Roots[:0]
	for _, id := range g.IDs() {
		if len(g.Nodes[id].Dependents) == 0 {
			g.Roots = append(g.Roots, id)
		}
	}
}

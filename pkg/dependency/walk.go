package dependency

// EdgeFunc returns the direct dependencies of a node.
type EdgeFunc func(id string) []string

// DetectCycle walks edges depth-first from id and reports true as soon as a node reappears on
// the current path. Each sibling branch gets its own copy of visited, so a node reached through
// two different branches is not a cycle.
func DetectCycle(id string, edges EdgeFunc, visited map[string]bool) bool {
	if visited[id] {
		return true
	}

	onPath := make(map[string]bool, len(visited)+1)
	for k, v := range visited {
		onPath[k] = v
	}
	onPath[id] = true

	for _, dep := range edges(id) {
		if DetectCycle(dep, edges, onPath) {
			return true
		}
	}
	return false
}

// FindCycle returns the first cycle reachable from id as a path that starts and ends with the
// same node, or nil when there is none.
func FindCycle(id string, edges EdgeFunc) []string {
	return findCycle(id, edges, nil)
}

func findCycle(id string, edges EdgeFunc, path []string) []string {
	for i, p := range path {
		if p == id {
			cycle := append([]string(nil), path[i:]...)
			return append(cycle, id)
		}
	}

	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = id

	for _, dep := range edges(id) {
		if cycle := findCycle(dep, edges, next); cycle != nil {
			return cycle
		}
	}
	return nil
}

// Discover returns every node reachable from id (excluding id), de-duplicated, in depth-first
// discovery order. It terminates on cyclic input.
func Discover(id string, edges EdgeFunc) []string {
	seen := map[string]bool{id: true}
	var out []string

	var visit func(string)
	visit = func(n string) {
		for _, dep := range edges(n) {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			visit(dep)
		}
	}
	visit(id)
	return out
}

// PostOrder returns id and everything reachable from it with every node placed after all of its
// dependencies; dependencies keep their declared order and id comes last. It terminates on cyclic input.
func PostOrder(id string, edges EdgeFunc) []string {
	seen := map[string]bool{}
	var out []string

	var visit func(string)
	visit = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, dep := range edges(n) {
			visit(dep)
		}
		out = append(out, n)
	}
	visit(id)
	return out
}

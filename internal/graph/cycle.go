package graph

import "janus/internal/errs"

// CheckCycle reports whether adding the dependency edge from->to would
// create a cycle, where deps maps a ticket id to the ids it depends on.
// The direct case (to already lists from) is the first step of the same
// DFS, not a separate check: reachable starts its search at to and the
// first edge it follows is to's own deps list.
func CheckCycle(deps map[string][]string, from, to string) error {
	visited := map[string]bool{}

	if tail, found := reachable(deps, to, from, visited); found {
		return &errs.CircularDependency{Path: append([]string{from}, tail...)}
	}

	return nil
}

// reachable performs a DFS from node looking for target through the deps
// graph, returning the path node->...->target when found. visited
// prevents revisiting a node, bounding the walk to O(V+E) over the
// reachable subgraph.
func reachable(deps map[string][]string, node, target string, visited map[string]bool) ([]string, bool) {
	if node == target {
		return []string{node}, true
	}

	if visited[node] {
		return nil, false
	}

	visited[node] = true

	for _, next := range deps[node] {
		if tail, found := reachable(deps, next, target, visited); found {
			return append([]string{node}, tail...), true
		}
	}

	return nil, false
}

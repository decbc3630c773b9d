package hooked

import "sync"

// identityGraph tracks which synthetic identities were minted under which
// parent, so invalidating an identity also tears down the virtual scopes
// nested below it.
type identityGraph struct {
	mu       sync.RWMutex
	children map[Identity][]Identity
	parent   map[Identity]Identity
}

func newIdentityGraph() *identityGraph {
	return &identityGraph{
		children: make(map[Identity][]Identity),
		parent:   make(map[Identity]Identity),
	}
}

func (g *identityGraph) addChild(parent, child Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.children[parent] = appendUnique(g.children[parent], child)
	g.parent[child] = parent
}

// descendants collects every identity below start in discovery order, using
// an explicit stack instead of recursion.
func (g *identityGraph) descendants(start Identity) []Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stack := make([]Identity, 0, 8)
	stack = append(stack, start)

	result := make([]Identity, 0, 8)
	visited := make(map[Identity]bool, 8)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if current != start {
			result = append(result, current)
		}

		for _, child := range g.children[current] {
			if !visited[child] {
				stack = append(stack, child)
			}
		}
	}

	return result
}

// remove detaches id and its whole subtree from the graph.
func (g *identityGraph) remove(id Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if parent, ok := g.parent[id]; ok {
		g.children[parent] = removeElement(g.children[parent], id)
		if len(g.children[parent]) == 0 {
			delete(g.children, parent)
		}
	}
	g.removeSubtree(id)
}

func (g *identityGraph) removeSubtree(id Identity) {
	children := g.children[id]
	delete(g.children, id)
	delete(g.parent, id)

	for _, child := range children {
		g.removeSubtree(child)
	}
}

func (g *identityGraph) clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.children = make(map[Identity][]Identity)
	g.parent = make(map[Identity]Identity)
}

func appendUnique[T comparable](slice []T, item T) []T {
	for _, existing := range slice {
		if existing == item {
			return slice
		}
	}
	return append(slice, item)
}

func removeElement[T comparable](slice []T, item T) []T {
	for i, existing := range slice {
		if existing == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}

// Package edges builds and maintains the connectivity geometry between
// entities: the symmetric adjacency graph, the dashed base line segments,
// and the bright highlight subset shown while an entity is focused.
package edges

import "sort"

// Connection is one connectivity pair as supplied by the caller.
type Connection struct {
	Source string
	Target string
}

// Graph is the symmetric adjacency map: an edge (a,b) implies
// b ∈ Graph[a] and a ∈ Graph[b]. Only 1-hop neighbors are ever read, so
// no traversal machinery is needed; cycles are fine.
type Graph map[string]map[string]struct{}

// BuildGraph constructs the adjacency graph from a connection list.
// Self-loops are dropped.
func BuildGraph(conns []Connection) Graph {
	g := make(Graph)
	for _, c := range conns {
		if c.Source == c.Target {
			continue
		}
		g.add(c.Source, c.Target)
		g.add(c.Target, c.Source)
	}
	return g
}

func (g Graph) add(from, to string) {
	set, ok := g[from]
	if !ok {
		set = make(map[string]struct{})
		g[from] = set
	}
	set[to] = struct{}{}
}

// Neighbors returns the ids adjacent to id, sorted for deterministic
// overlay ordering. Unknown ids yield nil.
func (g Graph) Neighbors(id string) []string {
	set, ok := g[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Degree returns the neighbor count of id.
func (g Graph) Degree(id string) int {
	return len(g[id])
}

package transformset

import (
	"github.com/tfkit/tfkit/spatialmath"
)

// grouper turns an unordered fact list into connected components, each with a walk
// order fit for sequential chain construction. Frame names are interned into small
// integer ids up front so the adjacency structure and the walk never touch strings.
type grouper struct {
	names []string
	ids   map[string]int
	adj   [][]halfEdge
}

// halfEdge is one direction of an undirected edge; every fact contributes two, the
// reverse one carrying the inverted transform.
type halfEdge struct {
	to int
	tf spatialmath.Pose
}

func newGrouper() *grouper {
	return &grouper{ids: map[string]int{}}
}

func (g *grouper) intern(name string) int {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := len(g.names)
	g.ids[name] = id
	g.names = append(g.names, name)
	g.adj = append(g.adj, nil)
	return id
}

// addFact records one fact in the adjacency structure. A self-loop is accepted only
// with an identity transform, in which case it merely registers the frame; anything
// else is a fatal input error reported immediately.
func (g *grouper) addFact(f Fact) error {
	if f.Src == f.Dst {
		if !spatialmath.PoseAlmostEqualEps(f.Transform, spatialmath.NewZeroPose(), Epsilon) {
			return NewInvalidSelfLoopError(f.Src)
		}
		g.intern(f.Src)
		return nil
	}
	src := g.intern(f.Src)
	dst := g.intern(f.Dst)
	g.adj[src] = append(g.adj[src], halfEdge{to: dst, tf: f.Transform})
	g.adj[dst] = append(g.adj[dst], halfEdge{to: src, tf: spatialmath.PoseInverse(f.Transform)})
	return nil
}

// walkStep is one (parent, child) step of a component's spanning walk, carrying the
// transform from the parent to the child.
type walkStep struct {
	parent int
	child  int
	tf     spatialmath.Pose
}

// component is a connected set of frames: a start frame and a spanning walk that
// visits every other frame exactly once.
type component struct {
	start int
	steps []walkStep
}

// components discovers the connected components with a breadth first traversal and
// returns, per component, the walk order in which facts must be fed into a fresh
// chain. Feeding edges in any other order would still be correct through the
// general insert path, but only walk order keeps every edge on the O(log n) append
// path. The traversal uses an explicit queue; recursion depth would otherwise scale
// with chain length.
func (g *grouper) components() []component {
	visited := make([]bool, len(g.names))
	var comps []component

	for start := range g.names {
		if visited[start] {
			continue
		}
		visited[start] = true
		comp := component{start: start}

		queue := []int{start}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, edge := range g.adj[curr] {
				if visited[edge.to] {
					continue
				}
				visited[edge.to] = true
				comp.steps = append(comp.steps, walkStep{parent: curr, child: edge.to, tf: edge.tf})
				queue = append(queue, edge.to)
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

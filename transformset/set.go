// Package transformset maintains a growing collection of named reference frames and
// the rigid transform relating any two frames that are known to be related, directly
// or transitively. Facts arrive as pairwise (src, dst, transform) assertions, in any
// order and from possibly disjoint sources; queries between connected frames answer
// in O(log n) compositions. Facts that contradict what is already derivable are
// rejected, never silently overwritten, and two independently built groups of frames
// are merged as soon as a bridging fact connects them.
//
// A TransformSet is not safe for concurrent use; callers sharing one across
// goroutines must serialize access themselves.
package transformset

import (
	"sort"

	"github.com/tfkit/tfkit/spatialmath"
)

// Fact is one pairwise relation between two named frames: the rigid transform from
// Src to Dst.
type Fact struct {
	Src       string
	Dst       string
	Transform spatialmath.Pose
}

// TransformSet indexes a set of related or disjoint frames. Each connected group of
// frames is stored as one chain; the set routes queries and inserts to the owning
// chain and orchestrates merges between chains.
type TransformSet struct {
	nextGroup int
	groupOf   map[string]int
	chains    map[int]*chain
}

// NewEmptyTransformSet returns a set with no frames.
func NewEmptyTransformSet() *TransformSet {
	return &TransformSet{
		groupOf: map[string]int{},
		chains:  map[int]*chain{},
	}
}

// NewTransformSet builds a set from an unordered list of facts. The facts are
// grouped into connected components and each component's chain is built along a
// breadth first spanning walk, so every fact lands on the O(log n) append path
// rather than the consistency-check path. Facts not on the spanning walk must agree
// with what the walk produced; the first disagreement (or a non-identity self-loop)
// aborts the whole build.
func NewTransformSet(facts []Fact) (*TransformSet, error) {
	g := newGrouper()
	for _, f := range facts {
		if err := g.addFact(f); err != nil {
			return nil, err
		}
	}

	set := NewEmptyTransformSet()
	for _, comp := range g.components() {
		ch := newChain(g.names[comp.start])
		for _, step := range comp.steps {
			at, _ := ch.position(g.names[step.parent])
			ch.append(g.names[step.child], at, step.tf)
		}
		set.register(ch)
	}

	// Anything beyond the spanning walk must already be derivable.
	for _, f := range facts {
		if f.Src == f.Dst {
			continue
		}
		expected, ok := set.Get(f.Src, f.Dst)
		if !ok || !spatialmath.PoseAlmostEqualEps(expected, f.Transform, Epsilon) {
			return nil, &InconsistentTransformError{Src: f.Src, Dst: f.Dst, Expected: expected, Actual: f.Transform}
		}
	}
	return set, nil
}

// Contains reports whether the frame is known to the set.
func (ts *TransformSet) Contains(frame string) bool {
	_, ok := ts.groupOf[frame]
	return ok
}

// FrameNames returns the names of all frames in the set, sorted.
func (ts *TransformSet) FrameNames() []string {
	names := make([]string, 0, len(ts.groupOf))
	for name := range ts.groupOf {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the transform from src to dst. The second return is false when either
// frame is unknown or when the two frames belong to groups with no known relation;
// that absence is not an error and must not be confused with one.
func (ts *TransformSet) Get(src, dst string) (spatialmath.Pose, bool) {
	srcGroup, ok := ts.groupOf[src]
	if !ok {
		return nil, false
	}
	dstGroup, ok := ts.groupOf[dst]
	if !ok || srcGroup != dstGroup {
		return nil, false
	}
	ch := ts.chains[srcGroup]
	sp, _ := ch.position(src)
	dp, _ := ch.position(dst)
	return ch.rangeCompose(sp, dp), true
}

// Insert adds a single fact. Depending on which of the two frames are already
// known, the fact extends an existing chain, starts a new one, is checked for
// consistency against what is already derivable, or bridges two previously disjoint
// groups into one. On any returned error the set is exactly as it was before the
// call.
func (ts *TransformSet) Insert(src, dst string, tf spatialmath.Pose) error {
	if src == dst {
		if !spatialmath.PoseAlmostEqualEps(tf, spatialmath.NewZeroPose(), Epsilon) {
			return NewInvalidSelfLoopError(src)
		}
		if !ts.Contains(src) {
			ts.register(newChain(src))
		}
		return nil
	}

	srcGroup, srcKnown := ts.groupOf[src]
	dstGroup, dstKnown := ts.groupOf[dst]

	switch {
	case !srcKnown && !dstKnown:
		ch := newChain(src)
		ch.append(dst, 0, tf)
		ts.register(ch)

	case srcKnown && !dstKnown:
		ch := ts.chains[srcGroup]
		at, _ := ch.position(src)
		ch.append(dst, at, tf)
		ts.groupOf[dst] = srcGroup

	case !srcKnown && dstKnown:
		ch := ts.chains[dstGroup]
		at, _ := ch.position(dst)
		ch.append(src, at, spatialmath.PoseInverse(tf))
		ts.groupOf[src] = dstGroup

	case srcGroup == dstGroup:
		ch := ts.chains[srcGroup]
		sp, _ := ch.position(src)
		dp, _ := ch.position(dst)
		expected := ch.rangeCompose(sp, dp)
		if !spatialmath.PoseAlmostEqualEps(expected, tf, Epsilon) {
			return &InconsistentTransformError{Src: src, Dst: dst, Expected: expected, Actual: tf}
		}
		// already derivable, nothing to record

	default:
		ts.mergeGroups(srcGroup, dstGroup, src, dst, tf)
	}
	return nil
}

// mergeGroups joins the two chains owning src and dst using the supplied src->dst
// transform as the bridge. The bridge is reoriented to run from the left chain's
// last frame to the right chain's first frame, the right chain is replayed onto the
// left one, both old group ids are retired and every frame is re-registered under a
// fresh id.
func (ts *TransformSet) mergeGroups(srcGroup, dstGroup int, src, dst string, tf spatialmath.Pose) {
	left := ts.chains[srcGroup]
	right := ts.chains[dstGroup]

	sp, _ := left.position(src)
	dp, _ := right.position(dst)
	lastToSrc := left.rangeCompose(left.len()-1, sp)
	dstToFirst := right.rangeCompose(dp, 0)
	bridge := spatialmath.Compose(spatialmath.Compose(lastToSrc, tf), dstToFirst)

	left.merge(right, bridge)

	delete(ts.chains, srcGroup)
	delete(ts.chains, dstGroup)
	ts.register(left)
}

// register assigns the chain a fresh group id and maps all its frames to it.
func (ts *TransformSet) register(ch *chain) {
	gid := ts.nextGroup
	ts.nextGroup++
	ts.chains[gid] = ch
	for _, name := range ch.frames {
		ts.groupOf[name] = gid
	}
}

// ToFacts returns the spanning representation of the set: one fact per adjacent
// pair along each group's chain, plus an identity self-fact for each single-frame
// group. Rebuilding from this list reproduces an index answering all the same
// queries within Epsilon; it is the form meant for persistence.
func (ts *TransformSet) ToFacts() []Fact {
	gids := make([]int, 0, len(ts.chains))
	for gid := range ts.chains {
		gids = append(gids, gid)
	}
	sort.Ints(gids)

	var facts []Fact
	for _, gid := range gids {
		ch := ts.chains[gid]
		if ch.len() == 1 {
			facts = append(facts, Fact{Src: ch.frames[0], Dst: ch.frames[0], Transform: spatialmath.NewZeroPose()})
			continue
		}
		for i := 0; i+1 < ch.len(); i++ {
			facts = append(facts, Fact{Src: ch.frames[i], Dst: ch.frames[i+1], Transform: ch.levels[i][0]})
		}
	}
	return facts
}

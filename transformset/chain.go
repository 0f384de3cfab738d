package transformset

import (
	"fmt"
	"math/bits"

	"github.com/tfkit/tfkit/spatialmath"
)

// chain is the doubling ledger for one connected group of frames. Frames are
// assigned integer positions in first-seen order; positions are never reused or
// renumbered. levels[p][k] holds the transform from the frame at position p to the
// frame at position p+2^k, and is defined only while p+2^k is a valid position.
// The telescoping invariant levels[p][k] == levels[p][k-1] ∘ levels[p+2^(k-1)][k-1]
// holds for all valid p and k >= 1.
//
// The shape is the append-time analogue of a sparse table: appending the n-th frame
// fills O(log n) level slots, the same total work as the carries of a binary
// counter, and any range composes from O(log n) slots.
type chain struct {
	frames []string
	index  map[string]int
	levels [][]spatialmath.Pose
}

// newChain creates a chain holding only the given frame. This is the only way a
// chain comes into existence; every later frame arrives through append.
func newChain(first string) *chain {
	return &chain{
		frames: []string{first},
		index:  map[string]int{first: 0},
		levels: [][]spatialmath.Pose{nil},
	}
}

func (c *chain) len() int {
	return len(c.frames)
}

func (c *chain) position(frame string) (int, bool) {
	p, ok := c.index[frame]
	return p, ok
}

// append adds frame as the new rightmost position, given the transform from the
// existing position from to the new frame. The step from the previous rightmost
// position is derived first, then propagated backward through power-of-two
// ancestors, composing with already-known levels, so the amortized cost of an
// append is O(log n).
func (c *chain) append(frame string, from int, tf spatialmath.Pose) {
	last := len(c.frames) - 1
	step := spatialmath.Compose(spatialmath.PoseInverse(c.rangeCompose(from, last)), tf)

	q := len(c.frames)
	c.frames = append(c.frames, frame)
	c.levels = append(c.levels, nil)
	c.index[frame] = q

	for nth := 0; ; nth++ {
		at := q - 1<<nth
		c.levels[at] = append(c.levels[at], step)
		prev := at - 1<<nth
		if prev < 0 {
			break
		}
		step = spatialmath.Compose(c.levels[prev][nth], step)
	}
}

// rangeCompose returns the transform from the frame at position start to the frame
// at position end, composing O(log n) level entries by walking the binary
// decomposition of the distance. start == end returns the identity; start > end
// composes the forward range and inverts it.
func (c *chain) rangeCompose(start, end int) spatialmath.Pose {
	lo, hi, inverted := start, end, false
	if start > end {
		lo, hi, inverted = end, start, true
	}

	prod := spatialmath.NewZeroPose()
	curr := lo
	for diff := hi - lo; diff != 0; {
		nth := bits.TrailingZeros(uint(diff))
		prod = spatialmath.Compose(prod, c.levels[curr][nth])
		diff ^= 1 << nth
		curr += 1 << nth
	}

	if inverted {
		return spatialmath.PoseInverse(prod)
	}
	return prod
}

// merge consumes other, renumbering its positions to continue after c's and
// replaying one append per adjacent pair of other's chain. bridge is the transform
// from c's current last frame to other's first frame. Joining two groups of
// combined size n costs O(n log n); that cost is paid in full on every merge, no
// amortization across merges is claimed.
func (c *chain) merge(other *chain, bridge spatialmath.Pose) {
	c.append(other.frames[0], len(c.frames)-1, bridge)
	for i := 1; i < len(other.frames); i++ {
		c.append(other.frames[i], len(c.frames)-1, other.levels[i-1][0])
	}
}

// assertConsistency re-derives the telescoping relation for every position and
// level and panics on the first violation. It is an internal self-check meant to be
// invoked from tests after mutations, not a recoverable error path.
func (c *chain) assertConsistency() {
	for p := range c.levels {
		want := 0
		for p+(1<<want) < len(c.frames) {
			want++
		}
		if len(c.levels[p]) != want {
			panic(fmt.Sprintf("level table for %q has %d entries, want %d", c.frames[p], len(c.levels[p]), want))
		}
		for k := 1; k < len(c.levels[p]); k++ {
			half := 1 << (k - 1)
			derived := spatialmath.Compose(c.levels[p][k-1], c.levels[p+half][k-1])
			if !spatialmath.PoseAlmostEqualEps(c.levels[p][k], derived, Epsilon) {
				panic(fmt.Sprintf("the transform %s->%s is not consistent with %s->%s composed with %s->%s",
					c.frames[p], c.frames[p+2*half],
					c.frames[p], c.frames[p+half],
					c.frames[p+half], c.frames[p+2*half]))
			}
		}
	}
}

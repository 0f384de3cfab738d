package transformset

import (
	"fmt"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/tfkit/tfkit/spatialmath"
)

// step returns a distinct, non-commutative transform for the i-th chain edge so that
// ordering mistakes cannot cancel out.
func step(i int) spatialmath.Pose {
	return spatialmath.NewPose(
		r3.Vector{X: float64(i + 1), Y: float64(i % 3), Z: -float64(i % 5)},
		&spatialmath.EulerAngles{Roll: 0.1 * float64(i%4), Yaw: 0.2 * float64(i%7)},
	)
}

// buildChain appends n-1 frames after the first, always relative to the previous
// one, checking the telescoping invariant after every append.
func buildChain(t *testing.T, n int) (*chain, []spatialmath.Pose) {
	t.Helper()
	ch := newChain("f0")
	steps := make([]spatialmath.Pose, 0, n-1)
	for i := 1; i < n; i++ {
		tf := step(i - 1)
		steps = append(steps, tf)
		ch.append(fmt.Sprintf("f%d", i), i-1, tf)
		ch.assertConsistency()
	}
	return ch, steps
}

// naiveRange composes level-0 steps one by one, the O(n) reference implementation.
func naiveRange(steps []spatialmath.Pose, start, end int) spatialmath.Pose {
	if start == end {
		return spatialmath.NewZeroPose()
	}
	if start > end {
		return spatialmath.PoseInverse(naiveRange(steps, end, start))
	}
	prod := spatialmath.NewZeroPose()
	for i := start; i < end; i++ {
		prod = spatialmath.Compose(prod, steps[i])
	}
	return prod
}

func TestChainRangeCompose(t *testing.T) {
	const n = 33
	ch, steps := buildChain(t, n)
	test.That(t, ch.len(), test.ShouldEqual, n)

	for _, pair := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {0, 32}, {32, 0}, {5, 21}, {21, 5}, {16, 17}, {7, 8}} {
		got := ch.rangeCompose(pair[0], pair[1])
		want := naiveRange(steps, pair[0], pair[1])
		test.That(t, spatialmath.PoseAlmostEqual(got, want), test.ShouldBeTrue)
	}
}

func TestChainAppendFromEarlierPosition(t *testing.T) {
	// appending relative to a frame that is not the rightmost one must reorient the
	// step onto the end of the chain
	ch, steps := buildChain(t, 8)
	fromThree := spatialmath.NewPose(r3.Vector{X: 4, Y: 2}, &spatialmath.EulerAngles{Pitch: 0.3})
	ch.append("extra", 3, fromThree)
	ch.assertConsistency()

	at, ok := ch.position("extra")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, at, test.ShouldEqual, 8)
	test.That(t, spatialmath.PoseAlmostEqual(ch.rangeCompose(3, 8), fromThree), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(
		ch.rangeCompose(0, 8),
		spatialmath.Compose(naiveRange(steps, 0, 3), fromThree),
	), test.ShouldBeTrue)
}

func TestChainMerge(t *testing.T) {
	left, leftSteps := buildChain(t, 9)
	right, rightSteps := buildChain(t, 6)
	bridge := spatialmath.NewPose(r3.Vector{Z: 7}, &spatialmath.EulerAngles{Yaw: 1.2})

	left.merge(right, bridge)
	left.assertConsistency()
	test.That(t, left.len(), test.ShouldEqual, 15)

	// the bridge spans old-last to old-first of the absorbed chain
	test.That(t, spatialmath.PoseAlmostEqual(left.rangeCompose(8, 9), bridge), test.ShouldBeTrue)
	// the absorbed chain's internal transforms survive renumbering
	test.That(t, spatialmath.PoseAlmostEqual(left.rangeCompose(9, 14), naiveRange(rightSteps, 0, 5)), test.ShouldBeTrue)
	// and a transform spanning the seam composes through it
	want := spatialmath.Compose(spatialmath.Compose(naiveRange(leftSteps, 2, 8), bridge), naiveRange(rightSteps, 0, 4))
	test.That(t, spatialmath.PoseAlmostEqual(left.rangeCompose(2, 13), want), test.ShouldBeTrue)
}

func TestSetOperationsKeepChainsConsistent(t *testing.T) {
	set := NewEmptyTransformSet()
	check := func() {
		for _, ch := range set.chains {
			ch.assertConsistency()
		}
	}

	test.That(t, set.Insert("a", "b", step(0)), test.ShouldBeNil)
	check()
	test.That(t, set.Insert("b", "c", step(1)), test.ShouldBeNil)
	check()
	test.That(t, set.Insert("d", "c", step(2)), test.ShouldBeNil) // known destination, inverted append
	check()
	test.That(t, set.Insert("x", "y", step(3)), test.ShouldBeNil) // second group
	check()
	test.That(t, set.Insert("d", "y", step(4)), test.ShouldBeNil) // cross-group merge
	check()
	test.That(t, len(set.chains), test.ShouldEqual, 1)
}

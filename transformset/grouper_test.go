package transformset

import (
	"testing"

	"go.viam.com/test"

	"github.com/tfkit/tfkit/spatialmath"
)

func TestGrouperEmpty(t *testing.T) {
	g := newGrouper()
	test.That(t, g.components(), test.ShouldBeEmpty)
}

func TestGrouperSelfLoop(t *testing.T) {
	g := newGrouper()
	err := g.addFact(Fact{Src: "solo", Dst: "solo", Transform: spatialmath.NewZeroPose()})
	test.That(t, err, test.ShouldBeNil)

	comps := g.components()
	test.That(t, len(comps), test.ShouldEqual, 1)
	test.That(t, g.names[comps[0].start], test.ShouldEqual, "solo")
	test.That(t, comps[0].steps, test.ShouldBeEmpty)

	err = g.addFact(Fact{Src: "solo", Dst: "solo", Transform: step(1)})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGrouperSingleComponent(t *testing.T) {
	g := newGrouper()
	for _, f := range []Fact{
		{Src: "a", Dst: "b", Transform: step(0)},
		{Src: "a", Dst: "c", Transform: step(1)},
		{Src: "b", Dst: "c", Transform: step(2)},
	} {
		test.That(t, g.addFact(f), test.ShouldBeNil)
	}

	comps := g.components()
	test.That(t, len(comps), test.ShouldEqual, 1)
	test.That(t, g.names[comps[0].start], test.ShouldEqual, "a")
	// the walk spans all frames, visiting each exactly once after the start
	test.That(t, len(comps[0].steps), test.ShouldEqual, 2)
	test.That(t, g.names[comps[0].steps[0].child], test.ShouldEqual, "b")
	test.That(t, g.names[comps[0].steps[1].child], test.ShouldEqual, "c")
}

func TestGrouperMultipleComponents(t *testing.T) {
	g := newGrouper()
	for _, f := range []Fact{
		{Src: "a", Dst: "b", Transform: step(0)},
		{Src: "p", Dst: "q", Transform: step(1)},
		{Src: "r", Dst: "q", Transform: step(2)},
		{Src: "solo", Dst: "solo", Transform: spatialmath.NewZeroPose()},
	} {
		test.That(t, g.addFact(f), test.ShouldBeNil)
	}

	comps := g.components()
	test.That(t, len(comps), test.ShouldEqual, 3)

	// parents always appear (as the start or an earlier child) before their children
	for _, comp := range comps {
		seen := map[int]bool{comp.start: true}
		for _, s := range comp.steps {
			test.That(t, seen[s.parent], test.ShouldBeTrue)
			test.That(t, seen[s.child], test.ShouldBeFalse)
			seen[s.child] = true
		}
	}
}

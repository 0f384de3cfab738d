package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestZeroPose(t *testing.T) {
	zero := NewZeroPose()
	test.That(t, zero.Point(), test.ShouldResemble, r3.Vector{})
	test.That(t, OrientationAlmostEqual(zero.Orientation(), NewZeroOrientation()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(zero, Compose(zero, zero)), test.ShouldBeTrue)
}

func TestPoseRoundTrip(t *testing.T) {
	p := NewPose(r3.Vector{X: 1, Y: -2, Z: 3}, &EulerAngles{Roll: 0.1, Pitch: -0.2, Yaw: 0.3})
	pt := p.Point()
	test.That(t, pt.X, test.ShouldAlmostEqual, 1, 1e-10)
	test.That(t, pt.Y, test.ShouldAlmostEqual, -2, 1e-10)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 3, 1e-10)
	ea := p.Orientation().EulerAngles()
	test.That(t, ea.Roll, test.ShouldAlmostEqual, 0.1, 1e-10)
	test.That(t, ea.Pitch, test.ShouldAlmostEqual, -0.2, 1e-10)
	test.That(t, ea.Yaw, test.ShouldAlmostEqual, 0.3, 1e-10)
}

func TestCompose(t *testing.T) {
	// translate along +X, then rotate 90 degrees about Z, then translate along +X again;
	// the second translation happens along the rotated axis, so it lands on +Y.
	step := NewPoseFromPoint(r3.Vector{X: 1})
	turn := NewPoseFromOrientation(&EulerAngles{Yaw: math.Pi / 2})

	moved := Compose(Compose(step, turn), step)
	pt := moved.Point()
	test.That(t, pt.X, test.ShouldAlmostEqual, 1, 1e-10)
	test.That(t, pt.Y, test.ShouldAlmostEqual, 1, 1e-10)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 0, 1e-10)
}

func TestPoseInverse(t *testing.T) {
	p := NewPose(r3.Vector{X: 100, Y: -70, Z: 255}, &EulerAngles{Pitch: 10 * degToRad, Yaw: 20 * degToRad})
	test.That(t, PoseAlmostEqual(Compose(p, PoseInverse(p)), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(PoseInverse(p), p), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(PoseInverse(PoseInverse(p)), p), test.ShouldBeTrue)
}

func TestPoseAlmostEqual(t *testing.T) {
	a := NewPoseFromPoint(r3.Vector{X: 1})
	b := NewPoseFromPoint(r3.Vector{X: 1 + 1e-9})
	c := NewPoseFromPoint(r3.Vector{X: 1.1})
	test.That(t, PoseAlmostEqual(a, b), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(a, c), test.ShouldBeFalse)
	test.That(t, PoseAlmostEqualEps(a, c, 0.2), test.ShouldBeTrue)
}

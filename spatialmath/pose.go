package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose represents a rigid transform in 3D Euclidean space: a rotation together with
// a translation. It is composable and invertible, and may be rotation only (zero
// translation). Implementations are immutable once created.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// NewZeroPose returns a pose at (0,0,0) with no rotation, i.e. the identity transform.
func NewZeroPose() Pose {
	return newDualQuaternion()
}

// NewPose takes in a position and an orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	q := newDualQuaternion()
	if o != nil {
		q.Real = o.Quaternion()
	}
	q.SetTranslation(p)
	return q
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a Pose with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	q := newDualQuaternion()
	q.SetTranslation(point)
	return q
}

// NewPoseFromOrientation takes in an orientation and stores it as a Pose with no translation.
func NewPoseFromOrientation(o Orientation) Pose {
	q := newDualQuaternion()
	if o != nil {
		q.Real = o.Quaternion()
	}
	return q
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x)
// equivalent to applying A first, then B. It is non-commutative.
func Compose(a, b Pose) Pose {
	return &dualQuaternion{newDualQuaternionFromPose(a).Transformation(newDualQuaternionFromPose(b).Number)}
}

// PoseInverse returns the pose representing the opposite transform, such that
// Compose(p, PoseInverse(p)) is the identity.
func PoseInverse(p Pose) Pose {
	return newDualQuaternionFromPose(p).Invert()
}

// PoseAlmostEqual checks whether two poses are approximately the same, using the
// package default epsilon.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, defaultEpsilon)
}

// PoseAlmostEqualEps checks whether both the translations and the orientations of
// two poses differ by less than epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	if !QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), epsilon) {
		return false
	}
	return a.Point().Sub(b.Point()).Norm() < epsilon
}

// PoseToString returns a human readable summary of a pose, translation first, then
// rotation as euler angles in degrees.
func PoseToString(p Pose) string {
	pt := p.Point()
	ea := p.Orientation().EulerAngles()
	return fmt.Sprintf("(t: %.4f, %.4f, %.4f; r: roll %.4f°, pitch %.4f°, yaw %.4f°)",
		pt.X, pt.Y, pt.Z, ea.Roll*radToDeg, ea.Pitch*radToDeg, ea.Yaw*radToDeg)
}

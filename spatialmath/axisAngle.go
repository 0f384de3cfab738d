package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// An orientation can be expressed by first specifying an axis, i.e. a line from the
// origin to a point on the unit sphere, represented by (rx, ry, rz), and a rotation
// around that axis, theta. These four numbers can be used as-is (R4), or theta can be
// multiplied into the unit axis components to give a vector whose length is theta and
// whose direction is the axis (R3, the Rodrigues rotation vector).

// R4AA represents an R4 axis angle. Theta is in radians.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// NewR4AA creates an empty R4AA struct.
func NewR4AA() *R4AA {
	return &R4AA{Theta: 0, RX: 0, RY: 0, RZ: 1}
}

// AxisAngles returns the orientation in axis angle representation.
func (r4 *R4AA) AxisAngles() *R4AA {
	return r4
}

// Quaternion returns orientation in quaternion representation.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/angleToQuaternion/
func (r4 *R4AA) Quaternion() quat.Number {
	if r4.RX == 0 && r4.RY == 0 && r4.RZ == 0 {
		return quat.Number{Real: 1}
	}
	aa := *r4
	aa.Normalize()

	sinA := math.Sin(aa.Theta / 2)
	return quat.Number{
		Real: math.Cos(aa.Theta / 2),
		Imag: aa.RX * sinA,
		Jmag: aa.RY * sinA,
		Kmag: aa.RZ * sinA,
	}
}

// EulerAngles returns orientation in Euler angle representation.
func (r4 *R4AA) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(r4.Quaternion())
}

// RotationVector returns the orientation in Rodrigues rotation vector representation.
func (r4 *R4AA) RotationVector() *R3AA {
	return QuatToR3AA(r4.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (r4 *R4AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r4.Quaternion())
}

// Normalize scales the x, y, and z components of a R4 axis angle to be on the unit sphere.
func (r4 *R4AA) Normalize() {
	norm := math.Sqrt(r4.RX*r4.RX + r4.RY*r4.RY + r4.RZ*r4.RZ)
	if norm == 0.0 { // prevent division by 0
		panic("cannot normalize R4AA, divide by zero")
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
}

// ToR3 converts an R4 angle axis to R3.
func (r4 *R4AA) ToR3() *R3AA {
	return &R3AA{r4.RX * r4.Theta, r4.RY * r4.Theta, r4.RZ * r4.Theta}
}

// R3AA represents an R3 axis angle, also known as a Rodrigues rotation vector.
type R3AA struct {
	RX float64 `json:"x"`
	RY float64 `json:"y"`
	RZ float64 `json:"z"`
}

// ToR4 converts an R3 angle axis to R4. A zero vector maps to no rotation.
func (r3aa *R3AA) ToR4() *R4AA {
	theta := math.Sqrt(r3aa.RX*r3aa.RX + r3aa.RY*r3aa.RY + r3aa.RZ*r3aa.RZ)
	if theta == 0 {
		return &R4AA{Theta: 0, RX: 1, RY: 0, RZ: 0}
	}
	return &R4AA{theta, r3aa.RX / theta, r3aa.RY / theta, r3aa.RZ / theta}
}

// Vector returns the rotation vector as an r3.Vector.
func (r3aa *R3AA) Vector() r3.Vector {
	return r3.Vector{X: r3aa.RX, Y: r3aa.RY, Z: r3aa.RZ}
}

// RotationVector returns the orientation in Rodrigues rotation vector representation.
func (r3aa *R3AA) RotationVector() *R3AA {
	return r3aa
}

// AxisAngles returns the orientation in axis angle representation.
func (r3aa *R3AA) AxisAngles() *R4AA {
	return r3aa.ToR4()
}

// Quaternion returns orientation in quaternion representation.
func (r3aa *R3AA) Quaternion() quat.Number {
	return r3aa.ToR4().Quaternion()
}

// EulerAngles returns orientation in Euler angle representation.
func (r3aa *R3AA) EulerAngles() *EulerAngles {
	return QuatToEulerAngles(r3aa.Quaternion())
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (r3aa *R3AA) RotationMatrix() *RotationMatrix {
	return QuatToRotationMatrix(r3aa.Quaternion())
}

package config

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"github.com/tfkit/tfkit/spatialmath"
)

// RotationFormat names one of the rotation encodings a file may use.
type RotationFormat string

// The supported rotation encodings.
const (
	EulerFormat          RotationFormat = "euler"
	QuaternionFormat     RotationFormat = "quaternion"
	AxisAngleFormat      RotationFormat = "axis-angle"
	RotationMatrixFormat RotationFormat = "rotation-matrix"
	RodriguesFormat      RotationFormat = "rodrigues"
)

// RotationConfig is the wire form of a rotation, tagged by Format. Only the fields
// belonging to the tagged format are set; the rest stay nil and are omitted on
// output, so a config round-trips losslessly within its own encoding.
//
// The euler encoding lists its axes in an order string over 'r', 'p' and 'y',
// applied extrinsically with the first listed axis applied first. Quaternion
// components are stored in ijkw order. Rodrigues parameters are the rotation axis
// scaled by the rotation angle in radians.
type RotationConfig struct {
	Format RotationFormat `json:"format" yaml:"format"`

	Order  string  `json:"order,omitempty" yaml:"order,omitempty"`
	Angles []Angle `json:"angles,omitempty" yaml:"angles,omitempty"`

	IJKW *[4]float64 `json:"ijkw,omitempty" yaml:"ijkw,omitempty"`

	Axis  *[3]float64 `json:"axis,omitempty" yaml:"axis,omitempty"`
	Angle *Angle      `json:"angle,omitempty" yaml:"angle,omitempty"`

	Matrix *[3][3]float64 `json:"matrix,omitempty" yaml:"matrix,omitempty"`

	Params *[3]float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// eulerAxes maps the order string to its axis codes, rejecting anything outside
// {r, p, y}. An empty order is valid and denotes the identity rotation.
func eulerAxes(order string) ([]byte, error) {
	axes := make([]byte, 0, len(order))
	for i := 0; i < len(order); i++ {
		switch order[i] {
		case 'r', 'p', 'y':
			axes = append(axes, order[i])
		default:
			return nil, errors.Errorf("unexpected axis code %q in euler order %q", string(order[i]), order)
		}
	}
	return axes, nil
}

// Validate checks that the fields required by the tagged format are present and well
// formed, reporting every problem found rather than just the first.
func (rc *RotationConfig) Validate() error {
	var errs error
	switch rc.Format {
	case EulerFormat:
		axes, err := eulerAxes(rc.Order)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else if len(axes) != len(rc.Angles) {
			errs = multierr.Append(errs, errors.Errorf(
				"euler order %q names %d axes but %d angles were given", rc.Order, len(axes), len(rc.Angles)))
		}
	case QuaternionFormat:
		if rc.IJKW == nil {
			errs = multierr.Append(errs, errors.New("quaternion rotation needs an ijkw field"))
		} else if q := *rc.IJKW; q[0] == 0 && q[1] == 0 && q[2] == 0 && q[3] == 0 {
			errs = multierr.Append(errs, errors.New("quaternion must not be all zero"))
		}
	case AxisAngleFormat:
		if rc.Axis == nil {
			errs = multierr.Append(errs, errors.New("axis-angle rotation needs an axis field"))
		}
		if rc.Angle == nil {
			errs = multierr.Append(errs, errors.New("axis-angle rotation needs an angle field"))
		}
		if rc.Axis != nil && rc.Angle != nil {
			a := *rc.Axis
			if a[0] == 0 && a[1] == 0 && a[2] == 0 && rc.Angle.Radians() != 0 {
				errs = multierr.Append(errs, errors.New("axis-angle axis must be nonzero for a nonzero angle"))
			}
		}
	case RotationMatrixFormat:
		if rc.Matrix == nil {
			errs = multierr.Append(errs, errors.New("rotation-matrix rotation needs a matrix field"))
		}
	case RodriguesFormat:
		if rc.Params == nil {
			errs = multierr.Append(errs, errors.New("rodrigues rotation needs a params field"))
		}
	default:
		errs = multierr.Append(errs, errors.Errorf("rotation format %q not recognized", rc.Format))
	}
	return errs
}

// Orientation decodes the config into an orientation.
func (rc *RotationConfig) Orientation() (spatialmath.Orientation, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	switch rc.Format {
	case EulerFormat:
		axes, err := eulerAxes(rc.Order)
		if err != nil {
			return nil, err
		}
		q := quat.Number{Real: 1}
		for i, axis := range axes {
			rad := rc.Angles[i].Radians()
			var step quat.Number
			switch axis {
			case 'r':
				step = (&spatialmath.EulerAngles{Roll: rad}).Quaternion()
			case 'p':
				step = (&spatialmath.EulerAngles{Pitch: rad}).Quaternion()
			case 'y':
				step = (&spatialmath.EulerAngles{Yaw: rad}).Quaternion()
			}
			q = quat.Mul(step, q)
		}
		return spatialmath.NewOrientationFromQuaternion(q), nil

	case QuaternionFormat:
		ijkw := *rc.IJKW
		q := quat.Number{Real: ijkw[3], Imag: ijkw[0], Jmag: ijkw[1], Kmag: ijkw[2]}
		n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
		return spatialmath.NewOrientationFromQuaternion(quat.Scale(1/n, q)), nil

	case AxisAngleFormat:
		axis := *rc.Axis
		return &spatialmath.R4AA{
			Theta: rc.Angle.Radians(),
			RX:    axis[0],
			RY:    axis[1],
			RZ:    axis[2],
		}, nil

	case RotationMatrixFormat:
		m := *rc.Matrix
		return spatialmath.NewRotationMatrix([]float64{
			m[0][0], m[0][1], m[0][2],
			m[1][0], m[1][1], m[1][2],
			m[2][0], m[2][1], m[2][2],
		})

	case RodriguesFormat:
		p := *rc.Params
		return &spatialmath.R3AA{RX: p[0], RY: p[1], RZ: p[2]}, nil
	}
	return nil, errors.Errorf("rotation format %q not recognized", rc.Format)
}

// angleIn expresses rad in the requested unit.
func angleIn(rad float64, unit AngleUnit) Angle {
	if unit == Degree {
		return NewAngleFromRadians(rad).ToDegrees()
	}
	return NewAngleFromRadians(rad)
}

// NewRotationConfig encodes an orientation in the requested format. Angle-carrying
// formats express their angles in the given unit; the others ignore it. The euler
// encoding always comes out in roll, pitch, yaw order.
func NewRotationConfig(o spatialmath.Orientation, format RotationFormat, unit AngleUnit) (*RotationConfig, error) {
	if unit == "" {
		unit = Radian
	}
	switch format {
	case EulerFormat:
		ea := o.EulerAngles()
		return &RotationConfig{
			Format: EulerFormat,
			Order:  "rpy",
			Angles: []Angle{angleIn(ea.Roll, unit), angleIn(ea.Pitch, unit), angleIn(ea.Yaw, unit)},
		}, nil
	case QuaternionFormat:
		q := o.Quaternion()
		return &RotationConfig{
			Format: QuaternionFormat,
			IJKW:   &[4]float64{q.Imag, q.Jmag, q.Kmag, q.Real},
		}, nil
	case AxisAngleFormat:
		aa := o.AxisAngles()
		angle := angleIn(aa.Theta, unit)
		return &RotationConfig{
			Format: AxisAngleFormat,
			Axis:   &[3]float64{aa.RX, aa.RY, aa.RZ},
			Angle:  &angle,
		}, nil
	case RotationMatrixFormat:
		rm := o.RotationMatrix()
		var m [3][3]float64
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				m[row][col] = rm.At(row, col)
			}
		}
		return &RotationConfig{Format: RotationMatrixFormat, Matrix: &m}, nil
	case RodriguesFormat:
		rv := o.RotationVector()
		return &RotationConfig{
			Format: RodriguesFormat,
			Params: &[3]float64{rv.RX, rv.RY, rv.RZ},
		}, nil
	}
	return nil, errors.Errorf("rotation format %q not recognized", format)
}

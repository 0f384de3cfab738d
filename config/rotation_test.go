package config

import (
	"encoding/json"
	"math"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
	"gopkg.in/yaml.v3"

	"github.com/tfkit/tfkit/spatialmath"
)

func TestEulerRotationConfig(t *testing.T) {
	cfg := RotationConfig{
		Format: EulerFormat,
		Order:  "rpy",
		Angles: []Angle{NewAngleFromDegrees(10), NewAngleFromDegrees(0), NewAngleFromDegrees(20)},
	}
	o, err := cfg.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, &spatialmath.EulerAngles{
		Roll: 10 * math.Pi / 180,
		Yaw:  20 * math.Pi / 180,
	}), test.ShouldBeTrue)

	// a single-axis order
	single := RotationConfig{Format: EulerFormat, Order: "y", Angles: []Angle{NewAngleFromDegrees(20)}}
	o, err = single.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, &spatialmath.EulerAngles{Yaw: 20 * math.Pi / 180}), test.ShouldBeTrue)

	// an empty order is the identity
	empty := RotationConfig{Format: EulerFormat}
	o, err = empty.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, spatialmath.NewZeroOrientation()), test.ShouldBeTrue)
}

func TestEulerOrderMatters(t *testing.T) {
	angles := []Angle{NewAngleFromDegrees(90), NewAngleFromDegrees(90)}
	ry := RotationConfig{Format: EulerFormat, Order: "ry", Angles: angles}
	yr := RotationConfig{Format: EulerFormat, Order: "yr", Angles: angles}

	a, err := ry.Orientation()
	test.That(t, err, test.ShouldBeNil)
	b, err := yr.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(a, b), test.ShouldBeFalse)

	// first listed axis is applied first: "ry" equals roll-pitch-yaw with zero pitch
	test.That(t, spatialmath.OrientationAlmostEqual(a, &spatialmath.EulerAngles{
		Roll: math.Pi / 2,
		Yaw:  math.Pi / 2,
	}), test.ShouldBeTrue)
}

func TestRotationConfigRoundTrips(t *testing.T) {
	want := &spatialmath.EulerAngles{Roll: 0.2, Pitch: -0.4, Yaw: 1.1}

	for _, format := range []RotationFormat{
		EulerFormat, QuaternionFormat, AxisAngleFormat, RotationMatrixFormat, RodriguesFormat,
	} {
		cfg, err := NewRotationConfig(want, format, Degree)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Format, test.ShouldEqual, format)
		test.That(t, cfg.Validate(), test.ShouldBeNil)

		got, err := cfg.Orientation()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spatialmath.OrientationAlmostEqual(got, want), test.ShouldBeTrue)
	}
}

func TestRotationConfigWireRoundTrip(t *testing.T) {
	orig, err := NewRotationConfig(&spatialmath.EulerAngles{Roll: 0.3, Yaw: -0.7}, AxisAngleFormat, Degree)
	test.That(t, err, test.ShouldBeNil)

	data, err := json.Marshal(orig)
	test.That(t, err, test.ShouldBeNil)
	var fromJSON RotationConfig
	test.That(t, json.Unmarshal(data, &fromJSON), test.ShouldBeNil)
	test.That(t, &fromJSON, test.ShouldResemble, orig)

	out, err := yaml.Marshal(orig)
	test.That(t, err, test.ShouldBeNil)
	var fromYAML RotationConfig
	test.That(t, yaml.Unmarshal(out, &fromYAML), test.ShouldBeNil)
	test.That(t, &fromYAML, test.ShouldResemble, orig)
}

func TestRotationConfigFromWire(t *testing.T) {
	var quatCfg RotationConfig
	err := json.Unmarshal([]byte(`{"format": "quaternion", "ijkw": [0, 0, 0.7071067811865476, 0.7071067811865476]}`), &quatCfg)
	test.That(t, err, test.ShouldBeNil)
	o, err := quatCfg.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, &spatialmath.EulerAngles{Yaw: math.Pi / 2}), test.ShouldBeTrue)

	var matCfg RotationConfig
	err = yaml.Unmarshal([]byte(`
format: rotation-matrix
matrix:
  - [0, -1, 0]
  - [1, 0, 0]
  - [0, 0, 1]
`), &matCfg)
	test.That(t, err, test.ShouldBeNil)
	o, err = matCfg.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, &spatialmath.EulerAngles{Yaw: math.Pi / 2}), test.ShouldBeTrue)

	var rodCfg RotationConfig
	err = json.Unmarshal([]byte(`{"format": "rodrigues", "params": [0, 0, 1.5707963267948966]}`), &rodCfg)
	test.That(t, err, test.ShouldBeNil)
	o, err = rodCfg.Orientation()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.OrientationAlmostEqual(o, &spatialmath.EulerAngles{Yaw: math.Pi / 2}), test.ShouldBeTrue)
}

func TestRotationConfigValidate(t *testing.T) {
	_, err := (&RotationConfig{Format: "oiler_angles"}).Orientation()
	test.That(t, err, test.ShouldNotBeNil)

	// both problems of a bad euler config are reported at once
	bad := RotationConfig{Format: EulerFormat, Order: "rxz", Angles: []Angle{NewAngleFromDegrees(1)}}
	err = bad.Validate()
	test.That(t, err, test.ShouldNotBeNil)

	missingCount := RotationConfig{Format: EulerFormat, Order: "rpy", Angles: []Angle{NewAngleFromDegrees(1)}}
	test.That(t, missingCount.Validate(), test.ShouldNotBeNil)

	zeroQuat := RotationConfig{Format: QuaternionFormat, IJKW: &[4]float64{}}
	test.That(t, zeroQuat.Validate(), test.ShouldNotBeNil)

	halfAxisAngle := RotationConfig{Format: AxisAngleFormat}
	err = halfAxisAngle.Validate()
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 2)

	angle := NewAngleFromDegrees(30)
	zeroAxis := RotationConfig{Format: AxisAngleFormat, Axis: &[3]float64{}, Angle: &angle}
	test.That(t, zeroAxis.Validate(), test.ShouldNotBeNil)

	test.That(t, (&RotationConfig{Format: RotationMatrixFormat}).Validate(), test.ShouldNotBeNil)
	test.That(t, (&RotationConfig{Format: RodriguesFormat}).Validate(), test.ShouldNotBeNil)
}

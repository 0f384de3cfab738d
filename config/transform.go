package config

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tfkit/tfkit/spatialmath"
	"github.com/tfkit/tfkit/transformset"
)

// TransformConfig is the wire form of a rigid transform: a rotation plus an optional
// translation. A document without a translation is written as the bare rotation
// object, not wrapped in an "r" key, and such bare-rotation documents are accepted on
// input too; a nil Translation is how that state is represented in memory.
type TransformConfig struct {
	Rotation    RotationConfig
	Translation *[3]float64
}

type rawTransform struct {
	R RotationConfig `json:"r" yaml:"r"`
	T [3]float64     `json:"t" yaml:"t"`
}

// Pose decodes the config into a pose. An absent translation decodes as zero.
func (tc *TransformConfig) Pose() (spatialmath.Pose, error) {
	o, err := tc.Rotation.Orientation()
	if err != nil {
		return nil, err
	}
	if tc.Translation == nil {
		return spatialmath.NewPoseFromOrientation(o), nil
	}
	t := *tc.Translation
	return spatialmath.NewPose(r3.Vector{X: t[0], Y: t[1], Z: t[2]}, o), nil
}

// NewTransformConfig encodes a pose, translation included, with the rotation in the
// requested format and unit.
func NewTransformConfig(pose spatialmath.Pose, format RotationFormat, unit AngleUnit) (*TransformConfig, error) {
	rot, err := NewRotationConfig(pose.Orientation(), format, unit)
	if err != nil {
		return nil, err
	}
	pt := pose.Point()
	return &TransformConfig{
		Rotation:    *rot,
		Translation: &[3]float64{pt.X, pt.Y, pt.Z},
	}, nil
}

// MarshalJSON writes either {"r": ..., "t": ...} or, without a translation, the bare
// rotation object.
func (tc TransformConfig) MarshalJSON() ([]byte, error) {
	if tc.Translation == nil {
		return json.Marshal(tc.Rotation)
	}
	return json.Marshal(rawTransform{R: tc.Rotation, T: *tc.Translation})
}

// UnmarshalJSON accepts both the wrapped and the bare-rotation document shapes.
func (tc *TransformConfig) UnmarshalJSON(data []byte) error {
	var probe struct {
		R *RotationConfig `json:"r"`
		T *[3]float64     `json:"t"`
	}
	if err := json.Unmarshal(data, &probe); err == nil && probe.R != nil {
		tc.Rotation = *probe.R
		tc.Translation = probe.T
		return nil
	}

	var rot RotationConfig
	if err := json.Unmarshal(data, &rot); err != nil {
		return err
	}
	if rot.Format == "" {
		return errors.New("transform document has neither an \"r\" field nor an inline rotation")
	}
	tc.Rotation = rot
	tc.Translation = nil
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML documents.
func (tc TransformConfig) MarshalYAML() (interface{}, error) {
	if tc.Translation == nil {
		return tc.Rotation, nil
	}
	return rawTransform{R: tc.Rotation, T: *tc.Translation}, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (tc *TransformConfig) UnmarshalYAML(value *yaml.Node) error {
	var probe struct {
		R *RotationConfig `yaml:"r"`
		T *[3]float64     `yaml:"t"`
	}
	if err := value.Decode(&probe); err == nil && probe.R != nil {
		tc.Rotation = *probe.R
		tc.Translation = probe.T
		return nil
	}

	var rot RotationConfig
	if err := value.Decode(&rot); err != nil {
		return err
	}
	if rot.Format == "" {
		return errors.New("transform document has neither an \"r\" field nor an inline rotation")
	}
	tc.Rotation = rot
	tc.Translation = nil
	return nil
}

// FactConfig is the wire form of one pairwise frame relation.
type FactConfig struct {
	Src       string          `json:"src" yaml:"src"`
	Dst       string          `json:"dst" yaml:"dst"`
	Transform TransformConfig `json:"tf" yaml:"tf"`
}

// Fact decodes the config into a fact.
func (fc *FactConfig) Fact() (transformset.Fact, error) {
	pose, err := fc.Transform.Pose()
	if err != nil {
		return transformset.Fact{}, errors.Wrapf(err, "transform from %q to %q", fc.Src, fc.Dst)
	}
	return transformset.Fact{Src: fc.Src, Dst: fc.Dst, Transform: pose}, nil
}

// NewFactConfig encodes a fact with the rotation in the requested format and unit.
func NewFactConfig(f transformset.Fact, format RotationFormat, unit AngleUnit) (*FactConfig, error) {
	tf, err := NewTransformConfig(f.Transform, format, unit)
	if err != nil {
		return nil, err
	}
	return &FactConfig{Src: f.Src, Dst: f.Dst, Transform: *tf}, nil
}

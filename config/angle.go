package config

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AngleUnit is the unit an Angle's value is expressed in.
type AngleUnit string

// The two supported angle units.
const (
	Radian AngleUnit = "radian"
	Degree AngleUnit = "degree"
)

// Angle is an angle tagged with its unit. The wire form is a suffixed string such as
// "30d", "30deg", "1.5r", "1.5rad" or "45°", so a file always states which unit it
// means. Converting between units changes the stored value but never the angle.
type Angle struct {
	Value float64
	Unit  AngleUnit
}

// NewAngleFromRadians returns an angle of v radians.
func NewAngleFromRadians(v float64) Angle {
	return Angle{Value: v, Unit: Radian}
}

// NewAngleFromDegrees returns an angle of v degrees.
func NewAngleFromDegrees(v float64) Angle {
	return Angle{Value: v, Unit: Degree}
}

// Radians returns the angle's value in radians.
func (a Angle) Radians() float64 {
	if a.Unit == Degree {
		return a.Value * math.Pi / 180
	}
	return a.Value
}

// Degrees returns the angle's value in degrees.
func (a Angle) Degrees() float64 {
	if a.Unit == Degree {
		return a.Value
	}
	return a.Value * 180 / math.Pi
}

// ToRadians returns the same angle expressed in radians.
func (a Angle) ToRadians() Angle {
	return Angle{Value: a.Radians(), Unit: Radian}
}

// ToDegrees returns the same angle expressed in degrees.
func (a Angle) ToDegrees() Angle {
	return Angle{Value: a.Degrees(), Unit: Degree}
}

// Normalize returns the same rotation with the value wrapped into [0, 2π) or
// [0, 360) depending on the unit.
func (a Angle) Normalize() Angle {
	full := 2 * math.Pi
	if a.Unit == Degree {
		full = 360
	}
	v := math.Mod(a.Value, full)
	if v < 0 {
		v += full
	}
	return Angle{Value: v, Unit: a.Unit}
}

func (a Angle) String() string {
	suffix := "r"
	if a.Unit == Degree {
		suffix = "d"
	}
	return strconv.FormatFloat(a.Value, 'g', -1, 64) + suffix
}

// ParseAngle parses the suffixed string form of an angle. The recognized suffixes,
// checked in this order, are "°", "rad", "deg", "d" and "r"; a bare number has no
// unit and is rejected.
func ParseAngle(text string) (Angle, error) {
	unit := AngleUnit("")
	var number string
	for _, suffix := range []struct {
		text string
		unit AngleUnit
	}{
		{"°", Degree},
		{"rad", Radian},
		{"deg", Degree},
		{"d", Degree},
		{"r", Radian},
	} {
		if prefix, ok := strings.CutSuffix(text, suffix.text); ok {
			number, unit = prefix, suffix.unit
			break
		}
	}
	if unit == "" {
		return Angle{}, errors.Errorf("unable to parse angle value %q", text)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return Angle{}, errors.Wrapf(err, "unable to parse angle value %q", text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Angle{}, errors.Errorf("invalid angle value %q", text)
	}
	return Angle{Value: value, Unit: unit}, nil
}

// MarshalJSON encodes the angle as its suffixed string form.
func (a Angle) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes the suffixed string form.
func (a *Angle) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseAngle(text)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML encodes the angle as its suffixed string form.
func (a Angle) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML decodes the suffixed string form.
func (a *Angle) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	parsed, err := ParseAngle(text)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

package transformset

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tfkit/tfkit/spatialmath"
)

// Epsilon is the numeric tolerance used for every transform comparison in this
// package. Transforms reconstructed through different composition paths accumulate
// floating point drift, so exact comparison is never used.
const Epsilon = 1e-6

// NewInvalidSelfLoopError returns the error for a fact that relates a frame to
// itself with a non-identity transform.
func NewInvalidSelfLoopError(frame string) error {
	return errors.Errorf("transform from frame %q to itself must be the identity", frame)
}

// InconsistentTransformError is returned when a frame pair is asserted with a
// transform that disagrees, beyond Epsilon, with the one already derivable from the
// set. The set is left exactly as it was; both transforms are retained so the
// upstream data problem can be diagnosed.
type InconsistentTransformError struct {
	Src      string
	Dst      string
	Expected spatialmath.Pose
	Actual   spatialmath.Pose
}

func (e *InconsistentTransformError) Error() string {
	have := "nothing"
	if e.Expected != nil {
		have = spatialmath.PoseToString(e.Expected)
	}
	return fmt.Sprintf("inconsistent transform from %q to %q: have %s but was given %s",
		e.Src, e.Dst, have, spatialmath.PoseToString(e.Actual))
}

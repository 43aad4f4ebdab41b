package input

import (
	"math"

	"github.com/spynter/hub360/common"
)

// DefaultSmoothing is the exponential-moving-average factor applied to raw
// sensor angles. Small values trade responsiveness for stability against
// sensor jitter.
const DefaultSmoothing = 0.15

// OrientationFilter smooths raw device-orientation angles and converts them
// to a camera quaternion. The yaw axis is inverted relative to the raw
// sensor alpha so sensor rotation matches the drag-to-look direction, and
// the result is compensated for the current screen orientation.
type OrientationFilter struct {
	factor float64

	alpha, beta, gamma float64
	primed             bool
}

// NewOrientationFilter creates a filter with the given smoothing factor.
//
// Parameters:
//   - factor: EMA factor in (0, 1]; zero or out-of-range falls back to
//     DefaultSmoothing
//
// Returns:
//   - *OrientationFilter: the filter, unprimed until the first Update
func NewOrientationFilter(factor float64) *OrientationFilter {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothing
	}
	return &OrientationFilter{factor: factor}
}

// Update feeds one sensor reading through the filter.
//
// Parameters:
//   - alpha: rotation around the device z axis in degrees
//   - beta: rotation around the device x axis in degrees
//   - gamma: rotation around the device y axis in degrees
//   - screenOrientation: screen orientation angle in degrees
//
// Returns:
//   - common.Quaternion: the smoothed camera orientation
func (f *OrientationFilter) Update(alpha, beta, gamma, screenOrientation float64) common.Quaternion {
	if !f.primed {
		f.alpha, f.beta, f.gamma = alpha, beta, gamma
		f.primed = true
	} else {
		f.alpha += f.factor * (alpha - f.alpha)
		f.beta += f.factor * (beta - f.beta)
		f.gamma += f.factor * (gamma - f.gamma)
	}
	return f.orientation(screenOrientation)
}

// Reset discards the smoothed state; the next Update primes the filter
// again. Called when the sensor is re-attached after teardown.
func (f *OrientationFilter) Reset() {
	f.primed = false
}

// orientation composes the camera quaternion from the smoothed angles:
// Euler YXZ with the yaw axis inverted, tilted back by a quarter turn about
// x (the device lies flat at neutral, the camera looks outward), then
// compensated for the screen orientation about z.
func (f *OrientationFilter) orientation(screenOrientation float64) common.Quaternion {
	x := common.Deg2Rad(f.beta)
	y := common.Deg2Rad(-f.alpha)
	z := common.Deg2Rad(-f.gamma)

	q := common.QuaternionFromEulerYXZ(x, y, z)

	halfSqrt := math.Sqrt(0.5)
	tilt := common.Quaternion{X: -halfSqrt, W: halfSqrt}
	q = q.Mul(tilt)

	screen := common.QuaternionFromAxisAngle(
		common.Vec3{Z: 1},
		common.Deg2Rad(-screenOrientation),
	)
	return q.Mul(screen).Normalize()
}

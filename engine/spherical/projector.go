// package spherical implements the coordinate math for an inward-facing
// panorama sphere: converting between (pitch, yaw) angles stored on hotspots
// and cartesian points on the sphere surface, and casting pick rays from the
// camera at the sphere's center.
package spherical

import (
	"math"

	"github.com/spynter/hub360/common"
)

const (
	// Radius is the radius of the panorama sphere. Every scene shares the
	// same sphere; only the texture changes.
	Radius = 500.0

	// MarkerRadius is the radius of the spherical hotspot markers placed on
	// the panorama sphere surface.
	MarkerRadius = 12.0

	// SegmentsWidth and SegmentsHeight are the tessellation counts of the
	// panorama sphere mesh. High enough that the equirectangular mapping
	// shows no visible faceting at full zoom.
	SegmentsWidth  = 128
	SegmentsHeight = 96
)

// ToCartesian converts spherical angles to a cartesian point on a sphere of
// the given radius. Pitch is elevation in degrees (+90 straight up, -90
// straight down), yaw is azimuth in degrees around the vertical axis.
//
// Parameters:
//   - pitch: elevation angle in degrees
//   - yaw: azimuth angle in degrees
//   - radius: sphere radius
//
// Returns:
//   - common.Vec3: the point on the sphere surface
func ToCartesian(pitch, yaw, radius float64) common.Vec3 {
	phi := common.Deg2Rad(90.0 - pitch)
	theta := common.Deg2Rad(yaw)
	return common.Vec3{
		X: radius * math.Sin(phi) * math.Sin(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Cos(theta),
	}
}

// ToSpherical converts a cartesian point back to (pitch, yaw) angles in
// degrees. The point does not need to lie exactly on a sphere surface; its
// distance from the origin is used as the radius.
//
// Parameters:
//   - v: the cartesian point
//
// Returns:
//   - float64: pitch in degrees
//   - float64: yaw in degrees, in the range (-180, 180]
func ToSpherical(v common.Vec3) (float64, float64) {
	r := v.Length()
	if r == 0 {
		return 0, 0
	}
	phi := math.Acos(common.Clamp(v.Y/r, -1, 1))
	theta := math.Atan2(v.X, v.Z)
	return 90.0 - common.Rad2Deg(phi), common.Rad2Deg(theta)
}

package spherical

import (
	"math"

	"github.com/spynter/hub360/common"
)

// Ray is a pick ray in world space with a unit direction.
type Ray struct {
	Origin common.Vec3
	Dir    common.Vec3
}

// RayFromView builds a pick ray from the panorama camera through a point on
// the screen. The camera sits at the sphere center, so the ray origin is the
// world origin and only the direction varies with the cursor position.
//
// The direction is built directly from the camera basis instead of inverting
// the view-projection matrices: the screen point in NDC maps onto the near
// plane at (ndcX * tan(fov/2) * aspect, ndcY * tan(fov/2), -1) in camera
// space, which is then expressed in world space through the camera's
// forward/right/up vectors.
//
// Parameters:
//   - ndcX: cursor x in normalized device coordinates (-1 left, +1 right)
//   - ndcY: cursor y in normalized device coordinates (-1 bottom, +1 top)
//   - forward: unit camera view direction in world space
//   - fovYDeg: vertical field of view in degrees
//   - aspect: viewport aspect ratio (width/height)
//
// Returns:
//   - Ray: the world-space pick ray
func RayFromView(ndcX, ndcY float64, forward common.Vec3, fovYDeg, aspect float64) Ray {
	worldUp := common.Vec3{Y: 1}
	right := forward.Cross(worldUp)
	if right.Length() < 1e-9 {
		// Looking straight up or down; any horizontal right vector works.
		right = common.Vec3{X: 1}
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()

	tanHalf := math.Tan(common.Deg2Rad(fovYDeg) / 2.0)
	dir := forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf)).
		Normalize()

	return Ray{Dir: dir}
}

// IntersectSphereInside intersects the ray with a sphere of the given radius
// centered at the origin, assuming the ray starts inside the sphere. The far
// (positive) root is taken, which is the point on the panorama surface the
// cursor is over.
//
// Parameters:
//   - radius: the sphere radius
//
// Returns:
//   - common.Vec3: the intersection point
//   - bool: false if the ray origin lies outside the sphere
func (r Ray) IntersectSphereInside(radius float64) (common.Vec3, bool) {
	if r.Origin.Length() >= radius {
		return common.Vec3{}, false
	}
	a := r.Dir.Dot(r.Dir)
	b := 2.0 * r.Origin.Dot(r.Dir)
	c := r.Origin.Dot(r.Origin) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return common.Vec3{}, false
	}
	t := (-b + math.Sqrt(disc)) / (2 * a)
	return r.Origin.Add(r.Dir.Scale(t)), true
}

// IntersectSphere intersects the ray with an arbitrary sphere and returns the
// nearest hit in front of the ray origin. Used for picking hotspot markers.
//
// Parameters:
//   - center: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - float64: distance along the ray to the nearest hit
//   - bool: true if the ray hits the sphere
func (r Ray) IntersectSphere(center common.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	a := r.Dir.Dot(r.Dir)
	b := 2.0 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := (-b - sq) / (2 * a)
	if t < 0 {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

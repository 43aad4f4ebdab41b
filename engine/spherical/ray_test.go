package spherical

import (
	"math"
	"testing"

	"github.com/spynter/hub360/common"
)

func TestRayThroughScreenCenterHitsViewDirection(t *testing.T) {
	// A ray through the center of the screen must hit the panorama sphere
	// exactly where the camera is looking.
	pitch, yaw := 12.5, -48.0
	forward := ToCartesian(pitch, yaw, 1)

	ray := RayFromView(0, 0, forward, 75, 16.0/9.0)
	hit, ok := ray.IntersectSphereInside(Radius)
	if !ok {
		t.Fatal("center ray missed the panorama sphere")
	}

	gotPitch, gotYaw := ToSpherical(hit)
	if math.Abs(gotPitch-pitch) > 1e-6 || math.Abs(gotYaw-yaw) > 1e-6 {
		t.Errorf("center ray hit (%v, %v), want (%v, %v)", gotPitch, gotYaw, pitch, yaw)
	}
}

func TestRayOffsetMovesWithCursor(t *testing.T) {
	forward := common.Vec3{Z: 1}

	left := RayFromView(-0.5, 0, forward, 75, 1)
	right := RayFromView(0.5, 0, forward, 75, 1)
	up := RayFromView(0, 0.5, forward, 75, 1)

	// Looking down +Z with +Y up puts camera-right at -X.
	if left.Dir.X <= right.Dir.X {
		t.Errorf("cursor left/right: dir.X %v vs %v, want left > right", left.Dir.X, right.Dir.X)
	}
	if up.Dir.Y <= 0 {
		t.Errorf("cursor above center: dir.Y = %v, want > 0", up.Dir.Y)
	}
}

func TestRayAspectWidensHorizontalSpread(t *testing.T) {
	forward := common.Vec3{Z: 1}
	narrow := RayFromView(1, 0, forward, 75, 1)
	wide := RayFromView(1, 0, forward, 75, 2)

	if math.Abs(wide.Dir.X) <= math.Abs(narrow.Dir.X) {
		t.Errorf("wider aspect did not widen spread: |%v| vs |%v|", wide.Dir.X, narrow.Dir.X)
	}
}

func TestRayDegeneratePitchDoesNotCollapse(t *testing.T) {
	// Looking straight down makes forward parallel to world up; the fallback
	// basis must still produce a usable unit ray.
	ray := RayFromView(0.3, 0.3, common.Vec3{Y: -1}, 75, 1)
	if math.Abs(ray.Dir.Length()-1) > 1e-9 {
		t.Errorf("degenerate-pitch ray length = %v, want 1", ray.Dir.Length())
	}
}

func TestIntersectSphereInside(t *testing.T) {
	ray := Ray{Dir: common.Vec3{Z: 1}}
	hit, ok := ray.IntersectSphereInside(Radius)
	if !ok {
		t.Fatal("ray from center missed the sphere")
	}
	if math.Abs(hit.Z-Radius) > 1e-9 || math.Abs(hit.X) > 1e-9 || math.Abs(hit.Y) > 1e-9 {
		t.Errorf("hit = %+v, want (0, 0, %v)", hit, float64(Radius))
	}

	outside := Ray{Origin: common.Vec3{Z: Radius * 2}, Dir: common.Vec3{Z: 1}}
	if _, ok := outside.IntersectSphereInside(Radius); ok {
		t.Error("ray starting outside the sphere reported an inside hit")
	}
}

func TestIntersectMarkerSphere(t *testing.T) {
	center := ToCartesian(10, 20, Radius)
	ray := Ray{Dir: center.Normalize()}

	dist, ok := ray.IntersectSphere(center, MarkerRadius)
	if !ok {
		t.Fatal("ray aimed at marker center missed")
	}
	if math.Abs(dist-(Radius-MarkerRadius)) > 1e-6 {
		t.Errorf("hit distance = %v, want %v", dist, Radius-MarkerRadius)
	}

	// Aim well away from the marker.
	miss := Ray{Dir: ToCartesian(-10, -160, 1)}
	if _, ok := miss.IntersectSphere(center, MarkerRadius); ok {
		t.Error("ray aimed away from marker reported a hit")
	}

	// Marker fully behind the origin must not hit.
	behind := Ray{Origin: common.Vec3{Z: 100}, Dir: common.Vec3{Z: 1}}
	if _, ok := behind.IntersectSphere(common.Vec3{Z: -100}, MarkerRadius); ok {
		t.Error("marker behind the ray reported a hit")
	}
}

package spherical

import (
	"math"
	"testing"

	"github.com/spynter/hub360/common"
)

func TestToCartesianKnownDirections(t *testing.T) {
	tests := []struct {
		name       string
		pitch, yaw float64
		want       common.Vec3
	}{
		{"forward", 0, 0, common.Vec3{Z: Radius}},
		{"right", 0, 90, common.Vec3{X: Radius}},
		{"behind", 0, 180, common.Vec3{Z: -Radius}},
		{"left", 0, -90, common.Vec3{X: -Radius}},
		{"zenith", 90, 0, common.Vec3{Y: Radius}},
		{"nadir", -90, 0, common.Vec3{Y: -Radius}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCartesian(tt.pitch, tt.yaw, Radius)
			if math.Abs(got.X-tt.want.X) > 1e-9 ||
				math.Abs(got.Y-tt.want.Y) > 1e-9 ||
				math.Abs(got.Z-tt.want.Z) > 1e-9 {
				t.Errorf("ToCartesian(%v, %v) = %+v, want %+v", tt.pitch, tt.yaw, got, tt.want)
			}
		})
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	pitches := []float64{-89, -45.5, -10, 0, 0.001, 33.3, 60, 89}
	yaws := []float64{-179.9, -120, -45, 0, 12.34, 90, 135.7, 179.9}

	for _, pitch := range pitches {
		for _, yaw := range yaws {
			gotPitch, gotYaw := ToSpherical(ToCartesian(pitch, yaw, Radius))
			if math.Abs(gotPitch-pitch) > 1e-6 {
				t.Errorf("pitch round trip (%v, %v): got %v", pitch, yaw, gotPitch)
			}
			if math.Abs(gotYaw-yaw) > 1e-6 {
				t.Errorf("yaw round trip (%v, %v): got %v", pitch, yaw, gotYaw)
			}
		}
	}
}

func TestToSphericalPoles(t *testing.T) {
	// At the poles yaw is undefined; only pitch must survive the round trip.
	for _, pitch := range []float64{90, -90} {
		gotPitch, _ := ToSpherical(ToCartesian(pitch, 123, Radius))
		if math.Abs(gotPitch-pitch) > 1e-6 {
			t.Errorf("pitch at pole %v: got %v", pitch, gotPitch)
		}
	}
}

func TestToSphericalRadiusIndependent(t *testing.T) {
	// Angles must not depend on the distance from the origin.
	p1, y1 := ToSpherical(ToCartesian(22, -57, Radius))
	p2, y2 := ToSpherical(ToCartesian(22, -57, 1))
	if math.Abs(p1-p2) > 1e-9 || math.Abs(y1-y2) > 1e-9 {
		t.Errorf("angles differ by radius: (%v, %v) vs (%v, %v)", p1, y1, p2, y2)
	}
}

func TestToSphericalZeroVector(t *testing.T) {
	p, y := ToSpherical(common.Vec3{})
	if p != 0 || y != 0 {
		t.Errorf("ToSpherical(zero) = (%v, %v), want (0, 0)", p, y)
	}
}

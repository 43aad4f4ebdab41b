package input

import (
	"math"
	"testing"

	"github.com/spynter/hub360/common"
)

// forwardOf applies the orientation to the camera's base view direction.
func forwardOf(q common.Quaternion) common.Vec3 {
	return q.Rotate(common.Vec3{Z: 1})
}

func TestNeutralUprightDeviceLooksAhead(t *testing.T) {
	// A device held upright (beta 90) facing forward (alpha 0) cancels the
	// quarter-turn tilt exactly; the camera looks straight ahead.
	f := NewOrientationFilter(1)
	q := f.Update(0, 90, 0, 0)

	fwd := forwardOf(q)
	if math.Abs(fwd.X) > 1e-9 || math.Abs(fwd.Y) > 1e-9 || math.Abs(fwd.Z-1) > 1e-9 {
		t.Errorf("forward = %+v, want +Z", fwd)
	}
}

func TestAlphaYawIsInverted(t *testing.T) {
	// Turning the device left (alpha +90) must turn the view the way a
	// rightward drag would, landing the forward vector on -X.
	f := NewOrientationFilter(1)
	q := f.Update(90, 90, 0, 0)

	fwd := forwardOf(q)
	if math.Abs(fwd.X+1) > 1e-9 || math.Abs(fwd.Z) > 1e-9 {
		t.Errorf("forward = %+v, want -X", fwd)
	}
}

func TestSmoothingConvergesGradually(t *testing.T) {
	f := NewOrientationFilter(0.15)

	// First reading primes the filter exactly.
	f.Update(0, 90, 0, 0)

	// A jump in alpha is absorbed gradually.
	q := f.Update(100, 90, 0, 0)
	jumpFwd := forwardOf(q)
	partialYaw := math.Abs(math.Atan2(jumpFwd.X, jumpFwd.Z))
	fullYaw := common.Deg2Rad(100)
	if partialYaw >= fullYaw*0.5 {
		t.Errorf("one smoothed step moved %v rad of %v, want well under half", partialYaw, fullYaw)
	}

	// Repeated identical readings converge on the raw value.
	for i := 0; i < 200; i++ {
		q = f.Update(100, 90, 0, 0)
	}
	fwd := forwardOf(q)
	settledYaw := math.Atan2(fwd.X, fwd.Z)
	if math.Abs(settledYaw-(-fullYaw)) > 1e-3 {
		t.Errorf("settled yaw = %v, want %v", settledYaw, -fullYaw)
	}
}

func TestResetReprimes(t *testing.T) {
	f := NewOrientationFilter(0.15)
	f.Update(0, 90, 0, 0)
	f.Reset()

	// After a reset the next reading is adopted wholesale.
	q := f.Update(90, 90, 0, 0)
	fwd := forwardOf(q)
	if math.Abs(fwd.X+1) > 1e-9 {
		t.Errorf("forward after reset = %+v, want -X immediately", fwd)
	}
}

func TestScreenOrientationCompensation(t *testing.T) {
	f := NewOrientationFilter(1)
	upright := f.Update(0, 90, 0, 0)

	f.Reset()
	rotated := f.Update(0, 90, 0, 90)

	// The compensation must change the orientation; a landscape device is
	// not treated as portrait.
	du := forwardOf(upright)
	dr := rotated.Rotate(common.Vec3{Y: 1})
	up := upright.Rotate(common.Vec3{Y: 1})
	if math.Abs(du.Z-1) > 1e-9 {
		t.Fatalf("upright forward = %+v, want +Z", du)
	}
	if math.Abs(up.X-dr.X) < 1e-9 && math.Abs(up.Y-dr.Y) < 1e-9 && math.Abs(up.Z-dr.Z) < 1e-9 {
		t.Error("screen orientation angle had no effect on the camera up axis")
	}
}

func TestInvalidFactorFallsBack(t *testing.T) {
	if f := NewOrientationFilter(0); f.factor != DefaultSmoothing {
		t.Errorf("factor = %v, want %v", f.factor, DefaultSmoothing)
	}
	if f := NewOrientationFilter(2); f.factor != DefaultSmoothing {
		t.Errorf("factor = %v, want %v", f.factor, DefaultSmoothing)
	}
}

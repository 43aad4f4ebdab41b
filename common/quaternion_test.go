package common

import (
	"math"
	"testing"
)

const quatEps = 1e-9

func vecClose(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestQuaternionIdentityRotate(t *testing.T) {
	v := Vec3{1, -2, 3}
	if got := QuaternionIdentity().Rotate(v); !vecClose(got, v, quatEps) {
		t.Errorf("identity rotation of %v = %v, want unchanged", v, got)
	}
}

func TestQuaternionAxisAngleRotate(t *testing.T) {
	tests := []struct {
		name  string
		axis  Vec3
		angle float64
		in    Vec3
		want  Vec3
	}{
		{"quarter turn about y", Vec3{Y: 1}, math.Pi / 2, Vec3{X: 1}, Vec3{Z: -1}},
		{"half turn about y", Vec3{Y: 1}, math.Pi, Vec3{X: 1}, Vec3{X: -1}},
		{"quarter turn about x", Vec3{X: 1}, math.Pi / 2, Vec3{Y: 1}, Vec3{Z: 1}},
		{"quarter turn about z", Vec3{Z: 1}, math.Pi / 2, Vec3{X: 1}, Vec3{Y: 1}},
		{"axis is fixed", Vec3{Y: 1}, 1.234, Vec3{Y: 7}, Vec3{Y: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuaternionFromAxisAngle(tt.axis, tt.angle).Rotate(tt.in)
			if !vecClose(got, tt.want, quatEps) {
				t.Errorf("rotate %v = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestQuaternionMulOrder(t *testing.T) {
	// q.Mul(o) applies o first, then q. Rotating +X a quarter turn about Z
	// (to +Y) and then a quarter turn about X should land on +Z.
	aboutZ := QuaternionFromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	aboutX := QuaternionFromAxisAngle(Vec3{X: 1}, math.Pi/2)

	got := aboutX.Mul(aboutZ).Rotate(Vec3{X: 1})
	if !vecClose(got, Vec3{Z: 1}, quatEps) {
		t.Errorf("composed rotation of +X = %v, want +Z", got)
	}
}

func TestQuaternionFromEulerYXZMatchesComposition(t *testing.T) {
	// YXZ order: yaw (Y) applied first in world terms, so the composed
	// quaternion must equal qy * qx * qz under our Mul convention.
	x, y, z := 0.31, -1.2, 2.05
	qy := QuaternionFromAxisAngle(Vec3{Y: 1}, y)
	qx := QuaternionFromAxisAngle(Vec3{X: 1}, x)
	qz := QuaternionFromAxisAngle(Vec3{Z: 1}, z)
	want := qy.Mul(qx).Mul(qz)

	got := QuaternionFromEulerYXZ(x, y, z)
	for _, v := range []Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: 0.2, Y: -3, Z: 0.5}} {
		if !vecClose(got.Rotate(v), want.Rotate(v), 1e-9) {
			t.Fatalf("euler YXZ rotation of %v = %v, want %v", v, got.Rotate(v), want.Rotate(v))
		}
	}
}

func TestQuaternionNormalize(t *testing.T) {
	q := Quaternion{X: 2, Y: 0, Z: 0, W: 2}.Normalize()
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if math.Abs(l-1) > quatEps {
		t.Errorf("normalized length = %v, want 1", l)
	}

	if got := (Quaternion{}).Normalize(); got != QuaternionIdentity() {
		t.Errorf("zero quaternion normalized to %v, want identity", got)
	}
}

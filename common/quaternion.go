package common

import "math"

// Quaternion is a rotation quaternion (x, y, z, w).
// Used to map device-orientation sensor angles onto the camera without
// the gimbal issues a raw Euler pipeline would reintroduce.
type Quaternion struct {
	X, Y, Z, W float64
}

// QuaternionIdentity returns the identity rotation.
func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromEulerYXZ builds a quaternion from Euler angles applied in
// Y-X-Z order (yaw, then pitch, then roll), the order device-orientation
// alpha/beta/gamma angles compose in.
//
// Parameters:
//   - x, y, z: rotation angles in radians around each axis
//
// Returns:
//   - Quaternion: the composed rotation
func QuaternionFromEulerYXZ(x, y, z float64) Quaternion {
	cx := math.Cos(x / 2)
	sx := math.Sin(x / 2)
	cy := math.Cos(y / 2)
	sy := math.Sin(y / 2)
	cz := math.Cos(z / 2)
	sz := math.Sin(z / 2)

	return Quaternion{
		X: sx*cy*cz + cx*sy*sz,
		Y: cx*sy*cz - sx*cy*sz,
		Z: cx*cy*sz - sx*sy*cz,
		W: cx*cy*cz + sx*sy*sz,
	}
}

// QuaternionFromAxisAngle builds a quaternion rotating by angle radians
// around the given (unit) axis.
//
// Parameters:
//   - axis: unit rotation axis
//   - angle: rotation angle in radians
//
// Returns:
//   - Quaternion: the rotation
func QuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	s := math.Sin(angle / 2)
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(angle / 2),
	}
}

// Mul returns the Hamilton product q * o (apply o first, then q... note the
// convention here matches chained `quaternion.multiply(other)` usage: the
// receiver's rotation is applied after the argument's).
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Normalize returns q scaled to unit length.
// A zero quaternion normalizes to the identity.
func (q Quaternion) Normalize() Quaternion {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuaternionIdentity()
	}
	return Quaternion{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies the rotation to vector v.
//
// Parameters:
//   - v: the vector to rotate
//
// Returns:
//   - Vec3: the rotated vector
func (q Quaternion) Rotate(v Vec3) Vec3 {
	// v' = v + 2 * cross(q.xyz, cross(q.xyz, v) + q.w * v)
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Add(v.Scale(q.W))
	return v.Add(u.Cross(t).Scale(2))
}

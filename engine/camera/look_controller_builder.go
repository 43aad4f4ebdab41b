package camera

// LookControllerOption is a functional option for configuring a
// LookController. Use the With* functions to create options.
type LookControllerOption func(lc *lookControllerImpl)

// WithInitialAngles sets the starting pitch and yaw in degrees.
//
// Parameters:
//   - pitch: elevation in degrees
//   - yaw: azimuth in degrees
//
// Returns:
//   - LookControllerOption: option function to apply
func WithInitialAngles(pitch, yaw float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		lc.pitch = pitch
		lc.yaw = yaw
		lc.targetPitch = pitch
		lc.targetYaw = yaw
	}
}

// WithPitchLimit sets the maximum elevation magnitude in degrees. Keeping it
// below 90 avoids the degenerate look-straight-up basis. Defaults to 85.
//
// Parameters:
//   - limit: pitch limit in degrees
//
// Returns:
//   - LookControllerOption: option function to apply
func WithPitchLimit(limit float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		if limit > 0 && limit < 90 {
			lc.pitchLimit = limit
		}
	}
}

// WithSensitivity sets the drag sensitivity in degrees per pixel. Defaults
// to 0.25.
//
// Parameters:
//   - sensitivity: degrees of rotation per pixel of drag
//
// Returns:
//   - LookControllerOption: option function to apply
func WithSensitivity(sensitivity float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		if sensitivity > 0 {
			lc.sensitivity = sensitivity
		}
	}
}

// WithDamping sets the per-frame easing factor applied toward the drag
// target, in (0, 1]. 1 disables damping entirely. Defaults to 0.12.
//
// Parameters:
//   - damping: easing factor per frame
//
// Returns:
//   - LookControllerOption: option function to apply
func WithDamping(damping float64) LookControllerOption {
	return func(lc *lookControllerImpl) {
		if damping > 0 && damping <= 1 {
			lc.damping = damping
		}
	}
}

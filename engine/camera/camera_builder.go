package camera

import "github.com/spynter/hub360/common"

// CameraBuilderOption is a functional option for configuring a Camera.
// Use the With* functions to create options.
type CameraBuilderOption func(c *cameraImpl)

// WithFov sets the initial vertical field of view in degrees, clamped to
// [MinFov, MaxFov]. Defaults to 75.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fovDeg = common.Clamp(fov, MinFov, MaxFov)
	}
}

// WithAspect sets the initial aspect ratio (width / height). Defaults to 1.
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNearFar sets the clip plane distances. Defaults to 0.1 and twice the
// panorama sphere radius.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithNearFar(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches a LookController at construction time.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithController(ctrl LookController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

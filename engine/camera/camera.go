package camera

import (
	"sync"

	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/engine/spherical"
)

const (
	// MinFov is the narrowest field of view reachable by wheel zoom, in
	// degrees.
	MinFov = 30.0
	// MaxFov is the widest field of view reachable by wheel zoom, in degrees.
	MaxFov = 100.0
	// ZoomStep is the field-of-view change per wheel notch, in degrees.
	ZoomStep = 2.0
)

type cameraImpl struct {
	mu *sync.Mutex

	up     [3]float32
	fovDeg float64
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller LookController
}

// Camera holds the panorama viewpoint: fixed at the sphere center, oriented
// by an attached LookController, with a zoomable field of view. It computes
// view/projection matrices each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float64: field of view in degrees
	Fov() float64

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Forward returns the current unit view direction in world space.
	//
	// Returns:
	//   - common.Vec3: the view direction
	Forward() common.Vec3

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached LookController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - LookController: the attached controller or nil
	Controller() LookController

	// Update advances the controller's damped angles and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	Update()

	// SetFov sets the vertical field of view in degrees and recomputes
	// matrices. The value is clamped to [MinFov, MaxFov].
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float64)

	// ZoomBy nudges the field of view by the given number of wheel notches.
	// Positive notches zoom out (wider), negative zoom in (narrower); the
	// result stays within [MinFov, MaxFov].
	//
	// Parameters:
	//   - notches: wheel notches, sign gives the direction
	ZoomBy(notches float64)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a LookController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl LookController)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with panorama-viewer defaults: a 75 degree
// field of view and clip planes sized for the panorama sphere.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		up:                   [3]float32{0, 1, 0},
		fovDeg:               75.0,
		aspect:               1.0,
		near:                 0.1,
		far:                  spherical.Radius * 2,
		viewMatrix:           [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		projectionMatrix:     [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		viewProjectionMatrix: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, option := range options {
		option(c)
	}
	if c.controller != nil {
		c.updateMatrices()
	}
	return c
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovDeg
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Forward() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return common.Vec3{Z: 1}
	}
	return c.controller.Forward()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() LookController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.controller.Step()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovDeg = common.Clamp(fov, MinFov, MaxFov)
	c.updateMatrices()
}

func (c *cameraImpl) ZoomBy(notches float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovDeg = common.Clamp(c.fovDeg+notches*ZoomStep, MinFov, MaxFov)
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl LookController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// updateMatrices recalculates the view, projection and view-projection
// matrices from the controller's look direction. The eye is always the
// sphere center. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}

	target := c.controller.Forward().Scale(spherical.Radius).F32()

	common.LookAt(c.viewMatrix[:],
		0, 0, 0,
		target[0], target[1], target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		float32(common.Deg2Rad(c.fovDeg)), c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

package camera

import (
	"sync"

	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/engine/spherical"
)

// LookController orients the panorama camera. Pointer drags set target
// angles that the current angles approach with damping each frame; an active
// orientation sensor overrides the drag path entirely until cleared.
type LookController interface {
	// Pitch returns the current elevation angle in degrees.
	//
	// Returns:
	//   - float64: pitch in degrees
	Pitch() float64

	// Yaw returns the current azimuth angle in degrees.
	//
	// Returns:
	//   - float64: yaw in degrees
	Yaw() float64

	// Forward returns the current unit view direction.
	//
	// Returns:
	//   - common.Vec3: the view direction
	Forward() common.Vec3

	// SetAngles snaps both the current and target angles, bypassing damping.
	// Used when entering a scene at its initial orientation.
	//
	// Parameters:
	//   - pitch: elevation in degrees, clamped to the pitch limit
	//   - yaw: azimuth in degrees
	SetAngles(pitch, yaw float64)

	// BeginDrag starts a pointer drag at the given screen position.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	BeginDrag(x, y float64)

	// Drag updates an active drag. Dragging moves the view in the grab
	// direction: dragging right rotates the panorama right, so the view
	// turns left.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	Drag(x, y float64)

	// EndDrag finishes a pointer drag. The damped angles keep easing toward
	// the last target afterwards.
	EndDrag()

	// Dragging reports whether a pointer drag is active.
	//
	// Returns:
	//   - bool: true while between BeginDrag and EndDrag
	Dragging() bool

	// Step advances the damped angles one frame toward their targets. Called
	// by the camera's Update.
	Step()

	// SetOrientation applies a device-orientation quaternion, replacing
	// pointer-drag rotation until ClearOrientation is called.
	//
	// Parameters:
	//   - q: the smoothed sensor orientation
	SetOrientation(q common.Quaternion)

	// ClearOrientation re-enables pointer-drag rotation, keeping the last
	// sensor angles as the starting point.
	ClearOrientation()

	// OrientationActive reports whether sensor orientation is driving the
	// camera.
	//
	// Returns:
	//   - bool: true while a sensor orientation is applied
	OrientationActive() bool
}

var _ LookController = &lookControllerImpl{}

type lookControllerImpl struct {
	mu *sync.Mutex

	pitch float64
	yaw   float64

	targetPitch float64
	targetYaw   float64

	pitchLimit  float64
	sensitivity float64
	damping     float64

	dragging bool
	lastX    float64
	lastY    float64
	sensorOn bool
}

// NewLookController creates a controller with viewer defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - LookController: the newly created controller
func NewLookController(options ...LookControllerOption) LookController {
	lc := &lookControllerImpl{
		mu:          &sync.Mutex{},
		pitchLimit:  85.0,
		sensitivity: 0.25,
		damping:     0.12,
	}
	for _, option := range options {
		option(lc)
	}
	return lc
}

func (lc *lookControllerImpl) Pitch() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.pitch
}

func (lc *lookControllerImpl) Yaw() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.yaw
}

func (lc *lookControllerImpl) Forward() common.Vec3 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return spherical.ToCartesian(lc.pitch, lc.yaw, 1)
}

func (lc *lookControllerImpl) SetAngles(pitch, yaw float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.pitch = common.Clamp(pitch, -lc.pitchLimit, lc.pitchLimit)
	lc.yaw = wrapYaw(yaw)
	lc.targetPitch = lc.pitch
	lc.targetYaw = lc.yaw
}

func (lc *lookControllerImpl) BeginDrag(x, y float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.sensorOn {
		return
	}
	lc.dragging = true
	lc.lastX = x
	lc.lastY = y
}

func (lc *lookControllerImpl) Drag(x, y float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if !lc.dragging || lc.sensorOn {
		return
	}

	dx := x - lc.lastX
	dy := y - lc.lastY
	lc.lastX = x
	lc.lastY = y

	lc.targetYaw += dx * lc.sensitivity
	lc.targetPitch = common.Clamp(lc.targetPitch+dy*lc.sensitivity, -lc.pitchLimit, lc.pitchLimit)
}

func (lc *lookControllerImpl) EndDrag() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.dragging = false
}

func (lc *lookControllerImpl) Dragging() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.dragging
}

func (lc *lookControllerImpl) Step() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.sensorOn {
		return
	}
	lc.pitch += (lc.targetPitch - lc.pitch) * lc.damping
	lc.yaw += (lc.targetYaw - lc.yaw) * lc.damping
}

func (lc *lookControllerImpl) SetOrientation(q common.Quaternion) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.sensorOn = true

	pitch, yaw := spherical.ToSpherical(q.Rotate(common.Vec3{Z: 1}))
	lc.pitch = common.Clamp(pitch, -lc.pitchLimit, lc.pitchLimit)
	lc.yaw = yaw
	lc.targetPitch = lc.pitch
	lc.targetYaw = lc.yaw
}

func (lc *lookControllerImpl) ClearOrientation() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.sensorOn = false
	lc.dragging = false
}

func (lc *lookControllerImpl) OrientationActive() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.sensorOn
}

// wrapYaw folds an angle into (-180, 180].
func wrapYaw(yaw float64) float64 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}

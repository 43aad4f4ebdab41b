// package transition implements the scene-to-scene navigation animation as
// an explicit state machine driven by a single per-frame tick, rather than
// chained callbacks: zoom the camera in, swap the scene after a settle delay,
// cross-fade the panorama textures, then zoom back out. Keeping it a state
// machine makes the re-entrancy guard and cancellation trivial to test.
package transition

import (
	"time"

	"github.com/spynter/hub360/common"
)

// State identifies a phase of the transition state machine.
type State int

const (
	// Idle means no transition is running; navigation triggers are accepted.
	Idle State = iota
	// ZoomingIn narrows the camera field of view toward the target hotspot.
	ZoomingIn
	// SceneSwap waits out the settle delay, then advances the current scene.
	SceneSwap
	// CrossFading blends the outgoing and incoming panorama textures.
	CrossFading
	// ZoomingOut widens the field of view back to the default.
	ZoomingOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ZoomingIn:
		return "zooming-in"
	case SceneSwap:
		return "scene-swap"
	case CrossFading:
		return "cross-fading"
	case ZoomingOut:
		return "zooming-out"
	default:
		return "unknown"
	}
}

// Driver receives the side effects of the state machine. The viewer session
// implements it over the camera, scene renderer and cross-fade material.
type Driver interface {
	// SetFov updates the camera's vertical field of view in degrees.
	SetFov(fov float64)
	// SwapScene makes the target scene current and begins loading its
	// texture. Called exactly once per transition.
	SwapScene(targetIndex int)
	// SetCrossFade updates the blend progress in [0, 1]. 0 shows the
	// outgoing scene, 1 shows the incoming scene.
	SetCrossFade(progress float64)
	// EndCrossFade disposes the outgoing scene's retained texture once the
	// blend has completed or the transition is cancelled.
	EndCrossFade()
}

// Engine drives one navigation transition at a time.
type Engine interface {
	// Start begins a transition toward the given scene index.
	//
	// Parameters:
	//   - targetIndex: index of the destination scene
	//   - now: the current time
	//
	// Returns:
	//   - bool: false if a transition is already running; the trigger is
	//     ignored and no second scene change occurs
	Start(targetIndex int, now time.Time) bool

	// Tick advances the state machine. Call once per rendered frame.
	//
	// Parameters:
	//   - now: the current time
	Tick(now time.Time)

	// Cancel aborts any running transition, restoring the default field of
	// view and releasing cross-fade resources.
	Cancel()

	// State returns the current phase.
	State() State

	// Active reports whether a transition is running.
	Active() bool
}

var _ Engine = &engine{}

type engine struct {
	driver Driver

	defaultFov float64
	narrowFov  float64

	zoomInDuration  time.Duration
	settleDelay     time.Duration
	fadeStep        float64
	zoomOutDelay    time.Duration
	zoomOutDuration time.Duration

	state        State
	target       int
	startFov     float64
	phaseStart   time.Time
	fadeProgress float64
	swapped      bool
}

// Start implements Engine.
func (e *engine) Start(targetIndex int, now time.Time) bool {
	if e.state != Idle {
		return false
	}
	e.state = ZoomingIn
	e.target = targetIndex
	e.startFov = e.defaultFov
	e.phaseStart = now
	e.fadeProgress = 0
	e.swapped = false
	return true
}

// Tick implements Engine.
func (e *engine) Tick(now time.Time) {
	switch e.state {
	case Idle:
		return
	case ZoomingIn:
		f := e.fraction(now, e.zoomInDuration)
		e.driver.SetFov(common.Lerp(e.startFov, e.narrowFov, f))
		if f >= 1 {
			e.enter(SceneSwap, now)
		}
	case SceneSwap:
		if now.Sub(e.phaseStart) < e.settleDelay {
			return
		}
		if !e.swapped {
			e.swapped = true
			e.driver.SwapScene(e.target)
			e.driver.SetCrossFade(0)
		}
		e.enter(CrossFading, now)
	case CrossFading:
		e.fadeProgress += e.fadeStep
		if e.fadeProgress >= 1 {
			e.fadeProgress = 1
		}
		e.driver.SetCrossFade(e.fadeProgress)
		if e.fadeProgress >= 1 {
			e.driver.EndCrossFade()
			e.enter(ZoomingOut, now)
		}
	case ZoomingOut:
		elapsed := now.Sub(e.phaseStart)
		if elapsed < e.zoomOutDelay {
			return
		}
		f := common.Clamp(float64(elapsed-e.zoomOutDelay)/float64(e.zoomOutDuration), 0, 1)
		e.driver.SetFov(common.Lerp(e.narrowFov, e.defaultFov, f))
		if f >= 1 {
			e.state = Idle
		}
	}
}

// Cancel implements Engine.
func (e *engine) Cancel() {
	if e.state == Idle {
		return
	}
	if e.state == CrossFading || (e.state == SceneSwap && e.swapped) {
		e.driver.EndCrossFade()
	}
	e.driver.SetFov(e.defaultFov)
	e.state = Idle
}

// State implements Engine.
func (e *engine) State() State {
	return e.state
}

// Active implements Engine.
func (e *engine) Active() bool {
	return e.state != Idle
}

func (e *engine) enter(s State, now time.Time) {
	e.state = s
	e.phaseStart = now
}

func (e *engine) fraction(now time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return common.Clamp(float64(now.Sub(e.phaseStart))/float64(d), 0, 1)
}

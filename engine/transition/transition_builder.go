package transition

import "time"

// Reference timings for the navigation transition. These match the feel of
// the original viewer: a quick zoom toward the hotspot, a short settle, a
// ~25 frame cross-fade, then a slightly slower zoom back out.
const (
	// DefaultFov is the wide resting field of view in degrees.
	DefaultFov = 75.0
	// NarrowFov is the zoomed-in field of view in degrees during the swap.
	NarrowFov = 35.0

	// DefaultZoomInDuration is how long the zoom toward the hotspot takes.
	DefaultZoomInDuration = 350 * time.Millisecond
	// DefaultSettleDelay is the pause before the scene index advances.
	DefaultSettleDelay = 200 * time.Millisecond
	// DefaultFadeStep is the cross-fade progress added per frame.
	DefaultFadeStep = 0.04
	// DefaultZoomOutDelay is the pause before the zoom-out begins.
	DefaultZoomOutDelay = 250 * time.Millisecond
	// DefaultZoomOutDuration is how long the zoom back out takes.
	DefaultZoomOutDuration = 400 * time.Millisecond
)

// EngineOption is a functional option for configuring the transition engine.
// Use the With* functions to create options.
type EngineOption func(e *engine)

// WithFovRange sets the wide (resting) and narrow (zoomed) fields of view in
// degrees. Defaults to DefaultFov and NarrowFov.
//
// Parameters:
//   - defaultFov: the resting field of view
//   - narrowFov: the zoomed-in field of view
//
// Returns:
//   - EngineOption: option function to apply
func WithFovRange(defaultFov, narrowFov float64) EngineOption {
	return func(e *engine) {
		e.defaultFov = defaultFov
		e.narrowFov = narrowFov
	}
}

// WithZoomTimings sets the durations of the zoom phases.
//
// Parameters:
//   - zoomIn: zoom-in duration
//   - settle: delay before the scene swap
//   - zoomOutDelay: delay before the zoom-out begins
//   - zoomOut: zoom-out duration
//
// Returns:
//   - EngineOption: option function to apply
func WithZoomTimings(zoomIn, settle, zoomOutDelay, zoomOut time.Duration) EngineOption {
	return func(e *engine) {
		e.zoomInDuration = zoomIn
		e.settleDelay = settle
		e.zoomOutDelay = zoomOutDelay
		e.zoomOutDuration = zoomOut
	}
}

// WithFadeStep sets the cross-fade progress increment applied per frame.
// Must be positive; the blend reaches the incoming scene after 1/step frames.
//
// Parameters:
//   - step: per-frame progress increment
//
// Returns:
//   - EngineOption: option function to apply
func WithFadeStep(step float64) EngineOption {
	return func(e *engine) {
		if step > 0 {
			e.fadeStep = step
		}
	}
}

// NewEngine creates a transition engine over the given driver.
//
// Parameters:
//   - driver: receiver of the transition's side effects
//   - opts: optional configuration, see the With* functions
//
// Returns:
//   - Engine: the engine, in the Idle state
func NewEngine(driver Driver, opts ...EngineOption) Engine {
	e := &engine{
		driver:          driver,
		defaultFov:      DefaultFov,
		narrowFov:       NarrowFov,
		zoomInDuration:  DefaultZoomInDuration,
		settleDelay:     DefaultSettleDelay,
		fadeStep:        DefaultFadeStep,
		zoomOutDelay:    DefaultZoomOutDelay,
		zoomOutDuration: DefaultZoomOutDuration,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

package input

import "time"

// DefaultDoubleClickWindow is the maximum gap between two clicks on the same
// access marker for them to count as a navigation double-click.
const DefaultDoubleClickWindow = 400 * time.Millisecond

// ControllerOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerOption func(c *controllerImpl)

// WithDoubleClickWindow sets the double-click window for access-hotspot
// navigation. Defaults to DefaultDoubleClickWindow.
//
// Parameters:
//   - window: the maximum gap between the two clicks
//
// Returns:
//   - ControllerOption: option function to apply
func WithDoubleClickWindow(window time.Duration) ControllerOption {
	return func(c *controllerImpl) {
		if window > 0 {
			c.window = window
		}
	}
}

// WithPickRadius sets the marker hit-test radius in world units. Defaults to
// the marker render radius.
//
// Parameters:
//   - radius: pick sphere radius
//
// Returns:
//   - ControllerOption: option function to apply
func WithPickRadius(radius float64) ControllerOption {
	return func(c *controllerImpl) {
		if radius > 0 {
			c.pickRadius = radius
		}
	}
}

package viewer

import (
	"github.com/spynter/hub360/engine/input"
	"github.com/spynter/hub360/engine/loader"
	"github.com/spynter/hub360/engine/renderer"
	"github.com/spynter/hub360/engine/scene"
	"github.com/spynter/hub360/engine/transition"
	"github.com/spynter/hub360/engine/window"
)

// ViewerOption is a functional option for configuring a Viewer via NewViewer.
type ViewerOption func(*viewerImpl)

// WithWindow is an option builder that sets the window the viewer renders
// into. Without a window the viewer runs headless; Run becomes unavailable
// but all other operations work, which the tests rely on.
//
// Parameters:
//   - w: the window instance
//
// Returns:
//   - ViewerOption: a function that applies the window option to a viewer
func WithWindow(w window.Window) ViewerOption {
	return func(v *viewerImpl) {
		v.win = w
	}
}

// WithRenderer is an option builder that sets a pre-built renderer instead
// of creating one on the window surface.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - ViewerOption: a function that applies the renderer option to a viewer
func WithRenderer(r renderer.Renderer) ViewerOption {
	return func(v *viewerImpl) {
		v.r = r
	}
}

// WithLoader is an option builder that sets the panorama texture loader.
//
// Parameters:
//   - l: the loader instance
//
// Returns:
//   - ViewerOption: a function that applies the loader option to a viewer
func WithLoader(l loader.Loader) ViewerOption {
	return func(v *viewerImpl) {
		v.texLoader = l
	}
}

// WithSceneManager is an option builder that sets a pre-built scene manager.
//
// Parameters:
//   - s: the scene manager instance
//
// Returns:
//   - ViewerOption: a function that applies the scene option to a viewer
func WithSceneManager(s scene.Scene) ViewerOption {
	return func(v *viewerImpl) {
		v.sceneMgr = s
	}
}

// WithBaseURL is an option builder that sets the base URL relative panorama
// paths resolve against.
//
// Parameters:
//   - baseURL: the API base URL
//
// Returns:
//   - ViewerOption: a function that applies the base URL option to a viewer
func WithBaseURL(baseURL string) ViewerOption {
	return func(v *viewerImpl) {
		v.baseURL = baseURL
	}
}

// WithCallbacks is an option builder that sets the host application hooks.
//
// Parameters:
//   - callbacks: the callback set
//
// Returns:
//   - ViewerOption: a function that applies the callback option to a viewer
func WithCallbacks(callbacks Callbacks) ViewerOption {
	return func(v *viewerImpl) {
		v.callbacks = callbacks
	}
}

// WithTickRate is an option builder that sets the simulation tick rate in
// ticks per second. Zero or negative values keep the engine default.
//
// Parameters:
//   - fps: ticks per second
//
// Returns:
//   - ViewerOption: a function that applies the tick rate option to a viewer
func WithTickRate(fps float64) ViewerOption {
	return func(v *viewerImpl) {
		v.tickRate = fps
	}
}

// WithRenderFrameLimit is an option builder that caps the render frame rate.
// Zero leaves rendering uncapped.
//
// Parameters:
//   - fps: maximum frames per second
//
// Returns:
//   - ViewerOption: a function that applies the frame limit option to a viewer
func WithRenderFrameLimit(fps float64) ViewerOption {
	return func(v *viewerImpl) {
		v.frameLimit = fps
	}
}

// WithProfiling is an option builder that enables periodic frame statistics
// in the log.
//
// Parameters:
//   - enabled: whether to start the profiler with the engine
//
// Returns:
//   - ViewerOption: a function that applies the profiling option to a viewer
func WithProfiling(enabled bool) ViewerOption {
	return func(v *viewerImpl) {
		v.profiling = enabled
	}
}

// WithSensorSmoothing is an option builder that sets the orientation sensor
// smoothing factor in (0, 1]. Lower values smooth more.
//
// Parameters:
//   - factor: the exponential-moving-average factor
//
// Returns:
//   - ViewerOption: a function that applies the smoothing option to a viewer
func WithSensorSmoothing(factor float64) ViewerOption {
	return func(v *viewerImpl) {
		v.sensor = input.NewOrientationFilter(factor)
	}
}

// WithTransitionOptions is an option builder that forwards options to the
// scene transition engine, mainly for timing overrides.
//
// Parameters:
//   - opts: transition engine options
//
// Returns:
//   - ViewerOption: a function that applies the transition options to a viewer
func WithTransitionOptions(opts ...transition.EngineOption) ViewerOption {
	return func(v *viewerImpl) {
		v.transOpts = append(v.transOpts, opts...)
	}
}

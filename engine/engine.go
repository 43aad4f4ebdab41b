package engine

import (
	"sync"
	"time"

	"github.com/spynter/hub360/engine/profiler"
	"github.com/spynter/hub360/engine/renderer"
	"github.com/spynter/hub360/engine/window"
	"github.com/spynter/hub360/logging"
)

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	frameCallback  func(now time.Time)
	onResize       func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine owns the viewer's main loops: a fixed-rate tick loop for camera,
// transition, and input state, and a render loop that draws one frame per
// iteration. A panic inside a single frame is logged and the loop carries on
// with the next frame.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the underlying renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second. Takes effect
	// immediately when the engine is running.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick. Use this for
	// camera damping, transition timing, and marker animation state.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameCallback registers the function called between BeginFrame and
	// EndFrame each render frame. All draw calls belong here.
	//
	// Parameters:
	//   - callback: function receiving the frame timestamp
	SetFrameCallback(callback func(now time.Time))

	// SetResizeCallback registers a function called after the renderer has
	// been reconfigured for a new drawable size.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames
	// per second. Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the loops and blocks until the window closes.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple
	// times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options applied.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}
	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
			if e.onResize != nil {
				e.onResize(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	if e.window == nil {
		return
	}
	e.running = true
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines, tracked by the WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleRender()
}

// handleTick runs the fixed-rate tick loop in its own goroutine. Fires the
// tick callback at the configured rate and listens for dynamic rate changes
// via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.runTick(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// runTick invokes the tick callback under a recover so a panicking tick
// skips one update instead of taking the process down.
func (e *engine) runTick(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Any("panic", r).Msg("tick recovered from panic")
		}
	}()
	e.tickCallback(dt)
}

// handleRender runs the render loop in its own goroutine. Each iteration is
// a full frame: BeginFrame, the frame callback's draw calls, EndFrame,
// Present. A frame that panics is abandoned and the loop continues.
func (e *engine) handleRender() {
	defer e.wg.Done()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			e.renderFrame(now)

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
			lastRender = now
		}
	}
}

// renderFrame draws one frame under a recover. Present still runs after a
// recovered panic so the surface texture is never leaked.
func (e *engine) renderFrame(now time.Time) {
	if e.renderer == nil {
		return
	}

	if err := e.renderer.BeginFrame(); err != nil {
		logging.Warn().Err(err).Msg("skipping frame, surface not ready")
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error().Any("panic", r).Msg("frame recovered from panic")
			}
		}()
		if e.frameCallback != nil {
			e.frameCallback(now)
		}
	}()

	e.renderer.EndFrame()
	e.renderer.Present()
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second. If the engine is
// running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send; if an update is already pending, replace it.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameCallback(callback func(now time.Time)) {
	e.frameCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.onResize = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}

package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling for the
// panorama viewer. Wraps the platform-specific implementation with a common
// interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the drawable area is
	// resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll notches (positive = zoom in)
	SetScrollCallback(callback func(delta float64))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetLeftMouseDownCallback sets the callback for left mouse button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in pixels
	SetLeftMouseDownCallback(callback func(x, y float64))

	// SetLeftMouseUpCallback sets the callback for left mouse button release.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in pixels
	SetLeftMouseUpCallback(callback func(x, y float64))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in pixels
	SetMouseMoveCallback(callback func(x, y float64))

	// SetPlacementCursor switches between the crosshair cursor used while
	// placing a hotspot and the normal arrow cursor.
	//
	// Parameters:
	//   - active: true for the crosshair cursor
	SetPlacementCursor(active bool)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for
	// creating a WebGPU surface on this window, or nil if the window is not
	// initialized.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true while the window is active.
	//
	// Returns:
	//   - bool: false once the window has been closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never initialized
	Close() error

	// ProcessMessages runs the window message loop. Blocks until the window
	// is closed, calling the update callback each iteration.
	ProcessMessages()

	// Width returns the current drawable width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current drawable height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// viewerWindow is the implementation of the Window interface.
type viewerWindow struct {
	title  string
	width  int
	height int

	// internalWindow holds the platform-specific window state (glfwWindow).
	internalWindow any

	onUpdate        func()
	onResize        func(width, height int)
	onScroll        func(delta float64)
	onKeyDown       func(keyCode uint32)
	onLeftMouseDown func(x, y float64)
	onLeftMouseUp   func(x, y float64)
	onMouseMove     func(x, y float64)
}

var _ Window = &viewerWindow{}

// NewWindow creates a new Window with the specified options. Applies default
// values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &viewerWindow{
		title:  "hub360",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *viewerWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *viewerWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *viewerWindow) SetScrollCallback(callback func(delta float64)) {
	w.onScroll = callback
}

func (w *viewerWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *viewerWindow) SetLeftMouseDownCallback(callback func(x, y float64)) {
	w.onLeftMouseDown = callback
}

func (w *viewerWindow) SetLeftMouseUpCallback(callback func(x, y float64)) {
	w.onLeftMouseUp = callback
}

func (w *viewerWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *viewerWindow) SetPlacementCursor(active bool) {
	platformSetPlacementCursor(w, active)
}

func (w *viewerWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *viewerWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *viewerWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *viewerWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *viewerWindow) Width() int {
	return w.width
}

func (w *viewerWindow) Height() int {
	return w.height
}

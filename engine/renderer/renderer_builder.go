package renderer

import "github.com/cogentcore/webgpu/wgpu"

type rendererSettings struct {
	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
}

// WGPURendererOption is a function that modifies the renderer settings.
type WGPURendererOption func(*rendererSettings)

func defaultRendererSettings() *rendererSettings {
	return &rendererSettings{
		presentMode: wgpu.PresentModeFifo,
	}
}

// WithPresentMode sets the swapchain present mode. The default is Fifo,
// which is vsynced; PresentModeImmediate trades tearing for latency.
//
// Parameters:
//   - mode: the present mode to use
//
// Returns:
//   - WGPURendererOption: the option function
func WithPresentMode(mode wgpu.PresentMode) WGPURendererOption {
	return func(s *rendererSettings) {
		s.presentMode = mode
	}
}

// WithForceFallbackAdapter forces the software fallback adapter, useful in
// environments without a GPU.
//
// Returns:
//   - WGPURendererOption: the option function
func WithForceFallbackAdapter() WGPURendererOption {
	return func(s *rendererSettings) {
		s.forceFallbackAdapter = true
	}
}

// package renderer contains the GPU layer of the panorama viewer: an
// abstract Renderer interface sized to exactly what a panorama scene needs
// (one textured sphere, a set of marker spheres, a radial cross-fade) and a
// WebGPU implementation of it. The scene and viewer layers depend only on
// the interface so they can be exercised against a fake.
package renderer

import "github.com/spynter/hub360/common"

// MarkerKind selects the marker material for a hotspot type.
type MarkerKind int

const (
	// MarkerAccess is the pulsing marker for scene-navigation hotspots.
	MarkerAccess MarkerKind = iota
	// MarkerCommerce is the marker for product hotspots.
	MarkerCommerce
	// MarkerLocation is the marker for point-of-interest hotspots.
	MarkerLocation
)

// TextureHandle is a GPU texture owned by the caller.
type TextureHandle interface {
	// Release frees the GPU texture. The handle must not be used afterwards.
	Release()
}

// MeshHandle is a GPU mesh (with its per-mesh bindings) owned by the caller.
type MeshHandle interface {
	// Release frees the mesh's GPU buffers. The handle must not be used
	// afterwards.
	Release()
}

// Renderer drives one panorama frame at a time: configure the camera, begin
// a frame, draw the sphere and markers, end and present. All handle-creating
// methods must be balanced by Release calls on scene exit; stale geometry
// accumulating across scene switches is a correctness bug.
type Renderer interface {
	// Resize reconfigures the swapchain for a new drawable size.
	//
	// Parameters:
	//   - width, height: drawable size in pixels
	Resize(width, height int)

	// CreateTexture uploads staged RGBA pixels to a GPU texture.
	//
	// Parameters:
	//   - data: staged pixel data
	//
	// Returns:
	//   - TextureHandle: the uploaded texture
	//   - error: error if the GPU allocation fails
	CreateTexture(data common.TextureStagingData) (TextureHandle, error)

	// CreatePanorama builds the inward-facing panorama sphere textured with
	// the given panorama image.
	//
	// Parameters:
	//   - tex: the equirectangular panorama texture
	//
	// Returns:
	//   - MeshHandle: the panorama mesh
	//   - error: error if GPU resource creation fails
	CreatePanorama(tex TextureHandle) (MeshHandle, error)

	// CreateMarker builds a hotspot marker sphere with the material for the
	// given kind.
	//
	// Parameters:
	//   - kind: the marker material
	//
	// Returns:
	//   - MeshHandle: the marker mesh
	//   - error: error if GPU resource creation fails
	CreateMarker(kind MarkerKind) (MeshHandle, error)

	// SetCamera sets the combined view-projection matrix for the next frame.
	//
	// Parameters:
	//   - viewProjection: column-major 4x4 matrix
	SetCamera(viewProjection [16]float32)

	// BeginCrossFade retains the outgoing panorama texture and switches the
	// panorama material into blend mode. The caller keeps ownership of prev
	// and releases it after EndCrossFade.
	//
	// Parameters:
	//   - prev: the outgoing scene's panorama texture
	BeginCrossFade(prev TextureHandle)

	// SetCrossFadeProgress updates the blend progress in [0, 1].
	//
	// Parameters:
	//   - progress: 0 shows the outgoing texture, 1 the incoming one
	SetCrossFadeProgress(progress float64)

	// EndCrossFade leaves blend mode. The previously retained texture is no
	// longer referenced by the renderer afterwards.
	EndCrossFade()

	// BeginFrame acquires the next swapchain image and opens the render pass.
	//
	// Returns:
	//   - error: error if the surface texture can not be acquired
	BeginFrame() error

	// DrawPanorama draws the panorama sphere. Call between BeginFrame and
	// EndFrame, before the markers.
	//
	// Parameters:
	//   - mesh: a mesh created by CreatePanorama
	DrawPanorama(mesh MeshHandle)

	// DrawMarker draws one hotspot marker.
	//
	// Parameters:
	//   - mesh: a mesh created by CreateMarker
	//   - model: column-major model matrix (translation and pulse scale)
	//   - highlight: brightens the marker while hovered
	DrawMarker(mesh MeshHandle, model [16]float32, highlight bool)

	// EndFrame closes the render pass and submits the frame.
	// Does not present the surface; call Present afterwards.
	EndFrame()

	// Present presents the submitted frame and releases the swapchain
	// texture.
	Present()

	// Dispose releases every renderer-owned GPU resource. Meshes and
	// textures created through the renderer must be released by their owners
	// first.
	Dispose()
}

// package scene turns one scene of a tour document into GPU state: the
// panorama sphere plus one marker mesh per renderable hotspot. It owns every
// handle it creates and guarantees that switching scenes leaves no stale
// geometry behind.
package scene

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/engine/input"
	"github.com/spynter/hub360/engine/loader"
	"github.com/spynter/hub360/engine/renderer"
	"github.com/spynter/hub360/engine/spherical"
	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
)

// State describes the display state of the scene.
type State int

const (
	// StateIdle means no scene is displayed.
	StateIdle State = iota
	// StateLoading means a panorama download or GPU upload is in progress.
	StateLoading
	// StateReady means the scene is fully displayable.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type markerEntry struct {
	mesh    renderer.MeshHandle
	marker  input.Marker
	pulsing bool
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu sync.Mutex

	r         renderer.Renderer
	texLoader loader.Loader
	baseURL   string

	state      State
	sceneIndex int
	shownAt    time.Time

	panorama renderer.MeshHandle
	texture  renderer.TextureHandle
	markers  []markerEntry

	// fadeTexture is the outgoing panorama texture, retained while the
	// renderer blends it out.
	fadeTexture renderer.TextureHandle
}

// Scene manages the GPU resources of the currently displayed tour scene.
type Scene interface {
	// Show displays a scene without a transition, disposing whatever was
	// displayed before. A failed panorama load falls back to a placeholder
	// texture and still reaches the ready state.
	//
	// Parameters:
	//   - ctx: context bounding the panorama download
	//   - doc: the tour document
	//   - sceneIndex: index of the scene to display
	//
	// Returns:
	//   - error: error if the scene index is out of range or GPU resource
	//     creation fails
	Show(ctx context.Context, doc *tour.Tour, sceneIndex int) error

	// SwapTo replaces the displayed scene with another one and starts a
	// cross fade from the outgoing panorama. The caller drives the fade via
	// SetCrossFade and ends it with FinishCrossFade.
	//
	// Parameters:
	//   - ctx: context bounding the panorama download
	//   - doc: the tour document
	//   - sceneIndex: index of the scene to swap in
	//
	// Returns:
	//   - error: error if the scene index is out of range or GPU resource
	//     creation fails
	SwapTo(ctx context.Context, doc *tour.Tour, sceneIndex int) error

	// SetCrossFade forwards blend progress in [0, 1] to the renderer.
	//
	// Parameters:
	//   - progress: 0 shows the outgoing panorama, 1 the incoming one
	SetCrossFade(progress float64)

	// FinishCrossFade ends the blend and releases the outgoing texture.
	FinishCrossFade()

	// RefreshMarkers rebuilds the marker meshes from the document, keeping
	// the panorama. Used after hotspot edits.
	//
	// Parameters:
	//   - doc: the tour document
	//
	// Returns:
	//   - error: error if GPU resource creation fails
	RefreshMarkers(doc *tour.Tour) error

	// Markers returns the pickable markers of the displayed scene in draw
	// order, matching the indices reported by the input controller.
	//
	// Returns:
	//   - []input.Marker: the current markers
	Markers() []input.Marker

	// Index returns the index of the displayed scene, -1 when idle.
	//
	// Returns:
	//   - int: the scene index
	Index() int

	// State returns the display state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Draw records the panorama and marker draws for the current frame.
	// Call between the renderer's BeginFrame and EndFrame.
	//
	// Parameters:
	//   - now: the frame timestamp driving the marker pulse
	//   - hoveredMarker: index of the hovered marker, -1 for none
	Draw(now time.Time, hoveredMarker int)

	// Dispose releases every GPU handle the scene owns.
	Dispose()
}

var _ Scene = &scene{}

// NewScene creates a scene manager with the given options applied.
//
// Parameters:
//   - r: the renderer that owns the GPU
//   - texLoader: the panorama texture loader
//   - opts: optional scene settings
//
// Returns:
//   - Scene: the configured scene manager
func NewScene(r renderer.Renderer, texLoader loader.Loader, opts ...SceneBuilderOption) Scene {
	s := &scene{
		r:          r,
		texLoader:  texLoader,
		sceneIndex: -1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *scene) Show(ctx context.Context, doc *tour.Tour, sceneIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disposeLocked()
	return s.buildLocked(ctx, doc, sceneIndex)
}

func (s *scene) SwapTo(ctx context.Context, doc *tour.Tour, sceneIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the outgoing texture alive for the blend; everything else from
	// the old scene is released before the new one builds.
	prevTexture := s.texture
	s.texture = nil
	s.disposeLocked()

	if err := s.buildLocked(ctx, doc, sceneIndex); err != nil {
		if prevTexture != nil {
			prevTexture.Release()
		}
		return err
	}

	if prevTexture != nil {
		s.fadeTexture = prevTexture
		s.r.BeginCrossFade(prevTexture)
	}
	return nil
}

func (s *scene) SetCrossFade(progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fadeTexture == nil {
		return
	}
	s.r.SetCrossFadeProgress(progress)
}

func (s *scene) FinishCrossFade() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fadeTexture == nil {
		return
	}
	s.r.EndCrossFade()
	s.fadeTexture.Release()
	s.fadeTexture = nil
}

func (s *scene) RefreshMarkers(doc *tour.Tour) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil
	}

	for _, entry := range s.markers {
		entry.mesh.Release()
	}
	s.markers = nil
	return s.buildMarkersLocked(doc)
}

func (s *scene) Markers() []input.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	markers := make([]input.Marker, len(s.markers))
	for i, entry := range s.markers {
		markers[i] = entry.marker
	}
	return markers
}

func (s *scene) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneIndex
}

func (s *scene) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *scene) Draw(now time.Time, hoveredMarker int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.panorama == nil {
		return
	}

	s.r.DrawPanorama(s.panorama)

	t := now.Sub(s.shownAt).Seconds()
	var model [16]float32
	for i, entry := range s.markers {
		scale := 1.0
		if entry.pulsing {
			scale = 1.1 + 0.15*math.Sin(3*t+entry.marker.Position.X)
		}
		if i == hoveredMarker {
			scale *= 1.25
		}
		common.BuildMarkerMatrix(model[:],
			float32(entry.marker.Position.X),
			float32(entry.marker.Position.Y),
			float32(entry.marker.Position.Z),
			float32(scale),
		)
		s.r.DrawMarker(entry.mesh, model, i == hoveredMarker)
	}
}

func (s *scene) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposeLocked()
}

// buildLocked loads the panorama and builds the scene's GPU state. The
// caller holds the mutex and has already disposed the previous scene.
func (s *scene) buildLocked(ctx context.Context, doc *tour.Tour, sceneIndex int) error {
	if doc == nil || sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return &tour.ValidationError{Field: "sceneIndex", Reason: "scene index out of range"}
	}

	s.state = StateLoading
	s.sceneIndex = sceneIndex
	sc := doc.Scenes[sceneIndex]

	staging := s.fetchPanorama(ctx, sc)

	texture, err := s.r.CreateTexture(staging)
	if err != nil {
		s.state = StateIdle
		s.sceneIndex = -1
		return err
	}
	panorama, err := s.r.CreatePanorama(texture)
	if err != nil {
		texture.Release()
		s.state = StateIdle
		s.sceneIndex = -1
		return err
	}
	s.texture = texture
	s.panorama = panorama

	if err := s.buildMarkersLocked(doc); err != nil {
		s.disposeLocked()
		return err
	}

	s.state = StateReady
	s.shownAt = time.Now()
	s.prefetchNeighborsLocked(doc)

	logging.Info().
		Str("scene", sc.ID).
		Str("name", sc.Name).
		Int("markers", len(s.markers)).
		Msg("scene displayed")
	return nil
}

// fetchPanorama downloads and decodes the scene's panorama, falling back to
// a neutral placeholder so a broken image URL never blocks navigation.
func (s *scene) fetchPanorama(ctx context.Context, sc tour.Scene) common.TextureStagingData {
	url := tour.ResolveImageURL(s.baseURL, sc.Image)
	if url == "" {
		logging.Warn().Str("scene", sc.ID).Msg("scene has no panorama image")
		return common.SolidRGBA(96, 96, 96, 255)
	}

	staging, err := s.texLoader.Fetch(ctx, url)
	if err != nil {
		logging.Error().Err(err).Str("url", url).Msg("panorama load failed, using placeholder")
		return common.SolidRGBA(96, 96, 96, 255)
	}
	return staging
}

func (s *scene) buildMarkersLocked(doc *tour.Tour) error {
	hotspots, dangling := doc.RenderableHotspots(s.sceneIndex)
	for _, d := range dangling {
		logging.Warn().
			Str("hotspot", d.HotspotID).
			Str("target", d.TargetSceneID).
			Msg("hotspot points at a missing scene, not rendered")
	}

	for _, h := range hotspots {
		mesh, err := s.r.CreateMarker(markerKind(h.Type))
		if err != nil {
			return err
		}
		s.markers = append(s.markers, markerEntry{
			mesh: mesh,
			marker: input.Marker{
				Hotspot:  h,
				Position: spherical.ToCartesian(h.Pitch, h.Yaw, spherical.Radius-spherical.MarkerRadius),
			},
			pulsing: h.Type == tour.HotspotAccess,
		})
	}
	return nil
}

// prefetchNeighborsLocked warms the texture cache for every scene reachable
// through an access hotspot of the displayed scene.
func (s *scene) prefetchNeighborsLocked(doc *tour.Tour) {
	if s.texLoader == nil {
		return
	}
	var urls []string
	for _, h := range doc.Scenes[s.sceneIndex].Hotspots {
		if h.Type != tour.HotspotAccess {
			continue
		}
		target := doc.SceneByID(h.TargetSceneID)
		if target == nil {
			continue
		}
		if url := tour.ResolveImageURL(s.baseURL, target.Image); url != "" {
			urls = append(urls, url)
		}
	}
	if len(urls) > 0 {
		s.texLoader.Prefetch(urls)
	}
}

func (s *scene) disposeLocked() {
	for _, entry := range s.markers {
		entry.mesh.Release()
	}
	s.markers = nil
	if s.panorama != nil {
		s.panorama.Release()
		s.panorama = nil
	}
	if s.texture != nil {
		s.texture.Release()
		s.texture = nil
	}
	if s.fadeTexture != nil {
		s.r.EndCrossFade()
		s.fadeTexture.Release()
		s.fadeTexture = nil
	}
	s.state = StateIdle
	s.sceneIndex = -1
}

func markerKind(t tour.HotspotType) renderer.MarkerKind {
	switch t {
	case tour.HotspotCommerce:
		return renderer.MarkerCommerce
	case tour.HotspotLocation:
		return renderer.MarkerLocation
	default:
		return renderer.MarkerAccess
	}
}

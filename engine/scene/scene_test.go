package scene

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/engine/renderer"
	"github.com/spynter/hub360/tour"
)

type fakeTexture struct {
	r        *fakeRenderer
	released bool
	width    uint32
}

func (t *fakeTexture) Release() {
	if !t.released {
		t.released = true
		t.r.texturesReleased++
	}
}

type fakeMesh struct {
	r        *fakeRenderer
	released bool
	kind     renderer.MarkerKind
	panorama bool
}

func (m *fakeMesh) Release() {
	if !m.released {
		m.released = true
		m.r.meshesReleased++
	}
}

type markerDraw struct {
	mesh      *fakeMesh
	scale     float64
	highlight bool
}

type fakeRenderer struct {
	texturesCreated  int
	texturesReleased int
	meshesCreated    int
	meshesReleased   int

	fadeBegun    int
	fadeEnded    int
	fadeTexture  renderer.TextureHandle
	fadeProgress float64

	panoramaDraws int
	markerDraws   []markerDraw
}

func (r *fakeRenderer) Resize(width, height int) {}

func (r *fakeRenderer) CreateTexture(data common.TextureStagingData) (renderer.TextureHandle, error) {
	r.texturesCreated++
	return &fakeTexture{r: r, width: data.Width}, nil
}

func (r *fakeRenderer) CreatePanorama(tex renderer.TextureHandle) (renderer.MeshHandle, error) {
	r.meshesCreated++
	return &fakeMesh{r: r, panorama: true}, nil
}

func (r *fakeRenderer) CreateMarker(kind renderer.MarkerKind) (renderer.MeshHandle, error) {
	r.meshesCreated++
	return &fakeMesh{r: r, kind: kind}, nil
}

func (r *fakeRenderer) SetCamera(viewProjection [16]float32) {}

func (r *fakeRenderer) BeginCrossFade(prev renderer.TextureHandle) {
	r.fadeBegun++
	r.fadeTexture = prev
}

func (r *fakeRenderer) SetCrossFadeProgress(progress float64) { r.fadeProgress = progress }

func (r *fakeRenderer) EndCrossFade() {
	r.fadeEnded++
	r.fadeTexture = nil
}

func (r *fakeRenderer) BeginFrame() error { return nil }

func (r *fakeRenderer) DrawPanorama(mesh renderer.MeshHandle) { r.panoramaDraws++ }

func (r *fakeRenderer) DrawMarker(mesh renderer.MeshHandle, model [16]float32, highlight bool) {
	r.markerDraws = append(r.markerDraws, markerDraw{
		mesh:      mesh.(*fakeMesh),
		scale:     float64(model[0]),
		highlight: highlight,
	})
}

func (r *fakeRenderer) EndFrame() {}
func (r *fakeRenderer) Present()  {}
func (r *fakeRenderer) Dispose()  {}

func (r *fakeRenderer) liveHandles() int {
	return (r.texturesCreated - r.texturesReleased) + (r.meshesCreated - r.meshesReleased)
}

type fakeLoader struct {
	failing    map[string]bool
	fetched    []string
	prefetched []string
}

func (l *fakeLoader) Fetch(ctx context.Context, url string) (common.TextureStagingData, error) {
	l.fetched = append(l.fetched, url)
	if l.failing[url] {
		return common.TextureStagingData{}, &tour.ResourceLoadError{URL: url}
	}
	return common.TextureStagingData{Pixels: make([]byte, 4*2*4), Width: 4, Height: 2}, nil
}

func (l *fakeLoader) Prefetch(urls []string) { l.prefetched = append(l.prefetched, urls...) }
func (l *fakeLoader) Cached(url string) bool { return false }
func (l *fakeLoader) Evict(url string)       {}
func (l *fakeLoader) Clear()                 {}

func testTour() *tour.Tour {
	return &tour.Tour{
		ID: "t1",
		Scenes: []tour.Scene{
			{
				ID:    "lobby",
				Name:  "Lobby",
				Image: "https://cdn.example.com/lobby.jpg",
				Hotspots: []tour.Hotspot{
					{ID: "h1", Type: tour.HotspotAccess, TargetSceneID: "patio", Pitch: 0, Yaw: 10},
					{ID: "h2", Type: tour.HotspotLocation, Title: "Front desk", Pitch: -10, Yaw: -30},
					{ID: "h3", Type: tour.HotspotAccess, TargetSceneID: "missing", Pitch: 5, Yaw: 90},
				},
			},
			{
				ID:    "patio",
				Name:  "Patio",
				Image: "https://cdn.example.com/patio.jpg",
				Hotspots: []tour.Hotspot{
					{ID: "h4", Type: tour.HotspotCommerce, Title: "Chair", Pitch: 0, Yaw: 0},
				},
			},
		},
	}
}

func newTestScene() (*fakeRenderer, *fakeLoader, Scene) {
	r := &fakeRenderer{}
	l := &fakeLoader{failing: map[string]bool{}}
	return r, l, NewScene(r, l)
}

func TestShowBuildsPanoramaAndMarkers(t *testing.T) {
	r, _, s := newTestScene()
	doc := testTour()

	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("state = %v, want %v", s.State(), StateReady)
	}
	if s.Index() != 0 {
		t.Errorf("Index() = %d, want 0", s.Index())
	}

	// h3 points at a missing scene and must not become a marker.
	markers := s.Markers()
	if len(markers) != 2 {
		t.Fatalf("marker count = %d, want 2", len(markers))
	}
	if markers[0].Hotspot.ID != "h1" || markers[1].Hotspot.ID != "h2" {
		t.Errorf("marker ids = %q, %q", markers[0].Hotspot.ID, markers[1].Hotspot.ID)
	}

	// 1 panorama mesh + 2 marker meshes + 1 texture.
	if r.meshesCreated != 3 || r.texturesCreated != 1 {
		t.Errorf("created %d meshes and %d textures, want 3 and 1", r.meshesCreated, r.texturesCreated)
	}
}

func TestShowOutOfRange(t *testing.T) {
	_, _, s := newTestScene()
	doc := testTour()

	err := s.Show(context.Background(), doc, 5)
	var vErr *tour.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Show(5) error = %v, want a ValidationError", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state after failed show = %v, want %v", s.State(), StateIdle)
	}
}

func TestSwapToCrossFadesAndReleasesEverything(t *testing.T) {
	r, _, s := newTestScene()
	doc := testTour()
	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() error: %v", err)
	}
	if err := s.SwapTo(context.Background(), doc, 1); err != nil {
		t.Fatalf("SwapTo() error: %v", err)
	}
	if r.fadeBegun != 1 {
		t.Fatalf("BeginCrossFade calls = %d, want 1", r.fadeBegun)
	}
	if r.fadeTexture == nil {
		t.Error("cross fade did not receive the outgoing texture")
	}
	if s.Index() != 1 {
		t.Errorf("Index() = %d, want 1", s.Index())
	}
	if len(s.Markers()) != 1 {
		t.Errorf("marker count after swap = %d, want 1", len(s.Markers()))
	}

	s.SetCrossFade(0.5)
	if r.fadeProgress != 0.5 {
		t.Errorf("fade progress = %f, want 0.5", r.fadeProgress)
	}
	s.FinishCrossFade()
	if r.fadeEnded != 1 {
		t.Errorf("EndCrossFade calls = %d, want 1", r.fadeEnded)
	}

	// After the fade the only live handles are the new scene's: one
	// texture, one panorama mesh, one marker mesh.
	if got := r.liveHandles(); got != 3 {
		t.Errorf("live handles = %d, want 3", got)
	}

	s.Dispose()
	if got := r.liveHandles(); got != 0 {
		t.Errorf("live handles after Dispose = %d, want 0", got)
	}
}

func TestShowFallsBackToPlaceholder(t *testing.T) {
	r, l, s := newTestScene()
	doc := testTour()
	l.failing["https://cdn.example.com/lobby.jpg"] = true

	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() with a broken panorama should still succeed, got %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("state = %v, want %v", s.State(), StateReady)
	}
	if r.texturesCreated != 1 {
		t.Errorf("textures created = %d, want 1 placeholder", r.texturesCreated)
	}
}

func TestDrawPulsesAndHighlights(t *testing.T) {
	r, _, s := newTestScene()
	doc := testTour()
	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	s.Draw(time.Now().Add(137*time.Millisecond), 1)
	if r.panoramaDraws != 1 {
		t.Fatalf("panorama draws = %d, want 1", r.panoramaDraws)
	}
	if len(r.markerDraws) != 2 {
		t.Fatalf("marker draws = %d, want 2", len(r.markerDraws))
	}

	// Marker 0 is an access hotspot and pulses around 1.1.
	access := r.markerDraws[0]
	if access.highlight {
		t.Error("unhovered marker drawn highlighted")
	}
	if access.scale < 0.9 || access.scale > 1.3 || access.scale == 1 {
		t.Errorf("access marker scale = %f, want a pulse around 1.1", access.scale)
	}

	// Marker 1 is hovered: highlighted, static scale boosted by 1.25.
	hovered := r.markerDraws[1]
	if !hovered.highlight {
		t.Error("hovered marker not drawn highlighted")
	}
	if math.Abs(hovered.scale-1.25) > 1e-6 {
		t.Errorf("hovered location marker scale = %f, want 1.25", hovered.scale)
	}
}

func TestDrawBeforeShowIsNoop(t *testing.T) {
	r, _, s := newTestScene()
	s.Draw(time.Now(), -1)
	if r.panoramaDraws != 0 || len(r.markerDraws) != 0 {
		t.Error("idle scene must not draw")
	}
}

func TestRefreshMarkersRebuilds(t *testing.T) {
	_, _, s := newTestScene()
	doc := testTour()
	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	doc.Scenes[0].Hotspots = append(doc.Scenes[0].Hotspots, tour.Hotspot{
		ID: "h5", Type: tour.HotspotLocation, Title: "Plant", Pitch: 20, Yaw: 60,
	})
	if err := s.RefreshMarkers(doc); err != nil {
		t.Fatalf("RefreshMarkers() error: %v", err)
	}
	if got := len(s.Markers()); got != 3 {
		t.Errorf("marker count after refresh = %d, want 3", got)
	}
}

func TestPrefetchesAccessNeighbors(t *testing.T) {
	_, l, s := newTestScene()
	doc := testTour()
	if err := s.Show(context.Background(), doc, 0); err != nil {
		t.Fatalf("Show() error: %v", err)
	}

	want := "https://cdn.example.com/patio.jpg"
	found := false
	for _, url := range l.prefetched {
		if url == want {
			found = true
		}
	}
	if !found {
		t.Errorf("prefetched = %v, want it to contain %q", l.prefetched, want)
	}
}

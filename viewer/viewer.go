// package viewer assembles the full panorama experience: it binds an API
// session's tour document to the scene manager, routes window input through
// the interaction controller, and drives scene transitions. It is also the
// editor's entry point for placement mode and hotspot mutations.
package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/spynter/hub360/api"
	"github.com/spynter/hub360/engine"
	"github.com/spynter/hub360/engine/camera"
	"github.com/spynter/hub360/engine/input"
	"github.com/spynter/hub360/engine/loader"
	"github.com/spynter/hub360/engine/renderer"
	"github.com/spynter/hub360/engine/scene"
	"github.com/spynter/hub360/engine/transition"
	"github.com/spynter/hub360/engine/window"
	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
)

// Callbacks are the host application's hooks into viewer interactions that
// need UI outside the 3D canvas.
type Callbacks struct {
	// OnHotspotInfo fires when a commerce or location hotspot is clicked,
	// typically opening an info panel.
	OnHotspotInfo func(h tour.Hotspot)
	// OnPlacementPicked fires when a placement-mode click lands on the
	// sphere. The host shows its creation dialog and finishes the edit with
	// CommitHotspot or drops it.
	OnPlacementPicked func(pitch, yaw float64)
	// OnSceneChanged fires after the displayed scene switches.
	OnSceneChanged func(sceneIndex int)
}

// viewerImpl is the implementation of the Viewer interface.
type viewerImpl struct {
	mu sync.Mutex

	sess      api.Session
	callbacks Callbacks

	win       window.Window
	r         renderer.Renderer
	eng       engine.Engine
	cam       camera.Camera
	look      camera.LookController
	ctrl      input.Controller
	sceneMgr  scene.Scene
	trans     transition.Engine
	texLoader loader.Loader
	sensor    *input.OrientationFilter

	baseURL       string
	transOpts     []transition.EngineOption
	tickRate      float64
	frameLimit    float64
	profiling     bool
	sensorEnabled bool
	closed        bool
}

// Viewer is a running panorama tour: one displayed scene, a camera the user
// drags or steers with a device sensor, and hotspots that navigate, inform,
// or get placed in editor mode.
type Viewer interface {
	// Load fetches the session's tour and displays its first scene.
	//
	// Parameters:
	//   - ctx: context bounding the fetch and panorama download
	//
	// Returns:
	//   - error: error if the tour can not be fetched or has no scenes
	Load(ctx context.Context) error

	// LoadByAccessKey resolves a tour through the public embed surface and
	// displays its first scene.
	//
	// Parameters:
	//   - ctx: context bounding the fetch and panorama download
	//   - key: the access key
	//
	// Returns:
	//   - error: a *tour.PermissionError when the key is not valid
	LoadByAccessKey(ctx context.Context, key string) error

	// NavigateTo starts a scene transition to the scene with the given id.
	// Ignored while a transition is already running.
	//
	// Parameters:
	//   - sceneID: id of the destination scene
	//
	// Returns:
	//   - bool: true if the transition was accepted
	NavigateTo(sceneID string) bool

	// EnterPlacement switches the viewer into hotspot placement mode: the
	// cursor becomes a crosshair and the next click picks a position instead
	// of interacting with markers.
	EnterPlacement()

	// CancelPlacement leaves placement mode without placing anything.
	CancelPlacement()

	// PlacementActive reports whether placement mode is on.
	//
	// Returns:
	//   - bool: true while a placement click is pending
	PlacementActive() bool

	// CommitHotspot validates and persists a new hotspot on the displayed
	// scene, then rebuilds the markers.
	//
	// Parameters:
	//   - ctx: context bounding the persistence call
	//   - h: the hotspot to add; its id is assigned by the graph
	//
	// Returns:
	//   - *tour.Hotspot: the stored hotspot
	//   - error: a *tour.ValidationError or *tour.PersistenceError
	CommitHotspot(ctx context.Context, h tour.Hotspot) (*tour.Hotspot, error)

	// UpdateHotspot edits a hotspot of the displayed scene in place.
	//
	// Parameters:
	//   - ctx: context bounding the persistence call
	//   - index: position of the hotspot in the scene's hotspot list
	//   - h: the replacement hotspot data
	//
	// Returns:
	//   - error: a *tour.ValidationError or *tour.PersistenceError
	UpdateHotspot(ctx context.Context, index int, h tour.Hotspot) error

	// DeleteHotspot removes a hotspot from the displayed scene.
	//
	// Parameters:
	//   - ctx: context bounding the persistence call
	//   - index: position of the hotspot in the scene's hotspot list
	//
	// Returns:
	//   - error: a *tour.ValidationError or *tour.PersistenceError
	DeleteHotspot(ctx context.Context, index int) error

	// AddScene uploads a panorama image, appends a scene for it and
	// displays the new scene.
	//
	// Parameters:
	//   - ctx: context bounding the upload and persistence calls
	//   - name: display name of the new scene
	//   - filename: original image file name for the upload
	//   - image: raw image bytes
	//
	// Returns:
	//   - *tour.Scene: the stored scene
	//   - error: a *tour.ValidationError or *tour.PersistenceError
	AddScene(ctx context.Context, name, filename string, image []byte) (*tour.Scene, error)

	// DeleteScene removes a scene and displays the fallback scene the graph
	// selects.
	//
	// Parameters:
	//   - ctx: context bounding the persistence call
	//   - sceneID: id of the scene to delete
	//
	// Returns:
	//   - error: a *tour.ValidationError or *tour.PersistenceError
	DeleteScene(ctx context.Context, sceneID string) error

	// HandleOrientation feeds one device orientation sample. While sensor
	// steering is enabled the camera follows the smoothed orientation.
	//
	// Parameters:
	//   - alpha, beta, gamma: device Euler angles in degrees
	//   - screenOrientation: screen rotation in degrees
	HandleOrientation(alpha, beta, gamma, screenOrientation float64)

	// SetSensorEnabled toggles sensor steering. Disabling returns control
	// to pointer dragging.
	//
	// Parameters:
	//   - enabled: true to steer the camera from orientation samples
	SetSensorEnabled(enabled bool)

	// Session returns the underlying API session.
	//
	// Returns:
	//   - api.Session: the session backing this viewer
	Session() api.Session

	// Run starts the engine loops and blocks until the window closes.
	// Requires the viewer to have been built with a window.
	Run()

	// Close tears the viewer down: cancels any transition, releases all GPU
	// resources and closes the window. Safe to call once.
	//
	// Returns:
	//   - error: error from closing the window
	Close() error
}

var _ Viewer = &viewerImpl{}

// NewViewer assembles a viewer over the given session with the options
// applied. When a window is supplied without a renderer, the WebGPU renderer
// is created on the window's surface.
//
// Parameters:
//   - sess: the API session providing the tour document
//   - opts: functional options for wiring and configuration
//
// Returns:
//   - Viewer: the assembled viewer
//   - error: error if renderer creation fails
func NewViewer(sess api.Session, opts ...ViewerOption) (Viewer, error) {
	v := &viewerImpl{
		sess:   sess,
		sensor: input.NewOrientationFilter(input.DefaultSmoothing),
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.r == nil && v.win != nil {
		r, err := renderer.NewWGPURenderer(v.win.SurfaceDescriptor(), v.win.Width(), v.win.Height())
		if err != nil {
			return nil, err
		}
		v.r = r
	}
	if v.texLoader == nil {
		v.texLoader = loader.NewLoader()
	}
	if v.sceneMgr == nil {
		v.sceneMgr = scene.NewScene(v.r, v.texLoader, scene.WithBaseURL(v.baseURL))
	}

	v.look = camera.NewLookController()
	aspect := float32(1)
	if v.win != nil && v.win.Height() > 0 {
		aspect = float32(v.win.Width()) / float32(v.win.Height())
	}
	v.cam = camera.NewCamera(
		camera.WithController(v.look),
		camera.WithAspect(aspect),
	)

	v.ctrl = input.NewController(v.cam, input.Callbacks{
		OnNavigate:    v.onNavigate,
		OnHotspotInfo: v.onHotspotInfo,
		OnPlace:       v.onPlace,
	})
	if v.win != nil {
		v.ctrl.SetViewport(float64(v.win.Width()), float64(v.win.Height()))
	}

	v.trans = transition.NewEngine(&sceneDriver{v: v}, v.transOpts...)

	v.eng = engine.NewEngine(
		engine.WithWindow(v.win),
		engine.WithRenderer(v.r),
	)
	v.eng.SetTickCallback(v.tick)
	v.eng.SetFrameCallback(v.frame)
	v.eng.SetResizeCallback(v.resize)
	if v.tickRate > 0 {
		v.eng.SetTickRate(v.tickRate)
	}
	if v.frameLimit > 0 {
		v.eng.SetRenderFrameLimit(v.frameLimit)
	}
	if v.profiling {
		v.eng.EnableProfiler()
	}

	if v.win != nil {
		v.win.SetLeftMouseDownCallback(func(x, y float64) {
			v.ctrl.PointerDown(x, y, time.Now())
		})
		v.win.SetLeftMouseUpCallback(func(x, y float64) {
			v.ctrl.PointerUp()
		})
		v.win.SetMouseMoveCallback(func(x, y float64) {
			v.ctrl.PointerMove(x, y)
		})
		v.win.SetScrollCallback(func(delta float64) {
			v.ctrl.Scroll(-delta)
		})
	}

	return v, nil
}

func (v *viewerImpl) Load(ctx context.Context) error {
	if err := v.sess.Load(ctx); err != nil {
		return err
	}
	return v.showInitialScene(ctx)
}

func (v *viewerImpl) LoadByAccessKey(ctx context.Context, key string) error {
	if err := v.sess.LoadByAccessKey(ctx, key); err != nil {
		return err
	}
	return v.showInitialScene(ctx)
}

func (v *viewerImpl) showInitialScene(ctx context.Context) error {
	doc := v.sess.Tour()
	if doc == nil || len(doc.Scenes) == 0 {
		return &tour.ValidationError{Field: "scenes", Reason: "tour has no scenes"}
	}
	if err := v.sceneMgr.Show(ctx, doc, 0); err != nil {
		return err
	}
	v.syncMarkers()
	v.notifySceneChanged(0)
	return nil
}

func (v *viewerImpl) NavigateTo(sceneID string) bool {
	doc := v.sess.Tour()
	if doc == nil {
		return false
	}
	idx := doc.SceneIndexByID(sceneID)
	if idx < 0 || idx == v.sceneMgr.Index() {
		return false
	}
	return v.trans.Start(idx, time.Now())
}

func (v *viewerImpl) EnterPlacement() {
	v.ctrl.SetPlacementMode(true)
	if v.win != nil {
		v.win.SetPlacementCursor(true)
	}
}

func (v *viewerImpl) CancelPlacement() {
	v.ctrl.SetPlacementMode(false)
	if v.win != nil {
		v.win.SetPlacementCursor(false)
	}
}

func (v *viewerImpl) PlacementActive() bool {
	return v.ctrl.PlacementMode()
}

func (v *viewerImpl) CommitHotspot(ctx context.Context, h tour.Hotspot) (*tour.Hotspot, error) {
	sceneID, err := v.currentSceneID()
	if err != nil {
		return nil, err
	}
	stored, err := v.sess.AddHotspot(ctx, sceneID, h)
	if err != nil {
		return nil, err
	}
	v.refreshAfterEdit()
	return stored, nil
}

func (v *viewerImpl) UpdateHotspot(ctx context.Context, index int, h tour.Hotspot) error {
	sceneID, err := v.currentSceneID()
	if err != nil {
		return err
	}
	if err := v.sess.UpdateHotspot(ctx, sceneID, index, h); err != nil {
		return err
	}
	v.refreshAfterEdit()
	return nil
}

func (v *viewerImpl) DeleteHotspot(ctx context.Context, index int) error {
	sceneID, err := v.currentSceneID()
	if err != nil {
		return err
	}
	if err := v.sess.DeleteHotspot(ctx, sceneID, index); err != nil {
		return err
	}
	v.refreshAfterEdit()
	return nil
}

func (v *viewerImpl) AddScene(ctx context.Context, name, filename string, image []byte) (*tour.Scene, error) {
	stored, err := v.sess.AddScene(ctx, name, filename, image)
	if err != nil {
		return nil, err
	}
	doc := v.sess.Tour()
	idx := doc.SceneIndexByID(stored.ID)
	if idx >= 0 {
		if err := v.sceneMgr.Show(ctx, doc, idx); err != nil {
			return stored, err
		}
		v.syncMarkers()
		v.notifySceneChanged(idx)
	}
	return stored, nil
}

func (v *viewerImpl) DeleteScene(ctx context.Context, sceneID string) error {
	fallback, err := v.sess.DeleteScene(ctx, sceneID, v.sceneMgr.Index())
	if err != nil {
		return err
	}
	if err := v.sceneMgr.Show(ctx, v.sess.Tour(), fallback); err != nil {
		return err
	}
	v.syncMarkers()
	v.notifySceneChanged(fallback)
	return nil
}

func (v *viewerImpl) HandleOrientation(alpha, beta, gamma, screenOrientation float64) {
	v.mu.Lock()
	enabled := v.sensorEnabled
	v.mu.Unlock()
	if !enabled {
		return
	}
	q := v.sensor.Update(alpha, beta, gamma, screenOrientation)
	v.look.SetOrientation(q)
}

func (v *viewerImpl) SetSensorEnabled(enabled bool) {
	v.mu.Lock()
	v.sensorEnabled = enabled
	v.mu.Unlock()
	if !enabled {
		v.look.ClearOrientation()
		v.sensor.Reset()
	}
}

func (v *viewerImpl) Session() api.Session {
	return v.sess
}

func (v *viewerImpl) Run() {
	v.eng.Run()
}

func (v *viewerImpl) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	v.trans.Cancel()
	v.eng.Quit()
	v.sceneMgr.Dispose()
	if v.r != nil {
		v.r.Dispose()
	}
	if v.win != nil {
		return v.win.Close()
	}
	return nil
}

// tick advances per-frame state: camera damping and the transition machine.
func (v *viewerImpl) tick(deltaTime float32) {
	v.cam.Update()
	v.trans.Tick(time.Now())
}

// frame records the draw calls for one frame.
func (v *viewerImpl) frame(now time.Time) {
	v.r.SetCamera(v.cam.ViewProjectionMatrix())
	v.sceneMgr.Draw(now, v.ctrl.HoveredIndex())
}

func (v *viewerImpl) resize(width, height int) {
	if height > 0 {
		v.cam.SetAspect(float32(width) / float32(height))
	}
	v.ctrl.SetViewport(float64(width), float64(height))
}

func (v *viewerImpl) onNavigate(h tour.Hotspot) {
	if !v.NavigateTo(h.TargetSceneID) {
		logging.Warn().
			Str("hotspot", h.ID).
			Str("target", h.TargetSceneID).
			Msg("navigation rejected")
	}
}

func (v *viewerImpl) onHotspotInfo(h tour.Hotspot) {
	if v.callbacks.OnHotspotInfo != nil {
		v.callbacks.OnHotspotInfo(h)
	}
}

func (v *viewerImpl) onPlace(pitch, yaw float64) {
	if v.win != nil {
		v.win.SetPlacementCursor(false)
	}
	if v.callbacks.OnPlacementPicked != nil {
		v.callbacks.OnPlacementPicked(pitch, yaw)
	}
}

func (v *viewerImpl) currentSceneID() (string, error) {
	doc := v.sess.Tour()
	idx := v.sceneMgr.Index()
	if doc == nil || idx < 0 || idx >= len(doc.Scenes) {
		return "", &tour.ValidationError{Field: "scene", Reason: "no scene displayed"}
	}
	return doc.Scenes[idx].ID, nil
}

// refreshAfterEdit rebuilds marker meshes and the pick set after a hotspot
// mutation.
func (v *viewerImpl) refreshAfterEdit() {
	if err := v.sceneMgr.RefreshMarkers(v.sess.Tour()); err != nil {
		logging.Error().Err(err).Msg("marker rebuild failed")
	}
	v.syncMarkers()
}

// syncMarkers hands the scene's current markers to the pick controller.
func (v *viewerImpl) syncMarkers() {
	v.ctrl.SetMarkers(v.sceneMgr.Markers())
}

func (v *viewerImpl) notifySceneChanged(index int) {
	if v.callbacks.OnSceneChanged != nil {
		v.callbacks.OnSceneChanged(index)
	}
}

// sceneDriver adapts the viewer to the transition engine's driver interface.
type sceneDriver struct {
	v *viewerImpl
}

var _ transition.Driver = &sceneDriver{}

func (d *sceneDriver) SetFov(fov float64) {
	d.v.cam.SetFov(fov)
}

func (d *sceneDriver) SwapScene(targetIndex int) {
	ctx, cancel := context.WithTimeout(context.Background(), loader.DefaultFetchTimeout)
	defer cancel()
	if err := d.v.sceneMgr.SwapTo(ctx, d.v.sess.Tour(), targetIndex); err != nil {
		logging.Error().Err(err).Int("scene", targetIndex).Msg("scene swap failed")
		return
	}
	d.v.syncMarkers()
	d.v.notifySceneChanged(targetIndex)
}

func (d *sceneDriver) SetCrossFade(progress float64) {
	d.v.sceneMgr.SetCrossFade(progress)
}

func (d *sceneDriver) EndCrossFade() {
	d.v.sceneMgr.FinishCrossFade()
}

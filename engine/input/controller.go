// package input binds pointer and orientation-sensor events to the panorama
// camera and to hotspot picking. Picking casts rays against the current
// hotspot markers only, never the full scene, so the panorama sphere itself
// can not register as a false positive.
package input

import (
	"time"

	"github.com/spynter/hub360/common"
	"github.com/spynter/hub360/engine/camera"
	"github.com/spynter/hub360/engine/spherical"
	"github.com/spynter/hub360/tour"
)

// Marker is a pickable hotspot marker: the hotspot data plus its projected
// position on the panorama sphere.
type Marker struct {
	Hotspot  tour.Hotspot
	Position common.Vec3
}

// Callbacks receives the discrete interaction outcomes. Nil members are
// skipped. They replace any ambient global mutation hooks; the session owner
// passes them down explicitly.
type Callbacks struct {
	// OnNavigate fires when an access hotspot is double-clicked.
	OnNavigate func(h tour.Hotspot)
	// OnHotspotInfo fires when a commerce or location hotspot is clicked.
	OnHotspotInfo func(h tour.Hotspot)
	// OnPlace fires when a placement-mode click lands on the sphere,
	// carrying the clicked spherical position for the creation dialog.
	OnPlace func(pitch, yaw float64)
}

// Controller routes pointer events to camera rotation, hotspot picking or
// editor placement, and wheel events to zoom.
type Controller interface {
	// SetViewport sets the pixel size used to convert pointer positions to
	// normalized device coordinates.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	SetViewport(width, height float64)

	// SetMarkers replaces the pickable marker set. Called whenever the
	// current scene's markers change.
	//
	// Parameters:
	//   - markers: the new marker set
	SetMarkers(markers []Marker)

	// SetPlacementMode toggles editor placement mode. While active the next
	// primary click is intercepted and ray-cast against the sphere instead
	// of the markers.
	//
	// Parameters:
	//   - active: whether placement mode is on
	SetPlacementMode(active bool)

	// PlacementMode reports whether placement mode is active.
	//
	// Returns:
	//   - bool: true while placement mode is on
	PlacementMode() bool

	// PointerDown handles a primary-button press.
	//
	// Parameters:
	//   - x, y: pointer position in pixels, origin top-left
	//   - now: the current time, used for the double-click window
	PointerDown(x, y float64, now time.Time)

	// PointerMove handles pointer motion, driving either an active drag or
	// the hover state.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	PointerMove(x, y float64)

	// PointerUp handles the primary-button release.
	PointerUp()

	// Scroll handles a wheel event.
	//
	// Parameters:
	//   - notches: wheel notches, positive zooms out
	Scroll(notches float64)

	// HoveredMarker returns the marker currently under the pointer, if any.
	// Drives the hover scale boost and cursor shape.
	//
	// Returns:
	//   - Marker: the hovered marker
	//   - bool: false when the pointer is not over a marker
	HoveredMarker() (Marker, bool)

	// HoveredIndex returns the index of the hovered marker in the current
	// marker set, -1 when the pointer is not over a marker.
	//
	// Returns:
	//   - int: the hovered marker index
	HoveredIndex() int
}

var _ Controller = &controllerImpl{}

type controllerImpl struct {
	cam       camera.Camera
	callbacks Callbacks

	width  float64
	height float64

	markers   []Marker
	placement bool

	hovered    int
	lastAccess string
	lastClick  time.Time
	window     time.Duration
	pickRadius float64
}

// NewController creates an interaction controller over the given camera.
//
// Parameters:
//   - cam: the panorama camera to drive
//   - callbacks: receivers of the interaction outcomes
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(cam camera.Camera, callbacks Callbacks, options ...ControllerOption) Controller {
	c := &controllerImpl{
		cam:        cam,
		callbacks:  callbacks,
		width:      1,
		height:     1,
		hovered:    -1,
		window:     DefaultDoubleClickWindow,
		pickRadius: spherical.MarkerRadius,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controllerImpl) SetViewport(width, height float64) {
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

func (c *controllerImpl) SetMarkers(markers []Marker) {
	c.markers = markers
	c.hovered = -1
	c.lastAccess = ""
}

func (c *controllerImpl) SetPlacementMode(active bool) {
	c.placement = active
}

func (c *controllerImpl) PlacementMode() bool {
	return c.placement
}

func (c *controllerImpl) PointerDown(x, y float64, now time.Time) {
	ray := c.rayAt(x, y)

	if c.placement {
		// Placement intercepts the click and deactivates itself; the pending
		// position goes to the creation dialog, nothing is persisted yet.
		c.placement = false
		if hit, ok := ray.IntersectSphereInside(spherical.Radius); ok {
			pitch, yaw := spherical.ToSpherical(hit)
			if c.callbacks.OnPlace != nil {
				c.callbacks.OnPlace(pitch, yaw)
			}
		}
		return
	}

	if idx, ok := c.pick(ray); ok {
		m := c.markers[idx]
		switch m.Hotspot.Type {
		case tour.HotspotAccess:
			// Navigation tears the scene down, so it requires a deliberate
			// double-click; drags that register as clicks must not trigger it.
			if m.Hotspot.ID == c.lastAccess && now.Sub(c.lastClick) <= c.window {
				c.lastAccess = ""
				if c.callbacks.OnNavigate != nil {
					c.callbacks.OnNavigate(m.Hotspot)
				}
				return
			}
			c.lastAccess = m.Hotspot.ID
			c.lastClick = now
		case tour.HotspotCommerce, tour.HotspotLocation:
			if c.callbacks.OnHotspotInfo != nil {
				c.callbacks.OnHotspotInfo(m.Hotspot)
			}
		}
		return
	}

	if ctrl := c.cam.Controller(); ctrl != nil {
		ctrl.BeginDrag(x, y)
	}
}

func (c *controllerImpl) PointerMove(x, y float64) {
	if ctrl := c.cam.Controller(); ctrl != nil && ctrl.Dragging() {
		ctrl.Drag(x, y)
		return
	}

	if idx, ok := c.pick(c.rayAt(x, y)); ok {
		c.hovered = idx
	} else {
		c.hovered = -1
	}
}

func (c *controllerImpl) PointerUp() {
	if ctrl := c.cam.Controller(); ctrl != nil {
		ctrl.EndDrag()
	}
}

func (c *controllerImpl) Scroll(notches float64) {
	c.cam.ZoomBy(notches)
}

func (c *controllerImpl) HoveredMarker() (Marker, bool) {
	if c.hovered < 0 || c.hovered >= len(c.markers) {
		return Marker{}, false
	}
	return c.markers[c.hovered], true
}

func (c *controllerImpl) HoveredIndex() int {
	if c.hovered < 0 || c.hovered >= len(c.markers) {
		return -1
	}
	return c.hovered
}

// rayAt builds the pick ray through the given pixel position.
func (c *controllerImpl) rayAt(x, y float64) spherical.Ray {
	ndcX := 2.0*x/c.width - 1.0
	ndcY := 1.0 - 2.0*y/c.height
	return spherical.RayFromView(ndcX, ndcY, c.cam.Forward(), c.cam.Fov(), float64(c.cam.Aspect()))
}

// pick returns the nearest marker hit by the ray.
func (c *controllerImpl) pick(ray spherical.Ray) (int, bool) {
	best := -1
	bestDist := 0.0
	for i, m := range c.markers {
		dist, ok := ray.IntersectSphere(m.Position, c.pickRadius)
		if !ok {
			continue
		}
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best, best >= 0
}

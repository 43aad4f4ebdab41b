package tour

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DroppedHotspot records a hotspot excluded during sanitization and why, so
// callers can log what was filtered without aborting the load.
type DroppedHotspot struct {
	SceneID   string
	HotspotID string
	Reason    string
}

// Sanitize removes hotspots with non-finite coordinates or an unknown type
// from every scene. It is applied once after each fetch; corrupt persisted
// hotspots must never abort loading the rest of the tour.
//
// Dangling access hotspots are NOT removed here: they remain in the document
// (so a later re-add of the target scene revives them) and are filtered at
// render time by RenderableHotspots.
//
// Returns:
//   - []DroppedHotspot: every hotspot removed, with the violated rule
func (t *Tour) Sanitize() []DroppedHotspot {
	var dropped []DroppedHotspot
	for si := range t.Scenes {
		scene := &t.Scenes[si]
		kept := scene.Hotspots[:0]
		for _, h := range scene.Hotspots {
			switch {
			case !h.HasFinitePosition():
				dropped = append(dropped, DroppedHotspot{
					SceneID:   scene.ID,
					HotspotID: h.ID,
					Reason:    "non-numeric pitch/yaw",
				})
			case !h.Type.Valid():
				dropped = append(dropped, DroppedHotspot{
					SceneID:   scene.ID,
					HotspotID: h.ID,
					Reason:    "unknown hotspot type",
				})
			default:
				kept = append(kept, h)
			}
		}
		scene.Hotspots = kept
	}
	return dropped
}

// RenderableHotspots returns the hotspots of the given scene that may be
// placed as markers: finite coordinates, a known type, and for access
// hotspots a target scene that still exists in this tour.
//
// Parameters:
//   - sceneIndex: index of the scene within the tour
//
// Returns:
//   - []Hotspot: hotspots safe to render
//   - []DanglingReferenceError: one entry per excluded access hotspot
func (t *Tour) RenderableHotspots(sceneIndex int) ([]Hotspot, []DanglingReferenceError) {
	if sceneIndex < 0 || sceneIndex >= len(t.Scenes) {
		return nil, nil
	}

	var dangling []DanglingReferenceError
	scene := &t.Scenes[sceneIndex]
	out := make([]Hotspot, 0, len(scene.Hotspots))
	for _, h := range scene.Hotspots {
		if !h.HasFinitePosition() || !h.Type.Valid() {
			continue
		}
		if h.Type == HotspotAccess && t.SceneIndexByID(h.TargetSceneID) < 0 {
			dangling = append(dangling, DanglingReferenceError{
				HotspotID:     h.ID,
				TargetSceneID: h.TargetSceneID,
			})
			continue
		}
		out = append(out, h)
	}
	return out, dangling
}

// AddScene appends a new scene to the tour.
//
// Parameters:
//   - name: display name for the scene
//   - imageURL: panorama image reference, must be non-empty
//
// Returns:
//   - *Scene: the appended scene
//   - error: *ValidationError if imageURL is empty
func (t *Tour) AddScene(name, imageURL string) (*Scene, error) {
	if imageURL == "" {
		return nil, &ValidationError{Field: "image", Reason: "a scene requires a panorama image"}
	}

	t.Scenes = append(t.Scenes, Scene{
		ID:       uuid.NewString(),
		Name:     name,
		Image:    imageURL,
		Hotspots: []Hotspot{},
	})
	return &t.Scenes[len(t.Scenes)-1], nil
}

// DeleteScene removes a scene and recomputes the caller's current scene
// index against the mutated list:
//   - deleting the current scene selects index 0 if it was first, otherwise
//     the previous index
//   - deleting a scene before the current one shifts the index down by one
//   - deleting a scene after the current one leaves the index unchanged
//
// Parameters:
//   - sceneID: id of the scene to remove
//   - currentIndex: the caller's current scene index before the delete
//
// Returns:
//   - int: the adjusted current scene index
//   - error: *ValidationError if this is the tour's only scene or the id is
//     unknown
func (t *Tour) DeleteScene(sceneID string, currentIndex int) (int, error) {
	if len(t.Scenes) <= 1 {
		return currentIndex, &ValidationError{
			Field:  "scenes",
			Reason: "a tour must keep at least one scene",
		}
	}

	idx := t.SceneIndexByID(sceneID)
	if idx < 0 {
		return currentIndex, &ValidationError{Field: "sceneId", Reason: "scene not found"}
	}

	t.Scenes = append(t.Scenes[:idx], t.Scenes[idx+1:]...)

	switch {
	case idx == currentIndex:
		if idx == 0 {
			return 0, nil
		}
		return idx - 1, nil
	case idx < currentIndex:
		return currentIndex - 1, nil
	default:
		return currentIndex, nil
	}
}

// AddHotspot validates and appends a hotspot to the named scene. The
// hotspot's id is assigned here when empty.
//
// Parameters:
//   - sceneID: id of the scene receiving the hotspot
//   - h: the hotspot data; type-specific required fields are enforced
//
// Returns:
//   - *Hotspot: the appended hotspot
//   - error: *ValidationError naming the missing or invalid field
func (t *Tour) AddHotspot(sceneID string, h Hotspot) (*Hotspot, error) {
	scene := t.SceneByID(sceneID)
	if scene == nil {
		return nil, &ValidationError{Field: "sceneId", Reason: "scene not found"}
	}
	if err := t.validateHotspot(&h); err != nil {
		return nil, err
	}

	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	scene.Hotspots = append(scene.Hotspots, h)
	return &scene.Hotspots[len(scene.Hotspots)-1], nil
}

// UpdateHotspot replaces the hotspot at the given position within a scene,
// applying the same validation as AddHotspot. The id of the existing hotspot
// is preserved.
func (t *Tour) UpdateHotspot(sceneID string, index int, h Hotspot) error {
	scene := t.SceneByID(sceneID)
	if scene == nil {
		return &ValidationError{Field: "sceneId", Reason: "scene not found"}
	}
	if index < 0 || index >= len(scene.Hotspots) {
		return &ValidationError{Field: "hotspotIndex", Reason: "hotspot not found"}
	}
	if err := t.validateHotspot(&h); err != nil {
		return err
	}

	h.ID = scene.Hotspots[index].ID
	scene.Hotspots[index] = h
	return nil
}

// DeleteHotspot removes the hotspot at the given position within a scene.
func (t *Tour) DeleteHotspot(sceneID string, index int) error {
	scene := t.SceneByID(sceneID)
	if scene == nil {
		return &ValidationError{Field: "sceneId", Reason: "scene not found"}
	}
	if index < 0 || index >= len(scene.Hotspots) {
		return &ValidationError{Field: "hotspotIndex", Reason: "hotspot not found"}
	}

	scene.Hotspots = append(scene.Hotspots[:index], scene.Hotspots[index+1:]...)
	return nil
}

// ResolveAccessTarget resolves an access hotspot's target scene.
//
// Parameters:
//   - h: the access hotspot to resolve
//
// Returns:
//   - int: index of the target scene within the tour
//   - error: *DanglingReferenceError if the target no longer exists
func (t *Tour) ResolveAccessTarget(h *Hotspot) (int, error) {
	idx := t.SceneIndexByID(h.TargetSceneID)
	if idx < 0 {
		return -1, &DanglingReferenceError{HotspotID: h.ID, TargetSceneID: h.TargetSceneID}
	}
	return idx, nil
}

func (t *Tour) validateHotspot(h *Hotspot) error {
	if !h.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be access, commerce or location"}
	}
	if !h.HasFinitePosition() {
		return &ValidationError{Field: "pitch/yaw", Reason: "must be finite numbers"}
	}
	if h.Pitch < -90 || h.Pitch > 90 {
		return &ValidationError{Field: "pitch", Reason: "must be within [-90, 90] degrees"}
	}
	if h.Yaw <= -180 || h.Yaw > 180 {
		return &ValidationError{Field: "yaw", Reason: "must be within (-180, 180] degrees"}
	}

	switch h.Type {
	case HotspotAccess:
		if h.TargetSceneID == "" {
			return &ValidationError{Field: "targetSceneId", Reason: "access hotspots require a target scene"}
		}
		if t.SceneIndexByID(h.TargetSceneID) < 0 {
			return &ValidationError{Field: "targetSceneId", Reason: "target scene does not exist in this tour"}
		}
	case HotspotCommerce, HotspotLocation:
		if h.Title == "" {
			return &ValidationError{Field: "title", Reason: "a title is required"}
		}
	}

	if h.SocialMedia != nil {
		if err := validate.Struct(h.SocialMedia); err != nil {
			return &ValidationError{Field: "socialMedia", Reason: "links must be valid URLs"}
		}
	}
	return nil
}

// package tour defines the in-memory tour document model (scenes and
// hotspots) and the graph operations that mutate it while preserving its
// referential-integrity invariants.
package tour

import (
	"math"

	"github.com/goccy/go-json"
)

// HotspotType is the closed set of hotspot variants.
type HotspotType string

const (
	// HotspotAccess navigates to another scene in the same tour when
	// activated.
	HotspotAccess HotspotType = "access"
	// HotspotCommerce surfaces product information and social links.
	HotspotCommerce HotspotType = "commerce"
	// HotspotLocation surfaces a titled description of a point of interest.
	HotspotLocation HotspotType = "location"
)

// Valid reports whether t is one of the three known hotspot types.
func (t HotspotType) Valid() bool {
	switch t {
	case HotspotAccess, HotspotCommerce, HotspotLocation:
		return true
	}
	return false
}

// SocialMedia holds the optional link set attached to commerce hotspots.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,url"`
	Website   string `json:"website,omitempty" validate:"omitempty,url"`
}

// Hotspot is an interactive marker at a spherical coordinate within a scene.
// Only the fields matching its Type are meaningful; the rest stay zero.
type Hotspot struct {
	ID   string      `json:"id"`
	Type HotspotType `json:"type"`
	// Pitch is the elevation angle in degrees, in [-90, 90].
	Pitch float64 `json:"pitch"`
	// Yaw is the azimuth angle in degrees, in (-180, 180].
	Yaw float64 `json:"yaw"`
	// TargetSceneID is set on access hotspots and must reference a scene in
	// the same tour.
	TargetSceneID string `json:"targetSceneId,omitempty"`
	// Title is required on commerce and location hotspots.
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	SocialMedia *SocialMedia `json:"socialMedia,omitempty"`
}

// hotspotWire mirrors Hotspot with raw coordinate fields so corrupt persisted
// values (strings, nulls) survive decoding instead of failing the whole tour.
type hotspotWire struct {
	ID            string          `json:"id"`
	Type          HotspotType     `json:"type"`
	Pitch         json.RawMessage `json:"pitch"`
	Yaw           json.RawMessage `json:"yaw"`
	TargetSceneID string          `json:"targetSceneId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	SocialMedia   *SocialMedia    `json:"socialMedia"`
}

// UnmarshalJSON decodes a hotspot tolerantly: a pitch or yaw that is missing
// or not a JSON number becomes NaN rather than a decode error, so one corrupt
// hotspot never aborts loading the tour. Sanitize filters the NaNs out
// afterwards.
func (h *Hotspot) UnmarshalJSON(data []byte) error {
	var w hotspotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	h.ID = w.ID
	h.Type = w.Type
	h.Pitch = coordOrNaN(w.Pitch)
	h.Yaw = coordOrNaN(w.Yaw)
	h.TargetSceneID = w.TargetSceneID
	h.Title = w.Title
	h.Description = w.Description
	h.SocialMedia = w.SocialMedia
	return nil
}

func coordOrNaN(raw json.RawMessage) float64 {
	// Decoding "null" into a float64 is a no-op that leaves the zero value,
	// so a null coordinate has to go through a pointer to be distinguishable
	// from an actual 0.
	var v *float64
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return math.NaN()
	}
	return *v
}

// HasFinitePosition reports whether both coordinates are finite numbers.
// Hotspots failing this check are dropped before rendering.
func (h *Hotspot) HasFinitePosition() bool {
	return !math.IsNaN(h.Pitch) && !math.IsInf(h.Pitch, 0) &&
		!math.IsNaN(h.Yaw) && !math.IsInf(h.Yaw, 0)
}

// Scene is a single panorama within a tour.
type Scene struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Image is the panorama image reference. Relative upload paths are
	// resolved against the configured base URL before use.
	Image    string    `json:"image" validate:"required"`
	Hotspots []Hotspot `json:"hotspots"`
}

// Tour is the aggregate root: an ordered list of scenes plus the opaque
// access key used for unauthenticated public embedding. The core never
// creates tours, only mutates scenes and hotspots within one already loaded.
type Tour struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Scenes      []Scene `json:"scenes"`
	AccessKey   string  `json:"apiKey,omitempty"`
}

// SceneIndexByID returns the position of the scene with the given id, or -1.
// Resolution is by identity, never by position, since positions shift across
// edits.
func (t *Tour) SceneIndexByID(id string) int {
	for i := range t.Scenes {
		if t.Scenes[i].ID == id {
			return i
		}
	}
	return -1
}

// SceneByID returns the scene with the given id, or nil if absent.
func (t *Tour) SceneByID(id string) *Scene {
	if i := t.SceneIndexByID(id); i >= 0 {
		return &t.Scenes[i]
	}
	return nil
}

package tour

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func TestHotspotTolerantDecode(t *testing.T) {
	payload := []byte(`{
		"id": "s0",
		"name": "lobby",
		"image": "/uploads/lobby.jpg",
		"hotspots": [
			{"id": "h0", "type": "location", "title": "desk", "pitch": 12.5, "yaw": -30},
			{"id": "h1", "type": "location", "title": "bad", "pitch": "oops", "yaw": null},
			{"id": "h2", "type": "access", "targetSceneId": "s1", "pitch": 0, "yaw": 90}
		]
	}`)

	var s Scene
	if err := json.Unmarshal(payload, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Hotspots) != 3 {
		t.Fatalf("decoded %d hotspots, want 3", len(s.Hotspots))
	}

	if s.Hotspots[0].Pitch != 12.5 || s.Hotspots[0].Yaw != -30 {
		t.Errorf("h0 coords = (%v, %v), want (12.5, -30)", s.Hotspots[0].Pitch, s.Hotspots[0].Yaw)
	}
	if !math.IsNaN(s.Hotspots[1].Pitch) || !math.IsNaN(s.Hotspots[1].Yaw) {
		t.Errorf("h1 corrupt coords = (%v, %v), want NaN pair", s.Hotspots[1].Pitch, s.Hotspots[1].Yaw)
	}
	if s.Hotspots[2].TargetSceneID != "s1" {
		t.Errorf("h2 target = %s, want s1", s.Hotspots[2].TargetSceneID)
	}
}

func TestHotspotTypeValid(t *testing.T) {
	for _, ht := range []HotspotType{HotspotAccess, HotspotCommerce, HotspotLocation} {
		if !ht.Valid() {
			t.Errorf("%s reported invalid", ht)
		}
	}
	if HotspotType("portal").Valid() {
		t.Error("unknown type reported valid")
	}
}

func TestSceneLookupByIdentity(t *testing.T) {
	tr := threeSceneTour()

	if idx := tr.SceneIndexByID("b"); idx != 1 {
		t.Errorf("index of b = %d, want 1", idx)
	}
	if idx := tr.SceneIndexByID("zz"); idx != -1 {
		t.Errorf("index of unknown = %d, want -1", idx)
	}

	// Identity lookup must survive reordering.
	tr.Scenes[0], tr.Scenes[2] = tr.Scenes[2], tr.Scenes[0]
	if s := tr.SceneByID("a"); s == nil || s.Name != "A" {
		t.Errorf("lookup after reorder = %+v, want scene A", s)
	}
}

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{"upload path", "http://api.example.com", "/uploads/a.jpg", "http://api.example.com/uploads/a.jpg"},
		{"base trailing slash", "http://api.example.com/", "/uploads/a.jpg", "http://api.example.com/uploads/a.jpg"},
		{"already absolute", "http://api.example.com", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"bare relative", "http://api.example.com", "a.jpg", "http://api.example.com/a.jpg"},
		{"empty ref", "http://api.example.com", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveImageURL(tt.base, tt.ref); got != tt.want {
				t.Errorf("ResolveImageURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

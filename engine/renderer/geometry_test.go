package renderer

import (
	"math"
	"testing"

	"github.com/spynter/hub360/engine/spherical"
)

func TestSphereMeshStructure(t *testing.T) {
	m := sphereMesh(10, 8, 6)

	wantVertices := (8 + 1) * (6 + 1)
	if got := len(m.vertices) / 5; got != wantVertices {
		t.Fatalf("vertex count = %d, want %d", got, wantVertices)
	}
	if len(m.vertices)%5 != 0 {
		t.Fatalf("vertex data length %d is not a multiple of the stride", len(m.vertices))
	}
	if len(m.indices)%3 != 0 {
		t.Fatalf("index count %d is not a multiple of 3", len(m.indices))
	}

	// Pole rows collapse to a single point, so each pole ring contributes
	// one triangle per segment instead of two.
	wantIndices := (8*6*2 - 8*2) * 3
	if len(m.indices) != wantIndices {
		t.Errorf("index count = %d, want %d", len(m.indices), wantIndices)
	}

	for _, idx := range m.indices {
		if int(idx) >= wantVertices {
			t.Fatalf("index %d out of range, have %d vertices", idx, wantVertices)
		}
	}
}

func TestSphereMeshVerticesOnRadius(t *testing.T) {
	const radius = 25.0
	m := sphereMesh(radius, 12, 8)
	for i := 0; i+2 < len(m.vertices); i += 5 {
		x := float64(m.vertices[i])
		y := float64(m.vertices[i+1])
		z := float64(m.vertices[i+2])
		r := math.Sqrt(x*x + y*y + z*z)
		if math.Abs(r-radius) > 1e-3 {
			t.Fatalf("vertex %d at distance %f, want %f", i/5, r, radius)
		}
	}
	if got := m.boundsRadius(); math.Abs(got-radius) > 1e-3 {
		t.Errorf("boundsRadius() = %f, want %f", got, radius)
	}
}

func TestSphereMeshUVRange(t *testing.T) {
	m := sphereMesh(5, 6, 4)
	for i := 3; i+1 < len(m.vertices); i += 5 {
		u := m.vertices[i]
		v := m.vertices[i+1]
		if u < 0 || u > 1 || v < 0 || v > 1 {
			t.Fatalf("uv (%f, %f) out of [0, 1]", u, v)
		}
	}
}

func TestSphereMeshPoles(t *testing.T) {
	m := sphereMesh(10, 8, 6)

	// First row is the top pole (v = 0), last row the bottom pole.
	topY := float64(m.vertices[1])
	if math.Abs(topY-10) > 1e-4 {
		t.Errorf("top pole y = %f, want 10", topY)
	}
	last := (len(m.vertices)/5 - 1) * 5
	bottomY := float64(m.vertices[last+1])
	if math.Abs(bottomY+10) > 1e-4 {
		t.Errorf("bottom pole y = %f, want -10", bottomY)
	}
}

func TestSphereMeshUFlip(t *testing.T) {
	// With the u axis flipped for inside viewing, u = 0.5 on the equator
	// must land at yaw 0, which is the +Z axis.
	m := sphereMesh(spherical.Radius, 8, 4)
	cols := 9
	equatorRow := 2
	mid := (equatorRow*cols + 4) * 5
	x := float64(m.vertices[mid])
	z := float64(m.vertices[mid+2])
	if math.Abs(x) > 1e-3 || z < spherical.Radius-1e-3 {
		t.Errorf("u=0.5 equator vertex at (%f, %f), want (0, %v)", x, z, spherical.Radius)
	}
}

func TestSphereMeshMinimumSegments(t *testing.T) {
	m := sphereMesh(1, 1, 1)
	if len(m.vertices) == 0 || len(m.indices) == 0 {
		t.Fatal("degenerate segment counts should be clamped, got empty mesh")
	}
}

func TestPanoramaAndMarkerMeshes(t *testing.T) {
	pano := panoramaMesh()
	if got := pano.boundsRadius(); math.Abs(got-spherical.Radius) > 1e-2 {
		t.Errorf("panorama radius = %f, want %v", got, spherical.Radius)
	}
	marker := markerMesh()
	if got := marker.boundsRadius(); math.Abs(got-spherical.MarkerRadius) > 1e-3 {
		t.Errorf("marker radius = %f, want %v", got, spherical.MarkerRadius)
	}
	if len(marker.indices) >= len(pano.indices) {
		t.Error("marker mesh should be much coarser than the panorama mesh")
	}
}

func TestMarkerColorsDistinct(t *testing.T) {
	seen := map[[4]float32]MarkerKind{}
	for _, kind := range []MarkerKind{MarkerAccess, MarkerCommerce, MarkerLocation} {
		c := markerColor(kind)
		if prev, ok := seen[c]; ok {
			t.Errorf("marker kinds %v and %v share color %v", prev, kind, c)
		}
		seen[c] = kind
	}
}

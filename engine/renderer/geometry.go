package renderer

import (
	"math"

	"github.com/spynter/hub360/engine/spherical"
)

// vertexStride is the byte size of one vertex: float32x3 position followed by
// float32x2 uv.
const vertexStride = 20

// meshData is CPU-side geometry ready for upload: interleaved vertices and a
// uint32 index list forming triangles.
type meshData struct {
	vertices []float32
	indices  []uint32
}

// sphereMesh generates a UV sphere as seen from the inside. Rows run from the
// top pole (v = 0) to the bottom pole (v = 1); the u axis is flipped so the
// equirectangular texture reads correctly when the camera sits at the center.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: longitudinal segment count, at least 3
//   - heightSegments: latitudinal segment count, at least 2
//
// Returns:
//   - meshData: interleaved position and uv vertices plus triangle indices
func sphereMesh(radius float64, widthSegments, heightSegments int) meshData {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	cols := widthSegments + 1
	rows := heightSegments + 1
	vertices := make([]float32, 0, cols*rows*5)
	for iy := 0; iy < rows; iy++ {
		v := float64(iy) / float64(heightSegments)
		pitch := 90 - 180*v
		for ix := 0; ix < cols; ix++ {
			u := float64(ix) / float64(widthSegments)
			yaw := 180 - 360*u
			p := spherical.ToCartesian(pitch, yaw, radius)
			vertices = append(vertices,
				float32(p.X), float32(p.Y), float32(p.Z),
				float32(u), float32(v),
			)
		}
	}

	indices := make([]uint32, 0, widthSegments*heightSegments*6)
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*cols + ix)
			b := a + uint32(cols)
			if iy != 0 {
				indices = append(indices, a, b, a+1)
			}
			if iy != heightSegments-1 {
				indices = append(indices, a+1, b, b+1)
			}
		}
	}

	return meshData{vertices: vertices, indices: indices}
}

// panoramaMesh is the full-size panorama sphere.
func panoramaMesh() meshData {
	return sphereMesh(spherical.Radius, spherical.SegmentsWidth, spherical.SegmentsHeight)
}

// markerMesh is the small hotspot marker sphere. Marker positions and pulse
// scale come from the model matrix, so the mesh itself is centered at the
// origin.
func markerMesh() meshData {
	return sphereMesh(spherical.MarkerRadius, 16, 12)
}

// markerColor returns the RGBA base color for a marker kind.
func markerColor(kind MarkerKind) [4]float32 {
	switch kind {
	case MarkerAccess:
		return [4]float32{0.20, 0.55, 1.00, 0.90}
	case MarkerCommerce:
		return [4]float32{1.00, 0.62, 0.10, 0.90}
	case MarkerLocation:
		return [4]float32{0.18, 0.80, 0.44, 0.90}
	default:
		return [4]float32{1, 1, 1, 0.90}
	}
}

// boundsRadius returns the distance of the farthest vertex from the origin,
// used to sanity check generated meshes.
func (m meshData) boundsRadius() float64 {
	var max float64
	for i := 0; i+2 < len(m.vertices); i += 5 {
		x := float64(m.vertices[i])
		y := float64(m.vertices[i+1])
		z := float64(m.vertices[i+2])
		r := math.Sqrt(x*x + y*y + z*z)
		if r > max {
			max = r
		}
	}
	return max
}

// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Panorama images are staged in this form after decode so the render backend
// only ever deals with raw RGBA, never with encoded image files.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// DecodeRGBA decodes encoded image bytes (PNG or JPEG) into staged RGBA
// texture data ready for GPU upload.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - data: raw encoded image bytes
//
// Returns:
//   - TextureStagingData: decoded RGBA pixels with dimensions
//   - error: error if decoding fails
func DecodeRGBA(data []byte) (TextureStagingData, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// SolidRGBA builds a 1x1 staged texture of a single color. Used as the
// placeholder panorama material when a scene texture fails to load.
//
// Parameters:
//   - r, g, b, a: the color components (0-255)
//
// Returns:
//   - TextureStagingData: the staged single-pixel texture
func SolidRGBA(r, g, b, a byte) TextureStagingData {
	return TextureStagingData{
		Pixels: []byte{r, g, b, a},
		Width:  1,
		Height: 1,
	}
}

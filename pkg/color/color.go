// Package color provides the linear and sRGB color types used by the
// render buffer and materials. All shading math happens in LinearRgb;
// SRgb exists only at the display/export boundary.
package color

import "math"

func srgbToLinear(x float64) float64 {
	if x <= 0.04045 {
		return x / 12.92
	}
	return math.Pow((x+0.055)/1.055, 2.4)
}

func linearToSrgb(x float64) float64 {
	if x <= 0.0031308 {
		return 12.92 * x
	}
	return 1.055*math.Pow(x, 1.0/2.4) - 0.055
}

func floatToByte(x float64) uint8 {
	v := math.Round(x * 255.0)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// LinearRgb is a color in linear light. Radiance accumulates in this space.
type LinearRgb struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Black is the zero radiance value.
var Black = LinearRgb{}

// White is full intensity in all channels.
var White = LinearRgb{R: 1, G: 1, B: 1}

// NewLinearRgb creates a linear color from components.
func NewLinearRgb(r, g, b float64) LinearRgb {
	return LinearRgb{R: r, G: g, B: b}
}

// Splat creates a gray linear color with all components equal to x.
func Splat(x float64) LinearRgb {
	return LinearRgb{R: x, G: x, B: x}
}

// FromSrgb decodes sRGB components into linear light.
func FromSrgb(r, g, b float64) LinearRgb {
	return LinearRgb{R: srgbToLinear(r), G: srgbToLinear(g), B: srgbToLinear(b)}
}

// Add returns the component-wise sum.
func (c LinearRgb) Add(other LinearRgb) LinearRgb {
	return LinearRgb{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B}
}

// Mul returns the component-wise product (filter/attenuation).
func (c LinearRgb) Mul(other LinearRgb) LinearRgb {
	return LinearRgb{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B}
}

// Scale returns the color scaled by a scalar.
func (c LinearRgb) Scale(s float64) LinearRgb {
	return LinearRgb{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Lerp linearly interpolates toward other by factor.
func (c LinearRgb) Lerp(other LinearRgb, factor float64) LinearRgb {
	return LinearRgb{
		R: c.R + (other.R-c.R)*factor,
		G: c.G + (other.G-c.G)*factor,
		B: c.B + (other.B-c.B)*factor,
	}
}

// ToSrgb encodes the color for display.
func (c LinearRgb) ToSrgb() SRgb {
	return SRgb{R: linearToSrgb(c.R), G: linearToSrgb(c.G), B: linearToSrgb(c.B)}
}

// SRgb is a gamma-encoded color ready for an 8-bit framebuffer.
type SRgb struct {
	R, G, B float64
}

// Bytes quantizes the color to 8 bits per channel, clamping to [0, 255].
func (c SRgb) Bytes() (r, g, b uint8) {
	return floatToByte(c.R), floatToByte(c.G), floatToByte(c.B)
}

// ToLinear decodes the color back into linear light.
func (c SRgb) ToLinear() LinearRgb {
	return FromSrgb(c.R, c.G, c.B)
}

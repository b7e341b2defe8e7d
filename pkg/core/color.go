package core

import "math"

// Color represents an RGB radiance or reflectance value.
// It is an immutable value type; every operation returns a new Color.
type Color struct {
	R, G, B float64
}

// Black is the zero contribution color
var Black = Color{0, 0, 0}

// White is the unit reflectance color
var White = Color{1, 1, 1}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// NewColorGray creates a Color with all channels set to v
func NewColorGray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// Add returns the componentwise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the componentwise difference of two colors
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// MultiplyColor returns the componentwise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// Saturate clamps each channel to [minVal, maxVal]
func (c Color) Saturate(minVal, maxVal float64) Color {
	return Color{
		R: math.Max(minVal, math.Min(maxVal, c.R)),
		G: math.Max(minVal, math.Min(maxVal, c.G)),
		B: math.Max(minVal, math.Min(maxVal, c.B)),
	}
}

// MaxComponent returns the largest channel value, used for
// Russian-roulette continuation weights
func (c Color) MaxComponent() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

// IsBlack reports whether every channel is zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsFinite reports whether all channels are finite (no NaN or Inf)
func (c Color) IsFinite() bool {
	return !math.IsNaN(c.R) && !math.IsInf(c.R, 0) &&
		!math.IsNaN(c.G) && !math.IsInf(c.G, 0) &&
		!math.IsNaN(c.B) && !math.IsInf(c.B, 0)
}

// ApproxEqual reports whether two colors match within epsilon per channel
func (c Color) ApproxEqual(other Color, epsilon float64) bool {
	return math.Abs(c.R-other.R) <= epsilon &&
		math.Abs(c.G-other.G) <= epsilon &&
		math.Abs(c.B-other.B) <= epsilon
}

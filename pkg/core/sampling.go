package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for scattering algorithms.
// Can be swapped out for deterministic testing or different sampling patterns.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted direction in the +Z
// hemisphere of the local frame. The pdf of the result is cosθ/π.
func SampleCosineHemisphere(sample Vec2) Vec3 {
	a := 2.0 * math.Pi * sample.X
	z := sample.Y
	r := math.Sqrt(z)

	x := r * math.Cos(a)
	y := r * math.Sin(a)
	zCoord := math.Sqrt(1.0 - z)

	return NewVec3(x, y, zCoord)
}

// SampleCosineHemisphereAround generates a cosine-weighted direction in the
// hemisphere around an arbitrary world-space normal, for callers that do
// not carry a shading frame.
func SampleCosineHemisphereAround(normal Vec3, sample Vec2) Vec3 {
	return NewOrthonormalBasis(normal).ToWorld(SampleCosineHemisphere(sample))
}

// SampleUniformHemisphere generates a uniform direction in the +Z
// hemisphere of the local frame. The pdf of the result is 1/(2π).
func SampleUniformHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// UniformHemispherePDF is the constant density of SampleUniformHemisphere
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// SamplePowerCosineHemisphere generates a direction in the +Z hemisphere
// distributed as cosⁿθ, used for Blinn-Phong style half-vector sampling.
// The pdf of the result is (n+1)·cosⁿθ/(2π).
func SamplePowerCosineHemisphere(exponent float64, sample Vec2) Vec3 {
	cosTheta := math.Pow(sample.X, 1.0/(exponent+1.0))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// AshikhminShirley is a glossy reflection lobe built on a Blinn-Phong style
// power-cosine half-vector distribution with Schlick Fresnel weighting
type AshikhminShirley struct {
	Specular  core.Color // base reflectance at normal incidence
	Roughness float64
	exponent  float64 // distribution exponent, 1/roughness²
}

// NewAshikhminShirley creates a glossy lobe. Roughness is clamped away
// from zero; a perfect mirror belongs to SpecularReflection.
func NewAshikhminShirley(specular core.Color, roughness float64) *AshikhminShirley {
	if roughness < 1e-3 {
		roughness = 1e-3
	}
	return &AshikhminShirley{
		Specular:  specular,
		Roughness: roughness,
		exponent:  1 / (roughness * roughness),
	}
}

// Type implements the BxDF interface
func (a *AshikhminShirley) Type() Type { return Reflection | Glossy }

func (a *AshikhminShirley) isBxDF() {}

func (a *AshikhminShirley) evaluate(outgoing, normal, incoming core.Vec3) core.Color {
	if !sameHemisphere(normal, outgoing, incoming) {
		return core.Black
	}
	half := outgoing.Add(incoming)
	if half.LengthSquared() == 0 {
		return core.Black
	}
	half = half.Normalize()

	cosThetaH := math.Abs(half.Dot(normal))
	d := (a.exponent + 1) * math.Pow(cosThetaH, a.exponent) / (2 * math.Pi)
	f := schlickFresnel(a.Specular, outgoing.Dot(half))

	cosThetaO := outgoing.Dot(normal)
	cosThetaI := incoming.Dot(normal)
	denominator := 4 * math.Abs(cosThetaO+cosThetaI-cosThetaO*cosThetaI)
	if denominator == 0 {
		return core.Black
	}
	return f.Multiply(d / denominator)
}

func (a *AshikhminShirley) pdf(outgoing, normal, incoming core.Vec3) float64 {
	if !sameHemisphere(normal, outgoing, incoming) {
		return 0
	}
	half := outgoing.Add(incoming)
	if half.LengthSquared() == 0 {
		return 0
	}
	half = half.Normalize()

	cosThetaH := math.Abs(half.Dot(normal))
	cosThetaOH := math.Abs(outgoing.Dot(half))
	if cosThetaOH == 0 {
		return 0
	}
	return (a.exponent + 1) * math.Pow(cosThetaH, a.exponent) / (8 * math.Pi * cosThetaOH)
}

func (a *AshikhminShirley) sample(outgoing, normal core.Vec3, u core.Vec2) (SampleResult, bool) {
	if outgoing.Dot(normal) == 0 {
		return SampleResult{}, false
	}

	// Sample a half vector from the power-cosine distribution, then mirror
	// the outgoing direction about it
	basis := core.NewOrthonormalBasis(normal)
	half := basis.ToWorld(core.SamplePowerCosineHemisphere(a.exponent, u))
	if outgoing.Dot(normal) < 0 {
		half = half.Negate()
	}
	if outgoing.Dot(half) <= 0 {
		return SampleResult{}, false
	}
	incoming := outgoing.Reflect(half)

	return SampleResult{
		Color:    a.evaluate(outgoing, normal, incoming),
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      a.pdf(outgoing, normal, incoming),
		Type:     a.Type(),
	}, true
}

package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// OrenNayar is a rough diffuse reflection lobe. The microfacet roughness
// correction uses the closed-form A/B fit, precomputed at construction.
type OrenNayar struct {
	Reflectance core.Color
	A, B        float64
}

// NewOrenNayar creates a rough diffuse lobe. Sigma is the standard
// deviation of the microfacet orientation angle, in radians; sigma 0
// reduces the lobe to Lambertian.
func NewOrenNayar(reflectance core.Color, sigma float64) *OrenNayar {
	sigma2 := sigma * sigma
	return &OrenNayar{
		Reflectance: reflectance,
		A:           1 - sigma2/(2*(sigma2+0.33)),
		B:           0.45 * sigma2 / (sigma2 + 0.09),
	}
}

// Type implements the BxDF interface
func (o *OrenNayar) Type() Type { return Reflection | Diffuse }

func (o *OrenNayar) isBxDF() {}

// roughnessFactor computes A + B·max(0,cosΔφ)·sinα·tanβ where α is the
// larger and β the smaller of the two polar angles
func (o *OrenNayar) roughnessFactor(outgoing, normal, incoming core.Vec3) float64 {
	cosThetaO := math.Abs(outgoing.Dot(normal))
	cosThetaI := math.Abs(incoming.Dot(normal))
	sinThetaO := math.Sqrt(math.Max(0, 1-cosThetaO*cosThetaO))
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))

	// Azimuthal difference from the tangential components of the pair
	maxCos := 0.0
	if sinThetaO > 1e-4 && sinThetaI > 1e-4 {
		tanO := outgoing.Subtract(normal.Multiply(outgoing.Dot(normal))).Normalize()
		tanI := incoming.Subtract(normal.Multiply(incoming.Dot(normal))).Normalize()
		maxCos = math.Max(0, tanO.Dot(tanI))
	}

	var sinAlpha, tanBeta float64
	if cosThetaI > cosThetaO {
		// incoming is closer to the normal
		sinAlpha = sinThetaO
		if cosThetaI > 0 {
			tanBeta = sinThetaI / cosThetaI
		}
	} else {
		sinAlpha = sinThetaI
		if cosThetaO > 0 {
			tanBeta = sinThetaO / cosThetaO
		}
	}

	return o.A + o.B*maxCos*sinAlpha*tanBeta
}

func (o *OrenNayar) evaluate(outgoing, normal, incoming core.Vec3) core.Color {
	if !sameHemisphere(normal, outgoing, incoming) {
		return core.Black
	}
	factor := o.roughnessFactor(outgoing, normal, incoming)
	return o.Reflectance.Multiply(factor / math.Pi)
}

func (o *OrenNayar) pdf(outgoing, normal, incoming core.Vec3) float64 {
	if !sameHemisphere(normal, outgoing, incoming) {
		return 0
	}
	factor := o.roughnessFactor(outgoing, normal, incoming)
	return factor * math.Abs(incoming.Dot(normal)) / math.Pi
}

func (o *OrenNayar) sample(outgoing, normal core.Vec3, u core.Vec2) (SampleResult, bool) {
	if outgoing.Dot(normal) == 0 {
		return SampleResult{}, false
	}

	basis := core.NewOrthonormalBasis(normal)
	incoming := basis.ToWorld(core.SampleCosineHemisphere(u))
	if outgoing.Dot(normal) < 0 {
		incoming = incoming.Subtract(normal.Multiply(2 * incoming.Dot(normal)))
	}

	return SampleResult{
		Color:    o.evaluate(outgoing, normal, incoming),
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      o.pdf(outgoing, normal, incoming),
		Type:     o.Type(),
	}, true
}

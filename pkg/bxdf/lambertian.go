package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// Lambertian is a perfectly diffuse reflection lobe with constant
// reflectance over the hemisphere
type Lambertian struct {
	Reflectance core.Color
}

// NewLambertian creates a diffuse lobe with the given reflectance
func NewLambertian(reflectance core.Color) *Lambertian {
	return &Lambertian{Reflectance: reflectance}
}

// Type implements the BxDF interface
func (l *Lambertian) Type() Type { return Reflection | Diffuse }

func (l *Lambertian) isBxDF() {}

func (l *Lambertian) evaluate(outgoing, normal, incoming core.Vec3) core.Color {
	if !sameHemisphere(normal, outgoing, incoming) {
		return core.Black
	}
	return l.Reflectance.Multiply(1.0 / math.Pi)
}

func (l *Lambertian) pdf(outgoing, normal, incoming core.Vec3) float64 {
	if !sameHemisphere(normal, outgoing, incoming) {
		return 0
	}
	return math.Abs(incoming.Dot(normal)) / math.Pi
}

func (l *Lambertian) sample(outgoing, normal core.Vec3, u core.Vec2) (SampleResult, bool) {
	if outgoing.Dot(normal) == 0 {
		return SampleResult{}, false
	}

	// Cosine-weighted direction around the normal, flipped into the
	// outgoing direction's hemisphere
	basis := core.NewOrthonormalBasis(normal)
	incoming := basis.ToWorld(core.SampleCosineHemisphere(u))
	if outgoing.Dot(normal) < 0 {
		incoming = incoming.Subtract(normal.Multiply(2 * incoming.Dot(normal)))
	}

	return SampleResult{
		Color:    l.evaluate(outgoing, normal, incoming),
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      l.pdf(outgoing, normal, incoming),
		Type:     l.Type(),
	}, true
}

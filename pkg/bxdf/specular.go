package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// SpecularReflection is an ideal mirror lobe. Evaluate and PDF are zero
// everywhere by the Dirac convention; only Sample produces contributions.
type SpecularReflection struct {
	Reflectance core.Color
	// EtaI/EtaT weight the sample by the exact dielectric Fresnel term
	// when EtaT > 0; otherwise the reflectance scale is used as-is.
	EtaI, EtaT float64
}

// NewSpecularReflection creates a mirror lobe with a fixed reflectance scale
func NewSpecularReflection(reflectance core.Color) *SpecularReflection {
	return &SpecularReflection{Reflectance: reflectance}
}

// NewFresnelSpecularReflection creates a mirror lobe whose samples are
// weighted by the dielectric Fresnel reflectance for the given index pair
func NewFresnelSpecularReflection(reflectance core.Color, etaI, etaT float64) *SpecularReflection {
	return &SpecularReflection{Reflectance: reflectance, EtaI: etaI, EtaT: etaT}
}

// Type implements the BxDF interface
func (s *SpecularReflection) Type() Type { return Reflection | Specular }

func (s *SpecularReflection) isBxDF() {}

func (s *SpecularReflection) sample(outgoing, normal core.Vec3) (SampleResult, bool) {
	cosThetaO := outgoing.Dot(normal)
	if cosThetaO == 0 {
		return SampleResult{}, false
	}

	incoming := outgoing.Reflect(normal)
	weight := s.Reflectance
	if s.EtaT > 0 {
		weight = weight.Multiply(fresnelDielectric(math.Abs(cosThetaO), s.EtaI, s.EtaT))
	}

	// The companion density is |cosθ| so the standard value·|cos|/pdf
	// estimator reproduces the weight exactly
	return SampleResult{
		Color:    weight,
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      math.Abs(incoming.Dot(normal)),
		Type:     s.Type(),
	}, true
}

// SpecularTransmission is an ideal dielectric interface lobe. Each sample
// picks the reflection or transmission branch by Russian roulette with
// probability 0.25+0.5R and weights the survivor to keep the expectation
// unbiased. Total internal reflection always yields the reflection branch.
type SpecularTransmission struct {
	Transmittance core.Color
	EtaA          float64 // index of refraction on the normal's side
	EtaB          float64 // index of refraction on the far side
}

// NewSpecularTransmission creates a dielectric transmission lobe
func NewSpecularTransmission(transmittance core.Color, etaA, etaB float64) *SpecularTransmission {
	return &SpecularTransmission{Transmittance: transmittance, EtaA: etaA, EtaB: etaB}
}

// Type implements the BxDF interface
func (s *SpecularTransmission) Type() Type { return Transmission | Specular }

func (s *SpecularTransmission) isBxDF() {}

func (s *SpecularTransmission) sample(outgoing, normal core.Vec3, rr core.Sampler) (SampleResult, bool) {
	cosThetaO := outgoing.Dot(normal)
	if cosThetaO == 0 {
		return SampleResult{}, false
	}

	// Orient the interface so the normal faces the outgoing direction
	etaI, etaT := s.EtaA, s.EtaB
	facingNormal := normal
	if cosThetaO < 0 {
		etaI, etaT = s.EtaB, s.EtaA
		facingNormal = normal.Negate()
		cosThetaO = -cosThetaO
	}

	reflected := outgoing.Reflect(normal)

	transmitted, refracts := outgoing.Refract(facingNormal, etaI/etaT)
	if !refracts {
		// Total internal reflection: the transmission branch is
		// geometrically impossible, so all energy reflects
		return SampleResult{
			Color:    s.Transmittance,
			Incoming: reflected,
			Outgoing: outgoing,
			PDF:      math.Abs(reflected.Dot(normal)),
			Type:     s.Type(),
		}, true
	}

	reflectance := fresnelDielectric(cosThetaO, etaI, etaT)
	probability := 0.25 + 0.5*reflectance

	var incoming core.Vec3
	var weight float64
	if rr.Get1D() < probability {
		incoming = reflected
		weight = reflectance / probability
	} else {
		incoming = transmitted
		weight = (1 - reflectance) / (1 - probability)
	}

	return SampleResult{
		Color:    s.Transmittance.Multiply(weight),
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      math.Abs(incoming.Dot(normal)),
		Type:     s.Type(),
	}, true
}

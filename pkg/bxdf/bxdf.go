// Package bxdf implements the individual scattering distribution lobes
// used by the bsdf aggregator: diffuse, rough diffuse, glossy, specular
// reflection/transmission, and a tabulated Fourier model.
package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// Type is a bitmask classifying a lobe by transport side and sharpness.
// A lobe matches a requested mask iff the bitwise intersection is non-empty.
type Type uint8

const (
	// Reflection marks lobes that scatter into the hemisphere of the
	// outgoing direction
	Reflection Type = 1 << iota
	// Transmission marks lobes that scatter through the surface
	Transmission
	// Diffuse marks wide cosine-like lobes
	Diffuse
	// Glossy marks directionally concentrated but non-singular lobes
	Glossy
	// Specular marks Dirac lobes with no continuous density
	Specular
)

const (
	// All matches every lobe
	All = Reflection | Transmission | Diffuse | Glossy | Specular
	// AllNonSpecular matches lobes with a continuous density. It deliberately
	// omits the side bits: under intersection matching, including Reflection
	// would also pick up specular reflectors.
	AllNonSpecular = Diffuse | Glossy
	// AllSpecular matches only Dirac lobes
	AllSpecular = Specular
)

// Matches reports whether the lobe type intersects the requested mask
func (t Type) Matches(mask Type) bool {
	return t&mask != 0
}

// IsSpecular reports whether the type carries the Specular bit
func (t Type) IsSpecular() bool {
	return t&Specular != 0
}

// String returns a readable form like "reflection|diffuse"
func (t Type) String() string {
	names := []struct {
		bit  Type
		name string
	}{
		{Reflection, "reflection"},
		{Transmission, "transmission"},
		{Diffuse, "diffuse"},
		{Glossy, "glossy"},
		{Specular, "specular"},
	}
	s := ""
	for _, n := range names {
		if t&n.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n.name
	}
	if s == "" {
		return "none"
	}
	return s
}

// BxDF is the closed set of scattering lobes. The set is sealed: evaluation,
// sampling, and density queries dispatch over the concrete type in this
// package, so adding a lobe kind means extending the switches here.
type BxDF interface {
	// Type returns the lobe's immutable classification
	Type() Type

	isBxDF()
}

// SampleResult bundles the outcome of evaluating or sampling a lobe.
// It is a pure value; callers must reject results whose PDF or color is
// non-finite via IsValid.
type SampleResult struct {
	Color    core.Color // scattering value, or branch weight for Dirac lobes
	Incoming core.Vec3  // direction toward the light, away from the surface
	Outgoing core.Vec3  // direction toward the viewer, echoed from the call
	PDF      float64    // solid-angle density, ≥ 0
	Type     Type       // resolved type of the lobe that produced the sample
}

// IsValid reports whether the result can be accumulated by an estimator
func (s SampleResult) IsValid() bool {
	return s.PDF >= 0 && !math.IsNaN(s.PDF) && !math.IsInf(s.PDF, 0) &&
		s.Color.IsFinite() && s.Incoming.IsFinite()
}

// Evaluate returns the scattering value of lobe b for an explicit direction
// pair. Both directions point away from the surface. Dirac lobes always
// return black.
func Evaluate(b BxDF, outgoing, normal, incoming core.Vec3) core.Color {
	switch v := b.(type) {
	case *Lambertian:
		return v.evaluate(outgoing, normal, incoming)
	case *OrenNayar:
		return v.evaluate(outgoing, normal, incoming)
	case *AshikhminShirley:
		return v.evaluate(outgoing, normal, incoming)
	case *SpecularReflection:
		return core.Black
	case *SpecularTransmission:
		return core.Black
	case *Fourier:
		return v.evaluate(outgoing, normal, incoming)
	}
	return core.Black
}

// Sample draws one incoming direction from lobe b's importance distribution.
// The 2D sample u drives the distribution; rr is consulted only by the
// transmission lobe's Russian-roulette branch pick. Returns false when the
// outgoing direction is degenerate for the lobe.
func Sample(b BxDF, outgoing, normal core.Vec3, u core.Vec2, rr core.Sampler) (SampleResult, bool) {
	switch v := b.(type) {
	case *Lambertian:
		return v.sample(outgoing, normal, u)
	case *OrenNayar:
		return v.sample(outgoing, normal, u)
	case *AshikhminShirley:
		return v.sample(outgoing, normal, u)
	case *SpecularReflection:
		return v.sample(outgoing, normal)
	case *SpecularTransmission:
		return v.sample(outgoing, normal, rr)
	case *Fourier:
		return v.sample(outgoing, normal, u)
	}
	return SampleResult{}, false
}

// PDF returns the solid-angle density of Sample producing incoming from
// outgoing. Dirac lobes report 0 off their support by convention.
func PDF(b BxDF, outgoing, normal, incoming core.Vec3) float64 {
	switch v := b.(type) {
	case *Lambertian:
		return v.pdf(outgoing, normal, incoming)
	case *OrenNayar:
		return v.pdf(outgoing, normal, incoming)
	case *AshikhminShirley:
		return v.pdf(outgoing, normal, incoming)
	case *SpecularReflection:
		return 0
	case *SpecularTransmission:
		return 0
	case *Fourier:
		return v.pdf(outgoing, normal, incoming)
	}
	return 0
}

// sameHemisphere reports whether the direction pair is "reflecting": both
// dot products against the normal carry the same non-zero sign.
func sameHemisphere(normal, outgoing, incoming core.Vec3) bool {
	return outgoing.Dot(normal)*incoming.Dot(normal) > 0
}

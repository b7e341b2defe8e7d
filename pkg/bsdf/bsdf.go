// Package bsdf aggregates scattering lobes at a single surface
// interaction, handling the world/shading-frame transforms, lobe type
// matching, stochastic lobe selection, and multi-lobe density averaging
// an integrator relies on for unbiased estimates.
package bsdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/bxdf"
	"github.com/arvhem/go-bsdf/pkg/core"
)

// oneMinusEpsilon keeps the remapped lobe-selection sample strictly below 1
const oneMinusEpsilon = 1 - 1e-9

// localNormal is the shading-frame surface normal every lobe sees
var localNormal = core.NewVec3(0, 0, 1)

// SurfaceInteraction is the narrow intersection record the aggregator
// consumes: the surface point plus the geometric and shading frames.
// It is constructed by the geometry layer and read-only here.
type SurfaceInteraction struct {
	Point           core.Vec3
	GeometricNormal core.Vec3
	ShadingNormal   core.Vec3
	Geometric       core.OrthonormalBasis
	Shading         core.OrthonormalBasis
}

// NewSurfaceInteraction builds an interaction record from unit normals.
// When the shading normal equals the geometric normal the two frames
// coincide.
func NewSurfaceInteraction(point, geometricNormal, shadingNormal core.Vec3) SurfaceInteraction {
	return SurfaceInteraction{
		Point:           point,
		GeometricNormal: geometricNormal,
		ShadingNormal:   shadingNormal,
		Geometric:       core.NewOrthonormalBasis(geometricNormal),
		Shading:         core.NewOrthonormalBasis(shadingNormal),
	}
}

// BSDF composes the scattering lobes present at one shaded intersection.
// It is built once per intersection, used for one shading step, and
// discarded; it is never shared across goroutines or mutated after
// construction.
type BSDF struct {
	interaction SurfaceInteraction
	eta         float64
	lobes       []bxdf.BxDF
}

// New creates a BSDF for an interaction. Eta is the relative index of
// refraction over the boundary; zero selects the default of 1. The lobe
// list is copied; insertion order is significant only for deterministic
// lobe selection.
func New(interaction SurfaceInteraction, eta float64, lobes ...bxdf.BxDF) *BSDF {
	if eta == 0 {
		eta = 1
	}
	owned := make([]bxdf.BxDF, len(lobes))
	copy(owned, lobes)
	return &BSDF{interaction: interaction, eta: eta, lobes: owned}
}

// Eta returns the relative index of refraction over the boundary
func (b *BSDF) Eta() float64 {
	return b.eta
}

// Count returns the number of lobes matching the type mask
func (b *BSDF) Count(mask bxdf.Type) int {
	count := 0
	for _, lobe := range b.lobes {
		if lobe.Type().Matches(mask) {
			count++
		}
	}
	return count
}

// CountBySpecularType returns how many lobes are specular (true) or have
// a continuous density (false)
func (b *BSDF) CountBySpecularType(specular bool) int {
	count := 0
	for _, lobe := range b.lobes {
		if lobe.Type().IsSpecular() == specular {
			count++
		}
	}
	return count
}

// isReflecting classifies a world-space direction pair against the
// geometric normal. Using the geometric rather than the shading normal
// here prevents shading-normal light leaks.
func (b *BSDF) isReflecting(outgoing, incoming core.Vec3) bool {
	ng := b.interaction.GeometricNormal
	return outgoing.Dot(ng)*incoming.Dot(ng) > 0
}

// sideMatches reports whether a lobe participates for the given
// reflect/transmit classification
func sideMatches(t bxdf.Type, reflecting bool) bool {
	if reflecting {
		return t&bxdf.Reflection != 0
	}
	return t&bxdf.Transmission != 0
}

// Evaluate sums the scattering values of all matching, hemisphere-correct
// lobes for a world-space direction pair. Both directions point away from
// the surface.
func (b *BSDF) Evaluate(mask bxdf.Type, outgoing, incoming core.Vec3) core.Color {
	if len(b.lobes) == 0 {
		return core.Black
	}
	outgoingLocal := b.interaction.Shading.ToLocal(outgoing).Normalize()
	incomingLocal := b.interaction.Shading.ToLocal(incoming).Normalize()
	if outgoingLocal.Z == 0 {
		return core.Black
	}

	reflecting := b.isReflecting(outgoing, incoming)
	sum := core.Black
	for _, lobe := range b.lobes {
		t := lobe.Type()
		if !t.Matches(mask) || !sideMatches(t, reflecting) {
			continue
		}
		sum = sum.Add(bxdf.Evaluate(lobe, outgoingLocal, localNormal, incomingLocal))
	}
	return sum
}

// Sample picks one matching lobe with the first sample dimension, draws an
// incoming direction from it, and returns the combined result with the
// incoming direction in world space. For a non-specular choice the color
// is the full matching-lobe sum and the density the multi-lobe average,
// so sampling one lobe while evaluating the aggregate stays unbiased.
func (b *BSDF) Sample(mask bxdf.Type, outgoing core.Vec3, sampler core.Sampler) (bxdf.SampleResult, bool) {
	matching := b.Count(mask)
	if matching == 0 {
		return bxdf.SampleResult{}, false
	}

	outgoingLocal := b.interaction.Shading.ToLocal(outgoing).Normalize()
	if outgoingLocal.Z == 0 {
		return bxdf.SampleResult{}, false
	}

	// Deterministic lobe pick: index from the integer part, the fraction
	// remapped back to a fresh [0,1) sample
	u := sampler.Get2D()
	index := int(u.X * float64(matching))
	if index > matching-1 {
		index = matching - 1
	}
	remapped := core.NewVec2(math.Min(u.X*float64(matching)-float64(index), oneMinusEpsilon), u.Y)

	var chosen bxdf.BxDF
	seen := 0
	for _, lobe := range b.lobes {
		if !lobe.Type().Matches(mask) {
			continue
		}
		if seen == index {
			chosen = lobe
			break
		}
		seen++
	}

	result, ok := bxdf.Sample(chosen, outgoingLocal, localNormal, remapped, sampler)
	if !ok {
		return bxdf.SampleResult{}, false
	}

	incomingWorld := b.interaction.Shading.ToWorld(result.Incoming).Normalize()

	// Average the density over all matching lobes at the sampled direction.
	// The chosen lobe is skipped by its matching position, not identity, so
	// duplicate lobe instances each still contribute.
	pdf := result.PDF
	if !chosen.Type().IsSpecular() && matching > 1 {
		position := 0
		for _, lobe := range b.lobes {
			if !lobe.Type().Matches(mask) {
				continue
			}
			if position != index {
				pdf += bxdf.PDF(lobe, outgoingLocal, localNormal, result.Incoming)
			}
			position++
		}
	}
	if matching > 1 {
		pdf /= float64(matching)
	}

	// Re-evaluate the full aggregate at the sampled direction so the color
	// matches what Evaluate would return there
	if !chosen.Type().IsSpecular() {
		reflecting := b.isReflecting(outgoing, incomingWorld)
		color := core.Black
		for _, lobe := range b.lobes {
			t := lobe.Type()
			if !t.Matches(mask) || !sideMatches(t, reflecting) {
				continue
			}
			color = color.Add(bxdf.Evaluate(lobe, outgoingLocal, localNormal, result.Incoming))
		}
		result.Color = color
	}

	result.PDF = pdf
	result.Incoming = incomingWorld
	result.Outgoing = outgoing
	return result, true
}

// PDF returns the mean solid-angle density over all matching lobes for a
// world-space direction pair
func (b *BSDF) PDF(mask bxdf.Type, outgoing, incoming core.Vec3) float64 {
	matching := b.Count(mask)
	if matching == 0 {
		return 0
	}
	outgoingLocal := b.interaction.Shading.ToLocal(outgoing).Normalize()
	incomingLocal := b.interaction.Shading.ToLocal(incoming).Normalize()
	if outgoingLocal.Z == 0 {
		return 0
	}

	sum := 0.0
	for _, lobe := range b.lobes {
		if !lobe.Type().Matches(mask) {
			continue
		}
		sum += bxdf.PDF(lobe, outgoingLocal, localNormal, incomingLocal)
	}
	return sum / float64(matching)
}

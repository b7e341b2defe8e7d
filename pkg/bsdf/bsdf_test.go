package bsdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvhem/go-bsdf/pkg/bxdf"
	"github.com/arvhem/go-bsdf/pkg/core"
)

func flatInteraction() SurfaceInteraction {
	up := core.NewVec3(0, 0, 1)
	return NewSurfaceInteraction(core.NewVec3(0, 0, 0), up, up)
}

func TestBSDF_EmptyLobeList(t *testing.T) {
	b := New(flatInteraction(), 0)
	outgoing := core.NewVec3(0, 0, 1)
	incoming := core.NewVec3(0.3, 0, 0.95).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	assert.True(t, b.Evaluate(bxdf.All, outgoing, incoming).IsBlack())
	assert.Zero(t, b.PDF(bxdf.All, outgoing, incoming))

	_, ok := b.Sample(bxdf.All, outgoing, sampler)
	assert.False(t, ok, "empty BSDF must not sample")

	assert.Zero(t, b.CountBySpecularType(true))
	assert.Zero(t, b.CountBySpecularType(false))
	assert.Equal(t, 1.0, b.Eta(), "eta defaults to 1")
}

func TestBSDF_SingleLambertian(t *testing.T) {
	reflectance := core.NewColorGray(0.8)
	b := New(flatInteraction(), 1, bxdf.NewLambertian(reflectance))
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0, 0, 1)
	incoming := core.NewVec3(0.3, 0.2, 0.93).Normalize()

	value := b.Evaluate(bxdf.All, outgoing, incoming)
	assert.True(t, value.ApproxEqual(reflectance.Multiply(1/math.Pi), 1e-9))

	pdf := b.PDF(bxdf.All, outgoing, incoming)
	assert.InDelta(t, incoming.Dot(normal)/math.Pi, pdf, 1e-9)
}

func TestBSDF_SampleReturnsWorldSpaceUnitDirection(t *testing.T) {
	// Tilted shading frame: sampled directions must come back in world
	// space, unit length, in the shading normal's hemisphere
	shadingNormal := core.NewVec3(0.3, -0.2, 0.93).Normalize()
	interaction := NewSurfaceInteraction(core.NewVec3(0, 0, 0), shadingNormal, shadingNormal)
	b := New(interaction, 1, bxdf.NewLambertian(core.NewColorGray(0.7)))

	outgoing := core.NewVec3(0.1, 0.1, 0.99).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 200; i++ {
		result, ok := b.Sample(bxdf.All, outgoing, sampler)
		require.True(t, ok)
		require.True(t, result.IsValid())

		assert.InDelta(t, 1.0, result.Incoming.Length(), 1e-9, "incoming must be unit length")
		assert.Greater(t, result.Incoming.Dot(shadingNormal), 0.0)
		assert.Greater(t, result.PDF, 0.0)

		// Sampled density must agree with the standalone query
		queried := b.PDF(bxdf.All, outgoing, result.Incoming)
		assert.InDelta(t, result.PDF, queried, 1e-9)
	}
}

func TestBSDF_IdenticalLobesKeepSingleLobePDF(t *testing.T) {
	// With k identical non-specular lobes the k-fold summed density divided
	// by the match count must equal the single-lobe density exactly
	reflectance := core.NewColorGray(0.5)
	single := New(flatInteraction(), 1, bxdf.NewLambertian(reflectance))
	triple := New(flatInteraction(), 1,
		bxdf.NewLambertian(reflectance),
		bxdf.NewLambertian(reflectance),
		bxdf.NewLambertian(reflectance))

	outgoing := core.NewVec3(0.2, 0.1, 0.97).Normalize()
	incoming := core.NewVec3(-0.3, 0.4, 0.87).Normalize()

	assert.InDelta(t,
		single.PDF(bxdf.All, outgoing, incoming),
		triple.PDF(bxdf.All, outgoing, incoming),
		1e-12)
}

func TestBSDF_TypeMaskFiltering(t *testing.T) {
	b := New(flatInteraction(), 1,
		bxdf.NewLambertian(core.NewColorGray(0.6)),
		bxdf.NewSpecularReflection(core.White))

	assert.Equal(t, 2, b.Count(bxdf.All))
	assert.Equal(t, 1, b.Count(bxdf.AllSpecular))
	assert.Equal(t, 1, b.Count(bxdf.AllNonSpecular))
	assert.Equal(t, 1, b.CountBySpecularType(true))
	assert.Equal(t, 1, b.CountBySpecularType(false))

	outgoing := core.NewVec3(0.2, 0, 0.98).Normalize()
	incoming := core.NewVec3(-0.1, 0.2, 0.97).Normalize()

	// The specular mask only reaches the Dirac lobe, which evaluates black
	assert.True(t, b.Evaluate(bxdf.AllSpecular, outgoing, incoming).IsBlack())
	assert.Zero(t, b.PDF(bxdf.AllSpecular, outgoing, incoming))

	// The non-specular mask reaches only the diffuse lobe
	value := b.Evaluate(bxdf.AllNonSpecular, outgoing, incoming)
	assert.InDelta(t, 0.6/math.Pi, value.R, 1e-9)
}

func TestBSDF_SampleSpecularMaskAlwaysMirrors(t *testing.T) {
	b := New(flatInteraction(), 1,
		bxdf.NewLambertian(core.NewColorGray(0.6)),
		bxdf.NewSpecularReflection(core.NewColorGray(0.9)))

	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.5, 0, 0.866).Normalize()
	mirror := outgoing.Reflect(normal)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		result, ok := b.Sample(bxdf.AllSpecular, outgoing, sampler)
		require.True(t, ok)
		assert.True(t, result.Type.IsSpecular())
		assert.Less(t, result.Incoming.Subtract(mirror).Length(), 1e-9)
	}
}

func TestBSDF_MixedLobeSampleStaysConsistent(t *testing.T) {
	b := New(flatInteraction(), 1,
		bxdf.NewLambertian(core.NewColorGray(0.6)),
		bxdf.NewSpecularReflection(core.NewColorGray(0.9)))

	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.3, 0.1, 0.95).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	sawSpecular, sawDiffuse := false, false
	for i := 0; i < 500; i++ {
		result, ok := b.Sample(bxdf.All, outgoing, sampler)
		require.True(t, ok)
		require.True(t, result.IsValid())

		if result.Type.IsSpecular() {
			sawSpecular = true
			// Companion density halved by the two-lobe selection average
			expected := math.Abs(result.Incoming.Dot(normal)) / 2
			assert.InDelta(t, expected, result.PDF, 1e-9)
		} else {
			sawDiffuse = true
			// Diffuse evaluate sum; the Dirac lobe contributes nothing
			assert.InDelta(t, 0.6/math.Pi, result.Color.R, 1e-9)
			expected := math.Abs(result.Incoming.Dot(normal)) / math.Pi / 2
			assert.InDelta(t, expected, result.PDF, 1e-9)
		}
	}
	assert.True(t, sawSpecular, "selection should reach the specular lobe")
	assert.True(t, sawDiffuse, "selection should reach the diffuse lobe")
}

func TestBSDF_TransmissionGating(t *testing.T) {
	// A reflection-only BSDF contributes nothing for a transmitting pair,
	// classified against the geometric normal in world space
	b := New(flatInteraction(), 1, bxdf.NewLambertian(core.NewColorGray(0.8)))
	outgoing := core.NewVec3(0.2, 0, 0.98).Normalize()
	below := core.NewVec3(0.2, 0, -0.98).Normalize()

	assert.True(t, b.Evaluate(bxdf.All, outgoing, below).IsBlack())
	assert.Zero(t, b.PDF(bxdf.All, outgoing, below))
}

func TestBSDF_NoMatchingLobes(t *testing.T) {
	b := New(flatInteraction(), 1, bxdf.NewLambertian(core.NewColorGray(0.8)))
	outgoing := core.NewVec3(0, 0, 1)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	_, ok := b.Sample(bxdf.AllSpecular, outgoing, sampler)
	assert.False(t, ok, "no lobe matches a specular-only request")
}

func TestBSDF_DegenerateOutgoing(t *testing.T) {
	b := New(flatInteraction(), 1, bxdf.NewLambertian(core.NewColorGray(0.8)))
	grazing := core.NewVec3(1, 0, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	_, ok := b.Sample(bxdf.All, grazing, sampler)
	assert.False(t, ok, "zero local-z outgoing direction must not sample")
}

func TestBSDF_EtaPassthrough(t *testing.T) {
	b := New(flatInteraction(), 1.5,
		bxdf.NewSpecularTransmission(core.White, 1.0, 1.5))
	assert.Equal(t, 1.5, b.Eta())
}

package bxdf

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arvhem/go-bsdf/pkg/core"
)

func TestOrenNayar_ZeroSigmaReducesToLambertian(t *testing.T) {
	reflectance := core.NewColor(0.6, 0.5, 0.4)
	orenNayar := NewOrenNayar(reflectance, 0)
	lambertian := NewLambertian(reflectance)

	normal := core.NewVec3(0, 0, 1)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	basis := core.NewOrthonormalBasis(normal)

	for i := 0; i < 100; i++ {
		outgoing := basis.ToWorld(core.SampleUniformHemisphere(sampler.Get2D()))
		incoming := basis.ToWorld(core.SampleUniformHemisphere(sampler.Get2D()))

		a := Evaluate(orenNayar, outgoing, normal, incoming)
		b := Evaluate(lambertian, outgoing, normal, incoming)
		if !a.ApproxEqual(b, 1e-12) {
			t.Fatalf("sigma=0 should match Lambertian: %v vs %v", a, b)
		}
	}
}

func TestOrenNayar_PrecomputedTerms(t *testing.T) {
	sigma := 0.35
	sigma2 := sigma * sigma
	lobe := NewOrenNayar(core.White, sigma)

	expectedA := 1 - sigma2/(2*(sigma2+0.33))
	expectedB := 0.45 * sigma2 / (sigma2 + 0.09)
	if math.Abs(lobe.A-expectedA) > 1e-12 || math.Abs(lobe.B-expectedB) > 1e-12 {
		t.Errorf("A/B terms: got (%f, %f), expected (%f, %f)", lobe.A, lobe.B, expectedA, expectedB)
	}
}

func TestOrenNayar_Reciprocity(t *testing.T) {
	lobe := NewOrenNayar(core.NewColor(0.7, 0.7, 0.7), 0.5)
	normal := core.NewVec3(0, 0, 1)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	basis := core.NewOrthonormalBasis(normal)

	for i := 0; i < 100; i++ {
		a := basis.ToWorld(core.SampleUniformHemisphere(sampler.Get2D()))
		b := basis.ToWorld(core.SampleUniformHemisphere(sampler.Get2D()))

		forward := Evaluate(lobe, a, normal, b)
		backward := Evaluate(lobe, b, normal, a)
		if !forward.ApproxEqual(backward, 1e-9) {
			t.Fatalf("reciprocity violated: %v vs %v", forward, backward)
		}
	}
}

func TestOrenNayar_OppositeHemisphereIsBlack(t *testing.T) {
	lobe := NewOrenNayar(core.White, 0.3)
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.3, 0, 1).Normalize()
	incoming := core.NewVec3(0.3, 0, -1).Normalize()

	if value := Evaluate(lobe, outgoing, normal, incoming); !value.IsBlack() {
		t.Errorf("evaluate across hemispheres: got %v", value)
	}
	if pdf := PDF(lobe, outgoing, normal, incoming); pdf != 0 {
		t.Errorf("pdf across hemispheres: got %f", pdf)
	}
}

func TestOrenNayar_SamplePDFConsistency(t *testing.T) {
	lobe := NewOrenNayar(core.NewColorGray(0.8), 0.4)
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.5, -0.1, 0.85).Normalize()
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 200; i++ {
		result, ok := Sample(lobe, outgoing, normal, sampler.Get2D(), sampler)
		if !ok {
			t.Fatal("sampling should not fail for a valid outgoing direction")
		}
		pdf := PDF(lobe, outgoing, normal, result.Incoming)
		if math.Abs(pdf-result.PDF) > 1e-9 {
			t.Fatalf("pdf mismatch: sampled %f, queried %f", result.PDF, pdf)
		}
	}
}

func TestOrenNayar_RoughnessIncreasesGrazingResponse(t *testing.T) {
	// The roughness correction brightens aligned grazing configurations
	// relative to Lambertian at equal reflectance
	rough := NewOrenNayar(core.White, 0.6)
	normal := core.NewVec3(0, 0, 1)
	outgoing := core.NewVec3(0.9, 0, 0.436).Normalize()
	incoming := core.NewVec3(0.9, 0.05, 0.43).Normalize()

	factor := rough.roughnessFactor(outgoing, normal, incoming)
	if factor <= rough.A {
		t.Errorf("aligned grazing factor %f should exceed A=%f", factor, rough.A)
	}
}

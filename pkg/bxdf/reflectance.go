package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// Monte-Carlo reflectance estimators for offline material validation.
// Samples whose density is non-positive or whose result is non-finite
// contribute zero, matching how an integrator folds degenerate samples
// into the estimate.

// RhoHD estimates the directional-hemispherical reflectance of a lobe for
// one fixed outgoing direction: the fraction of radiance arriving from
// that direction scattered anywhere into the hemisphere.
func RhoHD(b BxDF, outgoing, normal core.Vec3, samples []core.Vec2, rr core.Sampler) core.Color {
	if len(samples) == 0 {
		return core.Black
	}
	sum := core.Black
	for _, u := range samples {
		result, ok := Sample(b, outgoing, normal, u, rr)
		if !ok || result.PDF <= 0 || !result.IsValid() {
			continue
		}
		cosTheta := math.Abs(result.Incoming.Dot(normal))
		sum = sum.Add(result.Color.Multiply(cosTheta / result.PDF))
	}
	return sum.Divide(float64(len(samples)))
}

// RhoHH estimates the hemispherical-hemispherical reflectance of a lobe
// from two independent sample sets: outgoing directions drawn uniformly
// over the hemisphere, incoming directions drawn from the lobe itself.
func RhoHH(b BxDF, normal core.Vec3, samples1, samples2 []core.Vec2, rr core.Sampler) core.Color {
	n := len(samples1)
	if len(samples2) < n {
		n = len(samples2)
	}
	if n == 0 {
		return core.Black
	}

	basis := core.NewOrthonormalBasis(normal)
	sum := core.Black
	for i := 0; i < n; i++ {
		outgoing := basis.ToWorld(core.SampleUniformHemisphere(samples1[i]))
		result, ok := Sample(b, outgoing, normal, samples2[i], rr)
		if !ok || result.PDF <= 0 || !result.IsValid() {
			continue
		}
		cosThetaO := math.Abs(outgoing.Dot(normal))
		cosThetaI := math.Abs(result.Incoming.Dot(normal))
		sum = sum.Add(result.Color.Multiply(cosThetaO * cosThetaI / (core.UniformHemispherePDF * result.PDF)))
	}
	return sum.Divide(math.Pi * float64(n))
}

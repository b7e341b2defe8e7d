package bxdf

import (
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// fresnelDielectric computes the unpolarized reflectance of a dielectric
// interface from the exact Fresnel equations. cosThetaI must be the
// non-negative cosine on the incident side.
func fresnelDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = math.Min(cosThetaI, 1)
	sinThetaI := math.Sqrt(math.Max(0, 1-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		// Total internal reflection
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1-sinThetaT*sinThetaT))

	rParallel := (etaT*cosThetaI - etaI*cosThetaT) / (etaT*cosThetaI + etaI*cosThetaT)
	rPerpendicular := (etaI*cosThetaI - etaT*cosThetaT) / (etaI*cosThetaI + etaT*cosThetaT)
	return (rParallel*rParallel + rPerpendicular*rPerpendicular) / 2
}

// schlickFresnel approximates Fresnel reflectance from a base reflectance
// color and the cosine between the incident direction and the half vector
func schlickFresnel(base core.Color, cosTheta float64) core.Color {
	weight := math.Pow(1-math.Min(math.Abs(cosTheta), 1), 5)
	return base.Add(core.White.Subtract(base).Multiply(weight))
}

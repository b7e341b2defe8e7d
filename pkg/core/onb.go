package core

import "math"

// OrthonormalBasis defines a local shading frame at a surface point.
// Local space maps X to Tangent, Y to Bitangent, and Z to Normal, so a
// direction's local Z component is the cosine of its polar angle.
type OrthonormalBasis struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// NewOrthonormalBasis builds a frame around a unit normal.
// The tangent is derived from whichever world axis is least aligned with
// the normal, so the construction never degenerates for unit input.
func NewOrthonormalBasis(normal Vec3) OrthonormalBasis {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)
	return OrthonormalBasis{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// NewOrthonormalBasisFromTangent builds a frame around a unit normal with
// the tangent aligned to the given hint, orthogonalized against the normal.
// Falls back to NewOrthonormalBasis when the hint is parallel to the normal.
func NewOrthonormalBasisFromTangent(normal, tangentHint Vec3) OrthonormalBasis {
	tangent := tangentHint.Subtract(normal.Multiply(tangentHint.Dot(normal)))
	if tangent.LengthSquared() < 1e-12 {
		return NewOrthonormalBasis(normal)
	}
	tangent = tangent.Normalize()
	bitangent := normal.Cross(tangent)
	return OrthonormalBasis{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// ToWorld transforms a local-space direction into world space
func (b OrthonormalBasis) ToWorld(local Vec3) Vec3 {
	return b.Tangent.Multiply(local.X).
		Add(b.Bitangent.Multiply(local.Y)).
		Add(b.Normal.Multiply(local.Z))
}

// ToLocal transforms a world-space direction into the local frame
func (b OrthonormalBasis) ToLocal(world Vec3) Vec3 {
	return NewVec3(world.Dot(b.Tangent), world.Dot(b.Bitangent), world.Dot(b.Normal))
}

// CosTheta returns the cosine of the polar angle of a local-space direction
func CosTheta(w Vec3) float64 {
	return w.Z
}

// AbsCosTheta returns the absolute cosine of the polar angle
func AbsCosTheta(w Vec3) float64 {
	return math.Abs(w.Z)
}

// Sin2Theta returns the squared sine of the polar angle
func Sin2Theta(w Vec3) float64 {
	return math.Max(0, 1-w.Z*w.Z)
}

// SinTheta returns the sine of the polar angle
func SinTheta(w Vec3) float64 {
	return math.Sqrt(Sin2Theta(w))
}

// TanTheta returns the tangent of the polar angle
func TanTheta(w Vec3) float64 {
	return SinTheta(w) / CosTheta(w)
}

// CosPhi returns the cosine of the azimuthal angle of a local-space direction
func CosPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 1
	}
	return math.Max(-1, math.Min(1, w.X/sinTheta))
}

// SinPhi returns the sine of the azimuthal angle of a local-space direction
func SinPhi(w Vec3) float64 {
	sinTheta := SinTheta(w)
	if sinTheta == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, w.Y/sinTheta))
}

package bxdf

import (
	"fmt"
	"math"

	"github.com/arvhem/go-bsdf/pkg/core"
)

// FourierTable is a precomputed tabulation of a scattering distribution:
// per direction-pair Fourier coefficients over the azimuthal difference,
// laid out on a grid of polar-angle cosines. The table is immutable after
// construction and safe to share across goroutines; Fourier lobes hold a
// reference, never a copy.
//
// Coefficients store the scattering value premultiplied by |μ_incoming|;
// evaluation divides it back out. For three channels the per-pair layout
// is luminance, red, blue; green is reconstructed from the three.
type FourierTable struct {
	Eta       float64   // relative index of refraction across the interface
	MMax      int       // largest Fourier order in the table
	NChannels int       // 1 (luminance) or 3 (luminance, red, blue)
	NMu       int       // number of μ grid nodes
	Mu        []float64 // μ nodes, ascending in [-1, 1]
	M         []int     // per-pair order count, row-major [NMu][NMu]
	AOffset   []int     // per-pair offset into A, row-major [NMu][NMu]
	A         []float64 // packed coefficients, NChannels·M[i] per pair

	// derived at construction
	a0    []float64 // order-0 luminance per pair, the sampling marginal
	cdf   []float64 // running integral of a0 over μ_incoming per μ_outgoing row
	recip []float64 // reciprocals 1/k for the azimuthal inversion
}

// NewFourierTable validates the raw tabulation and precomputes the
// sampling CDF and order reciprocals
func NewFourierTable(eta float64, nChannels int, mu []float64, m []int, aOffset []int, a []float64) (*FourierTable, error) {
	nMu := len(mu)
	if nMu < 2 {
		return nil, fmt.Errorf("fourier table: need at least 2 mu nodes, got %d", nMu)
	}
	if nChannels != 1 && nChannels != 3 {
		return nil, fmt.Errorf("fourier table: unsupported channel count %d", nChannels)
	}
	if len(m) != nMu*nMu || len(aOffset) != nMu*nMu {
		return nil, fmt.Errorf("fourier table: order/offset arrays must be %d entries", nMu*nMu)
	}
	for i := 1; i < nMu; i++ {
		if mu[i] <= mu[i-1] {
			return nil, fmt.Errorf("fourier table: mu nodes must be strictly increasing")
		}
	}

	mMax := 0
	for i, order := range m {
		if order < 0 || aOffset[i] < 0 || aOffset[i]+nChannels*order > len(a) {
			return nil, fmt.Errorf("fourier table: pair %d references coefficients out of range", i)
		}
		if order > mMax {
			mMax = order
		}
	}
	if mMax == 0 {
		return nil, fmt.Errorf("fourier table: no pair carries coefficients")
	}

	t := &FourierTable{
		Eta:       eta,
		MMax:      mMax,
		NChannels: nChannels,
		NMu:       nMu,
		Mu:        mu,
		M:         m,
		AOffset:   aOffset,
		A:         a,
		a0:        make([]float64, nMu*nMu),
		cdf:       make([]float64, nMu*nMu),
		recip:     make([]float64, mMax),
	}
	for pair := range t.a0 {
		if m[pair] > 0 {
			t.a0[pair] = a[aOffset[pair]]
		}
	}
	for o := 0; o < nMu; o++ {
		row := t.a0[o*nMu : (o+1)*nMu]
		integrateCatmullRom(mu, row, t.cdf[o*nMu:(o+1)*nMu])
	}
	for k := 1; k < mMax; k++ {
		t.recip[k] = 1 / float64(k)
	}
	return t, nil
}

// coefficients returns the packed coefficient block and order for one
// (incoming, outgoing) node pair
func (t *FourierTable) coefficients(offsetI, offsetO int) ([]float64, int) {
	pair := offsetO*t.NMu + offsetI
	order := t.M[pair]
	start := t.AOffset[pair]
	return t.A[start : start+t.NChannels*order], order
}

// NewLambertianFourierTable builds a table equivalent to a Lambertian
// reflector with the given reflectance, on a uniform μ grid. Used for
// validation: the tabulated model must reproduce the analytic lobe.
func NewLambertianFourierTable(nMu int, reflectance float64) (*FourierTable, error) {
	mu := make([]float64, nMu)
	for i := range mu {
		mu[i] = -1 + 2*float64(i)/float64(nMu-1)
	}
	m := make([]int, nMu*nMu)
	aOffset := make([]int, nMu*nMu)
	var a []float64
	for o := 0; o < nMu; o++ {
		for i := 0; i < nMu; i++ {
			pair := o*nMu + i
			aOffset[pair] = len(a)
			// Reflection pairs have opposite-signed cosines in the
			// table's propagation-direction convention
			if mu[i]*mu[o] < 0 {
				m[pair] = 1
				a = append(a, reflectance/math.Pi*math.Abs(mu[i]))
			}
		}
	}
	return NewFourierTable(1, 1, mu, m, aOffset, a)
}

// fourierSum evaluates a truncated cosine series with the Chebyshev
// recurrence for cos(kφ)
func fourierSum(a []float64, m int, cosPhi float64) float64 {
	value := 0.0
	cosKMinusOne, cosK := 0.0, 1.0
	for k := 0; k < m; k++ {
		value += a[k] * cosK
		cosKPlusOne := 2*cosPhi*cosK - cosKMinusOne
		cosKMinusOne, cosK = cosK, cosKPlusOne
	}
	return value
}

// sampleFourierPhi draws an azimuthal offset proportional to the series,
// inverting its integral with bracketed Newton iterations. Returns the
// series value at φ, the conditional density over φ, and φ itself.
func sampleFourierPhi(ak, recip []float64, m int, u float64) (value, pdf, phi float64) {
	// Exploit the even symmetry of the series about φ = π
	flip := u >= 0.5
	if flip {
		u = 1 - 2*(u-0.5)
	} else {
		u *= 2
	}

	lo, hi := 0.0, math.Pi
	phi = 0.5 * math.Pi
	var integral, f float64
	for {
		cosPhi := math.Cos(phi)
		sinPhi := math.Sqrt(math.Max(0, 1-cosPhi*cosPhi))
		cosPhiPrev, cosPhiCur := cosPhi, 1.0
		sinPhiPrev, sinPhiCur := -sinPhi, 0.0

		integral = ak[0] * phi
		f = ak[0]
		for k := 1; k < m; k++ {
			sinPhiNext := 2*cosPhi*sinPhiCur - sinPhiPrev
			cosPhiNext := 2*cosPhi*cosPhiCur - cosPhiPrev
			sinPhiPrev, sinPhiCur = sinPhiCur, sinPhiNext
			cosPhiPrev, cosPhiCur = cosPhiCur, cosPhiNext

			integral += ak[k] * recip[k] * sinPhiNext
			f += ak[k] * cosPhiNext
		}
		integral -= u * ak[0] * math.Pi

		if integral > 0 {
			hi = phi
		} else {
			lo = phi
		}
		if math.Abs(integral) < 1e-6*math.Abs(ak[0]) || hi-lo < 1e-6 {
			break
		}
		if f > 0 {
			phi -= integral / f
		}
		if !(phi > lo && phi < hi) {
			phi = 0.5 * (lo + hi)
		}
	}
	if flip {
		phi = 2*math.Pi - phi
	}
	return f, f / (2 * math.Pi * ak[0]), phi
}

// Fourier reconstructs a scattering distribution from a shared FourierTable.
// It covers both hemispheres: reflection and transmission pairs are encoded
// in the table itself.
type Fourier struct {
	Table *FourierTable
}

// NewFourier creates a tabulated lobe referencing (not copying) the table
func NewFourier(table *FourierTable) *Fourier {
	return &Fourier{Table: table}
}

// Type implements the BxDF interface
func (f *Fourier) Type() Type { return Reflection | Transmission | Glossy }

func (f *Fourier) isBxDF() {}

// tableAngles converts a direction pair into the table parameterization:
// μ of the incident propagation direction, μ of the outgoing direction,
// and the cosine of their azimuthal difference
func (f *Fourier) tableAngles(outgoing, normal, incoming core.Vec3) (muI, muO, cosPhi float64) {
	muI = -incoming.Dot(normal)
	muO = outgoing.Dot(normal)

	// Azimuth difference of the incident propagation direction and the
	// outgoing direction, from their tangential components
	tanO := outgoing.Subtract(normal.Multiply(muO))
	tanI := incoming.Negate().Subtract(normal.Multiply(muI))
	if tanO.LengthSquared() < 1e-12 || tanI.LengthSquared() < 1e-12 {
		return muI, muO, 1
	}
	cosPhi = math.Max(-1, math.Min(1, tanO.Normalize().Dot(tanI.Normalize())))
	return muI, muO, cosPhi
}

// accumulateCoefficients blends the coefficient blocks of the 16
// surrounding node pairs into ak, returning the largest contributing order
func (f *Fourier) accumulateCoefficients(muI, muO float64) (ak []float64, mMax int, ok bool) {
	t := f.Table
	offsetI, weightsI, okI := catmullRomWeights(t.Mu, muI)
	offsetO, weightsO, okO := catmullRomWeights(t.Mu, muO)
	if !okI || !okO {
		return nil, 0, false
	}

	ak = make([]float64, t.MMax*t.NChannels)
	for b := 0; b < 4; b++ {
		for a := 0; a < 4; a++ {
			weight := weightsI[a] * weightsO[b]
			if weight == 0 {
				continue
			}
			oi, oo := offsetI+a, offsetO+b
			if oi < 0 || oi >= t.NMu || oo < 0 || oo >= t.NMu {
				continue
			}
			coeffs, order := t.coefficients(oi, oo)
			if order > mMax {
				mMax = order
			}
			for c := 0; c < t.NChannels; c++ {
				for k := 0; k < order; k++ {
					ak[c*t.MMax+k] += weight * coeffs[c*order+k]
				}
			}
		}
	}
	return ak, mMax, true
}

// reconstruct turns accumulated coefficients into an RGB value at the
// given azimuthal cosine, applying the 1/|μ| and η² scale factors
func (f *Fourier) reconstruct(ak []float64, mMax int, muI, muO, cosPhi float64) core.Color {
	t := f.Table
	y := math.Max(0, fourierSum(ak[:t.MMax], mMax, cosPhi))

	scale := 0.0
	if muI != 0 {
		scale = 1 / math.Abs(muI)
	}
	// Radiance transport compresses solid angle across the interface by
	// the squared relative index of refraction
	if muI*muO > 0 {
		eta := t.Eta
		if muI > 0 {
			eta = 1 / t.Eta
		}
		scale *= eta * eta
	}

	if t.NChannels == 1 {
		return core.NewColorGray(y * scale)
	}
	r := fourierSum(ak[t.MMax:2*t.MMax], mMax, cosPhi)
	b := fourierSum(ak[2*t.MMax:3*t.MMax], mMax, cosPhi)
	g := 1.39829*y - 0.100913*b - 0.297375*r
	return core.NewColor(r*scale, g*scale, b*scale).Saturate(0, math.Inf(1))
}

func (f *Fourier) evaluate(outgoing, normal, incoming core.Vec3) core.Color {
	muI, muO, cosPhi := f.tableAngles(outgoing, normal, incoming)
	ak, mMax, ok := f.accumulateCoefficients(muI, muO)
	if !ok || mMax == 0 {
		return core.Black
	}
	return f.reconstruct(ak, mMax, muI, muO, cosPhi)
}

func (f *Fourier) pdf(outgoing, normal, incoming core.Vec3) float64 {
	t := f.Table
	muI, muO, cosPhi := f.tableAngles(outgoing, normal, incoming)

	offsetO, weightsO, okO := catmullRomWeights(t.Mu, muO)
	if !okO {
		return 0
	}
	ak, mMax, ok := f.accumulateCoefficients(muI, muO)
	if !ok || mMax == 0 {
		return 0
	}

	// Normalize the luminance series by the row integral of the marginal
	rho := 0.0
	for b := 0; b < 4; b++ {
		if weightsO[b] == 0 {
			continue
		}
		oo := offsetO + b
		if oo < 0 || oo >= t.NMu {
			continue
		}
		rho += weightsO[b] * t.cdf[oo*t.NMu+t.NMu-1] * (2 * math.Pi)
	}

	y := fourierSum(ak[:t.MMax], mMax, cosPhi)
	if rho <= 0 || y <= 0 {
		return 0
	}
	return y / rho
}

func (f *Fourier) sample(outgoing, normal core.Vec3, u core.Vec2) (SampleResult, bool) {
	t := f.Table
	muO := outgoing.Dot(normal)
	if muO == 0 {
		return SampleResult{}, false
	}

	muI, _, pdfMu, ok := sampleCatmullRom2D(t.Mu, t.Mu, t.a0, t.cdf, muO, u.Y)
	if !ok {
		return SampleResult{}, false
	}

	ak, mMax, ok := f.accumulateCoefficients(muI, muO)
	if !ok || mMax == 0 || ak[0] <= 0 {
		return SampleResult{}, false
	}
	_, pdfPhi, phi := sampleFourierPhi(ak[:t.MMax], t.recip, mMax, u.X)

	pdf := math.Max(0, pdfMu*pdfPhi)
	if pdf <= 0 {
		return SampleResult{}, false
	}

	// Rebuild the incident direction from (μ_incoming, φ) relative to the
	// outgoing direction's azimuth, then negate: the table parameterizes
	// the propagation direction, the result points away from the surface
	basis := core.NewOrthonormalBasis(normal)
	woLocal := basis.ToLocal(outgoing)
	sin2ThetaI := math.Max(0, 1-muI*muI)
	norm := math.Sqrt(sin2ThetaI / core.Sin2Theta(woLocal))
	if math.IsInf(norm, 0) || math.IsNaN(norm) {
		norm = 0
	}
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	wiLocal := core.NewVec3(
		norm*(cosPhi*woLocal.X-sinPhi*woLocal.Y),
		norm*(sinPhi*woLocal.X+cosPhi*woLocal.Y),
		muI,
	).Negate().Normalize()
	incoming := basis.ToWorld(wiLocal)

	return SampleResult{
		Color:    f.reconstruct(ak, mMax, muI, muO, cosPhi),
		Incoming: incoming,
		Outgoing: outgoing,
		PDF:      pdf,
		Type:     f.Type(),
	}, true
}

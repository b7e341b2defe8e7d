package bxdf

import "math"

// Catmull-Rom spline helpers backing the Fourier table: node-weight
// computation for bilinear reconstruction, definite integration for the
// sampling CDF, and inversion of a 2D conditional CDF.

// findInterval returns the largest index i in [0, n-2] with nodes[i] <= x,
// assuming nodes is sorted ascending
func findInterval(nodes []float64, x float64) int {
	first, length := 0, len(nodes)
	for length > 0 {
		half := length / 2
		middle := first + half
		if nodes[middle] <= x {
			first = middle + 1
			length -= half + 1
		} else {
			length = half
		}
	}
	i := first - 1
	if i < 0 {
		i = 0
	}
	if i > len(nodes)-2 {
		i = len(nodes) - 2
	}
	return i
}

// catmullRomWeights computes the four node weights that reconstruct the
// spline value at x. Returns false when x lies outside the node range.
func catmullRomWeights(nodes []float64, x float64) (offset int, weights [4]float64, ok bool) {
	if x < nodes[0] || x > nodes[len(nodes)-1] {
		return 0, weights, false
	}

	i := findInterval(nodes, x)
	offset = i - 1
	x0, x1 := nodes[i], nodes[i+1]

	t := (x - x0) / (x1 - x0)
	t2 := t * t
	t3 := t2 * t

	weights[1] = 2*t3 - 3*t2 + 1
	weights[2] = -2*t3 + 3*t2

	// One-sided derivative estimates at the segment endpoints
	if i > 0 {
		w0 := (t3 - 2*t2 + t) * (x1 - x0) / (x1 - nodes[i-1])
		weights[0] = -w0
		weights[2] += w0
	} else {
		w0 := t3 - 2*t2 + t
		weights[0] = 0
		weights[1] -= w0
		weights[2] += w0
	}
	if i+2 < len(nodes) {
		w3 := (t3 - t2) * (x1 - x0) / (nodes[i+2] - x0)
		weights[1] -= w3
		weights[3] = w3
	} else {
		w3 := t3 - t2
		weights[1] -= w3
		weights[2] += w3
		weights[3] = 0
	}

	return offset, weights, true
}

// integrateCatmullRom writes the running integral of the spline through
// (x[i], values[i]) into cdf and returns the total integral
func integrateCatmullRom(x, values, cdf []float64) float64 {
	sum := 0.0
	cdf[0] = 0
	for i := 0; i < len(x)-1; i++ {
		x0, x1 := x[i], x[i+1]
		f0, f1 := values[i], values[i+1]
		width := x1 - x0

		var d0, d1 float64
		if i > 0 {
			d0 = width * (f1 - values[i-1]) / (x1 - x[i-1])
		} else {
			d0 = f1 - f0
		}
		if i+2 < len(x) {
			d1 = width * (values[i+2] - f0) / (x[i+2] - x0)
		} else {
			d1 = f1 - f0
		}

		sum += ((d0-d1)*(1.0/12.0) + (f0+f1)*0.5) * width
		cdf[i+1] = sum
	}
	return sum
}

// sampleCatmullRom2D inverts the conditional CDF over the second dimension
// of a 2D tabulated function, with the first dimension fixed at alpha.
// values and cdf are row-major [len(nodes1)][len(nodes2)]. Returns the
// sampled position, the function value there, and the conditional density.
func sampleCatmullRom2D(nodes1, nodes2, values, cdf []float64, alpha, u float64) (sample, fval, pdf float64, ok bool) {
	offset, weights, wok := catmullRomWeights(nodes1, alpha)
	if !wok {
		return 0, 0, 0, false
	}

	size2 := len(nodes2)
	interpolate := func(array []float64, idx int) float64 {
		value := 0.0
		for i := 0; i < 4; i++ {
			if weights[i] != 0 {
				value += array[(offset+i)*size2+idx] * weights[i]
			}
		}
		return value
	}

	maximum := interpolate(cdf, size2-1)
	if maximum <= 0 {
		return 0, 0, 0, false
	}
	u *= maximum

	// Locate the CDF segment containing u
	idx := 0
	first, length := 0, size2
	for length > 0 {
		half := length / 2
		middle := first + half
		if interpolate(cdf, middle) <= u {
			first = middle + 1
			length -= half + 1
		} else {
			length = half
		}
	}
	idx = first - 1
	if idx < 0 {
		idx = 0
	}
	if idx > size2-2 {
		idx = size2 - 2
	}

	f0, f1 := interpolate(values, idx), interpolate(values, idx+1)
	x0, x1 := nodes2[idx], nodes2[idx+1]
	width := x1 - x0

	u = (u - interpolate(cdf, idx)) / width

	var d0, d1 float64
	if idx > 0 {
		d0 = width * (f1 - interpolate(values, idx-1)) / (x1 - nodes2[idx-1])
	} else {
		d0 = f1 - f0
	}
	if idx+2 < size2 {
		d1 = width * (interpolate(values, idx+2) - f0) / (nodes2[idx+2] - x0)
	} else {
		d1 = f1 - f0
	}

	// Invert the definite integral over the segment with Newton iterations
	// bracketed by bisection
	var t float64
	if f0 != f1 {
		t = (f0 - math.Sqrt(math.Max(0, f0*f0+2*u*(f1-f0)))) / (f0 - f1)
	} else if f0 != 0 {
		t = u / f0
	} else {
		t = 0.5
	}

	a, b := 0.0, 1.0
	var fHat, integralHat float64
	for {
		if !(t >= a && t <= b) {
			t = 0.5 * (a + b)
		}
		integralHat = t * (f0 + t*(0.5*d0+t*((1.0/3.0)*(-2*d0-d1)+f1-f0+t*(0.25*(d0+d1)+0.5*(f0-f1)))))
		fHat = f0 + t*(d0+t*(-2*d0-d1+3*(f1-f0)+t*(d0+d1+2*(f0-f1))))

		if math.Abs(integralHat-u) < 1e-6 || b-a < 1e-6 {
			break
		}
		if integralHat-u < 0 {
			a = t
		} else {
			b = t
		}
		if fHat != 0 {
			t -= (integralHat - u) / fHat
		} else {
			t = 0.5 * (a + b)
		}
	}

	return x0 + width*t, fHat, fHat / maximum, true
}

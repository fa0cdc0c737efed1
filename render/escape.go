package render

import "math/cmplx"

// escapeRadius bounds the orbit; once |z| reaches it the point is known to escape.
const escapeRadius = 2.0

// Escape returns the escape iteration count of pixel (x, y) in a width x height frame.
//
// The frame is mapped onto re in [-1.5, 1.5), im in [-1, 1). The count is the index of the
// last iteration step taken before the escape check fired, so points that never escape
// get maxIter-1 and the result is always in [0, maxIter).
func Escape(c complex128, x, y, width, height, maxIter int) int {
	w := float64(width)
	h := float64(height)

	// scale and translate the pixel into the complex plane
	z := complex(
		3.0*(float64(x)-0.5*w)/w,
		2.0*(float64(y)-0.5*h)/h,
	)

	i := 0
	for t := 0; t < maxIter; t++ {
		if cmplx.Abs(z) >= escapeRadius {
			break
		}
		z = z*z + c
		i = t
	}
	return i
}

// Wavelength maps an iteration count onto the visible range used by the gradient.
func Wavelength(iter, maxIter int) int {
	return 380 + iter*400/maxIter
}

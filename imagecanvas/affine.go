package imagecanvas

import "golang.org/x/image/math/f64"

// mul returns a∘b: the transform that applies b, then a.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func translate(dx, dy float64) f64.Aff3 { return f64.Aff3{1, 0, dx, 0, 1, dy} }
func scale(sx, sy float64) f64.Aff3     { return f64.Aff3{sx, 0, 0, 0, sy, 0} }

func apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// invert returns the inverse of m, or false if m is singular.
func invert(m f64.Aff3) (f64.Aff3, bool) {
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 {
		return f64.Aff3{}, false
	}
	inv := 1 / det
	return f64.Aff3{
		m[4] * inv, -m[1] * inv, (m[1]*m[5] - m[4]*m[2]) * inv,
		-m[3] * inv, m[0] * inv, (m[3]*m[2] - m[0]*m[5]) * inv,
	}, true
}

// axisAligned reports whether m maps rectangles to rectangles.
func axisAligned(m f64.Aff3) bool { return m[1] == 0 && m[3] == 0 }

package engine

// region is a free rectangle in corner-pair form. Invariant: x1 >= x0 and
// y1 >= y0; zero-area regions are degenerate but representable.
type region struct {
	x0, y0, x1, y1 float64
}

func (r region) width() float64  { return r.x1 - r.x0 }
func (r region) height() float64 { return r.y1 - r.y0 }
func (r region) area() float64   { return r.width() * r.height() }

// intersect returns the overlap of a and b. Boundaries are inclusive:
// regions that merely touch yield a valid zero-width or zero-height
// intersection, and callers must treat those as real.
func intersect(a, b region) (region, bool) {
	r := region{
		x0: max(a.x0, b.x0),
		y0: max(a.y0, b.y0),
		x1: min(a.x1, b.x1),
		y1: min(a.y1, b.y1),
	}
	if r.x0 > r.x1 || r.y0 > r.y1 {
		return region{}, false
	}
	return r, true
}

// contains reports whether outer fully encloses inner, boundaries inclusive.
func contains(outer, inner region) bool {
	return outer.x0 <= inner.x0 && outer.y0 <= inner.y0 &&
		outer.x1 >= inner.x1 && outer.y1 >= inner.y1
}

// spansX reports whether a's horizontal extent covers b's.
func spansX(a, b region) bool { return a.x0 <= b.x0 && a.x1 >= b.x1 }

// spansY reports whether a's vertical extent covers b's.
func spansY(a, b region) bool { return a.y0 <= b.y0 && a.y1 >= b.y1 }

package engine

// packer places blocks into a single bin, tracking free space as a heap of
// possibly overlapping regions. Placement is first-fit: the first region in
// heap order that accommodates the block wins, making heap order the
// implicit tie-break. A packer is ephemeral: one instance per bin per
// attempt, no state shared between instances.
type packer struct {
	width, height float64
	allowRotation bool
	free          []region
}

func newPacker(width, height float64, allowRotation bool) *packer {
	return &packer{width: width, height: height, allowRotation: allowRotation}
}

// fitResult summarizes one bin's packing pass.
type fitResult struct {
	placed    []*block
	remaining []*block
	count     int
	area      float64
}

// fit packs blocks in the given order; ordering is the caller's concern and
// is never changed here. Placed blocks are mutated with their final position
// and bin index; unplaced blocks pass through untouched and become the input
// pool for the next bin.
func (p *packer) fit(blocks []*block, binIndex int) fitResult {
	p.free = append(p.free[:0], region{x1: p.width, y1: p.height})

	var res fitResult
	for _, b := range blocks {
		if b.unpackable {
			res.remaining = append(res.remaining, b)
			continue
		}

		idx := p.findFit(b.width(), b.height())
		if idx < 0 && p.allowRotation && b.normal.w != b.normal.h {
			b.flip()
			if idx = p.findFit(b.width(), b.height()); idx < 0 {
				b.flip()
			}
		}
		if idx < 0 {
			res.remaining = append(res.remaining, b)
			continue
		}

		r := p.free[idx]
		b.x0, b.y0 = r.x0, r.y0
		b.binIndex = binIndex
		b.packed = true
		p.occupy(region{x0: r.x0, y0: r.y0, x1: r.x0 + b.width(), y1: r.y0 + b.height()})

		res.placed = append(res.placed, b)
		res.count++
		res.area += b.area()
	}
	return res
}

// findFit returns the index of the first free region at least w wide and h
// tall, or -1 if none fits.
func (p *packer) findFit(w, h float64) int {
	for i, r := range p.free {
		if r.width() >= w && r.height() >= h {
			return i
		}
	}
	return -1
}

// occupy subtracts used from every free region it intersects. Each affected
// region is replaced by up to four residual slivers: top and bottom span the
// region's full width, left and right its full height, so residuals overlap
// at the corners. Zero-area slivers are omitted. The union pass then prunes
// the heap.
func (p *packer) occupy(used region) {
	var next []region
	for _, r := range p.free {
		if _, ok := intersect(r, used); !ok {
			next = append(next, r)
			continue
		}
		if used.y0 > r.y0 {
			next = append(next, region{x0: r.x0, y0: r.y0, x1: r.x1, y1: used.y0})
		}
		if used.y1 < r.y1 {
			next = append(next, region{x0: r.x0, y0: used.y1, x1: r.x1, y1: r.y1})
		}
		if used.x0 > r.x0 {
			next = append(next, region{x0: r.x0, y0: r.y0, x1: used.x0, y1: r.y1})
		}
		if used.x1 < r.x1 {
			next = append(next, region{x0: used.x1, y0: r.y0, x1: r.x1, y1: r.y1})
		}
	}
	p.free = next
	p.adjust()
}

// adjust is the approximate union pass. A region whose extent is spanned by
// an intersecting neighbor on one axis grows along the other axis to the
// shared extent (the growth is covered by the neighbor, so the heap stays
// conservative); regions contained in another are then dropped. The result
// is valid but not minimal: the heap can stay fragmented where a true
// rectangle union would not be. That approximation is part of the algorithm
// the scoring was tuned against and is kept on purpose.
func (p *packer) adjust() {
	for i := 0; i < len(p.free); i++ {
		for j := 0; j < len(p.free); j++ {
			if i == j {
				continue
			}
			a, b := p.free[i], p.free[j]
			if _, ok := intersect(a, b); !ok {
				continue
			}
			if spansX(a, b) {
				if a.y0 < b.y0 {
					p.free[j].y0 = a.y0
				}
				if a.y1 > b.y1 {
					p.free[j].y1 = a.y1
				}
			}
			if spansY(a, b) {
				if a.x0 < b.x0 {
					p.free[j].x0 = a.x0
				}
				if a.x1 > b.x1 {
					p.free[j].x1 = a.x1
				}
			}
		}
	}

	// Drop regions contained in another, keeping the first of identical pairs.
	kept := make([]region, 0, len(p.free))
	for i, a := range p.free {
		redundant := false
		for j, b := range p.free {
			if i == j {
				continue
			}
			if contains(b, a) && (j < i || !contains(a, b)) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, a)
		}
	}
	p.free = kept
}

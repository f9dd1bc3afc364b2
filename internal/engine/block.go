package engine

import "github.com/nestkit/nestkit/internal/model"

// orientation is one of the two placement footprints of a block. The extent
// includes the baked-in padding; dx/dy re-align a pre-normalized source
// footprint within the bounding box (zero for plain rectangles).
type orientation struct {
	w, h   float64
	dx, dy float64
}

// block is a single packable instance of an item. Dimension data is
// read-only after construction; only the placement fields mutate, and only
// within the attempt that owns the block.
type block struct {
	index int // stable input order, used for tie-breaking and mapping back
	item  model.Item

	normal  orientation
	rotated orientation

	// unpackable marks an instance whose padded extent came out
	// non-positive. It is carried through every bin untouched and always
	// surfaces in the leftovers.
	unpackable bool

	// Placement fields, valid once packed is true.
	x0, y0    float64
	binIndex  int
	isRotated bool
	packed    bool
}

func (b *block) width() float64 {
	if b.isRotated {
		return b.rotated.w
	}
	return b.normal.w
}

func (b *block) height() float64 {
	if b.isRotated {
		return b.rotated.h
	}
	return b.normal.h
}

func (b *block) offsets() (dx, dy float64) {
	if b.isRotated {
		return b.rotated.dx, b.rotated.dy
	}
	return b.normal.dx, b.normal.dy
}

func (b *block) area() float64 {
	return b.width() * b.height()
}

// flip toggles between the normal and rotated footprint.
func (b *block) flip() {
	b.isRotated = !b.isRotated
}

// newBlocks builds a fresh block per expanded item instance. Padding is
// added once to each extent (half on each side, centered). Instances whose
// padded extent is non-positive are flagged unpackable instead of aborting
// the run.
func newBlocks(items []model.Item, padding float64) []*block {
	blocks := make([]*block, len(items))
	for i, it := range items {
		w := it.Width + padding
		h := it.Height + padding
		blocks[i] = &block{
			index:      i,
			item:       it,
			normal:     orientation{w: w, h: h, dx: it.OffsetX, dy: it.OffsetY},
			rotated:    orientation{w: h, h: w, dx: it.RotOffsetX, dy: it.RotOffsetY},
			unpackable: w <= 0 || h <= 0,
			binIndex:   -1,
		}
	}
	return blocks
}

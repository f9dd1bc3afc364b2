package engine

import (
	"math/rand"
	"sort"
)

// Ordering strategies, selected by attempt index. Every index past the
// deterministic set is a fresh random permutation.
const (
	sortAreaDesc = iota
	sortMaxSideDesc
	sortWidthDesc
	sortHeightDesc
	sortInterleaved
	numDeterministicSorts
)

// sortLabel names a strategy for diagnostics.
func sortLabel(strategy int) string {
	switch strategy {
	case sortAreaDesc:
		return "area desc"
	case sortMaxSideDesc:
		return "longest side desc"
	case sortWidthDesc:
		return "width desc"
	case sortHeightDesc:
		return "height desc"
	case sortInterleaved:
		return "interleaved"
	default:
		return "random"
	}
}

// orderBlocks reorders blocks in place for one attempt. The deterministic
// strategies use stable sorts so tie order is reproducible for a fixed input
// order; random strategies draw a Fisher-Yates shuffle from the attempt's
// own source. Comparators read the normal orientation only.
func orderBlocks(blocks []*block, strategy int, rng *rand.Rand) {
	switch strategy {
	case sortAreaDesc:
		sortByAreaDesc(blocks)
	case sortMaxSideDesc:
		sort.SliceStable(blocks, func(i, j int) bool {
			return maxSide(blocks[i]) > maxSide(blocks[j])
		})
	case sortWidthDesc:
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].normal.w > blocks[j].normal.w
		})
	case sortHeightDesc:
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].normal.h > blocks[j].normal.h
		})
	case sortInterleaved:
		interleave(blocks)
	default:
		rng.Shuffle(len(blocks), func(i, j int) {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		})
	}
}

func sortByAreaDesc(blocks []*block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].normal.w*blocks[i].normal.h > blocks[j].normal.w*blocks[j].normal.h
	})
}

func maxSide(b *block) float64 {
	return max(b.normal.w, b.normal.h)
}

// interleave sorts by area descending, splits the list into a larger and a
// smaller half (the larger half takes the extra element on odd counts), then
// zips them alternately starting with the larger half. Mixing small items in
// between large ones lets them fill the slivers the large ones leave behind.
func interleave(blocks []*block) {
	sortByAreaDesc(blocks)
	mid := (len(blocks) + 1) / 2
	larger := append([]*block(nil), blocks[:mid]...)
	smaller := append([]*block(nil), blocks[mid:]...)

	k := 0
	for i := 0; i < mid; i++ {
		blocks[k] = larger[i]
		k++
		if i < len(smaller) {
			blocks[k] = smaller[i]
			k++
		}
	}
}

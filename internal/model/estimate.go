package model

import "math"

// BinEstimate holds the results of a bin purchasing calculation. It is a
// quick area-based estimate, not a packing: the real bin count can only be
// determined by running the optimizer.
type BinEstimate struct {
	TotalItemArea  float64 `json:"total_item_area"`  // all instances, padding included
	BinArea        float64 `json:"bin_area"`         // area of one bin
	BinsNeededMin  int     `json:"bins_needed_min"`  // ceiling of the exact fraction
	BinsNeededEst  float64 `json:"bins_needed_est"`  // exact fractional bin count
	BinsWithWaste  int     `json:"bins_with_waste"`  // recommended count including waste factor
	WastePercent   float64 `json:"waste_percent"`    // waste factor applied (e.g. 15 for 15%)
	EstimatedCost  float64 `json:"estimated_cost"`   // total cost if pricing available
	PricePerBin    float64 `json:"price_per_bin"`    // price used for estimation
	PaddingApplied float64 `json:"padding_applied"`  // padding used in the calculation
}

// EstimateBins computes how many bins of the given size a cut list is likely
// to need. Padding is charged once per instance, matching how the packer
// inflates each block.
func EstimateBins(items []Item, binWidth, binHeight, padding, wastePercent, pricePerBin float64) BinEstimate {
	var totalItemArea float64
	for _, it := range items {
		w := it.Width + padding
		h := it.Height + padding
		totalItemArea += w * h * float64(it.Quantity)
	}

	binArea := binWidth * binHeight
	if binArea <= 0 {
		return BinEstimate{
			TotalItemArea:  totalItemArea,
			WastePercent:   wastePercent,
			PaddingApplied: padding,
		}
	}

	exact := totalItemArea / binArea
	minBins := int(math.Ceil(exact))

	wasteFactor := 1.0 + (wastePercent / 100.0)
	withWaste := int(math.Ceil(exact * wasteFactor))
	if withWaste < minBins {
		withWaste = minBins
	}

	return BinEstimate{
		TotalItemArea:  totalItemArea,
		BinArea:        binArea,
		BinsNeededMin:  minBins,
		BinsNeededEst:  exact,
		BinsWithWaste:  withWaste,
		WastePercent:   wastePercent,
		EstimatedCost:  float64(withWaste) * pricePerBin,
		PricePerBin:    pricePerBin,
		PaddingApplied: padding,
	}
}

package model

import "github.com/google/uuid"

// Objective selects what an attempt's score favors once the dominant
// "fewest leftovers" term is equal.
type Objective string

const (
	ObjectiveCount Objective = "count" // favor bins that hold many items
	ObjectiveArea  Objective = "area"  // favor bins that cover much area
)

// Item represents one rectangular piece to be packed. Width and height are
// the item's own extent, before padding is applied; the offsets re-align a
// pre-normalized (minimal-bounds rotated) footprint within its bounding box
// and are zero for plain rectangles.
type Item struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Quantity int     `json:"quantity"`

	OffsetX float64 `json:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`
	// Offsets for the 90-degree rotated footprint.
	RotOffsetX float64 `json:"rot_offset_x,omitempty"`
	RotOffsetY float64 `json:"rot_offset_y,omitempty"`
}

func NewItem(label string, w, h float64, qty int) Item {
	return Item{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Area returns the footprint of a single instance of the item.
func (it Item) Area() float64 {
	return it.Width * it.Height
}

// Bin represents one fixed-size container. Bins are pure placement targets:
// they own no items and are always filled in the order the caller supplies.
type Bin struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewBin(label string, w, h float64) Bin {
	return Bin{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// PackSettings holds the packing configuration. All distances are in one
// common linear unit, resolved by the caller before they reach the engine;
// unit-string parsing ("5mm", "1 inch") is a front-end concern.
type PackSettings struct {
	// Padding is the spacing between items, baked once into each item's
	// extent (half on each side, centered).
	Padding float64 `json:"padding"`
	// Margin is the inset kept free along every bin edge.
	Margin        float64   `json:"margin"`
	AllowRotation bool      `json:"allow_rotation"`
	BestFitBy     Objective `json:"best_fit_by"`
	// MaxAttempts caps the ordering search; 0 derives a budget from the
	// item count.
	MaxAttempts int `json:"max_attempts"`
	// TryHarder keeps searching for a higher-scoring attempt even after a
	// complete packing has been found.
	TryHarder bool `json:"try_harder"`
	// DoNotSort runs a single attempt in the caller's item order.
	DoNotSort bool `json:"do_not_sort"`
	// RandomSeed makes the shuffled attempts reproducible; 0 draws a seed
	// from the clock.
	RandomSeed int64 `json:"random_seed"`
	// Workers bounds the attempt worker pool; 0 uses GOMAXPROCS.
	Workers int `json:"workers"`
}

func DefaultSettings() PackSettings {
	return PackSettings{
		Padding:       0,
		Margin:        0,
		AllowRotation: true,
		BestFitBy:     ObjectiveCount,
	}
}

// Placement represents a single item instance placed in a bin. X and Y are
// the item's top-left corner relative to the bin's origin.
type Placement struct {
	Item    Item    `json:"item"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Rotated bool    `json:"rotated"`
}

// PlacedWidth returns the effective width considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Item.Height
	}
	return p.Item.Width
}

// PlacedHeight returns the effective height considering rotation.
func (p Placement) PlacedHeight() float64 {
	if p.Rotated {
		return p.Item.Width
	}
	return p.Item.Height
}

// BinResult is one bin with the placements it received. Results carry an
// entry for every supplied bin, in caller order, so indexes line up even
// when a bin stayed empty.
type BinResult struct {
	Bin        Bin         `json:"bin"`
	Placements []Placement `json:"placements"`
}

// UsedArea returns the total area covered by placed items.
func (br BinResult) UsedArea() float64 {
	var total float64
	for _, p := range br.Placements {
		total += p.PlacedWidth() * p.PlacedHeight()
	}
	return total
}

// TotalArea returns the bin's full area.
func (br BinResult) TotalArea() float64 {
	return br.Bin.Width * br.Bin.Height
}

// Efficiency returns the usage percentage.
func (br BinResult) Efficiency() float64 {
	ta := br.TotalArea()
	if ta == 0 {
		return 0
	}
	return (br.UsedArea() / ta) * 100.0
}

// PackStats describes the winning attempt, for display by the caller.
type PackStats struct {
	AttemptIndex int     `json:"attempt_index"`
	SortLabel    string  `json:"sort_label"`
	Score        float64 `json:"score"`
	// Attempts is how many trials actually ran before the search stopped.
	Attempts int `json:"attempts"`
}

// PackResult holds the full solution. A non-empty Unplaced list is a normal
// outcome, not an error: it contains one entry per item instance that no bin
// could hold.
type PackResult struct {
	Bins     []BinResult `json:"bins"`
	Unplaced []Item      `json:"unplaced"`
	Stats    PackStats   `json:"stats"`
}

// PlacedCount returns the number of placed item instances across all bins.
func (pr PackResult) PlacedCount() int {
	total := 0
	for _, b := range pr.Bins {
		total += len(b.Placements)
	}
	return total
}

// BinsUsed returns how many bins received at least one item.
func (pr PackResult) BinsUsed() int {
	used := 0
	for _, b := range pr.Bins {
		if len(b.Placements) > 0 {
			used++
		}
	}
	return used
}

// TotalEfficiency returns the material usage percentage over the bins that
// were actually used.
func (pr PackResult) TotalEfficiency() float64 {
	var usedArea, totalArea float64
	for _, b := range pr.Bins {
		if len(b.Placements) == 0 {
			continue
		}
		usedArea += b.UsedArea()
		totalArea += b.TotalArea()
	}
	if totalArea == 0 {
		return 0
	}
	return (usedArea / totalArea) * 100.0
}

// Project ties everything together for save/load.
type Project struct {
	Name     string       `json:"name"`
	Items    []Item       `json:"items"`
	Bins     []Bin        `json:"bins"`
	Settings PackSettings `json:"settings"`
	Result   *PackResult  `json:"result,omitempty"`
}

func NewProject() Project {
	return Project{
		Name:     "Untitled",
		Items:    []Item{},
		Bins:     []Bin{},
		Settings: DefaultSettings(),
	}
}

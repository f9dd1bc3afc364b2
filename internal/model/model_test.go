package model

import (
	"encoding/json"
	"testing"
)

func TestNewItemGeneratesShortID(t *testing.T) {
	a := NewItem("Shelf", 600, 300, 2)
	b := NewItem("Shelf", 600, 300, 2)

	if len(a.ID) != 8 {
		t.Errorf("expected 8-character ID, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Error("expected unique IDs for separate items")
	}
	if a.Label != "Shelf" || a.Width != 600 || a.Height != 300 || a.Quantity != 2 {
		t.Errorf("unexpected item %+v", a)
	}
}

func TestItemArea(t *testing.T) {
	it := NewItem("A", 40, 25, 3)
	if got := it.Area(); got != 1000 {
		t.Errorf("expected area 1000 for a single instance, got %f", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.AllowRotation {
		t.Error("expected rotation enabled by default")
	}
	if s.BestFitBy != ObjectiveCount {
		t.Errorf("expected count objective by default, got %s", s.BestFitBy)
	}
	if s.MaxAttempts != 0 {
		t.Error("expected derived attempt budget by default")
	}
}

func TestPlacementRotatedDimensions(t *testing.T) {
	p := Placement{Item: Item{Width: 80, Height: 40}, Rotated: true}
	if p.PlacedWidth() != 40 || p.PlacedHeight() != 80 {
		t.Errorf("expected swapped dimensions, got %f x %f", p.PlacedWidth(), p.PlacedHeight())
	}

	p.Rotated = false
	if p.PlacedWidth() != 80 || p.PlacedHeight() != 40 {
		t.Errorf("expected original dimensions, got %f x %f", p.PlacedWidth(), p.PlacedHeight())
	}
}

func TestBinResultEfficiency(t *testing.T) {
	br := BinResult{
		Bin: Bin{Width: 100, Height: 100},
		Placements: []Placement{
			{Item: Item{Width: 60, Height: 50}},
			{Item: Item{Width: 40, Height: 50}},
		},
	}

	if br.UsedArea() != 5000 {
		t.Errorf("expected used area 5000, got %f", br.UsedArea())
	}
	if br.Efficiency() != 50 {
		t.Errorf("expected 50%% efficiency, got %f", br.Efficiency())
	}
}

func TestBinResultEfficiencyZeroArea(t *testing.T) {
	br := BinResult{Bin: Bin{Width: 0, Height: 0}}
	if br.Efficiency() != 0 {
		t.Errorf("expected 0 efficiency for a degenerate bin, got %f", br.Efficiency())
	}
}

func TestPackResultCounters(t *testing.T) {
	pr := PackResult{
		Bins: []BinResult{
			{Bin: Bin{Width: 100, Height: 100}, Placements: []Placement{
				{Item: Item{Width: 100, Height: 100}},
			}},
			{Bin: Bin{Width: 100, Height: 100}},
			{Bin: Bin{Width: 100, Height: 100}, Placements: []Placement{
				{Item: Item{Width: 50, Height: 100}},
			}},
		},
		Unplaced: []Item{{Width: 10, Height: 10}},
	}

	if pr.PlacedCount() != 2 {
		t.Errorf("expected 2 placed, got %d", pr.PlacedCount())
	}
	if pr.BinsUsed() != 2 {
		t.Errorf("expected 2 used bins, got %d", pr.BinsUsed())
	}
	// Only used bins count toward efficiency: (10000+5000) / 20000
	if pr.TotalEfficiency() != 75 {
		t.Errorf("expected 75%% efficiency, got %f", pr.TotalEfficiency())
	}
}

func TestProjectRoundTripsAsJSON(t *testing.T) {
	p := NewProject()
	p.Name = "Wardrobe"
	p.Items = []Item{NewItem("Door", 500, 1800, 2)}
	p.Bins = []Bin{NewBin("MDF", 2800, 2070)}
	p.Settings.Padding = 4

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Project
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Name != "Wardrobe" || len(decoded.Items) != 1 || decoded.Settings.Padding != 4 {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func TestAppConfigApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultPadding = 3
	cfg.DefaultMargin = 8
	cfg.DefaultAllowRotation = false
	cfg.DefaultObjective = ObjectiveArea

	var s PackSettings
	cfg.ApplyToSettings(&s)

	if s.Padding != 3 || s.Margin != 8 || s.AllowRotation || s.BestFitBy != ObjectiveArea {
		t.Errorf("unexpected settings %+v", s)
	}
}

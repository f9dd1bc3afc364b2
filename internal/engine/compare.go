package engine

import (
	"context"
	"fmt"

	"github.com/nestkit/nestkit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackResult
	BinsUsed      int
	PlacedCount   int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs the packing for each scenario against the same items
// and bins, enabling side-by-side comparison of different parameters
// (objective, padding, rotation, search depth). Scenarios run sequentially;
// cancellation aborts the remaining ones.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, items []model.Item, bins []model.Bin) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		result, err := opt.Pack(ctx, items, bins)
		if err != nil {
			return results, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			BinsUsed:      result.BinsUsed(),
			PlacedCount:   result.PlacedCount(),
			WastePercent:  100.0 - result.TotalEfficiency(),
			UnplacedCount: len(result.Unplaced),
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on the
// current settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Settings: base},
	}

	// Scenario: flip the scoring objective
	altObjective := base
	if base.BestFitBy == model.ObjectiveArea {
		altObjective.BestFitBy = model.ObjectiveCount
		scenarios = append(scenarios, ComparisonScenario{Name: "Optimize for Count", Settings: altObjective})
	} else {
		altObjective.BestFitBy = model.ObjectiveArea
		scenarios = append(scenarios, ComparisonScenario{Name: "Optimize for Area", Settings: altObjective})
	}

	// Scenario: toggle rotation
	altRotation := base
	altRotation.AllowRotation = !base.AllowRotation
	if base.AllowRotation {
		scenarios = append(scenarios, ComparisonScenario{Name: "No Rotation", Settings: altRotation})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "With Rotation", Settings: altRotation})
	}

	// Scenario: drop the padding
	if base.Padding > 0 {
		noPadding := base
		noPadding.Padding = 0
		scenarios = append(scenarios, ComparisonScenario{Name: "No Padding", Settings: noPadding})
	}

	// Scenario: exhaust the attempt budget
	if !base.TryHarder {
		harder := base
		harder.TryHarder = true
		scenarios = append(scenarios, ComparisonScenario{Name: "Try Harder", Settings: harder})
	}

	return scenarios
}

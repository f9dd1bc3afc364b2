// NestKit — 2D rectangular bin packing optimizer
//
// Reads an item list (CSV, Excel or DXF) or a saved project, packs the items
// into the given bins, and writes layout PDFs, QR label sheets and Excel
// reports.
//
// Build:
//   go build -o nestkit ./cmd/nestkit
//
// Examples:
//   nestkit -items parts.csv -bin 2440x1220 -bins 5 -pdf layout.pdf
//   nestkit -project cabinet.json -labels labels.pdf -xlsx report.xlsx
//   nestkit -items parts.xlsx -bin 1200x600 -bins 3 -compare

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/nestkit/nestkit/internal/engine"
	"github.com/nestkit/nestkit/internal/export"
	"github.com/nestkit/nestkit/internal/importer"
	"github.com/nestkit/nestkit/internal/model"
	"github.com/nestkit/nestkit/internal/project"
)

func main() {
	var (
		itemsPath   = flag.String("items", "", "item list file (.csv, .xlsx or .dxf)")
		projectPath = flag.String("project", "", "project file to load")
		binSpec     = flag.String("bin", "", "bin dimensions as WIDTHxHEIGHT, e.g. 2440x1220")
		binCount    = flag.Int("bins", 1, "number of bins of the given size")
		padding     = flag.Float64("padding", 0, "spacing between items")
		margin      = flag.Float64("margin", 0, "inset kept free along bin edges")
		noRotation  = flag.Bool("no-rotation", false, "disable 90-degree rotation")
		objective   = flag.String("objective", "count", "best-fit objective: count or area")
		attempts    = flag.Int("attempts", 0, "attempt budget, 0 derives from item count")
		tryHarder   = flag.Bool("try-harder", false, "exhaust the attempt budget even after a complete packing")
		noSort      = flag.Bool("no-sort", false, "pack in input order, single attempt")
		seed        = flag.Int64("seed", 0, "random seed for reproducible runs, 0 uses the clock")
		workers     = flag.Int("workers", 0, "parallel attempt workers, 0 uses all CPUs")
		pdfPath     = flag.String("pdf", "", "write a layout PDF to this path")
		labelsPath  = flag.String("labels", "", "write a QR label PDF to this path")
		xlsxPath    = flag.String("xlsx", "", "write an Excel placement report to this path")
		savePath    = flag.String("save", "", "save the project (with result) to this path")
		compare     = flag.Bool("compare", false, "compare alternative packing scenarios")
		estimate    = flag.Bool("estimate", false, "print a bin purchase estimate instead of packing")
		wastePct    = flag.Float64("waste", 10, "waste allowance percent for -estimate")
		binPrice    = flag.Float64("price", 0, "price per bin for -estimate")
		verbose     = flag.Bool("v", false, "print per-attempt progress")
	)
	flag.Parse()

	if err := run(config{
		itemsPath: *itemsPath, projectPath: *projectPath,
		binSpec: *binSpec, binCount: *binCount,
		padding: *padding, margin: *margin,
		noRotation: *noRotation, objective: *objective,
		attempts: *attempts, tryHarder: *tryHarder, noSort: *noSort,
		seed: *seed, workers: *workers,
		pdfPath: *pdfPath, labelsPath: *labelsPath, xlsxPath: *xlsxPath,
		savePath: *savePath, compare: *compare,
		estimate: *estimate, wastePct: *wastePct, binPrice: *binPrice,
		verbose: *verbose,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "nestkit:", err)
		os.Exit(1)
	}
}

type config struct {
	itemsPath, projectPath string
	binSpec                string
	binCount               int
	padding, margin        float64
	noRotation             bool
	objective              string
	attempts               int
	tryHarder, noSort      bool
	seed                   int64
	workers                int
	pdfPath, labelsPath    string
	xlsxPath, savePath     string
	compare                bool
	estimate               bool
	wastePct, binPrice     float64
	verbose                bool
}

func run(cfg config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proj, err := buildProject(cfg)
	if err != nil {
		return err
	}
	if len(proj.Items) == 0 {
		return fmt.Errorf("no items to pack")
	}
	if len(proj.Bins) == 0 {
		return fmt.Errorf("no bins specified, use -bin WIDTHxHEIGHT or a project file")
	}

	if cfg.estimate {
		return printEstimate(proj, cfg)
	}

	if cfg.compare {
		return runComparison(ctx, proj)
	}

	opt := engine.New(proj.Settings)
	if cfg.verbose {
		opt.Progress = func(ev engine.ProgressEvent) {
			if ev.Stage == engine.StageAttempt {
				fmt.Printf("attempt %d: placed %d, remaining %d\n", ev.AttemptIndex, ev.Placed, ev.Remaining)
			}
		}
	}

	result, err := opt.Pack(ctx, proj.Items, proj.Bins)
	if err != nil {
		return fmt.Errorf("packing failed: %w", err)
	}
	proj.Result = &result

	printSummary(result)

	if cfg.pdfPath != "" {
		if err := export.ExportPDF(cfg.pdfPath, result, proj.Settings); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		fmt.Println("wrote", cfg.pdfPath)
	}
	if cfg.labelsPath != "" {
		if err := export.ExportLabels(cfg.labelsPath, result); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		fmt.Println("wrote", cfg.labelsPath)
	}
	if cfg.xlsxPath != "" {
		if err := export.ExportXLSX(cfg.xlsxPath, result); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
		fmt.Println("wrote", cfg.xlsxPath)
	}
	if cfg.savePath != "" {
		if err := project.Save(cfg.savePath, proj); err != nil {
			return fmt.Errorf("project save: %w", err)
		}
		if appCfg, err := project.LoadAppConfig(project.DefaultConfigPath()); err == nil {
			project.RememberProject(&appCfg, cfg.savePath)
			_ = project.SaveAppConfig(project.DefaultConfigPath(), appCfg)
		}
		fmt.Println("saved", cfg.savePath)
	}

	return nil
}

// buildProject assembles a project from a project file or from the item and
// bin flags, with flag settings overriding the loaded ones.
func buildProject(cfg config) (model.Project, error) {
	proj := model.NewProject()

	if cfg.projectPath != "" {
		loaded, err := project.Load(cfg.projectPath)
		if err != nil {
			return model.Project{}, err
		}
		proj = loaded
	}

	if cfg.itemsPath != "" {
		items, err := importItems(cfg.itemsPath)
		if err != nil {
			return model.Project{}, err
		}
		proj.Items = items
	}

	if cfg.binSpec != "" {
		w, h, err := parseBinSpec(cfg.binSpec)
		if err != nil {
			return model.Project{}, err
		}
		proj.Bins = proj.Bins[:0]
		for i := 0; i < cfg.binCount; i++ {
			proj.Bins = append(proj.Bins, model.NewBin(fmt.Sprintf("Bin %d", i+1), w, h))
		}
	}

	s := &proj.Settings
	s.Padding = cfg.padding
	s.Margin = cfg.margin
	s.AllowRotation = !cfg.noRotation
	s.MaxAttempts = cfg.attempts
	s.TryHarder = cfg.tryHarder
	s.DoNotSort = cfg.noSort
	s.RandomSeed = cfg.seed
	s.Workers = cfg.workers
	switch cfg.objective {
	case "count":
		s.BestFitBy = model.ObjectiveCount
	case "area":
		s.BestFitBy = model.ObjectiveArea
	default:
		return model.Project{}, fmt.Errorf("unknown objective %q, want count or area", cfg.objective)
	}

	return proj, nil
}

// importItems dispatches on the file extension and reports row-level errors.
func importItems(path string) ([]model.Item, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported item file type %q", filepath.Ext(path))
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, "error:", e)
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no usable items in %s", path)
	}
	return res.Items, nil
}

// parseBinSpec parses "2440x1220" into width and height.
func parseBinSpec(spec string) (w, h float64, err error) {
	parts := strings.SplitN(strings.ToLower(spec), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid bin spec %q, want WIDTHxHEIGHT", spec)
	}
	if w, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid bin width in %q", spec)
	}
	if h, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid bin height in %q", spec)
	}
	return w, h, nil
}

func printSummary(result model.PackResult) {
	fmt.Printf("packed %d items into %d bin(s), efficiency %.1f%%\n",
		result.PlacedCount(), result.BinsUsed(), result.TotalEfficiency())
	fmt.Printf("best attempt #%d (%s), score %.2f, %d attempt(s) run\n",
		result.Stats.AttemptIndex, result.Stats.SortLabel, result.Stats.Score, result.Stats.Attempts)

	for i, br := range result.Bins {
		if len(br.Placements) == 0 {
			continue
		}
		fmt.Printf("  bin %d %s: %d items, %.1f%% used\n", i+1, br.Bin.Label, len(br.Placements), br.Efficiency())
	}
	if len(result.Unplaced) > 0 {
		fmt.Printf("unplaced items: %d\n", len(result.Unplaced))
		for _, it := range result.Unplaced {
			fmt.Printf("  - %s (%.0f x %.0f)\n", it.Label, it.Width, it.Height)
		}
	}
}

func runComparison(ctx context.Context, proj model.Project) error {
	scenarios := engine.BuildDefaultScenarios(proj.Settings)
	results, err := engine.CompareScenarios(ctx, scenarios, proj.Items, proj.Bins)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	fmt.Printf("%-20s %8s %8s %10s %9s\n", "Scenario", "Bins", "Placed", "Unplaced", "Waste %")
	for _, r := range results {
		fmt.Printf("%-20s %8d %8d %10d %9.1f\n",
			r.Scenario.Name, r.BinsUsed, r.PlacedCount, r.UnplacedCount, r.WastePercent)
	}
	return nil
}

func printEstimate(proj model.Project, cfg config) error {
	if len(proj.Bins) == 0 {
		return fmt.Errorf("estimate needs a bin size")
	}
	bin := proj.Bins[0]
	est := model.EstimateBins(proj.Items, bin.Width, bin.Height, proj.Settings.Padding, cfg.wastePct, cfg.binPrice)

	fmt.Printf("total item area (padding included): %.0f\n", est.TotalItemArea)
	fmt.Printf("exact bin fraction: %.2f (minimum %d bins)\n", est.BinsNeededEst, est.BinsNeededMin)
	fmt.Printf("recommended with %.0f%% waste (%s %.0fx%.0f): %d bins\n",
		est.WastePercent, bin.Label, bin.Width, bin.Height, est.BinsWithWaste)
	if cfg.binPrice > 0 {
		fmt.Printf("estimated cost: %.2f\n", est.EstimatedCost)
	}
	return nil
}

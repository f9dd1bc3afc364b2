package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/nestkit/nestkit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a 2D coordinate in drawing units.
type point struct {
	x, y float64
}

// outline is a closed polygon in drawing units.
type outline []point

// segment joins two points, used for chaining loose LINE and ARC entities
// into closed outlines.
type segment struct {
	start, end point
}

// ImportDXF imports items from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs and ARCs) becomes one item whose
// dimensions are the shape's minimal-area bounding rectangle: shapes drawn at
// an angle are rotated upright before measuring.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := polylineOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleOutline(e, 64))

		case *entity.Arc:
			pts := arcPoints(e, 32)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, o := range chainSegments(segments, 0.01) {
		if len(o) >= 3 {
			outlines = append(outlines, o)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, o := range outlines {
		width, height, angle := minimalBounds(o)

		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", width, height))
			continue
		}
		if math.Abs(angle) > 1e-3 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Shape %d rotated %.1f deg to its minimal bounds", i+1, angle*180/math.Pi))
		}

		result.Items = append(result.Items, model.NewItem(fmt.Sprintf("DXF Item %d", i+1), width, height, 1))
	}

	return result
}

// polylineOutline converts an LWPOLYLINE entity to an outline. Vertices with a
// bulge expand into interpolated arc segments.
func polylineOutline(lw *entity.LwPolyline) outline {
	var o outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{v[0], v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			next := lw.Vertices[(i+1)%len(lw.Vertices)]
			arc := bulgePoints(current, point{next[0], next[1]}, bulge, 32)
			// The next vertex closes the arc on the following iteration.
			o = append(o, arc[:len(arc)-1]...)
		} else {
			o = append(o, current)
		}
	}

	return o
}

// bulgePoints interpolates an arc between two endpoints given a DXF bulge
// factor, the tangent of a quarter of the included angle.
func bulgePoints(p1, p2 point, bulge float64, numSegments int) outline {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Arc center sits on the chord's perpendicular bisector.
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make(outline, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)})
	}
	return pts
}

// circleOutline approximates a circle as a regular polygon.
func circleOutline(c *entity.Circle, numSegments int) outline {
	o := make(outline, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := range o {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return o
}

// arcPoints samples an ARC entity into a polyline.
func arcPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := range pts {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// chainSegments connects loose segments into closed outlines. tolerance is
// the maximum endpoint distance still considered connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := outline{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	// Largest shapes first for a stable item order.
	sort.Slice(outlines, func(i, j int) bool {
		return shoelaceArea(outlines[i]) > shoelaceArea(outlines[j])
	})

	return outlines
}

func pointsClose(a, b point, tolerance float64) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// shoelaceArea computes the absolute polygon area.
func shoelaceArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x*o[j].y - o[j].x*o[i].y
	}
	return math.Abs(area) / 2
}

// minimalBounds returns the width, height and rotation angle (radians) of the
// smallest-area bounding rectangle of the outline. Candidate orientations are
// the edge directions of the polygon, which is exact for convex shapes and a
// good fit for the mildly concave outlines DXF imports produce.
func minimalBounds(o outline) (width, height, angle float64) {
	if len(o) == 0 {
		return 0, 0, 0
	}

	bestArea := math.Inf(1)
	for i := range o {
		j := (i + 1) % len(o)
		dx := o[j].x - o[i].x
		dy := o[j].y - o[i].y
		if dx == 0 && dy == 0 {
			continue
		}
		theta := math.Atan2(dy, dx)

		w, h := rotatedExtent(o, -theta)
		if w*h < bestArea {
			bestArea = w * h
			width, height, angle = w, h, theta
		}
	}

	if math.IsInf(bestArea, 1) {
		// All edges degenerate, fall back to the axis-aligned box.
		width, height = rotatedExtent(o, 0)
		angle = 0
	}
	return width, height, angle
}

// rotatedExtent returns the bounding box size of the outline after rotating
// it by theta radians.
func rotatedExtent(o outline, theta float64) (w, h float64) {
	sin, cos := math.Sin(theta), math.Cos(theta)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		x := p.x*cos - p.y*sin
		y := p.x*sin + p.y*cos
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return maxX - minX, maxY - minY
}

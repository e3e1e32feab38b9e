// Package draw provides low-level rendering primitives for the
// playback viewer: grid cells, agent markers, and path trails.
package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
	"github.com/elektrokombinacija/mapf-het-research/internal/vis/interact"
)

// Cell colors.
var (
	ColorCellOpen      = color.NRGBA{R: 235, G: 237, B: 240, A: 255}
	ColorCellBlocked   = color.NRGBA{R: 40, G: 42, B: 46, A: 255}
	ColorCellWorkpoint = color.NRGBA{R: 100, G: 140, B: 220, A: 255}
	ColorCellHome      = color.NRGBA{R: 80, G: 180, B: 100, A: 255}
	ColorGridLine      = color.NRGBA{R: 0, G: 0, B: 0, A: 40}
)

// DrawGridCells renders every cell of grid as a filled square, skipping
// the blocked border. endpointKind maps an endpoint's cell to its Kind
// so workpoints and home cells can be tinted; pass nil to draw plain
// open/blocked cells only.
func DrawGridCells(gtx layout.Context, grid *core.Grid, camera *interact.Camera, endpointKind map[core.Cell]core.EndpointKind) {
	for y := 0; y < grid.Rows-2; y++ {
		for x := 0; x < grid.Cols-2; x++ {
			c := grid.At(x, y)
			col := ColorCellBlocked
			if grid.IsPassable(c) {
				col = ColorCellOpen
				if kind, ok := endpointKind[c]; ok {
					switch kind {
					case core.Workpoint:
						col = ColorCellWorkpoint
					case core.Home:
						col = ColorCellHome
					}
				}
			}
			drawCell(gtx, x, y, camera, col)
		}
	}
}

func drawCell(gtx layout.Context, x, y int, camera *interact.Camera, col color.NRGBA) {
	x0, y0 := camera.WorldToScreen(float64(x)-0.5, float64(y)-0.5)
	x1, y1 := camera.WorldToScreen(float64(x)+0.5, float64(y)+0.5)
	rect := image.Rect(int(x0), int(y0), int(x1), int(y1))
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

// DrawCircleOutline draws a ring (stroked circle) at screen coordinates.
func DrawCircleOutline(gtx layout.Context, centerX, centerY float32, radius float32, col color.NRGBA, strokeWidth float32) {
	var outerPath clip.Path
	outerPath.Begin(gtx.Ops)
	outerPath.Move(f32.Pt(centerX+radius, centerY))

	segments := 24
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := centerX + radius*float32(math.Cos(angle))
		y := centerY + radius*float32(math.Sin(angle))
		outerPath.Line(f32.Pt(x-outerPath.Pos().X, y-outerPath.Pos().Y))
	}
	outerPath.Close()

	innerR := radius - strokeWidth
	if innerR < 0 {
		innerR = 0
	}
	outerPath.Move(f32.Pt(centerX+innerR-outerPath.Pos().X, centerY-outerPath.Pos().Y))
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := centerX + innerR*float32(math.Cos(angle))
		y := centerY + innerR*float32(math.Sin(angle))
		outerPath.Line(f32.Pt(x-outerPath.Pos().X, y-outerPath.Pos().Y))
	}
	outerPath.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: outerPath.End()}.Op())
}

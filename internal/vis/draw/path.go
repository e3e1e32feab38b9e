package draw

import (
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/mapf-het-research/internal/core"
	"github.com/elektrokombinacija/mapf-het-research/internal/vis/interact"
)

// DrawTrail draws an agent's path prefix up to the current timestep as
// a line connecting consecutive cell centers, fading from faint (oldest)
// to solid (most recent).
func DrawTrail(gtx layout.Context, cells []core.Cell, grid *core.Grid, camera *interact.Camera, baseColor color.NRGBA) {
	if len(cells) < 2 {
		return
	}

	n := len(cells)
	for i := 0; i < n-1; i++ {
		x1, y1 := grid.XY(cells[i])
		x2, y2 := grid.XY(cells[i+1])
		if x1 == x2 && y1 == y2 {
			continue // wait move, nothing to draw
		}

		alpha := uint8(40 + float64(i)/float64(n)*160)
		col := baseColor
		col.A = alpha
		width := camera.Zoom * (0.05 + 0.1*float32(i)/float32(n))

		sx1, sy1 := camera.WorldToScreen(float64(x1), float64(y1))
		sx2, sy2 := camera.WorldToScreen(float64(x2), float64(y2))
		drawPathSegment(gtx, sx1, sy1, sx2, sy2, width, col)
	}
}

func drawPathSegment(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

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

// agentPalette cycles a small set of distinguishable colors across
// agent IDs. Agents are homogeneous, so color only needs to tell them
// apart, not classify them.
var agentPalette = []color.NRGBA{
	{R: 220, G: 60, B: 60, A: 255},
	{R: 60, G: 140, B: 220, A: 255},
	{R: 60, G: 180, B: 90, A: 255},
	{R: 220, G: 150, B: 30, A: 255},
	{R: 150, G: 80, B: 200, A: 255},
	{R: 40, G: 180, B: 180, A: 255},
	{R: 220, G: 90, B: 170, A: 255},
	{R: 120, G: 120, B: 120, A: 255},
}

// AgentColor returns a stable color for agent id.
func AgentColor(id int) color.NRGBA {
	return agentPalette[id%len(agentPalette)]
}

// DrawAgent draws a single agent at its current cell as a filled dot in
// its ID's palette color with a white center.
func DrawAgent(gtx layout.Context, id int, c core.Cell, grid *core.Grid, camera *interact.Camera) {
	x, y := grid.XY(c)
	screenX, screenY := camera.WorldToScreen(float64(x), float64(y))
	radius := 0.32 * camera.Zoom

	drawFilledCircle(gtx, screenX, screenY, radius, AgentColor(id))
	drawFilledCircle(gtx, screenX, screenY, radius*0.3, color.NRGBA{R: 255, G: 255, B: 255, A: 220})
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
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

func drawFilledCircle(gtx layout.Context, cx, cy, radius float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.Move(f32.Pt(cx+radius, cy))

	segments := 16
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2 * math.Pi / float64(segments)
		x := cx + radius*float32(math.Cos(angle))
		y := cy + radius*float32(math.Sin(angle))
		path.Line(f32.Pt(x-path.Pos().X, y-path.Pos().Y))
	}
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}

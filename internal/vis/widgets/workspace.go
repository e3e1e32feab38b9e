// Package widgets provides Gio UI widgets for the playback viewer.
package widgets

import (
	"image"
	"image/color"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/widget/material"

	"github.com/elektrokombinacija/mapf-het-research/internal/vis/draw"
	"github.com/elektrokombinacija/mapf-het-research/internal/vis/interact"
	"github.com/elektrokombinacija/mapf-het-research/internal/vis/state"
)

// Workspace is the main 2D area: grid, agent trails, and agents at the
// current timestep. It is read-only; the only input it consumes is
// pan/zoom, handed straight to the camera.
type Workspace struct {
	state  *state.State
	camera *interact.Camera
}

// NewWorkspace creates a new workspace widget.
func NewWorkspace(st *state.State, camera *interact.Camera) *Workspace {
	return &Workspace{
		state:  st,
		camera: camera,
	}
}

// Layout renders the workspace.
func (w *Workspace) Layout(gtx layout.Context, th *material.Theme) layout.Dimensions {
	bounds := gtx.Constraints.Max
	defer clip.Rect(image.Rect(0, 0, bounds.X, bounds.Y)).Push(gtx.Ops).Pop()

	paint.Fill(gtx.Ops, color.NRGBA{R: 25, G: 28, B: 32, A: 255})

	w.handlePointerEvents(gtx)

	draw.DrawGridCells(gtx, w.state.Grid, w.camera, w.state.EndpointKind)

	for a := range w.state.Paths {
		trail := w.state.Trail(a)
		if len(trail) > 1 {
			draw.DrawTrail(gtx, trail, w.state.Grid, w.camera, draw.AgentColor(a))
		}
	}

	cells := w.state.CurrentCells()
	for a, c := range cells {
		draw.DrawAgent(gtx, a, c, w.state.Grid, w.camera)
	}

	return layout.Dimensions{Size: bounds}
}

func (w *Workspace) handlePointerEvents(gtx layout.Context) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, w)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: w,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll | pointer.Move,
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			w.camera.HandleEvent(gtx, pe)
		}
	}
}

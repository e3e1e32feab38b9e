// Package interact handles pan/zoom camera interaction for the
// read-only grid playback view.
package interact

import (
	"gioui.org/io/pointer"
	"gioui.org/layout"
)

// Camera manages the view transform (pan and zoom) between grid-cell
// world coordinates and screen pixels. It carries no selection or drag
// state beyond its own pan gesture: the playback view never edits
// anything, so there is nothing else for it to track.
type Camera struct {
	OffsetX float32 // pan offset in screen pixels
	OffsetY float32
	Zoom    float32 // zoom level, 1.0 = one world unit per pixel

	dragging bool
	lastX    float32
	lastY    float32
}

// NewCamera creates a camera at the default pan/zoom.
func NewCamera() *Camera {
	return &Camera{OffsetX: 40, OffsetY: 40, Zoom: 24}
}

// Reset restores the default pan/zoom.
func (c *Camera) Reset() {
	c.OffsetX, c.OffsetY, c.Zoom = 40, 40, 24
}

// WorldToScreen converts a world (grid) coordinate to a screen pixel.
func (c *Camera) WorldToScreen(worldX, worldY float64) (screenX, screenY float32) {
	screenX = float32(worldX)*c.Zoom + c.OffsetX
	screenY = float32(worldY)*c.Zoom + c.OffsetY
	return
}

// ScreenToWorld converts a screen pixel back to world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float32) (worldX, worldY float64) {
	worldX = float64((screenX - c.OffsetX) / c.Zoom)
	worldY = float64((screenY - c.OffsetY) / c.Zoom)
	return
}

// HandleEvent applies a pointer event: right/middle-drag pans, scroll
// zooms about the cursor.
func (c *Camera) HandleEvent(gtx layout.Context, ev pointer.Event) {
	switch ev.Kind {
	case pointer.Press:
		if ev.Buttons.Contain(pointer.ButtonSecondary) || ev.Buttons.Contain(pointer.ButtonTertiary) {
			c.dragging = true
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Drag:
		if c.dragging {
			c.OffsetX += ev.Position.X - c.lastX
			c.OffsetY += ev.Position.Y - c.lastY
		}
		c.lastX, c.lastY = ev.Position.X, ev.Position.Y

	case pointer.Release:
		c.dragging = false

	case pointer.Scroll:
		if ev.Scroll.Y == 0 {
			return
		}
		worldX, worldY := c.ScreenToWorld(ev.Position.X, ev.Position.Y)

		const zoomFactor = 1.1
		if ev.Scroll.Y > 0 {
			c.Zoom /= zoomFactor
		} else {
			c.Zoom *= zoomFactor
		}
		c.clampZoom()

		newScreenX, newScreenY := c.WorldToScreen(worldX, worldY)
		c.OffsetX += ev.Position.X - newScreenX
		c.OffsetY += ev.Position.Y - newScreenY
	}
}

func (c *Camera) clampZoom() {
	if c.Zoom < 2 {
		c.Zoom = 2
	}
	if c.Zoom > 200 {
		c.Zoom = 200
	}
}

// CenterOn centers the camera on a world position.
func (c *Camera) CenterOn(worldX, worldY float64, screenWidth, screenHeight float32) {
	c.OffsetX = screenWidth/2 - float32(worldX)*c.Zoom
	c.OffsetY = screenHeight/2 - float32(worldY)*c.Zoom
}

// FitBounds sizes the zoom to fit a cols x rows grid within the given
// screen size, then centers it. Called once when the viewer loads a map.
func (c *Camera) FitBounds(cols, rows int, screenWidth, screenHeight float32, margin float32) {
	if cols <= 0 || rows <= 0 {
		return
	}
	availW := screenWidth - 2*margin
	availH := screenHeight - 2*margin

	zoomX := availW / float32(cols)
	zoomY := availH / float32(rows)
	c.Zoom = zoomX
	if zoomY < zoomX {
		c.Zoom = zoomY
	}
	c.clampZoom()

	c.CenterOn(float64(cols)/2, float64(rows)/2, screenWidth, screenHeight)
}

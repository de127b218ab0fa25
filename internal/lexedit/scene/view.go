package scene

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"lexedit-backend/internal/models"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Background is the template image behind a face.
type Background struct {
	TemplateID int64  `json:"templateId"`
	URL        string `json:"url,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

// Loaded reports whether the background has known dimensions.
func (b Background) Loaded() bool {
	return b.Width > 0 && b.Height > 0
}

// View is what listeners need to render the canvas.
type View struct {
	Objects    []*models.SceneObject `json:"objects"`
	Active     *uuid.UUID            `json:"active,omitempty"`
	Advanced   bool                  `json:"advanced"`
	Scale      float64               `json:"scale"`
	Size       Size                  `json:"size"`
	Background Background            `json:"background"`
	Overlays   Overlays              `json:"overlays"`
}

func (c *Canvas) View() View {
	v := View{
		Objects:    c.Objects(),
		Advanced:   c.advanced,
		Scale:      c.scale,
		Size:       c.Size(),
		Background: c.background,
		Overlays:   c.Overlays(),
	}
	if c.active != nil {
		k := c.active.Key
		v.Active = &k
	}
	return v
}

// SetBackground records the face template image and sizes the canvas to it.
func (c *Canvas) SetBackground(ctx context.Context, bg Background) {
	c.background = bg
	c.Redraw(ctx)
}

// ClearBackground forgets the template image. The canvas stays usable.
func (c *Canvas) ClearBackground(ctx context.Context) {
	c.background = Background{}
	c.Redraw(ctx)
}

// Background returns the current template image.
func (c *Canvas) Background() Background {
	return c.background
}

// Size is the background size scaled by the zoom factor.
func (c *Canvas) Size() Size {
	return Size{
		Width:  float64(c.background.Width) * c.scale,
		Height: float64(c.background.Height) * c.scale,
	}
}

// Scale is the current zoom factor.
func (c *Canvas) Scale() float64 {
	return c.scale
}

// SetZoom sets the zoom factor.
func (c *Canvas) SetZoom(ctx context.Context, scale float64) error {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return errors.New("zoom must be positive")
	}
	c.scale = scale
	c.Redraw(ctx)
	return nil
}

// SetViewport records the space available to the canvas.
func (c *Canvas) SetViewport(w, h float64) {
	c.viewport = Size{Width: w, Height: h}
}

// ZoomFit scales the background to fit the viewport. Without a background
// or viewport the zoom is left unchanged.
func (c *Canvas) ZoomFit(ctx context.Context) float64 {
	if !c.background.Loaded() || c.viewport.Width <= 0 || c.viewport.Height <= 0 {
		return c.scale
	}
	sx := c.viewport.Width / float64(c.background.Width)
	sy := c.viewport.Height / float64(c.background.Height)
	c.scale = math.Min(sx, sy)
	c.Redraw(ctx)
	return c.scale
}

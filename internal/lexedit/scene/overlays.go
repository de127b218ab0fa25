package scene

import (
	"context"
	"fmt"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

// Line is a guide segment in canvas pixels.
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Overlays describes the grid and cut-line guides drawn over the face.
type Overlays struct {
	GridVisible     bool    `json:"gridVisible"`
	GridSpacing     float64 `json:"gridSpacing"`
	Grid            []Line  `json:"grid,omitempty"`
	CutLinesVisible bool    `json:"cutLinesVisible"`
	CutLineInset    float64 `json:"cutLineInset"`
	CutLines        []Line  `json:"cutLines,omitempty"`
}

func (c *Canvas) Overlays() Overlays {
	o := Overlays{
		GridVisible:     c.gridVisible,
		GridSpacing:     c.opts.GridSize * c.scale,
		CutLinesVisible: c.cutLinesShown(),
		CutLineInset:    c.opts.CutLineWidth * c.scale,
	}
	size := c.Size()
	if o.GridVisible && o.GridSpacing > 0 {
		for x := o.GridSpacing; x < size.Width; x += o.GridSpacing {
			o.Grid = append(o.Grid, Line{X1: x, Y1: 0, X2: x, Y2: size.Height})
		}
		for y := o.GridSpacing; y < size.Height; y += o.GridSpacing {
			o.Grid = append(o.Grid, Line{X1: 0, Y1: y, X2: size.Width, Y2: y})
		}
	}
	if o.CutLinesVisible && size.Width > 0 && size.Height > 0 {
		in := o.CutLineInset
		o.CutLines = []Line{
			{X1: 0, Y1: in, X2: size.Width, Y2: in},
			{X1: 0, Y1: size.Height - in, X2: size.Width, Y2: size.Height - in},
			{X1: in, Y1: 0, X2: in, Y2: size.Height},
			{X1: size.Width - in, Y1: 0, X2: size.Width - in, Y2: size.Height},
		}
	}
	return o
}

func (c *Canvas) cutLinesShown() bool {
	return c.cutVisible && c.allowCutLines
}

// SetAllowCutLines records whether the product has cut lines at all.
func (c *Canvas) SetAllowCutLines(allow bool) {
	c.allowCutLines = allow
}

func (c *Canvas) ShowGrid(ctx context.Context, visible bool) {
	c.gridVisible = visible
	c.Redraw(ctx)
}

func (c *Canvas) ShowCutLines(ctx context.Context, visible bool) {
	c.cutVisible = visible
	c.Redraw(ctx)
}

func (c *Canvas) ToggleGrid(ctx context.Context) bool {
	c.ShowGrid(ctx, !c.gridVisible)
	return c.gridVisible
}

// ToggleCutLines flips the cut-line guides. Products without cut lines
// always report false.
func (c *Canvas) ToggleCutLines(ctx context.Context) bool {
	c.ShowCutLines(ctx, !c.cutVisible)
	return c.cutLinesShown()
}

// CheckCutLines warns about every selectable text or image that crosses the
// cut-line margin. Each warning is also sent as a toast.
func (c *Canvas) CheckCutLines(ctx context.Context) []string {
	size := c.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	margin := c.opts.CutLineWidth * c.scale

	var warnings []string
	for _, o := range c.objects {
		if !o.Selectable {
			continue
		}
		switch o.ResourceType {
		case models.ResourceText, models.ResourceBlockText, models.ResourceImage:
		default:
			continue
		}

		left := o.Left * c.scale
		top := o.Top * c.scale
		right := left + o.Width*o.ScaleX*c.scale
		bottom := top + o.Height*o.ScaleY*c.scale

		if top < margin {
			warnings = append(warnings, fmt.Sprintf("Object %s TOP is outside Cut Lines!", o.ObjectName))
		}
		if bottom > size.Height-margin {
			warnings = append(warnings, fmt.Sprintf("Object %s BOTTOM is outside Cut Lines!", o.ObjectName))
		}
		if left < margin {
			warnings = append(warnings, fmt.Sprintf("Object %s LEFT is outside Cut Lines!", o.ObjectName))
		}
		if right > size.Width-margin {
			warnings = append(warnings, fmt.Sprintf("Object %s RIGHT is outside Cut Lines!", o.ObjectName))
		}
	}
	for _, w := range warnings {
		events.Msg(ctx, c.emitter, w, "Outside Cut", events.KindWarning)
	}
	return warnings
}

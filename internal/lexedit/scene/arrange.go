package scene

import (
	"context"
	"fmt"

	"lexedit-backend/internal/models"
)

// ArrangeOp names a paint-order change.
type ArrangeOp string

const (
	BringForward  ArrangeOp = "forward"
	SendBackwards ArrangeOp = "backward"
	BringToFront  ArrangeOp = "front"
	SendToBack    ArrangeOp = "back"
)

// Arrange changes the paint order of obj. Only ZIndex changes; DisplayOrder
// and the side panel order are untouched.
func (c *Canvas) Arrange(ctx context.Context, obj *models.SceneObject, op ArrangeOp) error {
	i := c.IndexOf(obj)
	if i < 0 {
		return ErrObjectNotFound
	}
	if !c.IsEditableObject(obj) {
		return fmt.Errorf("%w: %s", ErrNotEditable, obj.ObjectName)
	}
	switch op {
	case BringForward:
		return c.MoveTo(ctx, obj, i+1)
	case SendBackwards:
		return c.MoveTo(ctx, obj, i-1)
	case BringToFront:
		return c.MoveTo(ctx, obj, len(c.objects)-1)
	case SendToBack:
		return c.MoveTo(ctx, obj, 0)
	}
	return fmt.Errorf("unknown arrange op %q", op)
}

// MoveTo moves obj to paint position index, clamped to the object list.
func (c *Canvas) MoveTo(ctx context.Context, obj *models.SceneObject, index int) error {
	i := c.IndexOf(obj)
	if i < 0 {
		return ErrObjectNotFound
	}
	if index < 0 {
		index = 0
	}
	if index >= len(c.objects) {
		index = len(c.objects) - 1
	}
	if index != i {
		c.objects = append(c.objects[:i], c.objects[i+1:]...)
		c.objects = append(c.objects, nil)
		copy(c.objects[index+1:], c.objects[index:])
		c.objects[index] = obj
	}
	for n, o := range c.objects {
		o.ZIndex = n
	}
	c.Redraw(ctx)
	return nil
}

// SortByZIndex orders the canvas by each object's ZIndex, keeping the
// current order between equal values.
func (c *Canvas) SortByZIndex() {
	sortStable(c.objects, func(a, b *models.SceneObject) bool { return a.ZIndex < b.ZIndex })
}

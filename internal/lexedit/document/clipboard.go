package document

import (
	"context"

	"github.com/google/uuid"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

// CopyObject copies the selected object to the clipboard. It only works in
// advanced mode and reports whether something was copied.
func (d *Document) CopyObject(ctx context.Context) bool {
	if !d.canvas.Advanced() {
		return false
	}
	d.clipboard = nil

	active := d.canvas.Active()
	if active == nil {
		events.Msg(ctx, d.emitter, "Nothing to copy", "Copy", events.KindInfo)
		return false
	}

	c := active.Clone()
	c.Key = uuid.New()
	c.ID = nil
	c.ObjectName = "Copy of " + active.ObjectName
	c.Top += 5
	c.Left += 5
	d.clipboard = c
	return true
}

// PasteObject adds the clipboard object to the live face. The clipboard is
// emptied afterwards, unless the current mode refuses the add.
func (d *Document) PasteObject(ctx context.Context) (*models.SceneObject, error) {
	c := d.clipboard
	if c == nil {
		events.Msg(ctx, d.emitter, "Nothing to paste", "Paste", events.KindInfo)
		return nil, nil
	}
	if err := d.canvas.CanAdd(); err != nil {
		return nil, err
	}
	d.clipboard = nil

	c.PageNumber = d.Vars.CurrentPage
	if err := d.canvas.AddObject(ctx, c, true, true); err != nil {
		return c, err
	}
	return c, nil
}

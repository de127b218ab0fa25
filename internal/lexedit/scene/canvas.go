package scene

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/lexedit/history"
	"lexedit-backend/internal/models"
)

var (
	ErrCreateObject    = errors.New("create object failed")
	ErrObjectNotFound  = errors.New("object not found")
	ErrUnknownProperty = errors.New("unknown property")
	ErrNotEditable     = errors.New("object is not editable")
	ErrAdvancedOnly    = errors.New("advanced edit mode required")
)

// ObjectStore assigns server ids to new objects.
type ObjectStore interface {
	CreateObject(ctx context.Context, obj *models.SceneObject) (int64, error)
}

// Options configures overlays and the initial mode of a canvas.
type Options struct {
	GridSize     float64
	CutLineWidth float64
	ShowGrid     bool
	ShowCutLines bool
	BackOffice   bool
}

// DefaultOptions matches the editor defaults.
func DefaultOptions() Options {
	return Options{GridSize: 40, CutLineWidth: 18, ShowCutLines: true}
}

// Canvas is the live drawable surface of the face being edited. Every
// mutation path goes through AddObject/RemoveObject so persistence,
// history and side panel stay consistent.
type Canvas struct {
	objects []*models.SceneObject
	active  *models.SceneObject

	history *history.History
	store   ObjectStore
	emitter events.Emitter
	opts    Options

	advanced      bool
	allowCutLines bool
	gridVisible   bool
	cutVisible    bool

	scale      float64
	viewport   Size
	background Background
}

// NewCanvas returns an empty canvas with its own history.
func NewCanvas(store ObjectStore, emitter events.Emitter, opts Options) *Canvas {
	if emitter == nil {
		emitter = events.Discard{}
	}
	if opts.GridSize <= 0 {
		opts.GridSize = 40
	}
	if opts.CutLineWidth <= 0 {
		opts.CutLineWidth = 18
	}
	c := &Canvas{
		store:         store,
		emitter:       emitter,
		opts:          opts,
		allowCutLines: true,
		gridVisible:   opts.ShowGrid,
		cutVisible:    opts.ShowCutLines,
		scale:         1,
	}
	c.history = history.New(c, emitter)
	return c
}

// History is the undo/redo log of the current face.
func (c *Canvas) History() *history.History {
	return c.history
}

// Objects returns the objects in paint order.
func (c *Canvas) Objects() []*models.SceneObject {
	return append([]*models.SceneObject(nil), c.objects...)
}

// Len is the number of objects on the canvas.
func (c *Canvas) Len() int {
	return len(c.objects)
}

func (c *Canvas) GetObjectByKey(key uuid.UUID) (*models.SceneObject, bool) {
	for _, o := range c.objects {
		if o.Key == key {
			return o, true
		}
	}
	return nil, false
}

func (c *Canvas) GetObjectByID(id int64) (*models.SceneObject, bool) {
	for _, o := range c.objects {
		if o.ID != nil && *o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// AddObject puts obj on the canvas. Objects without a server id are created
// on the backend first; the add is only recorded once the id is known. On a
// failed create the object stays on the canvas unsaved and out of history.
func (c *Canvas) AddObject(ctx context.Context, obj *models.SceneObject, refreshSidebar, recordHistory bool) error {
	obj.EnsureKey()
	if !c.Contains(obj) {
		c.objects = append(c.objects, obj)
	}
	obj.SaveState()

	if err := c.persist(ctx, obj); err != nil {
		c.Redraw(ctx)
		return err
	}

	if recordHistory {
		c.history.Add(ctx, history.NewAddCommand(c, obj))
	}
	if refreshSidebar {
		c.ReloadSideBar(ctx)
	}
	c.Redraw(ctx)
	return nil
}

// RemoveObject takes obj off the canvas. Objects without a name, and objects
// the current mode may not remove, are left alone. Removal is never a server
// delete.
func (c *Canvas) RemoveObject(ctx context.Context, obj *models.SceneObject, recordHistory, refreshSidebar bool) bool {
	if obj == nil || obj.ObjectName == "" {
		return false
	}
	if !c.Contains(obj) {
		return false
	}
	if c.CanRemove(obj) != nil {
		return false
	}
	if recordHistory {
		c.history.Add(ctx, history.NewRemoveCommand(c, obj))
	}
	c.Detach(ctx, obj)
	if refreshSidebar {
		c.ReloadSideBar(ctx)
	}
	c.Redraw(ctx)
	return true
}

// Modify applies a property patch to obj and records it as one transform.
func (c *Canvas) Modify(ctx context.Context, obj *models.SceneObject, changes models.State) error {
	if !c.Contains(obj) {
		return ErrObjectNotFound
	}
	for p := range changes {
		if _, ok := obj.Get(p); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownProperty, p)
		}
	}
	if err := c.CanModify(obj, changes); err != nil {
		return err
	}

	before := obj.Clone()
	for p, v := range changes {
		var ok bool
		if p.IsStyle() {
			ok = obj.SetActiveStyle(p, v)
		} else {
			ok = obj.Set(p, v)
		}
		if !ok {
			*obj = *before
			return fmt.Errorf("invalid value for %s: %v", p, v)
		}
	}

	cmd := history.NewTransformCommand(c, obj)
	obj.SaveState()
	c.history.Add(ctx, cmd)
	c.ReloadSideBar(ctx)
	c.Redraw(ctx)
	return nil
}

// Change is one entry of a batch edit.
type Change struct {
	Object  *models.SceneObject
	Changes models.State
}

// ModifyBatch applies several patches, one history entry per object. It
// stops at the first failure.
func (c *Canvas) ModifyBatch(ctx context.Context, changes []Change) error {
	for _, ch := range changes {
		if err := c.Modify(ctx, ch.Object, ch.Changes); err != nil {
			return fmt.Errorf("modify %s: %w", ch.Object.ObjectName, err)
		}
	}
	return nil
}

// Clear removes every object without touching history or the server.
func (c *Canvas) Clear(ctx context.Context) {
	c.objects = nil
	c.active = nil
	c.Redraw(ctx)
}

// SetActive selects obj. A nil obj clears the selection.
func (c *Canvas) SetActive(obj *models.SceneObject) error {
	if obj != nil && !c.Contains(obj) {
		return ErrObjectNotFound
	}
	if obj != nil && !obj.Selectable {
		return fmt.Errorf("object %s is not selectable", obj.ObjectName)
	}
	c.active = obj
	return nil
}

// Active returns the selected object, if any.
func (c *Canvas) Active() *models.SceneObject {
	return c.active
}

// Contains reports whether obj is on the canvas.
func (c *Canvas) Contains(obj *models.SceneObject) bool {
	return c.IndexOf(obj) >= 0
}

// IndexOf is the paint position of obj, or -1.
func (c *Canvas) IndexOf(obj *models.SceneObject) int {
	for i, o := range c.objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// Restore re-inserts obj at position without recording history. It is the
// replay path for add and remove commands.
func (c *Canvas) Restore(ctx context.Context, obj *models.SceneObject, position int) error {
	if c.Contains(obj) {
		return nil
	}
	if position < 0 || position > len(c.objects) {
		c.objects = append(c.objects, obj)
	} else {
		c.objects = append(c.objects, nil)
		copy(c.objects[position+1:], c.objects[position:])
		c.objects[position] = obj
	}
	if err := c.persist(ctx, obj); err != nil {
		c.Detach(ctx, obj)
		return err
	}
	return nil
}

// Detach removes obj without recording history.
func (c *Canvas) Detach(_ context.Context, obj *models.SceneObject) bool {
	i := c.IndexOf(obj)
	if i < 0 {
		return false
	}
	c.objects = append(c.objects[:i], c.objects[i+1:]...)
	if c.active == obj {
		c.active = nil
	}
	return true
}

func (c *Canvas) persist(ctx context.Context, obj *models.SceneObject) error {
	if obj.Persisted() || c.store == nil {
		return nil
	}
	id, err := c.store.CreateObject(ctx, obj)
	if err != nil {
		log.Printf("create object %s on page %d failed: %v", obj.ObjectName, obj.PageNumber, err)
		events.ReportError(ctx, c.emitter, "Error adding object", err.Error())
		return fmt.Errorf("%w: %v", ErrCreateObject, err)
	}
	obj.SetServerID(id)
	return nil
}

// IsEditableObject is the eligibility rule for selection and editing.
func (c *Canvas) IsEditableObject(obj *models.SceneObject) bool {
	if c.opts.BackOffice {
		return true
	}
	if obj.ObjectType == models.ObjectTypeEnvelopeAddressee {
		return true
	}
	if obj.SuppressPrinting {
		return false
	}
	switch obj.ObjectType {
	case models.ObjectTypeNonEditableText,
		models.ObjectTypePostalImage,
		models.ObjectTypeStaticLogo,
		models.ObjectTypeDrivingMap,
		models.ObjectTypeOrderNumber,
		models.ObjectTypeStaticRectangle:
		return false
	}
	return true
}

// CanAdd reports whether new objects may be placed by the user. Loading a
// face does not go through this check.
func (c *Canvas) CanAdd() error {
	if c.advanced || c.opts.BackOffice {
		return nil
	}
	return ErrAdvancedOnly
}

// CanRemove reports whether the user may take obj off the canvas.
func (c *Canvas) CanRemove(obj *models.SceneObject) error {
	if !c.IsEditableObject(obj) {
		return fmt.Errorf("%w: %s", ErrNotEditable, obj.ObjectName)
	}
	return c.CanAdd()
}

// CanModify reports whether changes may be applied to obj. Restricted mode
// keeps content and style edits but not free move or resize.
func (c *Canvas) CanModify(obj *models.SceneObject, changes models.State) error {
	if !c.IsEditableObject(obj) {
		return fmt.Errorf("%w: %s", ErrNotEditable, obj.ObjectName)
	}
	if c.advanced || c.opts.BackOffice {
		return nil
	}
	for p := range changes {
		if p.IsGeometry() {
			return fmt.Errorf("%w: %s", ErrAdvancedOnly, p)
		}
	}
	return nil
}

// SetCanvasSelection reapplies the eligibility rule to every object.
func (c *Canvas) SetCanvasSelection(ctx context.Context) {
	for _, o := range c.objects {
		if c.IsEditableObject(o) {
			o.Selectable = true
			o.Editable = c.advanced
		} else {
			o.Selectable = false
			o.Editable = false
		}
	}
	if c.active != nil && !c.active.Selectable {
		c.active = nil
	}
	c.Redraw(ctx)
}

// EditMode switches between advanced and restricted editing.
func (c *Canvas) EditMode(ctx context.Context, advanced bool) {
	c.advanced = advanced
	c.SetCanvasSelection(ctx)
}

// Advanced reports whether advanced mode is on.
func (c *Canvas) Advanced() bool {
	return c.advanced
}

// BackOffice reports whether the canvas belongs to a back-office session.
func (c *Canvas) BackOffice() bool {
	return c.opts.BackOffice
}

// Redraw pushes the current view to listeners.
func (c *Canvas) Redraw(ctx context.Context) {
	c.emitter.Emit(ctx, events.SceneRender, c.View())
}

// ReloadSideBar pushes the rebuilt side panel to listeners.
func (c *Canvas) ReloadSideBar(ctx context.Context) {
	c.emitter.Emit(ctx, events.SidebarReload, c.SidePanel())
}

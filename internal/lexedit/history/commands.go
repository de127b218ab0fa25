package history

import (
	"context"

	"lexedit-backend/internal/models"
)

// Surface is the part of the scene commands replay against.
type Surface interface {
	Contains(obj *models.SceneObject) bool
	// Restore puts obj back at position (append when negative) without
	// recording history.
	Restore(ctx context.Context, obj *models.SceneObject, position int) error
	// Detach takes obj off the surface without recording history.
	Detach(ctx context.Context, obj *models.SceneObject) bool
	// IndexOf is the paint position of obj, or -1.
	IndexOf(obj *models.SceneObject) int
}

// Command is an undoable unit of work. Everything it needs to replay is
// captured when it is built.
type Command interface {
	Name() string
	Object() *models.SceneObject
	Execute(ctx context.Context) error
	Undo(ctx context.Context) error
}

// AddCommand records an object being added.
type AddCommand struct {
	obj     *models.SceneObject
	surface Surface
}

func NewAddCommand(s Surface, obj *models.SceneObject) *AddCommand {
	return &AddCommand{obj: obj, surface: s}
}

func (c *AddCommand) Name() string                { return "add" }
func (c *AddCommand) Object() *models.SceneObject { return c.obj }

func (c *AddCommand) Execute(ctx context.Context) error {
	if c.surface.Contains(c.obj) {
		return nil
	}
	return c.surface.Restore(ctx, c.obj, -1)
}

func (c *AddCommand) Undo(ctx context.Context) error {
	c.surface.Detach(ctx, c.obj)
	return nil
}

// RemoveCommand records an object being deleted along with where it was painted.
type RemoveCommand struct {
	obj      *models.SceneObject
	position int
	surface  Surface
}

func NewRemoveCommand(s Surface, obj *models.SceneObject) *RemoveCommand {
	return &RemoveCommand{obj: obj, position: s.IndexOf(obj), surface: s}
}

func (c *RemoveCommand) Name() string                { return "remove" }
func (c *RemoveCommand) Object() *models.SceneObject { return c.obj }

// Position is the paint index the object is restored to on undo.
func (c *RemoveCommand) Position() int { return c.position }

func (c *RemoveCommand) Execute(ctx context.Context) error {
	c.surface.Detach(ctx, c.obj)
	return nil
}

func (c *RemoveCommand) Undo(ctx context.Context) error {
	if c.surface.Contains(c.obj) {
		return nil
	}
	return c.surface.Restore(ctx, c.obj, c.position)
}

// TransformCommand records a style or geometry edit. State is the value set
// after the edit, OriginalState the baseline before it.
type TransformCommand struct {
	obj           *models.SceneObject
	state         models.State
	originalState models.State
	surface       Surface
}

// NewTransformCommand snapshots obj's state properties. Call it after the
// edit has been applied and before the object's baseline is saved.
func NewTransformCommand(s Surface, obj *models.SceneObject) *TransformCommand {
	return &TransformCommand{
		obj:           obj,
		state:         obj.Snapshot(),
		originalState: obj.Baseline(),
		surface:       s,
	}
}

func (c *TransformCommand) Name() string                { return "transform" }
func (c *TransformCommand) Object() *models.SceneObject { return c.obj }

// State returns the captured post-edit values.
func (c *TransformCommand) State() models.State { return c.state.Copy() }

// OriginalState returns the captured pre-edit values.
func (c *TransformCommand) OriginalState() models.State { return c.originalState.Copy() }

func (c *TransformCommand) Execute(_ context.Context) error {
	c.apply(c.state)
	return nil
}

func (c *TransformCommand) Undo(_ context.Context) error {
	c.apply(c.originalState)
	return nil
}

func (c *TransformCommand) apply(s models.State) {
	if !c.surface.Contains(c.obj) {
		return
	}
	c.obj.ApplyState(s)
	c.obj.SaveState()
}

package history

import (
	"context"
	"errors"
	"fmt"
	"log"

	"lexedit-backend/internal/lexedit/events"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Refresher redraws the surface and rebuilds the side panel after a replay.
type Refresher interface {
	Redraw(ctx context.Context)
	ReloadSideBar(ctx context.Context)
}

// Triggers describes the undo/redo controls.
type Triggers struct {
	UndoEnabled bool   `json:"undoEnabled"`
	RedoEnabled bool   `json:"redoEnabled"`
	UndoCount   int    `json:"undoCount"`
	RedoCount   int    `json:"redoCount"`
	UndoLabel   string `json:"undoLabel"`
	RedoLabel   string `json:"redoLabel"`
}

// ChangedPayload accompanies every history:changed event.
type ChangedPayload struct {
	Reason   string   `json:"reason"`
	Triggers Triggers `json:"triggers"`
}

// History is a linear undo/redo log with a cursor. Commands before index
// are applied, commands at or after index can be redone.
type History struct {
	commands  []Command
	index     int
	refresher Refresher
	emitter   events.Emitter
}

// New returns an empty history.
func New(refresher Refresher, emitter events.Emitter) *History {
	if emitter == nil {
		emitter = events.Discard{}
	}
	return &History{refresher: refresher, emitter: emitter}
}

// Index is the cursor position.
func (h *History) Index() int {
	return h.index
}

// Len is the number of recorded commands.
func (h *History) Len() int {
	return len(h.commands)
}

// Commands returns a copy of the log.
func (h *History) Commands() []Command {
	return append([]Command(nil), h.commands...)
}

// Add appends c, discarding every redo-able command first.
func (h *History) Add(ctx context.Context, c Command) {
	if h.index < len(h.commands) {
		h.commands = h.commands[:h.index]
	}
	h.commands = append(h.commands, c)
	h.index++
	h.changed(ctx, "history:add")
}

// Back undoes the command before the cursor.
func (h *History) Back(ctx context.Context) error {
	if h.index == 0 {
		events.Msg(ctx, h.emitter, "Nothing to Undo", "", events.KindInfo)
		h.changed(ctx, "history:refresh")
		return ErrNothingToUndo
	}

	h.index--
	c := h.commands[h.index]
	if err := c.Undo(ctx); err != nil {
		h.index++
		log.Printf("undo %s failed: %v", c.Name(), err)
		return fmt.Errorf("undo %s: %w", c.Name(), err)
	}

	h.replayed(ctx, "history:back")
	return nil
}

// Forward redoes the command at the cursor.
func (h *History) Forward(ctx context.Context) error {
	if h.index >= len(h.commands) {
		events.Msg(ctx, h.emitter, "Nothing to Redo", "", events.KindInfo)
		h.changed(ctx, "history:refresh")
		return ErrNothingToRedo
	}

	c := h.commands[h.index]
	if err := c.Execute(ctx); err != nil {
		log.Printf("redo %s failed: %v", c.Name(), err)
		return fmt.Errorf("redo %s: %w", c.Name(), err)
	}
	h.index++

	h.replayed(ctx, "history:forward")
	return nil
}

// Clear empties the log.
func (h *History) Clear(ctx context.Context) {
	h.commands = nil
	h.index = 0
	h.changed(ctx, "history:clear")
}

// Triggers reports the state of the undo/redo controls.
func (h *History) Triggers() Triggers {
	t := Triggers{
		UndoEnabled: h.index > 0,
		RedoEnabled: h.index < len(h.commands),
		UndoCount:   h.index,
		RedoCount:   len(h.commands) - h.index,
		UndoLabel:   "Undo",
		RedoLabel:   "Redo",
	}
	if t.UndoCount > 0 {
		t.UndoLabel = fmt.Sprintf("Undo (%d)", t.UndoCount)
	}
	if t.RedoCount > 0 {
		t.RedoLabel = fmt.Sprintf("Redo (%d)", t.RedoCount)
	}
	return t
}

func (h *History) replayed(ctx context.Context, reason string) {
	if h.refresher != nil {
		h.refresher.Redraw(ctx)
		h.refresher.ReloadSideBar(ctx)
	}
	h.changed(ctx, reason)
}

func (h *History) changed(ctx context.Context, reason string) {
	h.emitter.Emit(ctx, events.HistoryChanged, ChangedPayload{Reason: reason, Triggers: h.Triggers()})
}

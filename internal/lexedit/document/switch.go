package document

import (
	"context"
	"fmt"
	"log"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

// FaceSwitchedPayload accompanies face:switched.
type FaceSwitchedPayload struct {
	From models.Face `json:"from"`
	To   models.Face `json:"to"`
}

// SwitchSides makes target the live face. The envelope is edited on its own
// and is never switched to or away from here. Switching to the live face
// only re-syncs its cache slot.
func (d *Document) SwitchSides(ctx context.Context, target models.Face) error {
	if !target.Valid() {
		return fmt.Errorf("invalid face %d", target)
	}
	d.SetSideEdit(target)

	v := d.Vars
	current := v.CurrentPage
	if target == models.FaceEnvelope || current == models.FaceEnvelope {
		return nil
	}

	if current == target {
		if _, err := d.serializeCurrent(ctx); err != nil {
			return err
		}
		d.reapplyOverlays(ctx)
		d.canvas.ZoomFit(ctx)
		d.canvas.SetCanvasSelection(ctx)
		return nil
	}

	if _, ok := d.cache.Get(target); !ok && v.TemplateID(target) == 0 {
		log.Printf("switch to %s ignored: no template", target)
		return nil
	}

	events.SetLoading(ctx, d.emitter, true, "Switching sides. Please wait...")
	defer events.SetLoading(ctx, d.emitter, false, "")

	if current.Valid() {
		raw, err := d.serializeCurrent(ctx)
		if err != nil {
			return err
		}
		if d.cfg.SaveOnSwitch {
			if err := d.saveFace(ctx, current, raw); err != nil {
				return err
			}
		}
	}

	v.CurrentPage = target
	d.canvas.Clear(ctx)
	d.History().Clear(ctx)
	d.loadBackground(ctx, target)
	if err := d.fill(ctx, target); err != nil {
		return fmt.Errorf("load %s: %w", target, err)
	}
	if err := d.tracker.Wait(ctx); err != nil {
		return fmt.Errorf("wait for images: %w", err)
	}
	if _, ok := d.cache.Get(target); !ok {
		if _, err := d.serializeCurrent(ctx); err != nil {
			return err
		}
	}

	d.canvas.ReloadSideBar(ctx)
	d.reapplyOverlays(ctx)
	d.canvas.SetCanvasSelection(ctx)
	d.canvas.ZoomFit(ctx)

	d.emitter.Emit(ctx, events.FaceSwitched, FaceSwitchedPayload{From: current, To: target})
	return nil
}

func (d *Document) reapplyOverlays(ctx context.Context) {
	d.canvas.SetAllowCutLines(d.Vars.AllowCutLines)
	d.canvas.ShowGrid(ctx, d.cfg.ShowGrid)
	d.canvas.ShowCutLines(ctx, d.cfg.ShowCutLines)
}

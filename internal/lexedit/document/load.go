package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/lexedit/scene"
	"lexedit-backend/internal/models"
)

// LoadTemplateData loads every face of an order from the GetOrderData
// payload, leaving the front (or the envelope) live on the canvas.
func (d *Document) LoadTemplateData(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		events.ShowAlert(ctx, d.emitter, "No Template Data. Please report this error!")
		return ErrNoTemplateData
	}

	var data models.OrderData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		events.ShowAlert(ctx, d.emitter, "No Template Data. Please report this error!")
		return fmt.Errorf("%w: %v", ErrNoTemplateData, err)
	}
	d.data = &data

	v := d.Vars
	v.ApplyOrderData(&data)
	for _, f := range models.Faces {
		if j := unescape(data.FaceJSON(f)); j != "" {
			d.cache.Set(f, j, v.TemplateID(f))
		}
	}
	if v.ProductType == models.ProductMagnet {
		v.AllowCutLines = false
	}

	v.IsLoadingTemplate = true
	events.SetLoading(ctx, d.emitter, true, "Loading template data...")

	var order []models.Face
	switch {
	case strings.EqualFold(v.DefaultSide, "envelope") && v.EnvelopeTemplateID != 0:
		v.TabVisible[models.FaceFront] = false
		v.TabVisible[models.FaceEnvelope] = true
		v.AllowCutLines = false
		order = []models.Face{models.FaceEnvelope}
	case v.BackTemplateID != 0 && v.InsideTemplateID <= 0:
		v.TabVisible[models.FaceBack] = true
		order = []models.Face{models.FaceBack, models.FaceFront}
	case v.BackTemplateID != 0:
		v.TabVisible[models.FaceBack] = true
		v.TabVisible[models.FaceInside] = true
		order = []models.Face{models.FaceInside, models.FaceBack, models.FaceFront}
	default:
		order = []models.Face{models.FaceFront}
	}
	d.canvas.SetAllowCutLines(v.AllowCutLines)

	for _, f := range order {
		if err := d.loadFace(ctx, f); err != nil {
			v.IsLoadingTemplate = false
			events.SetLoading(ctx, d.emitter, false, "")
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return d.finishLoad(ctx)
}

// unescape collapses the doubled backslashes the backend stores face JSON with.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\\`, `\`)
}

// loadFace makes f the live face, from its cached JSON or built from the
// backend object list, then records it in the cache.
func (d *Document) loadFace(ctx context.Context, f models.Face) error {
	v := d.Vars
	v.CurrentPage = f
	d.canvas.Clear(ctx)

	d.loadBackground(ctx, f)
	if err := d.fill(ctx, f); err != nil {
		return err
	}

	if _, err := d.serializeCurrent(ctx); err != nil {
		return err
	}

	empty := d.canvas.Len() == 0
	if !empty {
		v.EditAllowed[f] = true
	}
	if !d.AdvEditAllowed() && empty {
		v.TabVisible[f] = false
	}
	if f == models.FaceInside && v.ProductType == models.ProductCalendar && !d.canvas.BackOffice() {
		v.TabVisible[f] = false
	}
	return nil
}

// fill puts the objects of f on the cleared canvas.
func (d *Document) fill(ctx context.Context, f models.Face) error {
	if raw := d.cache.JSON(f); raw != "" {
		if err := d.canvas.LoadFace(ctx, raw); err != nil {
			return err
		}
		d.canvas.SetCanvasSelection(ctx)
		return nil
	}

	res := d.builder.Build(ctx, f, d.Vars.ProductType, d.data.FaceObjects(f))
	log.Printf("built %s face: %s", f, res)
	if res.HasCoupons {
		d.Vars.HasCoupons = true
	}
	if res.CouponSize != "" {
		d.Vars.CurrentCouponSize = res.CouponSize
	}

	unsaved := make(map[*models.SceneObject]bool, len(res.Unsaved))
	for _, o := range res.Unsaved {
		unsaved[o] = true
	}
	var ready []*models.SceneObject
	for _, o := range res.Objects {
		if !unsaved[o] {
			ready = append(ready, o)
		}
	}
	d.canvas.Populate(ctx, ready)
	for _, o := range res.Unsaved {
		// Create failures are reported by the canvas; the face still loads.
		_ = d.canvas.AddObject(ctx, o, false, false)
	}
	d.canvas.SortByZIndex()
	d.canvas.SetCanvasSelection(ctx)
	return nil
}

// loadBackground sets the template image of f. A missing or broken
// template leaves the face empty but usable.
func (d *Document) loadBackground(ctx context.Context, f models.Face) {
	id := d.Vars.TemplateID(f)
	if id == 0 {
		events.ShowAlert(ctx, d.emitter, "Error Loading Background, Template ID not found.")
		d.canvas.ClearBackground(ctx)
		return
	}
	if d.templates == nil {
		d.canvas.SetBackground(ctx, scene.Background{TemplateID: id})
		return
	}
	bg, err := d.templates.FetchTemplate(ctx, id)
	if err != nil {
		log.Printf("background for template %d: %v", id, err)
		events.Msg(ctx, d.emitter, "Error loading background image", "Background", events.KindError)
		d.canvas.SetBackground(ctx, scene.Background{TemplateID: id})
		return
	}
	bg.TemplateID = id
	d.canvas.SetBackground(ctx, bg)
	d.canvas.ZoomFit(ctx)
}

// finishLoad runs once the last face of the initial load is live.
func (d *Document) finishLoad(ctx context.Context) error {
	v := d.Vars
	v.IsLoadingTemplate = false
	d.canvas.SetCanvasSelection(ctx)

	f := v.CurrentPage
	hideSide := d.canvas.Len() == 0

	var next models.Face
	switch {
	case v.ProductType == models.ProductCalendar:
		v.AllSidesEdited = true
		if d.canvas.BackOffice() {
			v.EditAllowed[f] = true
		} else {
			v.EditAllowed[f] = false
			v.TabVisible[f] = false
		}
		next = models.FaceBack
	case strings.TrimSpace(v.DefaultSide) != "":
		v.AllSidesEdited = true
		switch side := strings.ToLower(v.DefaultSide); {
		case side == "front" && hideSide:
			next = models.FaceBack
			if v.InsideTemplateID > 0 {
				next = models.FaceInside
			}
		case side == "back":
			next = models.FaceBack
		case side == "inside":
			next = models.FaceInside
		case side == "envelope":
			next = models.FaceEnvelope
		}
	case !d.AdvEditAllowed() && hideSide && f == models.FaceFront:
		if v.InsideTemplateID > 0 && v.EditAllowed[models.FaceInside] {
			v.InsideEdited = true
			next = models.FaceInside
		} else {
			v.BackEdited = true
			next = models.FaceBack
		}
	}

	if next != models.FaceNone {
		if err := d.SwitchSides(ctx, next); err != nil {
			return err
		}
	}

	d.canvas.ReloadSideBar(ctx)
	d.History().Clear(ctx)
	events.SetLoading(ctx, d.emitter, false, "")
	return nil
}

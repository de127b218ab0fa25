package document

import (
	"context"
	"fmt"
	"log"
	"strings"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/models"
)

// SaveResult reports a finished save.
type SaveResult struct {
	Saved    []models.Face `json:"saved"`
	ProofURL string        `json:"proofUrl,omitempty"`
}

// SavePlan lists the faces a save writes, in order, starting from the live
// face.
func SavePlan(v *models.OrderVars) []models.Face {
	current := v.CurrentPage
	plan := []models.Face{current}
	if v.BackTemplateID == 0 || current == models.FaceEnvelope {
		return plan
	}

	other := models.FaceFront
	if current == models.FaceFront {
		other = models.FaceBack
	}

	switch {
	case v.InsideTemplateID <= 0:
		plan = append(plan, other)
	case current == models.FaceFront || current == models.FaceBack:
		plan = append(plan, models.FaceInside, other)
	case current == models.FaceInside:
		plan = append(plan, models.FaceFront, models.FaceBack)
	}
	return plan
}

// SaveAndContinue saves every face to the server. With proof set it first
// checks that all sides were edited, then clears the recovery store and
// returns the proof page to continue to.
func (d *Document) SaveAndContinue(ctx context.Context, proof bool, query string) (SaveResult, error) {
	if proof && !d.AllowProof() {
		events.Msg(ctx, d.emitter, "Please edit all sides of the card before continuing!", "Edit All Sides", events.KindWarning)
		return SaveResult{}, ErrProofNotAllowed
	}

	events.SetLoading(ctx, d.emitter, true, "Saving work...")
	defer events.SetLoading(ctx, d.emitter, false, "")

	live, err := d.serializeCurrent(ctx)
	if err != nil {
		return SaveResult{}, err
	}

	var res SaveResult
	for _, f := range SavePlan(d.Vars) {
		raw := live
		if f != d.Vars.CurrentPage {
			raw = d.cache.JSON(f)
		}
		if err := d.saveFace(ctx, f, raw); err != nil {
			return res, err
		}
		res.Saved = append(res.Saved, f)
	}

	if !proof {
		d.canvas.ZoomFit(ctx)
		return res, nil
	}

	if d.recovery != nil {
		if err := d.recovery.Clean(ctx); err != nil {
			log.Printf("clean recovery store: %v", err)
		}
	}
	res.ProofURL = d.ProofURL(query)
	return res, nil
}

// ProofURL picks the proof page for the order and appends query.
func (d *Document) ProofURL(query string) string {
	u := d.cfg.ProofURL
	switch {
	case d.Vars.MarketingSeries:
		u = d.cfg.ProofMarketingSeriesURL
	case d.Vars.CurrentPage == models.FaceEnvelope:
		u = d.cfg.ProofEnvURL
	}
	if query == "" {
		return u
	}
	if !strings.HasPrefix(query, "?") {
		query = "?" + query
	}
	return u + query
}

func (d *Document) saveFace(ctx context.Context, f models.Face, raw string) error {
	if d.api == nil {
		return nil
	}
	p := models.FacePayload{
		JSONData:    raw,
		OrderNumber: d.Vars.OrderNumber,
		SessionID:   d.Vars.SessionID,
		PageNumber:  f,
		ProductID:   d.Vars.TemplateID(f),
	}
	result, err := d.api.SaveData(ctx, p)
	if err != nil {
		log.Printf("Error: PageNumber: %d jsonData: %s", f, raw)
		events.ReportError(ctx, d.emitter, "Error invoking the SaveData web method!", err.Error())
		return fmt.Errorf("%w: page %d: %v", ErrSaveFailed, f, err)
	}
	log.Printf("Save Result: page %d: %s", f, result)
	return nil
}

package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/lexedit/history"
	"lexedit-backend/internal/lexedit/scene"
	"lexedit-backend/internal/lexedit/template"
	"lexedit-backend/internal/models"
)

var (
	ErrNoTemplateData  = errors.New("no template data")
	ErrSaveFailed      = errors.New("save failed")
	ErrProofNotAllowed = errors.New("proof not allowed until all sides are edited")
)

// OrderAPI is the part of the order backend the document writes to.
type OrderAPI interface {
	SaveData(ctx context.Context, p models.FacePayload) (string, error)
	AddObject(ctx context.Context, p models.FacePayload) (int64, error)
}

// TemplateSource resolves the background image of a template.
type TemplateSource interface {
	FetchTemplate(ctx context.Context, templateID int64) (scene.Background, error)
}

// RecoveryStore is the crash-recovery cache of one editing session.
type RecoveryStore interface {
	Set(ctx context.Context, key, value string) error
	Clean(ctx context.Context) error
}

// Config holds the editor settings that shape document behaviour.
type Config struct {
	ShowGrid     bool
	ShowCutLines bool
	CutLineWidth float64
	// SaveOnSwitch saves the outgoing face to the server on every switch.
	SaveOnSwitch bool
	Debug        bool
	// RestrictedMemberships never get advanced editing.
	RestrictedMemberships []int
	URLs                  template.URLs
	WaitInterval          time.Duration

	ProofURL                string
	ProofEnvURL             string
	ProofMarketingSeriesURL string
}

// Deps are the collaborators of a document. Any of them may be nil.
type Deps struct {
	API       OrderAPI
	Templates TemplateSource
	Recovery  RecoveryStore
	Images    template.ImageFetcher
	Emitter   events.Emitter
}

// Document is the face state machine of one order: which face is live on
// the canvas, what the others look like, and how they reach the server.
type Document struct {
	Vars *models.OrderVars

	cfg       Config
	canvas    *scene.Canvas
	tracker   *template.Tracker
	builder   *template.Builder
	api       OrderAPI
	templates TemplateSource
	recovery  RecoveryStore
	emitter   events.Emitter

	cache     *FaceCache
	data      *models.OrderData
	clipboard *models.SceneObject
}

// New wires a document around a fresh canvas.
func New(vars *models.OrderVars, deps Deps, cfg Config) *Document {
	if vars == nil {
		vars = models.NewOrderVars()
	}
	if deps.Emitter == nil {
		deps.Emitter = events.Discard{}
	}
	d := &Document{
		Vars:      vars,
		cfg:       cfg,
		api:       deps.API,
		templates: deps.Templates,
		recovery:  deps.Recovery,
		emitter:   deps.Emitter,
		cache:     NewFaceCache(),
		data:      &models.OrderData{},
	}

	var store scene.ObjectStore
	if deps.API != nil {
		store = objectStore{d: d}
	}
	d.canvas = scene.NewCanvas(store, deps.Emitter, scene.Options{
		GridSize:     40,
		CutLineWidth: cfg.CutLineWidth,
		ShowGrid:     cfg.ShowGrid,
		ShowCutLines: cfg.ShowCutLines,
		BackOffice:   vars.SessionID == models.BackOfficeSession,
	})
	d.tracker = template.NewTracker(deps.Images, cfg.WaitInterval)
	d.builder = template.NewBuilder(cfg.URLs, d.tracker, deps.Emitter)
	return d
}

func (d *Document) Canvas() *scene.Canvas { return d.canvas }

func (d *Document) History() *history.History { return d.canvas.History() }

func (d *Document) Cache() *FaceCache { return d.cache }

func (d *Document) Tracker() *template.Tracker { return d.tracker }

func (d *Document) CurrentPage() models.Face { return d.Vars.CurrentPage }

func (d *Document) Clipboard() *models.SceneObject { return d.clipboard }

// CurrentProductID is the template id of the face being edited.
func (d *Document) CurrentProductID() int64 {
	return d.Vars.CurrentProductID()
}

// AdvEditAllowed reports whether the member may use advanced mode.
func (d *Document) AdvEditAllowed() bool {
	if d.cfg.Debug {
		return true
	}
	if d.Vars.MembershipType == 0 {
		return false
	}
	for _, m := range d.cfg.RestrictedMemberships {
		if d.Vars.MembershipType == m {
			return false
		}
	}
	return true
}

// SetEditMode switches advanced mode, refusing it for members without access.
func (d *Document) SetEditMode(ctx context.Context, advanced bool) bool {
	if advanced && !d.AdvEditAllowed() {
		advanced = false
	}
	d.canvas.EditMode(ctx, advanced)
	return advanced
}

func (d *Document) hidden(f models.Face) bool {
	return !d.Vars.TabVisible[f]
}

// SetSideEdit records that the user has visited side.
func (d *Document) SetSideEdit(side models.Face) {
	switch side {
	case models.FaceBack:
		d.Vars.BackEdited = true
		if d.hidden(models.FaceInside) {
			d.Vars.AllSidesEdited = true
		}
	case models.FaceInside:
		d.Vars.InsideEdited = true
		if d.hidden(models.FaceBack) {
			d.Vars.AllSidesEdited = true
		}
	}
	if d.Vars.BackEdited && d.Vars.InsideEdited {
		d.Vars.AllSidesEdited = true
	}
}

// AllowProof reports whether every side the user must see has been seen.
func (d *Document) AllowProof() bool {
	if d.Vars.AllSidesEdited {
		return true
	}
	switch d.Vars.CurrentPage {
	case models.FaceFront:
		return d.hidden(models.FaceBack) && d.hidden(models.FaceInside)
	case models.FaceBack:
		return d.hidden(models.FaceInside) || d.Vars.InsideEdited
	case models.FaceInside:
		return d.hidden(models.FaceBack) || d.Vars.BackEdited
	}
	return false
}

// serializeCurrent waits for image loads, then stores the live face in its
// cache slot and the recovery store.
func (d *Document) serializeCurrent(ctx context.Context) (string, error) {
	if err := d.tracker.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for images: %w", err)
	}
	f := d.Vars.CurrentPage
	raw, err := d.canvas.MarshalFace()
	if err != nil {
		return "", err
	}
	d.cache.Set(f, raw, d.Vars.TemplateID(f))
	d.remember(ctx, f.CacheKey(), raw)
	return raw, nil
}

func (d *Document) remember(ctx context.Context, key, value string) {
	if d.recovery == nil {
		return
	}
	if err := d.recovery.Set(ctx, key, value); err != nil {
		// The recovery cache is best effort.
		log.Printf("recovery store %s: %v", key, err)
	}
}

// objectStore creates objects on the order backend for the canvas.
type objectStore struct {
	d *Document
}

func (s objectStore) CreateObject(ctx context.Context, obj *models.SceneObject) (int64, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return 0, fmt.Errorf("marshal object: %w", err)
	}
	page := obj.PageNumber
	if !page.Valid() {
		page = s.d.Vars.CurrentPage
	}
	p := models.FacePayload{
		JSONData:    string(raw),
		OrderNumber: s.d.Vars.OrderNumber,
		SessionID:   s.d.Vars.SessionID,
		PageNumber:  page,
		ProductID:   s.d.Vars.TemplateID(page),
	}
	id, err := s.d.api.AddObject(ctx, p)
	if err != nil {
		log.Printf("Error: PageNumber: %d jsonData: %s", p.PageNumber, p.JSONData)
		return 0, err
	}
	return id, nil
}

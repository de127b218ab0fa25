package v1

import (
	"context"
	"fmt"

	"lexedit-backend/internal/config"
	"lexedit-backend/internal/handlers"
	"lexedit-backend/internal/lexedit/document"
	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/lexedit/session"
	"lexedit-backend/internal/lexedit/template"
	"lexedit-backend/internal/libraries"
	"lexedit-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var hub *libraries.Hub

func init() {
	// Initialize the Hub once
	hub = libraries.NewHub()
	// Start the Hub in a goroutine
	go hub.Run()
}

func registerEditor(r fiber.Router, cfg *config.Config) error {
	orderAPI := libraries.NewOrderAPI(cfg.WebAPIURL, cfg.HTTPTimeout)
	httpTemplates := libraries.NewHTTPTemplateSource(cfg.TemplateURL, cfg.AppVersion, cfg.HTTPTimeout)

	var templates document.TemplateSource = httpTemplates
	if cfg.TemplateSource == "gcs" {
		clients, err := libraries.NewClients(context.Background(), cfg.GCPCredentials)
		if err != nil {
			return fmt.Errorf("failed to init gcp clients: %w", err)
		}
		templates = libraries.NewGCSTemplateSource(clients.GCS, cfg.GCSTemplateBucket)
	}

	recoveryRepo := repo.NewRecoveryRepository(config.DB)
	sessions := session.NewManager(session.Options{
		API:       orderAPI,
		Templates: templates,
		Images:    httpTemplates,
		Recovery: func(orderNumber int64, sessionID string) document.RecoveryStore {
			return repo.SessionRecovery{Repo: recoveryRepo, OrderNumber: orderNumber, SessionID: sessionID}
		},
		Emitters: func(id uuid.UUID) events.Emitter {
			return hub.Emitter(id.String())
		},
		Config: document.Config{
			ShowGrid:              cfg.ShowGrid,
			ShowCutLines:          cfg.ShowCutLines,
			CutLineWidth:          cfg.CutLineWidth,
			SaveOnSwitch:          cfg.SaveOnSwitch,
			Debug:                 cfg.Debug,
			RestrictedMemberships: cfg.RestrictedMemberships,
			URLs: template.URLs{
				Images:  cfg.ImagesURL,
				WebData: cfg.WebDataURL,
				Version: cfg.AppVersion,
			},
			WaitInterval:            cfg.ImageWaitInterval,
			ProofURL:                cfg.ProofURL,
			ProofEnvURL:             cfg.ProofEnvURL,
			ProofMarketingSeriesURL: cfg.ProofMarketingSeriesURL,
		},
	})

	RegisterEditorRoutes(r, handlers.NewEditorHandler(sessions))

	// Use the Hub-based WebSocket handler
	r.Get("/ws", libraries.WebSocketHandler(hub, sessions))
	return nil
}

// RegisterEditorRoutes mounts the session endpoints.
func RegisterEditorRoutes(r fiber.Router, h *handlers.EditorHandler) {
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:sessionId", h.GetSession)
	r.Delete("/sessions/:sessionId", h.CloseSession)

	r.Post("/sessions/:sessionId/objects", h.AddObject)
	r.Patch("/sessions/:sessionId/objects/:key", h.ModifyObject)
	r.Delete("/sessions/:sessionId/objects/:key", h.RemoveObject)
	r.Post("/sessions/:sessionId/objects/:key/arrange", h.ArrangeObject)
	r.Post("/sessions/:sessionId/objects/:key/select", h.SelectObject)

	r.Post("/sessions/:sessionId/undo", h.Undo)
	r.Post("/sessions/:sessionId/redo", h.Redo)
	r.Post("/sessions/:sessionId/sides/:face", h.SwitchSides)

	r.Post("/sessions/:sessionId/mode", h.SetMode)
	r.Post("/sessions/:sessionId/zoom", h.SetZoom)
	r.Post("/sessions/:sessionId/grid", h.ToggleGrid)
	r.Post("/sessions/:sessionId/cutlines", h.ToggleCutLines)
	r.Get("/sessions/:sessionId/cutlines/check", h.CheckCutLines)

	r.Post("/sessions/:sessionId/copy", h.Copy)
	r.Post("/sessions/:sessionId/paste", h.Paste)
	r.Post("/sessions/:sessionId/save", h.Save)
}
